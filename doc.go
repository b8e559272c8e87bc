// Package audiometa reads and writes audio metadata across MP3, MP4,
// FLAC, OGG, and WAV files, backed by a WASM build of an audio-parsing
// library run under wazero. No cgo, no platform-specific binary: the
// parsing library runs the same way on every Go target wazero supports.
//
// Three ways to use it, in increasing order of control:
//
// Package-level functions (ReadTags, ApplyTags, ReadProperties, ...)
// operate against a single shared runtime installed once with
// UseDefaultRuntime. This is the shortest path for a program that only
// ever needs in-process, one-shot metadata access.
//
// FileHandle, opened via an Engine's Open method, keeps a container
// open across several calls — read the tag, read the properties, write
// a new cover, save — without reopening the file for each.
//
// Engine, built with Initialize, adds worker-pool and sandboxed
// out-of-process execution on top of the same Simple Operations, and
// the batch folder helpers (ScanFolder, UpdateFolderTags,
// FindDuplicates, ExportFolderMetadata).
//
// Every public error is an *Error carrying a Kind from the closed
// taxonomy in errors.go; use errors.As or the Is*Error guards to
// recover it.
package audiometa
