// Package scan implements the batch folder scanner: a
// bounded-concurrency directory walk that opens each matching file
// once, reads its tags/properties/cover-art/dynamics, and accumulates
// per-file results and failures instead of aborting the whole scan.
package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/ops"
)

// FileMetadata is one scanned file's result entry.
type FileMetadata struct {
	Path        string
	Tag         model.BasicTag
	Properties  model.AudioProperties
	HasProperties bool
	HasCoverArt bool
	Dynamics    model.PropertyMap
}

// ScanError pairs a failed path with the error that stopped it.
type ScanError struct {
	Path string
	Err  error
}

// FolderScanResult is scan_folder's full outcome.
type FolderScanResult struct {
	Results    []FileMetadata
	Errors     []ScanError
	DurationMs int64
}

// Options controls ScanFolder's traversal and per-file work.
type Options struct {
	Recursive         bool
	Extensions        map[string]bool
	MaxFiles          uint32
	OnProgress        func(processed, total int, currentPath string)
	IncludeProperties bool
	ContinueOnError   bool
	Concurrency       uint16
}

// DefaultOptions returns the documented default scan configuration.
func DefaultOptions() Options {
	return Options{
		Recursive:         true,
		Extensions:        defaultExtensions(),
		IncludeProperties: true,
		ContinueOnError:   true,
		Concurrency:       4,
	}
}

func defaultExtensions() map[string]bool {
	out := make(map[string]bool)
	for _, ext := range model.KnownExtensions() {
		out[ext] = true
	}
	return out
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return int(o.Concurrency)
	}
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// enumerate lists regular files under root, depth-first when
// opts.Recursive, filtered by opts.Extensions and capped at
// opts.MaxFiles.
func enumerate(root string, opts Options) ([]string, error) {
	var out []string
	walk := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(opts.Extensions) > 0 && !opts.Extensions[ext] {
			return nil
		}
		out = append(out, path)
		if opts.MaxFiles > 0 && uint32(len(out)) >= opts.MaxFiles {
			return filepath.SkipAll
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, errs.FileOperation(errs.FileOpStat, root, err)
	}
	return out, nil
}

// ScanFolder walks root per opts, opening each matching file through
// opener and collecting FileMetadata/ScanError entries.
func ScanFolder(opener ops.HandleOpener, root string, opts Options) (FolderScanResult, error) {
	start := time.Now()

	paths, err := enumerate(root, opts)
	if err != nil {
		return FolderScanResult{}, err
	}

	total := len(paths)
	type slot struct {
		index int
		meta  FileMetadata
		err   *ScanError
	}

	slots := make([]slot, total)
	sem := make(chan struct{}, opts.concurrency())
	var wg sync.WaitGroup
	var aborted bool
	var mu sync.Mutex
	var processed int

	for i, p := range paths {
		mu.Lock()
		if aborted {
			mu.Unlock()
			break
		}
		mu.Unlock()

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			meta, err := scanOne(opener, path, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slots[i].err = &ScanError{Path: path, Err: err}
				if !opts.ContinueOnError {
					aborted = true
				}
			} else {
				slots[i].meta = meta
			}
			processed++
			if opts.OnProgress != nil {
				opts.OnProgress(processed, total, path)
			}
		}(i, p)
	}
	wg.Wait()

	result := FolderScanResult{DurationMs: time.Since(start).Milliseconds()}
	for _, s := range slots {
		if s.err != nil {
			result.Errors = append(result.Errors, *s.err)
			continue
		}
		if s.meta.Path != "" {
			result.Results = append(result.Results, s.meta)
		}
	}
	return result, nil
}

func scanOne(opener ops.HandleOpener, path string, opts Options) (FileMetadata, error) {
	input := bytesource.PathInput(path)
	h, err := opener.OpenReadOnly(input)
	if err != nil {
		return FileMetadata{}, err
	}
	defer h.Close()
	if !h.IsValid() {
		return FileMetadata{}, errs.InvalidFormat("native handle reports invalid after load", 0)
	}

	meta := FileMetadata{Path: path}
	if tag, ok := h.Tag(); ok {
		meta.Tag = tag
	}
	if opts.IncludeProperties {
		if props, ok := h.Properties(); ok {
			meta.Properties = props
			meta.HasProperties = true
		}
	}
	meta.HasCoverArt = len(h.GetPictures()) > 0

	dynamics := make(model.PropertyMap)
	for _, key := range model.ReplayGainKeys {
		if v, ok := h.GetProperty(key); ok && v != "" {
			dynamics.Set(key, v)
		}
	}
	if h.IsMP4() {
		if v, ok := h.GetMP4Item(model.AppleSoundCheckMP4Item); ok && v != "" {
			dynamics.Set(model.AppleSoundCheckKey, v)
		}
	} else if v, ok := h.GetProperty(model.AppleSoundCheckKey); ok && v != "" {
		dynamics.Set(model.AppleSoundCheckKey, v)
	}
	meta.Dynamics = dynamics

	return meta, nil
}

// UpdateEntry pairs a path with the partial tag update to apply.
type UpdateEntry struct {
	Path    string
	Partial model.PartialTag
}

// UpdateFolderTags applies update_tags to each entry under the same
// bounded-concurrency model as ScanFolder, serialized per path: entries
// naming the same path never run at the same time.
func UpdateFolderTags(opener ops.HandleOpener, entries []UpdateEntry, concurrency uint16) []ScanError {
	n := int(concurrency)
	if n <= 0 {
		n = 4
	}
	sem := make(chan struct{}, n)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []ScanError

	pathLocks := make(map[string]*sync.Mutex, len(entries))
	for _, e := range entries {
		if pathLocks[e.Path] == nil {
			pathLocks[e.Path] = &sync.Mutex{}
		}
	}

	for _, e := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(e UpdateEntry) {
			defer wg.Done()
			defer func() { <-sem }()
			pathLock := pathLocks[e.Path]
			pathLock.Lock()
			defer pathLock.Unlock()
			if err := ops.UpdateTags(opener, e.Path, e.Partial); err != nil {
				mu.Lock()
				failures = append(failures, ScanError{Path: e.Path, Err: err})
				mu.Unlock()
			}
		}(e)
	}
	wg.Wait()
	return failures
}

// FindDuplicates scans root with properties disabled and groups results
// by the composite key built from keyFields (BasicTag field names,
// case-insensitive), joined by "|" with empty values skipped. Only
// groups with two or more members are returned.
func FindDuplicates(opener ops.HandleOpener, root string, keyFields []string, opts Options) (map[string][]FileMetadata, error) {
	opts.IncludeProperties = false
	result, err := ScanFolder(opener, root, opts)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]FileMetadata)
	for _, meta := range result.Results {
		key := compositeKey(meta.Tag, keyFields)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], meta)
	}
	for key, members := range groups {
		if len(members) < 2 {
			delete(groups, key)
		}
	}
	return groups, nil
}

func compositeKey(tag model.BasicTag, fields []string) string {
	var parts []string
	for _, f := range fields {
		v := tagField(tag, f)
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "|")
}

func tagField(tag model.BasicTag, field string) string {
	switch strings.ToLower(field) {
	case "title":
		return tag.Title
	case "artist":
		return tag.Artist
	case "album":
		return tag.Album
	case "comment":
		return tag.Comment
	case "genre":
		return tag.Genre
	default:
		return ""
	}
}
