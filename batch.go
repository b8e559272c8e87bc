package audiometa

import (
	"context"

	"go.audiometa.dev/audiometa/internal/ops"
	"go.audiometa.dev/audiometa/internal/scan"
)

// ScanOptions controls ScanFolder's traversal and per-file work.
type ScanOptions = scan.Options

// DefaultScanOptions returns the documented default scan configuration:
// recursive, known extensions only, properties included, continues past
// per-file failures, concurrency 4.
func DefaultScanOptions() ScanOptions { return scan.DefaultOptions() }

// FileMetadata is one scanned file's result entry.
type FileMetadata = scan.FileMetadata

// ScanError pairs a failed path with the error that stopped it.
type ScanError = scan.ScanError

// FolderScanResult is ScanFolder's full outcome: every file that scanned
// successfully, every file that didn't, and the scan's wall-clock
// duration.
type FolderScanResult = scan.FolderScanResult

// UpdateEntry pairs a path with the partial tag update UpdateFolderTags
// should apply to it.
type UpdateEntry = scan.UpdateEntry

// ScanFolder walks root per opts using the engine's native opener,
// opening each matching file once and collecting its tag, properties,
// cover-art presence, and ReplayGain/Sound-Check dynamics. A per-file
// failure is recorded in the result's Errors slice rather than aborting
// the scan, unless opts.ContinueOnError is false.
func (e *Engine) ScanFolder(root string, opts ScanOptions) (FolderScanResult, error) {
	opener, err := e.requireOpener()
	if err != nil {
		return FolderScanResult{}, err
	}
	return scan.ScanFolder(opener, root, opts)
}

// UpdateFolderTags applies each entry's partial tag update under a
// bounded-concurrency model, returning the entries that failed.
func (e *Engine) UpdateFolderTags(entries []UpdateEntry, concurrency uint16) []ScanError {
	opener, err := e.requireOpener()
	if err != nil {
		failures := make([]ScanError, len(entries))
		for i, entry := range entries {
			failures[i] = ScanError{Path: entry.Path, Err: err}
		}
		return failures
	}
	return scan.UpdateFolderTags(opener, entries, concurrency)
}

// FindDuplicates scans root and groups results by the composite key
// built from keyFields (BasicTag field names, case-insensitive: title,
// artist, album, comment, genre), joined with empty values skipped.
// Only groups with two or more members are returned. Properties are not
// read, since duplicate detection only needs tag fields.
func (e *Engine) FindDuplicates(root string, keyFields []string, opts ScanOptions) (map[string][]FileMetadata, error) {
	opener, err := e.requireOpener()
	if err != nil {
		return nil, err
	}
	return scan.FindDuplicates(opener, root, keyFields, opts)
}

// ExportFolderMetadata scans root and writes the result to outPath: a
// JSON array when outPath ends in ".json", newline-delimited JSON
// objects otherwise.
func (e *Engine) ExportFolderMetadata(root, outPath string, opts ScanOptions) error {
	opener, err := e.requireOpener()
	if err != nil {
		return err
	}
	return scan.ExportFolderMetadata(opener, root, outPath, opts)
}

// BatchOptions controls read_tags_batch/read_properties_batch/
// read_metadata_batch's concurrency and failure handling, for an
// arbitrary caller-supplied list of inputs — unlike ScanOptions, which
// only walks a directory root.
type BatchOptions = ops.BatchOptions

// TagBatchEntry is one successful ReadTagsBatch entry.
type TagBatchEntry = ops.TagBatchEntry

// TagBatchResult is ReadTagsBatch's outcome: every input appears in
// exactly one of Results or Errors.
type TagBatchResult = ops.TagBatchResult

// PropertiesBatchEntry is one successful ReadPropertiesBatch entry.
type PropertiesBatchEntry = ops.PropertiesBatchEntry

// PropertiesBatchResult is ReadPropertiesBatch's outcome.
type PropertiesBatchResult = ops.PropertiesBatchResult

// BatchMetadata bundles a file's tag and properties, the value type of
// ReadMetadataBatch.
type BatchMetadata = ops.Metadata

// MetadataBatchEntry is one successful ReadMetadataBatch entry.
type MetadataBatchEntry = ops.MetadataBatchEntry

// MetadataBatchResult is ReadMetadataBatch's outcome.
type MetadataBatchResult = ops.MetadataBatchResult

// ReadTagsBatch reads the BasicTag of every input under bounded
// concurrency, dispatching each one through the same worker-pool/
// sandbox/in-process selection ReadTags itself uses. A per-input
// failure is recorded in Errors instead of aborting the batch, unless
// opts.ContinueOnError is false.
func (e *Engine) ReadTagsBatch(ctx context.Context, inputs []Input, opts BatchOptions) TagBatchResult {
	return ops.ReadTagsBatch(inputs, opts, func(in Input) (Tag, error) {
		return e.ReadTags(ctx, in)
	})
}

// ReadPropertiesBatch reads the AudioProperties of every input under
// bounded concurrency, dispatching each one the same way
// ReadProperties does.
func (e *Engine) ReadPropertiesBatch(ctx context.Context, inputs []Input, opts BatchOptions) PropertiesBatchResult {
	return ops.ReadPropertiesBatch(inputs, opts, func(in Input) (Properties, error) {
		return e.ReadProperties(ctx, in)
	})
}

// ReadMetadataBatch reads both the tag and the properties of every
// input under bounded concurrency, treating a failure at either step
// as the whole entry's failure.
func (e *Engine) ReadMetadataBatch(ctx context.Context, inputs []Input, opts BatchOptions) MetadataBatchResult {
	return ops.ReadMetadataBatch(inputs, opts,
		func(in Input) (Tag, error) { return e.ReadTags(ctx, in) },
		func(in Input) (Properties, error) { return e.ReadProperties(ctx, in) },
	)
}
