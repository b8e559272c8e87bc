package ops

import (
	"runtime"
	"sync"
	"time"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/model"
)

// BatchOptions controls ReadTagsBatch/ReadPropertiesBatch/
// ReadMetadataBatch's concurrency and failure handling. Concurrency
// zero selects min(8, runtime.NumCPU()). ContinueOnError false aborts
// scheduling further work once the first failure is observed, mirroring
// scan.ScanFolder's abort flag.
type BatchOptions struct {
	Concurrency     uint16
	OnProgress      func(processed, total int, input bytesource.Input)
	ContinueOnError bool
}

func (o BatchOptions) concurrency() int {
	if o.Concurrency > 0 {
		return int(o.Concurrency)
	}
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// BatchError pairs a failed input with the error it raised.
type BatchError struct {
	Input bytesource.Input
	Err   error
}

// batchResult[T] is the generic shape behind the three public result
// types below: one value per input that succeeded, one error per input
// that didn't, each input appearing in exactly one of the two lists.
type batchResult[T any] struct {
	results    []batchEntry[T]
	errors     []BatchError
	durationMs int64
}

type batchEntry[T any] struct {
	input bytesource.Input
	value T
}

// runBatch dispatches fn against every element of inputs under bounded
// concurrency, in the same semaphore-and-slot-array style as
// scan.ScanFolder, so results preserve input order without requiring
// fn's callers to be reentrant with respect to each other.
func runBatch[T any](inputs []bytesource.Input, opts BatchOptions, fn func(bytesource.Input) (T, error)) batchResult[T] {
	start := time.Now()
	total := len(inputs)

	type slot struct {
		entry batchEntry[T]
		err   *BatchError
		ok    bool
	}
	slots := make([]slot, total)
	sem := make(chan struct{}, opts.concurrency())
	var wg sync.WaitGroup
	var mu sync.Mutex
	var aborted bool
	var processed int

	for i, input := range inputs {
		mu.Lock()
		if aborted {
			mu.Unlock()
			break
		}
		mu.Unlock()

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, input bytesource.Input) {
			defer wg.Done()
			defer func() { <-sem }()

			v, err := fn(input)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slots[i].err = &BatchError{Input: input, Err: err}
				if !opts.ContinueOnError {
					aborted = true
				}
			} else {
				slots[i].entry = batchEntry[T]{input: input, value: v}
				slots[i].ok = true
			}
			processed++
			if opts.OnProgress != nil {
				opts.OnProgress(processed, total, input)
			}
		}(i, input)
	}
	wg.Wait()

	out := batchResult[T]{durationMs: time.Since(start).Milliseconds()}
	for _, s := range slots {
		switch {
		case s.err != nil:
			out.errors = append(out.errors, *s.err)
		case s.ok:
			out.results = append(out.results, s.entry)
		}
	}
	return out
}

// TagBatchEntry is one successful read_tags_batch entry.
type TagBatchEntry struct {
	Input bytesource.Input
	Tag   model.BasicTag
}

// TagBatchResult is read_tags_batch's outcome: every input appears in
// exactly one of Results or Errors.
type TagBatchResult struct {
	Results    []TagBatchEntry
	Errors     []BatchError
	DurationMs int64
}

// ReadTagsBatch reads the BasicTag of every input, dispatching each
// through readOne (which callers build from Engine.ReadTags, or, for
// the package-level default runtime, a plain ReadTags(o, input) call),
// so the path/bytes-to-worker-pool, stream-bypasses-pool dispatch rule
// is whatever readOne itself already implements.
func ReadTagsBatch(inputs []bytesource.Input, opts BatchOptions, readOne func(bytesource.Input) (model.BasicTag, error)) TagBatchResult {
	r := runBatch(inputs, opts, readOne)
	out := TagBatchResult{DurationMs: r.durationMs, Errors: r.errors}
	for _, e := range r.results {
		out.Results = append(out.Results, TagBatchEntry{Input: e.input, Tag: e.value})
	}
	return out
}

// PropertiesBatchEntry is one successful read_properties_batch entry.
type PropertiesBatchEntry struct {
	Input      bytesource.Input
	Properties model.AudioProperties
}

// PropertiesBatchResult is read_properties_batch's outcome.
type PropertiesBatchResult struct {
	Results    []PropertiesBatchEntry
	Errors     []BatchError
	DurationMs int64
}

// ReadPropertiesBatch reads the AudioProperties of every input.
func ReadPropertiesBatch(inputs []bytesource.Input, opts BatchOptions, readOne func(bytesource.Input) (model.AudioProperties, error)) PropertiesBatchResult {
	r := runBatch(inputs, opts, readOne)
	out := PropertiesBatchResult{DurationMs: r.durationMs, Errors: r.errors}
	for _, e := range r.results {
		out.Results = append(out.Results, PropertiesBatchEntry{Input: e.input, Properties: e.value})
	}
	return out
}

// Metadata bundles a file's tag and properties together, the value type
// of read_metadata_batch.
type Metadata struct {
	Tag        model.BasicTag
	Properties model.AudioProperties
}

// MetadataBatchEntry is one successful read_metadata_batch entry.
type MetadataBatchEntry struct {
	Input    bytesource.Input
	Metadata Metadata
}

// MetadataBatchResult is read_metadata_batch's outcome.
type MetadataBatchResult struct {
	Results    []MetadataBatchEntry
	Errors     []BatchError
	DurationMs int64
}

// ReadMetadataBatch reads both the tag and the properties of every
// input, treating a failure at either step as the whole entry's
// failure.
func ReadMetadataBatch(inputs []bytesource.Input, opts BatchOptions, readTag func(bytesource.Input) (model.BasicTag, error), readProps func(bytesource.Input) (model.AudioProperties, error)) MetadataBatchResult {
	r := runBatch(inputs, opts, func(input bytesource.Input) (Metadata, error) {
		tag, err := readTag(input)
		if err != nil {
			return Metadata{}, err
		}
		props, err := readProps(input)
		if err != nil {
			return Metadata{}, err
		}
		return Metadata{Tag: tag, Properties: props}, nil
	})
	out := MetadataBatchResult{DurationMs: r.durationMs, Errors: r.errors}
	for _, e := range r.results {
		out.Results = append(out.Results, MetadataBatchEntry{Input: e.input, Metadata: e.value})
	}
	return out
}
