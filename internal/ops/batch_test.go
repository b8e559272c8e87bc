package ops_test

import (
	"fmt"
	"sync"
	"testing"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/ops"
)

// TestReadTagsBatchPartialFailure mirrors the batch-with-partial-failure
// scenario: one input succeeds, the other names a file that doesn't
// exist. It exercises ops.ReadTagsBatch's orchestration directly, with
// a stub readOne standing in for a real native-handle open, so the
// assertions are about batching (counts, duration, progress), not about
// parsing a real container.
func TestReadTagsBatchPartialFailure(t *testing.T) {
	t.Parallel()

	existing := bytesource.PathInput("kiss-snippet.mp3")
	missing := bytesource.PathInput("/nonexistent/file.mp3")
	inputs := []bytesource.Input{existing, missing}

	readOne := func(in bytesource.Input) (model.BasicTag, error) {
		if in.Path == missing.Path {
			return model.BasicTag{}, errs.FileOperation(errs.FileOpRead, in.Path, nil)
		}
		return model.BasicTag{Title: "Kiss"}, nil
	}

	var mu sync.Mutex
	var progressed []int

	result := ops.ReadTagsBatch(inputs, ops.BatchOptions{
		Concurrency:     2,
		ContinueOnError: true,
		OnProgress: func(processed, total int, input bytesource.Input) {
			mu.Lock()
			defer mu.Unlock()
			progressed = append(progressed, processed)
		},
	}, readOne)

	if len(result.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(result.Results))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	if len(result.Results)+len(result.Errors) != len(inputs) {
		t.Fatalf("results+errors = %d, want %d (every input exactly once)", len(result.Results)+len(result.Errors), len(inputs))
	}
	if result.Errors[0].Input.Path != missing.Path {
		t.Fatalf("error recorded against %q, want %q", result.Errors[0].Input.Path, missing.Path)
	}
	if !errs.IsFileOperation(result.Errors[0].Err) {
		t.Fatalf("expected a FileOperation error, got %v", result.Errors[0].Err)
	}
	if result.DurationMs < 0 {
		t.Fatalf("got negative DurationMs: %d", result.DurationMs)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(progressed) != 2 {
		t.Fatalf("progress callback invoked %d times, want 2", len(progressed))
	}
	for i := 1; i < len(progressed); i++ {
		if progressed[i] <= progressed[i-1] {
			t.Fatalf("processed count did not increase: %v", progressed)
		}
	}
}

// TestReadTagsBatchAbortsWithoutContinueOnError checks that once
// ContinueOnError is false, the batch stops scheduling new work after
// the first observed failure, instead of running every input.
func TestReadTagsBatchAbortsWithoutContinueOnError(t *testing.T) {
	t.Parallel()

	inputs := make([]bytesource.Input, 20)
	for i := range inputs {
		inputs[i] = bytesource.PathInput(fmt.Sprintf("file-%02d.mp3", i))
	}

	readOne := func(in bytesource.Input) (model.BasicTag, error) {
		if in.Path == "file-00.mp3" {
			return model.BasicTag{}, errs.FileOperation(errs.FileOpRead, in.Path, nil)
		}
		return model.BasicTag{Title: in.Path}, nil
	}

	result := ops.ReadTagsBatch(inputs, ops.BatchOptions{Concurrency: 1, ContinueOnError: false}, readOne)

	if len(result.Results)+len(result.Errors) >= len(inputs) {
		t.Fatalf("expected the batch to stop early, but every input was processed (%d/%d)",
			len(result.Results)+len(result.Errors), len(inputs))
	}
}

func TestReadMetadataBatchCombinesBothSteps(t *testing.T) {
	t.Parallel()

	inputs := []bytesource.Input{bytesource.PathInput("a.flac"), bytesource.PathInput("b.flac")}

	readTag := func(in bytesource.Input) (model.BasicTag, error) {
		return model.BasicTag{Title: in.Path}, nil
	}
	readProps := func(in bytesource.Input) (model.AudioProperties, error) {
		return model.AudioProperties{SampleRateHz: 44100}, nil
	}

	result := ops.ReadMetadataBatch(inputs, ops.BatchOptions{Concurrency: 2, ContinueOnError: true}, readTag, readProps)
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	for _, r := range result.Results {
		if r.Metadata.Tag.Title != r.Input.Path {
			t.Fatalf("got title %q, want %q", r.Metadata.Tag.Title, r.Input.Path)
		}
		if r.Metadata.Properties.SampleRateHz != 44100 {
			t.Fatalf("got sample rate %d, want 44100", r.Metadata.Properties.SampleRateHz)
		}
	}
}
