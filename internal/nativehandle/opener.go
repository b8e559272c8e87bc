package nativehandle

import (
	"bytes"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
)

// Opener adapts a Runtime to bytesource.Input, giving callers (the
// Simple Operations layer, worker pool executors, the sandbox) a single
// way to turn "a path, bytes, or a stream" into an open Facade without
// each needing to know about wazero directly.
type Opener struct {
	Runtime *Runtime
}

// OpenReadOnly opens input without granting write access to the
// underlying file (paths get a read-only directory mount).
func (o Opener) OpenReadOnly(input bytesource.Input) (Facade, error) {
	switch input.Kind {
	case bytesource.KindPath:
		return o.Runtime.OpenReadOnly(input.Path)
	case bytesource.KindBytes:
		return o.Runtime.OpenStream(bytes.NewReader(input.Data))
	case bytesource.KindStream:
		return o.Runtime.OpenStream(input.Stream)
	default:
		return nil, errs.Initialization("unrecognized input kind", errs.Context{})
	}
}

// OpenWritable opens input so Save persists: a real writable file
// handle for paths, or a stream handle whose edits are retrieved via
// Buffer for in-memory inputs.
func (o Opener) OpenWritable(input bytesource.Input) (Facade, error) {
	switch input.Kind {
	case bytesource.KindPath:
		return o.Runtime.Open(input.Path)
	case bytesource.KindBytes:
		return o.Runtime.OpenStream(bytes.NewReader(input.Data))
	case bytesource.KindStream:
		return o.Runtime.OpenStream(input.Stream)
	default:
		return nil, errs.Initialization("unrecognized input kind", errs.Context{})
	}
}
