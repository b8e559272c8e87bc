package audiometa

import (
	"context"

	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/nativehandle"
	"go.audiometa.dev/audiometa/internal/ops"
	"go.audiometa.dev/audiometa/internal/workerpool"
)

// BatchOperationKind is the method vocabulary BatchOperations and
// ProcessFiles accept, shared with the worker pool's own TaskKind so a
// BatchOperation converts to a workerpool.SubTask with no translation
// table.
type BatchOperationKind = workerpool.TaskKind

const (
	OpReadTags       = workerpool.TaskReadTags
	OpReadProperties = workerpool.TaskReadProperties
	OpApplyTags      = workerpool.TaskApplyTags
	OpReadPictures   = workerpool.TaskReadPictures
	OpSetCoverArt    = workerpool.TaskSetCoverArt
)

// BatchOperation is one entry of the list BatchOperations runs against
// one input, in order: Partial feeds OpApplyTags, Cover and
// Mime feed OpSetCoverArt, and the other methods ignore every field but
// Method.
type BatchOperation struct {
	Method  BatchOperationKind
	Partial PartialTag
	Cover   []byte
	Mime    string
}

// CopyWithTags reads src, merges partial onto its existing tag, and
// writes the resulting bytes to dstPath, leaving src untouched. It is
// ApplyTags followed by a plain file write, useful when the edited copy
// must live at a different path than the original.
func (e *Engine) CopyWithTags(ctx context.Context, src Input, dstPath string, partial PartialTag) error {
	buf, err := e.ApplyTags(ctx, src, partial)
	if err != nil {
		return err
	}
	return writeFile(dstPath, buf)
}

// BatchOperations runs every operation against input, in order, and
// returns one value per operation. Each operation opens input anew; the
// operations do not share one open handle. Values are a BasicTag for
// OpReadTags, AudioProperties for OpReadProperties, []Picture for
// OpReadPictures, or a []byte buffer for OpApplyTags/OpSetCoverArt. It
// stops at the first operation that fails. Dispatch follows the same
// worker-pool/sandbox/in-process order as the single-method calls, with
// the caveat that the sandbox exposes no batch method, so a sandboxed
// path input runs in-process here.
func (e *Engine) BatchOperations(ctx context.Context, input Input, operations []BatchOperation) ([]any, error) {
	if e.usesPool(input) {
		subs := make([]workerpool.SubTask, len(operations))
		for i, op := range operations {
			subs[i] = workerpool.SubTask{Kind: op.Method, Partial: op.Partial, Cover: op.Cover, Mime: op.Mime}
		}
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskBatch, Input: input, Batch: subs})
		if res.Err != nil {
			return nil, res.Err
		}
		out := make([]any, len(res.Batch))
		for i, r := range res.Batch {
			out[i] = batchOperationValue(operations[i].Method, r)
		}
		return out, nil
	}

	opener, err := e.requireOpener()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(operations))
	for _, op := range operations {
		v, err := runBatchOperation(opener, input, op)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func batchOperationValue(method BatchOperationKind, r workerpool.Result) any {
	switch method {
	case OpReadTags:
		return r.Tag
	case OpReadProperties:
		return r.Properties
	case OpReadPictures:
		return r.Pictures
	case OpApplyTags, OpSetCoverArt:
		return r.Buffer
	default:
		return nil
	}
}

func runBatchOperation(opener nativehandle.Opener, input Input, op BatchOperation) (any, error) {
	switch op.Method {
	case OpReadTags:
		v, err := ops.ReadTags(opener, input)
		return v, err
	case OpReadProperties:
		v, err := ops.ReadProperties(opener, input)
		return v, err
	case OpReadPictures:
		v, err := ops.ReadPictures(opener, input)
		return v, err
	case OpApplyTags:
		v, err := ops.ApplyTags(opener, input, op.Partial)
		return v, err
	case OpSetCoverArt:
		v, err := ops.ApplyCoverArt(opener, input, op.Cover, op.Mime)
		return v, err
	default:
		return nil, errs.Worker("unknown batch operation method")
	}
}

// ProcessFiles runs method (OpReadTags or OpReadProperties) against
// every path, dispatching each one through the same worker-pool/
// sandbox/in-process selection the corresponding single-file method
// uses, and returns one value per path in order. It stops at the first
// path that fails.
func (e *Engine) ProcessFiles(ctx context.Context, paths []string, method BatchOperationKind) ([]any, error) {
	out := make([]any, len(paths))
	for i, p := range paths {
		input := PathInput(p)
		var v any
		var err error
		switch method {
		case OpReadTags:
			v, err = e.ReadTags(ctx, input)
		case OpReadProperties:
			v, err = e.ReadProperties(ctx, input)
		default:
			err = errs.Worker("unsupported process_files method")
		}
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
