// Package errs implements the closed error taxonomy shared by every layer
// of the engine: native handle façade, byte-source loader, worker pool,
// sandbox, and batch scanner. Errors are values, never panics, so that
// batch operations can accumulate per-file failures instead of aborting.
package errs

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Kind is the closed set of error categories the engine can raise.
type Kind uint8

const (
	KindInitialization Kind = iota
	KindInvalidFormat
	KindUnsupportedFormat
	KindFileOperation
	KindMetadata
	KindMemory
	KindEnvironment
	KindWorker
	KindSandbox
)

func (k Kind) String() string {
	switch k {
	case KindInitialization:
		return "Initialization"
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindFileOperation:
		return "FileOperation"
	case KindMetadata:
		return "Metadata"
	case KindMemory:
		return "Memory"
	case KindEnvironment:
		return "Environment"
	case KindWorker:
		return "Worker"
	case KindSandbox:
		return "Sandbox"
	default:
		return "Unknown"
	}
}

// FileOp is the sub-kind carried by a KindFileOperation error.
type FileOp string

const (
	FileOpRead  FileOp = "read"
	FileOpWrite FileOp = "write"
	FileOpSave  FileOp = "save"
	FileOpStat  FileOp = "stat"
)

// MetadataOp is the sub-kind carried by a KindMetadata error.
type MetadataOp string

const (
	MetadataOpRead  MetadataOp = "read"
	MetadataOpWrite MetadataOp = "write"
)

// Context carries the structured fields a caller can inspect on an Error.
// Fields are optional; only those relevant to the failure are set.
type Context struct {
	Path             string
	Field            string
	Operation        string
	Format           string
	RequiredFeature  string
	BufferSize       int
	MinimumBufferLen int
	FileOp           FileOp
	MetadataOp       MetadataOp
}

// Error is the concrete error type for every kind in Kind. It is always
// returned as a value (never wrapped in a panic) so batch callers can
// inspect Kind and Context without unwrapping chains.
type Error struct {
	Kind    Kind
	Message string
	Context Context
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Context.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Context.Path)
	}
	if e.Context.BufferSize > 0 {
		msg += fmt.Sprintf(" (size=%s)", humanize.IBytes(uint64(e.Context.BufferSize)))
		if e.Context.BufferSize < 1024 {
			msg += " — audio files carry at least one KiB of header"
		}
	}
	if e.Context.MinimumBufferLen > 0 {
		msg += fmt.Sprintf(" (minimum=%s)", humanize.IBytes(uint64(e.Context.MinimumBufferLen)))
	}
	if e.Context.Field != "" {
		msg += fmt.Sprintf(" (field=%s)", e.Context.Field)
	}
	if e.Context.Format != "" {
		msg += fmt.Sprintf(" (format=%s)", e.Context.Format)
	}
	if e.Context.RequiredFeature != "" {
		msg += fmt.Sprintf(" (requires=%s)", e.Context.RequiredFeature)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers
// can do errors.Is(err, &errs.Error{Kind: errs.KindInvalidFormat}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(k Kind, msg string, ctx Context, cause error) *Error {
	return &Error{Kind: k, Message: msg, Context: ctx, Cause: cause}
}

// Initialization reports an engine/runtime construction failure.
func Initialization(msg string, ctx Context) *Error {
	return newErr(KindInitialization, msg, ctx, nil)
}

// InvalidFormat reports that bytes could not be recognized as a
// supported container. size, when > 0, is recorded in the context.
func InvalidFormat(msg string, size int) *Error {
	return newErr(KindInvalidFormat, msg, Context{BufferSize: size}, nil)
}

// InvalidFormatShort reports a buffer too short to be a valid container,
// carrying both the observed size and the minimum expected size.
func InvalidFormatShort(size, minimum int) *Error {
	return newErr(KindInvalidFormat, "buffer too short to be a valid audio file", Context{
		BufferSize:       size,
		MinimumBufferLen: minimum,
	}, nil)
}

// UnsupportedFormat reports an operation unavailable for the file's
// container format, e.g. an MP4-only call against a non-MP4 file.
func UnsupportedFormat(msg string, ctx Context) *Error {
	return newErr(KindUnsupportedFormat, msg, ctx, nil)
}

// FileOperation reports a filesystem-level failure.
func FileOperation(op FileOp, path string, cause error) *Error {
	return newErr(KindFileOperation, fmt.Sprintf("file %s failed", op), Context{
		Path:   path,
		FileOp: op,
	}, cause)
}

// Metadata reports a tag/property read-or-write failure against an
// already-open handle.
func Metadata(op MetadataOp, field string, cause error) *Error {
	return newErr(KindMetadata, fmt.Sprintf("metadata %s failed", op), Context{
		Field:      field,
		MetadataOp: op,
	}, cause)
}

// Memory reports a native allocation/buffer failure inside the façade.
func Memory(msg string, ctx Context) *Error {
	return newErr(KindMemory, msg, ctx, nil)
}

// Environment reports a missing host capability (filesystem, external
// sandbox runtime) detected eagerly at initialization or first access.
func Environment(msg string, ctx Context) *Error {
	return newErr(KindEnvironment, msg, ctx, nil)
}

// Worker reports a worker-pool fault: timeout, queue rejection, or an
// executor crash.
func Worker(msg string) *Error {
	return newErr(KindWorker, msg, Context{}, nil)
}

// Sandbox reports an out-of-process execution fault, including trust
// boundary violations (path traversal, unmapped preopen prefixes).
func Sandbox(msg string, ctx Context) *Error {
	return newErr(KindSandbox, msg, ctx, nil)
}

// Is<Kind> guards let callers branch on error category without a type
// switch on the concrete struct.

func IsInitialization(err error) bool     { return is(err, KindInitialization) }
func IsInvalidFormat(err error) bool      { return is(err, KindInvalidFormat) }
func IsUnsupportedFormat(err error) bool  { return is(err, KindUnsupportedFormat) }
func IsFileOperation(err error) bool      { return is(err, KindFileOperation) }
func IsMetadata(err error) bool           { return is(err, KindMetadata) }
func IsMemory(err error) bool             { return is(err, KindMemory) }
func IsEnvironment(err error) bool        { return is(err, KindEnvironment) }
func IsWorker(err error) bool             { return is(err, KindWorker) }
func IsSandbox(err error) bool            { return is(err, KindSandbox) }

func is(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == k
}

// KindOf returns the Kind of err, and false if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	return 0, false
}
