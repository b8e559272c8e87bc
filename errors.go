package audiometa

import "go.audiometa.dev/audiometa/internal/errs"

// Error is the concrete error type every public function returns on
// failure. Use errors.As to recover it, or one of the Is* guards below.
type Error = errs.Error

// ErrorKind is the closed set of error categories the engine can raise.
type ErrorKind = errs.Kind

const (
	ErrorInitialization    = errs.KindInitialization
	ErrorInvalidFormat     = errs.KindInvalidFormat
	ErrorUnsupportedFormat = errs.KindUnsupportedFormat
	ErrorFileOperation     = errs.KindFileOperation
	ErrorMetadata          = errs.KindMetadata
	ErrorMemory            = errs.KindMemory
	ErrorEnvironment       = errs.KindEnvironment
	ErrorWorker            = errs.KindWorker
	ErrorSandbox           = errs.KindSandbox
)

// IsInitializationError reports whether err (or something it wraps) is
// an engine/runtime construction failure.
func IsInitializationError(err error) bool { return errs.IsInitialization(err) }

// IsInvalidFormatError reports whether err is a recognized-but-invalid
// or entirely unrecognized container failure.
func IsInvalidFormatError(err error) bool { return errs.IsInvalidFormat(err) }

// IsUnsupportedFormatError reports whether err is an operation
// unavailable for the file's container format.
func IsUnsupportedFormatError(err error) bool { return errs.IsUnsupportedFormat(err) }

// IsFileOperationError reports whether err is a filesystem-level
// failure.
func IsFileOperationError(err error) bool { return errs.IsFileOperation(err) }

// IsMetadataError reports whether err is a tag/property read-or-write
// failure against an already-open handle.
func IsMetadataError(err error) bool { return errs.IsMetadata(err) }

// IsMemoryError reports whether err is a native allocation/buffer
// failure inside the façade.
func IsMemoryError(err error) bool { return errs.IsMemory(err) }

// IsEnvironmentError reports whether err is a missing host capability.
func IsEnvironmentError(err error) bool { return errs.IsEnvironment(err) }

// IsWorkerError reports whether err is a worker-pool fault.
func IsWorkerError(err error) bool { return errs.IsWorker(err) }

// IsSandboxError reports whether err is an out-of-process execution
// fault, including trust-boundary violations.
func IsSandboxError(err error) bool { return errs.IsSandbox(err) }

// KindOf returns err's ErrorKind, and false if err is not an *Error.
func KindOf(err error) (ErrorKind, bool) { return errs.KindOf(err) }
