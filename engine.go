package audiometa

import (
	"context"
	"io"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/nativehandle"
	"go.audiometa.dev/audiometa/internal/ops"
	"go.audiometa.dev/audiometa/internal/probe"
	"go.audiometa.dev/audiometa/internal/sandbox"
	"go.audiometa.dev/audiometa/internal/workerpool"
)

// version is the engine's semantic version string, returned by
// Engine.Version.
const version = "0.1.0"

// Input is a caller-supplied audio source: a filesystem path, an
// in-memory buffer, or a seekable stream with a known size.
type Input = bytesource.Input

// PathInput builds a path Input.
func PathInput(path string) Input { return bytesource.PathInput(path) }

// BytesInput builds an in-memory buffer Input.
func BytesInput(b []byte) Input { return bytesource.BytesInput(b) }

// StreamInput builds a seekable-stream Input with a known size.
func StreamInput(rs io.ReadSeeker, size int64) Input {
	return bytesource.StreamInput(rs, size)
}

// WorkerPoolOptions configures the worker pool Options enables.
type WorkerPoolOptions = workerpool.Options

// SandboxConfig configures the sandbox Options enables.
type SandboxConfig = sandbox.Config

// Options configures Initialize. Runtime (or WASMBinary) must be set
// for any in-process or worker-pool execution; a sandbox-only engine
// can omit both, since the sandbox subprocess loads its own runtime.
type Options struct {
	// Runtime is a pre-constructed native-handle runtime. Takes
	// precedence over WASMBinary if both are set.
	Runtime *nativehandle.Runtime
	// WASMBinary is the compiled parsing-library module, used to build
	// a Runtime if one wasn't supplied directly.
	WASMBinary []byte

	UseWorkerPool     bool
	WorkerPoolOptions WorkerPoolOptions

	UseSandbox    bool
	SandboxConfig SandboxConfig

	// ForceBufferMode routes path inputs passed to Open through the
	// byte-source loader (optionally partial, per LoadOptions) instead
	// of mounting the file's directory into the native runtime
	// directly. The one-shot methods (ReadTags, ApplyTags, UpdateTags,
	// ReadProperties, ...) and the batch/folder helpers do not consult
	// it: they still open path inputs through a directory mount.
	ForceBufferMode bool
	LoadOptions     bytesource.Options
}

// Engine is the caller-facing singleton front. It selects, per call,
// between a worker pool, a sandbox, or in-process execution, in that
// order, and each Simple Operation it exposes follows that order
// automatically, skipping the sandbox for operations the sandbox does
// not expose (ApplyTags, ReadPictures, ApplyCoverArt).
type Engine struct {
	runtime *nativehandle.Runtime
	opener  nativehandle.Opener

	pool     *workerpool.Pool
	sbx      *sandbox.Client
	forced   bool
	loadOpts bytesource.Options
	caps     probe.Capabilities
}

// Capabilities returns the host capabilities detected at Initialize
// time: whether the filesystem is writable, whether more than one OS
// thread is schedulable, and whether streaming I/O is available.
func (e *Engine) Capabilities() probe.Capabilities { return e.caps }

// Initialize builds an Engine from opts. It probes host capabilities
// first and raises Environment eagerly, before touching any file, if a
// requested subsystem cannot work on this host: a worker pool on a
// single-threaded host, or a sandbox without a writable filesystem for
// its preopens. It also raises Environment if a sandbox is requested
// but its external runtime cannot be started.
func Initialize(opts Options) (*Engine, error) {
	caps := probe.Detect()
	e := &Engine{forced: opts.ForceBufferMode, loadOpts: opts.LoadOptions, caps: caps}

	rt := opts.Runtime
	if rt == nil && len(opts.WASMBinary) > 0 {
		built, err := nativehandle.NewRuntime(opts.WASMBinary)
		if err != nil {
			return nil, err
		}
		rt = built
	}
	e.runtime = rt
	if rt != nil {
		e.opener = nativehandle.Opener{Runtime: rt}
	}

	if opts.UseWorkerPool {
		if rt == nil {
			return nil, errs.Environment("worker pool requires a native runtime", errs.Context{RequiredFeature: "Runtime or WASMBinary"})
		}
		if !caps.MultiThreaded {
			return nil, errs.Environment("worker pool requires more than one schedulable OS thread", errs.Context{RequiredFeature: "multi-threaded host"})
		}
		e.pool = workerpool.New(rt, opts.WorkerPoolOptions)
	}

	if opts.UseSandbox {
		if !caps.FilesystemWritable {
			return nil, errs.Environment("sandbox requires a writable filesystem for its preopens", errs.Context{RequiredFeature: "writable filesystem"})
		}
		client, err := sandbox.Start(opts.SandboxConfig)
		if err != nil {
			return nil, err
		}
		e.sbx = client
	}

	return e, nil
}

// Version returns the engine's semantic version string.
func (e *Engine) Version() string { return version }

// SetSidecarConfig installs or replaces the sandbox. Passing a nil
// config falls back to in-process/worker-pool execution for path
// inputs.
func (e *Engine) SetSidecarConfig(config *SandboxConfig) error {
	if e.sbx != nil {
		_ = e.sbx.Shutdown()
		e.sbx = nil
	}
	if config == nil {
		return nil
	}
	client, err := sandbox.Start(*config)
	if err != nil {
		return err
	}
	e.sbx = client
	return nil
}

// Close terminates the worker pool (if any) and shuts down the sandbox
// subprocess (if any).
func (e *Engine) Close() error {
	if e.pool != nil {
		e.pool.Terminate()
	}
	if e.sbx != nil {
		return e.sbx.Shutdown()
	}
	return nil
}

// usesSandbox reports whether input should route through the sandbox:
// it requires a path, since the sandbox speaks virtual paths only.
func (e *Engine) usesSandbox(input Input) bool {
	return e.sbx != nil && input.Kind == bytesource.KindPath
}

// usesPool reports whether input should route through the worker pool:
// path and bytes inputs dispatch to it, but a stream is read from a
// caller-owned io.ReadSeeker that a separate executor goroutine cannot
// safely share, so it always falls through to sandbox/in-process.
func (e *Engine) usesPool(input Input) bool {
	return e.pool != nil && input.Kind != bytesource.KindStream
}

func (e *Engine) requireOpener() (nativehandle.Opener, error) {
	if e.opener.Runtime == nil {
		return nativehandle.Opener{}, errs.Environment("engine has no native runtime configured for in-process execution", errs.Context{})
	}
	return e.opener, nil
}

// resolveInput turns input into the (possibly pre-loaded) form the
// native opener should see, and the bytesource.Result describing that
// decision — whether the load was partial matters to FileHandle later,
// for deciding whether Save must be refused in favor of SaveToFile.
func (e *Engine) resolveInput(input Input) (Input, bytesource.Result, error) {
	if !e.forced || input.Kind != bytesource.KindPath {
		return input, bytesource.Result{Original: input}, nil
	}
	loaded, err := bytesource.Load(input, e.loadOpts)
	if err != nil {
		return Input{}, bytesource.Result{}, err
	}
	return bytesource.BytesInput(loaded.Data), loaded, nil
}

// Open opens input for stateful, multi-call access and returns a
// FileHandle. The returned handle must be disposed by the caller.
func (e *Engine) Open(input Input) (*FileHandle, error) {
	opener, err := e.requireOpener()
	if err != nil {
		return nil, err
	}
	resolved, load, err := e.resolveInput(input)
	if err != nil {
		return nil, err
	}

	facade, err := opener.OpenWritable(resolved)
	if err != nil {
		return nil, err
	}
	if !facade.IsValid() {
		facade.Close()
		return nil, errs.InvalidFormat("native handle reports invalid after load", 0)
	}
	return openFileHandle(opener, facade, load), nil
}

// ReadTags reads input's basic tag, dispatching through the worker
// pool, then the sandbox, then in-process, in that order.
func (e *Engine) ReadTags(ctx context.Context, input Input) (Tag, error) {
	if e.usesPool(input) {
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskReadTags, Input: input})
		return res.Tag, res.Err
	}
	if e.usesSandbox(input) {
		return e.sbx.ReadTags(ctx, input.Path)
	}
	opener, err := e.requireOpener()
	if err != nil {
		return Tag{}, err
	}
	return ops.ReadTags(opener, input)
}

// ApplyTags merges partial onto input's existing tag and returns the
// resulting buffer, dispatching through the worker pool when configured
// and otherwise in-process (the sandbox has no buffer-returning method).
func (e *Engine) ApplyTags(ctx context.Context, input Input, partial PartialTag) ([]byte, error) {
	if e.usesPool(input) {
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskApplyTags, Input: input, Partial: partial})
		return res.Buffer, res.Err
	}
	opener, err := e.requireOpener()
	if err != nil {
		return nil, err
	}
	return ops.ApplyTags(opener, input, partial)
}

// UpdateTags merges partial onto path's existing tag and writes the
// result back to disk, dispatching in the same order as ReadTags.
func (e *Engine) UpdateTags(ctx context.Context, path string, partial PartialTag) error {
	if e.usesPool(PathInput(path)) {
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskUpdateTags, Path: path, Input: PathInput(path), Partial: partial})
		return res.Err
	}
	if e.sbx != nil {
		tag, err := e.sbx.ReadTags(ctx, path)
		if err != nil {
			return err
		}
		return e.sbx.WriteTags(ctx, path, partial.Merge(tag))
	}
	opener, err := e.requireOpener()
	if err != nil {
		return err
	}
	return ops.UpdateTags(opener, path, partial)
}

// ReadProperties reads input's audio properties, dispatching in the
// same order as ReadTags.
func (e *Engine) ReadProperties(ctx context.Context, input Input) (Properties, error) {
	if e.usesPool(input) {
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskReadProperties, Input: input})
		return res.Properties, res.Err
	}
	if e.usesSandbox(input) {
		return e.sbx.ReadProperties(ctx, input.Path)
	}
	opener, err := e.requireOpener()
	if err != nil {
		return Properties{}, err
	}
	return ops.ReadProperties(opener, input)
}

// ReadPictures reads input's embedded pictures, dispatching through
// the worker pool when configured and otherwise in-process (the
// sandbox exposes no picture methods).
func (e *Engine) ReadPictures(ctx context.Context, input Input) ([]Picture, error) {
	if e.usesPool(input) {
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskReadPictures, Input: input})
		return res.Pictures, res.Err
	}
	opener, err := e.requireOpener()
	if err != nil {
		return nil, err
	}
	return ops.ReadPictures(opener, input)
}

// ApplyCoverArt sets input's front-cover picture and returns the
// resulting buffer.
func (e *Engine) ApplyCoverArt(ctx context.Context, input Input, data []byte, mime string) ([]byte, error) {
	if e.usesPool(input) {
		res := e.pool.Submit(ctx, workerpool.Task{Kind: workerpool.TaskSetCoverArt, Input: input, Cover: data, Mime: mime})
		return res.Buffer, res.Err
	}
	opener, err := e.requireOpener()
	if err != nil {
		return nil, err
	}
	return ops.ApplyCoverArt(opener, input, data, mime)
}
