package nativehandle

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"go.audiometa.dev/audiometa/internal/errs"
)

// Runtime owns one compiled copy of the parsing library's WASM module
// and instantiates a fresh guest module per Handle (native handle state
// is never shared across executors). Unlike a build that go:embeds a
// prebuilt module, Runtime takes the compiled bytes explicitly: no
// compiled binary ships with this package, so callers that want
// in-process parsing supply it themselves (an embedded asset in their
// own binary, a file on disk, or one fetched at startup).
type Runtime struct {
	rt       wazero.Runtime
	compiled wazero.CompiledModule
	once     sync.Once
	closed   bool
	mu       sync.Mutex
}

// NewRuntime compiles wasmBinary once and returns a Runtime that can
// instantiate one guest module per call to Open/OpenReadOnly/OpenStream.
// It returns an Environment error if compilation fails.
func NewRuntime(wasmBinary []byte) (*Runtime, error) {
	if len(wasmBinary) == 0 {
		return nil, errs.Environment("no parsing-library WASM binary configured", errs.Context{
			RequiredFeature: "native handle façade",
		})
	}

	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, errs.Environment("failed to instantiate WASI", errs.Context{RequiredFeature: "wasi_snapshot_preview1"})
	}

	if _, err := rt.NewHostModuleBuilder("go_io").
		NewFunctionBuilder().WithFunc(hostStreamRead).Export("stream_read").
		NewFunctionBuilder().WithFunc(hostStreamSeek).Export("stream_seek").
		NewFunctionBuilder().WithFunc(hostStreamTell).Export("stream_tell").
		NewFunctionBuilder().WithFunc(hostStreamLength).Export("stream_length").
		Instantiate(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, errs.Environment("failed to register stream host functions", errs.Context{})
	}

	compiled, err := rt.CompileModule(ctx, wasmBinary)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errs.Environment(fmt.Sprintf("failed to compile parsing library: %v", err), errs.Context{})
	}

	return &Runtime{rt: rt, compiled: compiled}, nil
}

// Close releases the wazero runtime. Safe to call once all Handles
// derived from it have been closed.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.rt.Close(context.Background())
}

func (r *Runtime) newModule(dir string, readOnly bool) (module, error) {
	fsConfig := wazero.NewFSConfig()
	if dir != "" {
		if readOnly {
			fsConfig = fsConfig.WithReadOnlyDirMount(dir, wasmPath(dir))
		} else {
			fsConfig = fsConfig.WithDirMount(dir, wasmPath(dir))
		}
	}

	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize").
		WithFSConfig(fsConfig)

	mod, err := r.rt.InstantiateModule(context.Background(), r.compiled, cfg)
	if err != nil {
		return module{}, err
	}
	return module{mod: mod}, nil
}

func (r *Runtime) newStreamModule() (module, error) {
	cfg := wazero.NewModuleConfig().WithName("").WithStartFunctions("_initialize")
	mod, err := r.rt.InstantiateModule(context.Background(), r.compiled, cfg)
	if err != nil {
		return module{}, err
	}
	return module{mod: mod}, nil
}

// wasmPath converts a host path to the POSIX-style path WASI expects,
// even on Windows hosts.
func wasmPath(p string) string { return filepath.ToSlash(p) }
