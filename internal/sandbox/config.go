package sandbox

// Config describes how to start and trust-bound the sandbox subprocess.
// Preopens maps a virtual path prefix (e.g. "/music") to a host
// directory; no path outside a mapped prefix is ever sent to the
// subprocess's filesystem.
type Config struct {
	Preopens map[string]string
	// BinaryPath is the sandbox subprocess executable. Empty selects
	// "audiometa-sandboxd" resolved via PATH.
	BinaryPath string
	// WASMBinaryPath is passed through to the subprocess so it can load
	// the parsing library's compiled WASM module itself (see
	// nativehandle.NewRuntime's doc comment on why this engine never
	// embeds one).
	WASMBinaryPath string
}

func (c Config) binary() string {
	if c.BinaryPath != "" {
		return c.BinaryPath
	}
	return "audiometa-sandboxd"
}
