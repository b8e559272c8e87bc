// Package probe detects host capabilities the engine's execution-path
// selection depends on: whether the filesystem is writable (needed for
// the worker pool's and sandbox's scratch use and for save_to_file),
// whether more than one OS thread is schedulable (the worker pool is
// pointless on a single-threaded host), and whether streaming
// (seekable) I/O is available. Engine.Initialize uses the result to
// narrow its in-process/worker-pool/sandbox selection before ever
// trying to open a file.
package probe

import (
	"io"
	"os"
	"runtime"
)

// Capabilities is the outcome of a one-time host probe.
type Capabilities struct {
	FilesystemWritable bool
	MultiThreaded      bool
	StreamingSupported bool
	NumCPU             int
}

// Detect runs the probe. It never returns an error: every check
// degrades to false on failure rather than aborting, since a probe
// failure is itself useful information (the capability is simply
// absent).
func Detect() Capabilities {
	return Capabilities{
		FilesystemWritable: probeFilesystem(),
		MultiThreaded:      runtime.GOMAXPROCS(0) > 1 && runtime.NumCPU() > 1,
		StreamingSupported: probeStreaming(),
		NumCPU:             runtime.NumCPU(),
	}
}

func probeFilesystem() bool {
	f, err := os.CreateTemp("", "audiometa-probe-*")
	if err != nil {
		return false
	}
	path := f.Name()
	defer os.Remove(path)
	defer f.Close()

	if _, err := f.Write([]byte("probe")); err != nil {
		return false
	}
	return true
}

func probeStreaming() bool {
	var rs io.ReadSeeker = &memSeeker{}
	_, err := rs.Seek(0, io.SeekStart)
	return err == nil
}

// memSeeker is a zero-length in-memory ReadSeeker used only to confirm
// the io.ReadSeeker contract is satisfiable in the current build
// (always true under a standard Go runtime; WASI/js builds without a
// real filesystem still implement this from plain memory).
type memSeeker struct{ pos int64 }

func (m *memSeeker) Read([]byte) (int, error) { return 0, io.EOF }
func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = offset
	}
	return m.pos, nil
}
