package audiometa

import (
	"bytes"
	"testing"

	"go.audiometa.dev/audiometa/internal/workerpool"
)

// TestUsesPoolSkipsStreams checks the worker-pool dispatch rule: path
// and bytes inputs route to a configured pool, but a stream input
// always falls through to sandbox/in-process, since a worker executor
// cannot safely share a caller-owned io.ReadSeeker.
func TestUsesPoolSkipsStreams(t *testing.T) {
	t.Parallel()

	e := &Engine{pool: &workerpool.Pool{}}

	cases := []struct {
		name  string
		input Input
		want  bool
	}{
		{"path", PathInput("song.mp3"), true},
		{"bytes", BytesInput([]byte("data")), true},
		{"stream", StreamInput(bytes.NewReader([]byte("data")), 4), false},
	}
	for _, c := range cases {
		if got := e.usesPool(c.input); got != c.want {
			t.Errorf("usesPool(%s) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestUsesPoolNilPool(t *testing.T) {
	t.Parallel()

	e := &Engine{}
	if e.usesPool(PathInput("song.mp3")) {
		t.Error("usesPool with no pool configured should be false")
	}
}

func TestUsesSandboxNilSandbox(t *testing.T) {
	t.Parallel()

	e := &Engine{sbx: nil}
	if e.usesSandbox(PathInput("song.mp3")) {
		t.Error("usesSandbox with no sandbox configured should be false")
	}
}
