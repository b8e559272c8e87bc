package sandbox

import (
	"strings"
	"testing"

	"go.audiometa.dev/audiometa/internal/errs"
)

// TestResolveTraversalRejection checks that any virtual path not
// prefixed by a configured preopen, or that escapes its preopen via
// ".." segments, fails with a Sandbox error instead of resolving to a
// host path outside the preopen's directory.
func TestResolveTraversalRejection(t *testing.T) {
	t.Parallel()

	preopens := map[string]string{"/test": "/srv/music"}

	cases := []struct {
		name string
		path string
	}{
		{"unmapped absolute path", "/etc/passwd"},
		{"unmapped prefix", "/other/file.mp3"},
		{"traversal above preopen root", "/test/../../../etc/passwd"},
		{"traversal to sibling directory", "/test/../secrets/file.mp3"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, err := resolve(preopens, c.path)
			if err == nil {
				t.Fatalf("resolve(%q): expected Sandbox error, got nil", c.path)
			}
			if !errs.IsSandbox(err) {
				t.Fatalf("resolve(%q): got %v, want a Sandbox error", c.path, err)
			}
		})
	}
}

func TestResolveWithinPreopen(t *testing.T) {
	t.Parallel()

	preopens := map[string]string{"/test": "/srv/music"}

	cases := []struct {
		virtual string
		host    string
	}{
		{"/test/song.mp3", "/srv/music/song.mp3"},
		{"/test/sub/song.flac", "/srv/music/sub/song.flac"},
		{"/test", "/srv/music"},
		{"/test/../test/song.mp3", "/srv/music/song.mp3"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.virtual, func(t *testing.T) {
			t.Parallel()

			got, err := resolve(preopens, c.virtual)
			if err != nil {
				t.Fatalf("resolve(%q): unexpected error: %v", c.virtual, err)
			}
			if got != c.host {
				t.Fatalf("resolve(%q) = %q, want %q", c.virtual, got, c.host)
			}
		})
	}
}

func TestResolvePicksLongestPrefix(t *testing.T) {
	t.Parallel()

	preopens := map[string]string{
		"/music":        "/srv/music",
		"/music/studio": "/srv/studio",
	}

	got, err := resolve(preopens, "/music/studio/take1.wav")
	if err != nil {
		t.Fatalf("resolve: unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "/srv/studio") {
		t.Fatalf("resolve picked prefix %q, want the longer /music/studio preopen", got)
	}
}
