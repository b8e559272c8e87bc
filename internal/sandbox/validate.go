package sandbox

import (
	"path"
	"strings"

	"go.audiometa.dev/audiometa/internal/errs"
)

// resolve maps virtualPath onto a preopen's host directory, rejecting
// traversal and prefixes outside the configured map entirely in the
// host process — the subprocess never sees a virtual path the host
// hasn't already validated.
func resolve(preopens map[string]string, virtualPath string) (hostPath string, err error) {
	clean := path.Clean("/" + virtualPath)

	var bestPrefix, bestDir string
	for prefix, dir := range preopens {
		p := path.Clean("/" + prefix)
		if clean == p || strings.HasPrefix(clean, p+"/") {
			if len(p) > len(bestPrefix) {
				bestPrefix, bestDir = p, dir
			}
		}
	}
	if bestPrefix == "" {
		return "", errs.Sandbox("virtual path matches no configured preopen", errs.Context{Path: virtualPath})
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(clean, bestPrefix), "/")
	return path.Join(bestDir, rel), nil
}
