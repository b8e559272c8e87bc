// Command audiometa-sandboxd is the out-of-process executor behind the
// filesystem sandbox (internal/sandbox): it accepts only virtual paths
// under a configured preopen, mounts the resolved file's directory into
// the parsing library's WASM module for each request, and answers
// framed requests over stdin/stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"go.audiometa.dev/audiometa/internal/nativehandle"
	"go.audiometa.dev/audiometa/internal/sandbox"
)

func main() {
	appl := &cli.Command{
		Name:  "audiometa-sandboxd",
		Usage: "Run the audiometa filesystem sandbox executor",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "preopen",
				Usage:    "virtual_prefix=host_directory, repeatable",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "wasm",
				Usage:    "path to the compiled parsing-library WASM module",
				Required: true,
			},
		},
		Action: run,
	}

	if err := appl.Run(context.Background(), os.Args); err != nil {
		slog.Error("sandboxd exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	preopens, err := parsePreopens(cmd.StringSlice("preopen"))
	if err != nil {
		return err
	}

	wasmBinary, err := os.ReadFile(cmd.String("wasm"))
	if err != nil {
		return fmt.Errorf("reading wasm module: %w", err)
	}

	rt, err := nativehandle.NewRuntime(wasmBinary)
	if err != nil {
		return fmt.Errorf("initializing parsing library runtime: %w", err)
	}
	defer rt.Close()

	slog.Info("audiometa-sandboxd ready", "preopens", preopens)

	srv := sandbox.NewServer(preopens, rt)
	return srv.Serve(os.Stdin, os.Stdout)
}

func parsePreopens(raw []string) (map[string]string, error) {
	preopens := make(map[string]string, len(raw))
	for _, entry := range raw {
		prefix, dir, ok := strings.Cut(entry, "=")
		if !ok || prefix == "" || dir == "" {
			return nil, fmt.Errorf("invalid -preopen %q, want virtual_prefix=host_directory", entry)
		}
		preopens[prefix] = dir
	}
	return preopens, nil
}
