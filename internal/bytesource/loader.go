// Package bytesource normalizes path/buffer/stream inputs into a byte
// range, optionally using the header+footer partial-load strategy
// instead of reading an entire large file.
package bytesource

import (
	"io"
	"os"

	"go.audiometa.dev/audiometa/internal/errs"
)

// Kind tags which variant of Input is populated, standing in for the
// runtime's duck-typed "string | bytes | Buffer | platform File" input.
type Kind uint8

const (
	KindPath Kind = iota
	KindBytes
	KindStream
)

// Input is the tagged union over the three ways a caller can hand the
// engine a file: a filesystem path, an in-memory buffer, or a seekable
// stream with a known size (the platform-File case).
type Input struct {
	Kind Kind
	Path string
	Data []byte
	// Stream and StreamSize are populated for KindStream. StreamSize is
	// -1 when the size is unknown (e.g. a network stream); partial
	// loads are refused in that case.
	Stream     io.ReadSeeker
	StreamSize int64
}

// PathInput builds a KindPath Input.
func PathInput(path string) Input { return Input{Kind: KindPath, Path: path} }

// BytesInput builds a KindBytes Input.
func BytesInput(b []byte) Input { return Input{Kind: KindBytes, Data: b} }

// StreamInput builds a KindStream Input with a known size.
func StreamInput(rs io.ReadSeeker, size int64) Input {
	return Input{Kind: KindStream, Stream: rs, StreamSize: size}
}

// Options controls whether Load attempts a partial (header+footer) read
// and how large each region may be.
type Options struct {
	Partial   bool
	MaxHeader uint32
	MaxFooter uint32
}

// DefaultOptions returns the default load settings: a full read, with
// a 1 MiB header and a 128 KiB footer should Partial be switched on.
func DefaultOptions() Options {
	return Options{Partial: false, MaxHeader: 1 << 20, MaxFooter: 128 << 10}
}

// Result is what Load hands back: the materialized bytes, whether they
// are a partial (header+footer) slice, and the original Input so a
// FileHandle can later promote a partial load to a full one
// (save_to_file).
type Result struct {
	Data      []byte
	IsPartial bool
	Original  Input
}

// Load materializes input into bytes per opts, following the
// partial-load decision tree: full read unless Partial is requested and
// the input supports seeking to a known size.
func Load(input Input, opts Options) (Result, error) {
	switch input.Kind {
	case KindPath:
		return loadPath(input, opts)
	case KindBytes:
		return Result{Data: input.Data, IsPartial: false, Original: input}, nil
	case KindStream:
		return loadStream(input, opts)
	default:
		return Result{}, errs.Initialization("unrecognized input kind", errs.Context{})
	}
}

func loadPath(input Input, opts Options) (Result, error) {
	if !opts.Partial {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return Result{}, errs.FileOperation(errs.FileOpRead, input.Path, err)
		}
		return Result{Data: data, IsPartial: false, Original: input}, nil
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return Result{}, errs.FileOperation(errs.FileOpStat, input.Path, err)
	}
	size := info.Size()
	threshold := int64(opts.MaxHeader) + int64(opts.MaxFooter)
	if size <= threshold {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return Result{}, errs.FileOperation(errs.FileOpRead, input.Path, err)
		}
		return Result{Data: data, IsPartial: false, Original: input}, nil
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return Result{}, errs.FileOperation(errs.FileOpRead, input.Path, err)
	}
	defer f.Close()

	data, err := readHeaderFooter(f, size, opts)
	if err != nil {
		return Result{}, errs.FileOperation(errs.FileOpRead, input.Path, err)
	}
	return Result{Data: data, IsPartial: true, Original: input}, nil
}

func loadStream(input Input, opts Options) (Result, error) {
	if !opts.Partial || input.StreamSize < 0 {
		data, err := io.ReadAll(input.Stream)
		if err != nil {
			return Result{}, errs.FileOperation(errs.FileOpRead, "", err)
		}
		return Result{Data: data, IsPartial: false, Original: input}, nil
	}

	threshold := int64(opts.MaxHeader) + int64(opts.MaxFooter)
	if input.StreamSize <= threshold {
		data, err := io.ReadAll(input.Stream)
		if err != nil {
			return Result{}, errs.FileOperation(errs.FileOpRead, "", err)
		}
		return Result{Data: data, IsPartial: false, Original: input}, nil
	}

	data, err := readHeaderFooter(input.Stream, input.StreamSize, opts)
	if err != nil {
		return Result{}, errs.FileOperation(errs.FileOpRead, "", err)
	}
	return Result{Data: data, IsPartial: true, Original: input}, nil
}

// readHeaderFooter reads [0, MaxHeader) and [size-MaxFooter, size) from
// rs and concatenates them faithfully — no padding — because container
// autodetection only looks at absolute offsets within the header, and
// trailer tags (ID3v1, APE) live in the footer.
func readHeaderFooter(rs io.ReadSeeker, size int64, opts Options) ([]byte, error) {
	out := make([]byte, int(opts.MaxHeader)+int(opts.MaxFooter))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(rs, out[:opts.MaxHeader]); err != nil {
		return nil, err
	}

	footerStart := size - int64(opts.MaxFooter)
	if _, err := rs.Seek(footerStart, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(rs, out[opts.MaxHeader:]); err != nil {
		return nil, err
	}

	return out, nil
}
