package sandbox

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/wire"
)

// Client drives the out-of-process sandbox subprocess: one request in
// flight at a time, framed over the child's stdin/stdout. Requests are
// correlated by a uuid so a future multiplexed transport could drop the
// one-at-a-time restriction without changing the wire format.
type Client struct {
	config Config
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu      sync.Mutex
	running bool
}

// Start launches the sandbox subprocess. It returns an Environment
// error (not Sandbox) if the binary cannot be found or started, since
// that fault belongs to process setup rather than a per-operation
// failure.
func Start(config Config) (*Client, error) {
	if len(config.Preopens) == 0 {
		return nil, errs.Initialization("sandbox requires at least one preopen", errs.Context{})
	}

	args := []string{}
	for prefix, dir := range config.Preopens {
		args = append(args, "-preopen", prefix+"="+dir)
	}
	if config.WASMBinaryPath != "" {
		args = append(args, "-wasm", config.WASMBinaryPath)
	}

	cmd := exec.Command(config.binary(), args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errs.Environment("failed to open sandbox subprocess stdin", errs.Context{RequiredFeature: "filesystem sandbox"})
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errs.Environment("failed to open sandbox subprocess stdout", errs.Context{RequiredFeature: "filesystem sandbox"})
	}
	if err := cmd.Start(); err != nil {
		return nil, errs.Environment("failed to start sandbox subprocess: "+err.Error(), errs.Context{RequiredFeature: "filesystem sandbox"})
	}

	return &Client{
		config:  config,
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		running: true,
	}, nil
}

// IsRunning reports whether the subprocess has not yet been shut down.
func (c *Client) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Shutdown terminates the subprocess and releases its pipes.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.running = false
	_ = c.stdin.Close()
	return c.cmd.Wait()
}

func (c *Client) roundTrip(ctx context.Context, req wire.Request) (wire.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return wire.Response{}, errs.Sandbox("sandbox subprocess is not running", errs.Context{})
	}

	if err := wire.WriteFrame(c.stdin, wire.EncodeRequest(req)); err != nil {
		return wire.Response{}, errs.Sandbox("failed to write sandbox request", errs.Context{})
	}

	type outcome struct {
		resp wire.Response
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		payload, err := wire.ReadFrame(c.stdout)
		if err != nil {
			done <- outcome{err: errs.Sandbox("failed to read sandbox response", errs.Context{})}
			return
		}
		resp, err := wire.DecodeResponse(payload)
		if err != nil {
			done <- outcome{err: errs.Sandbox("malformed sandbox response", errs.Context{})}
			return
		}
		done <- outcome{resp: resp}
	}()

	select {
	case o := <-done:
		return o.resp, o.err
	case <-ctx.Done():
		return wire.Response{}, errs.Sandbox("sandbox operation deadline exceeded", errs.Context{})
	}
}

// ReadTags reads virtualPath's BasicTag through the sandbox.
func (c *Client) ReadTags(ctx context.Context, virtualPath string) (model.BasicTag, error) {
	if _, err := resolve(c.config.Preopens, virtualPath); err != nil {
		return model.BasicTag{}, err
	}
	resp, err := c.roundTrip(ctx, wire.Request{ID: uuid.NewString(), Method: wire.MethodReadTags, VirtualPath: virtualPath})
	if err != nil {
		return model.BasicTag{}, err
	}
	if !resp.OK {
		return model.BasicTag{}, errs.Sandbox(resp.ErrorMsg, errs.Context{Path: virtualPath})
	}
	return wire.DecodeBasicTag(resp.TagBytes)
}

// WriteTags writes tag to virtualPath through the sandbox.
func (c *Client) WriteTags(ctx context.Context, virtualPath string, tag model.BasicTag) error {
	if _, err := resolve(c.config.Preopens, virtualPath); err != nil {
		return err
	}
	resp, err := c.roundTrip(ctx, wire.Request{
		ID: uuid.NewString(), Method: wire.MethodWriteTags, VirtualPath: virtualPath,
		TagBytes: wire.EncodeBasicTag(tag),
	})
	if err != nil {
		return err
	}
	if !resp.OK {
		return errs.Sandbox(resp.ErrorMsg, errs.Context{Path: virtualPath})
	}
	return nil
}

// ReadProperties reads virtualPath's AudioProperties through the sandbox.
func (c *Client) ReadProperties(ctx context.Context, virtualPath string) (model.AudioProperties, error) {
	if _, err := resolve(c.config.Preopens, virtualPath); err != nil {
		return model.AudioProperties{}, err
	}
	resp, err := c.roundTrip(ctx, wire.Request{ID: uuid.NewString(), Method: wire.MethodReadProperties, VirtualPath: virtualPath})
	if err != nil {
		return model.AudioProperties{}, err
	}
	if !resp.OK {
		return model.AudioProperties{}, errs.Sandbox(resp.ErrorMsg, errs.Context{Path: virtualPath})
	}
	return wire.DecodeAudioProperties(resp.PropsBytes)
}
