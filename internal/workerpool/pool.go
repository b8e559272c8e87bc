// Package workerpool implements a fixed-size pool of isolated task
// executors: queued dispatch, per-task and initialization deadlines,
// and graceful termination. Executors share one compiled
// nativehandle.Runtime but each Task runs against its own freshly
// opened Facade, since native handle state is never shared across
// executors.
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.audiometa.dev/audiometa/internal/bytesource"
	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/nativehandle"
	"go.audiometa.dev/audiometa/internal/ops"
)

// TaskKind is the closed set of operations a worker can execute.
type TaskKind string

const (
	TaskReadTags       TaskKind = "read_tags"
	TaskReadProperties TaskKind = "read_properties"
	TaskApplyTags      TaskKind = "apply_tags"
	TaskUpdateTags     TaskKind = "update_tags"
	TaskReadPictures   TaskKind = "read_pictures"
	TaskSetCoverArt    TaskKind = "set_cover_art"
	TaskBatch          TaskKind = "batch"
)

// SubTask is one entry of a TaskBatch task: a method run against the
// task's Input inside the worker, in order. Each SubTask opens the
// Input anew; SubTasks do not share one handle.
type SubTask struct {
	Kind    TaskKind
	Partial model.PartialTag
	Cover   []byte
	Mime    string
}

// Task is one unit of work dispatched to the pool.
type Task struct {
	Kind    TaskKind
	Input   bytesource.Input
	Path    string // required for TaskUpdateTags
	Partial model.PartialTag
	Cover   []byte
	Mime    string
	Batch   []SubTask
}

// Result is what a Task produces. For a TaskBatch, Batch carries one
// entry per SubTask in order, up to and including the first one that
// fails (whose error is also copied into Err), and every other field is
// zero; for every
// other Task.Kind, exactly one of the scalar value fields is populated
// and Batch is nil.
type Result struct {
	Tag        model.BasicTag
	Properties model.AudioProperties
	Pictures   []model.Picture
	Buffer     []byte
	Err        error
	Batch      []Result
}

// Options configures pool construction.
type Options struct {
	// Size is the number of executor goroutines. Zero selects
	// min(runtime.NumCPU(), 4).
	Size int
	// OperationTimeout bounds a single task's execution. Zero selects
	// 60 seconds, the default operation_timeout_ms.
	OperationTimeout time.Duration
	// InitTimeout bounds pool construction readiness. Zero selects 30
	// seconds, the default init_timeout_ms.
	InitTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		n := runtime.NumCPU()
		if n > 4 {
			n = 4
		}
		o.Size = n
	}
	if o.OperationTimeout <= 0 {
		o.OperationTimeout = 60 * time.Second
	}
	if o.InitTimeout <= 0 {
		o.InitTimeout = 30 * time.Second
	}
	return o
}

type job struct {
	task   Task
	result chan<- Result
	ctx    context.Context
}

// Pool is a fixed-size set of executors dispatching Tasks against a
// shared Runtime.
type Pool struct {
	opts      Options
	opener    ops.HandleOpener
	queue     chan job
	wg        sync.WaitGroup
	ready     chan struct{}
	mu        sync.Mutex
	terminated bool
}

// New constructs a Pool bound to rt and starts its executors.
// Construction never blocks on executor startup; call WaitForReady to
// block until every executor has signaled readiness or InitTimeout
// elapses.
func New(rt *nativehandle.Runtime, opts Options) *Pool {
	opts = opts.withDefaults()
	p := &Pool{
		opts:   opts,
		opener: nativehandle.Opener{Runtime: rt},
		queue:  make(chan job, opts.Size*4),
		ready:  make(chan struct{}),
	}

	var startWG sync.WaitGroup
	startWG.Add(opts.Size)
	p.wg.Add(opts.Size)
	for i := 0; i < opts.Size; i++ {
		go p.runExecutor(&startWG)
	}

	go func() {
		startWG.Wait()
		close(p.ready)
	}()

	return p
}

func (p *Pool) runExecutor(startWG *sync.WaitGroup) {
	defer p.wg.Done()
	startWG.Done()
	for j := range p.queue {
		p.mu.Lock()
		terminated := p.terminated
		p.mu.Unlock()
		if terminated {
			j.result <- Result{Err: errs.Worker("pool terminated")}
			continue
		}
		j.result <- p.execute(j.ctx, j.task)
	}
}

// WaitForReady blocks until every executor has started, or returns a
// Worker("initialization timed out") error if that takes longer than
// InitTimeout.
func (p *Pool) WaitForReady() error {
	select {
	case <-p.ready:
		return nil
	case <-time.After(p.opts.InitTimeout):
		return errs.Worker("initialization timed out")
	}
}

// Submit enqueues task and blocks until it completes, the pool's
// OperationTimeout elapses, or ctx is canceled.
func (p *Pool) Submit(ctx context.Context, task Task) Result {
	p.mu.Lock()
	terminated := p.terminated
	p.mu.Unlock()
	if terminated {
		return Result{Err: errs.Worker("pool terminated")}
	}

	opCtx, cancel := context.WithTimeout(ctx, p.opts.OperationTimeout)
	defer cancel()

	resultCh := make(chan Result, 1)
	select {
	case p.queue <- job{task: task, result: resultCh, ctx: opCtx}:
	case <-opCtx.Done():
		return Result{Err: errs.Worker("Operation timed out")}
	}

	select {
	case r := <-resultCh:
		return r
	case <-opCtx.Done():
		return Result{Err: errs.Worker("Operation timed out")}
	}
}

// Terminate rejects all queued tasks with Worker("pool terminated"),
// stops accepting new ones, and waits for in-flight executors to drain.
func (p *Pool) Terminate() {
	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		return
	}
	p.terminated = true
	p.mu.Unlock()

	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) execute(ctx context.Context, t Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{Err: errs.Worker("Operation timed out")}
	}

	switch t.Kind {
	case TaskReadTags:
		tag, err := ops.ReadTags(p.opener, t.Input)
		return Result{Tag: tag, Err: err}

	case TaskReadProperties:
		props, err := ops.ReadProperties(p.opener, t.Input)
		return Result{Properties: props, Err: err}

	case TaskApplyTags:
		buf, err := ops.ApplyTags(p.opener, t.Input, t.Partial)
		return Result{Buffer: buf, Err: err}

	case TaskUpdateTags:
		err := ops.UpdateTags(p.opener, t.Path, t.Partial)
		return Result{Err: err}

	case TaskReadPictures:
		pics, err := ops.ReadPictures(p.opener, t.Input)
		return Result{Pictures: pics, Err: err}

	case TaskSetCoverArt:
		buf, err := ops.ApplyCoverArt(p.opener, t.Input, t.Cover, t.Mime)
		return Result{Buffer: buf, Err: err}

	case TaskBatch:
		return p.executeBatch(t)

	default:
		return Result{Err: errs.Worker("unknown task kind")}
	}
}

// executeBatch runs every SubTask against t.Input in order inside this
// one dispatch, and returns one Result per SubTask in Batch — the
// batch_operations contract needs every sub-operation's own value, not
// just the last one. Each SubTask goes through its own ops call and so
// opens t.Input anew; no handle is shared between SubTasks. It stops at
// the first SubTask error, leaving the remaining entries absent from
// Batch.
func (p *Pool) executeBatch(t Task) Result {
	batch := make([]Result, 0, len(t.Batch))
	for _, sub := range t.Batch {
		var r Result
		switch sub.Kind {
		case TaskReadTags:
			r.Tag, r.Err = ops.ReadTags(p.opener, t.Input)
		case TaskReadProperties:
			r.Properties, r.Err = ops.ReadProperties(p.opener, t.Input)
		case TaskApplyTags:
			r.Buffer, r.Err = ops.ApplyTags(p.opener, t.Input, sub.Partial)
		case TaskReadPictures:
			r.Pictures, r.Err = ops.ReadPictures(p.opener, t.Input)
		case TaskSetCoverArt:
			r.Buffer, r.Err = ops.ApplyCoverArt(p.opener, t.Input, sub.Cover, sub.Mime)
		default:
			r.Err = errs.Worker("unknown batch sub-task kind")
		}
		batch = append(batch, r)
		if r.Err != nil {
			return Result{Batch: batch, Err: r.Err}
		}
	}
	return Result{Batch: batch}
}
