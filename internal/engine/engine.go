package engine

import (
	"context"

	"github.com/spf13/afero"
)

// Request is one invocation: a file or directory, a password and a direction.
type Request struct {
	Path     string
	Password string
	Mode     Mode
}

// Options configures an Engine.
type Options struct {
	// Fs is the filesystem to work on; nil means the OS filesystem.
	Fs afero.Fs

	// PreserveTimestamps copies the input's modification time to the output.
	PreserveTimestamps bool

	// Skip excludes entries from directory walks.
	Skip SkipFunc
}

// Engine runs encryption and decryption requests.
// Requests may run concurrently as long as their paths do not overlap.
type Engine struct {
	fs          afero.Fs
	registry    *NameRegistry
	transformer *Transformer
	walker      *Walker
}

// New returns an Engine configured by opts.
func New(opts Options) *Engine {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	registry := NewNameRegistry()
	transformer := NewTransformer(fsys, registry, opts.PreserveTimestamps)

	return &Engine{
		fs:          fsys,
		registry:    registry,
		transformer: transformer,
		walker:      NewWalker(fsys, transformer, opts.Skip),
	}
}

// Registry returns the names recorded by every encryption this Engine ran.
func (e *Engine) Registry() *NameRegistry {
	return e.registry
}

// Run processes req synchronously, reporting to sink. Every run ends with
// exactly one Finished or Failed event.
//
// A failure on a single-file request is returned and reported as Failed. For a
// directory, per-file failures are only collected in the summary; the error is
// reserved for a root that cannot be walked at all.
func (e *Engine) Run(ctx context.Context, req Request, sink Sink) (Summary, error) {
	if sink == nil {
		sink = Discard
	}

	info, err := e.fs.Stat(req.Path)
	if err != nil {
		summary := newSummary(req.Path, req.Mode)
		err = classifyStat(req.Path, err)

		sink.Emit(Event{Kind: Failed, RunID: summary.RunID, Root: req.Path, Mode: req.Mode, Err: err})

		return summary, err
	}

	if info.IsDir() {
		return e.walker.Walk(ctx, req.Path, req.Mode, req.Password, sink)
	}

	return e.runFile(ctx, req, sink)
}

func (e *Engine) runFile(ctx context.Context, req Request, sink Sink) (Summary, error) {
	summary := newSummary(req.Path, req.Mode)
	summary.Total = 1

	base := Event{RunID: summary.RunID, Root: req.Path, Mode: req.Mode, Total: 1}

	started := base
	started.Kind = Started
	sink.Emit(started)

	if ctx.Err() != nil {
		summary.Cancelled = true
		summary.finish()

		finished := base
		finished.Kind = Finished
		finished.Summary = &summary
		sink.Emit(finished)

		return summary, nil
	}

	outcome, err := e.transformer.Transform(req.Path, req.Mode, req.Password)
	summary.record(req.Path, outcome, err)
	summary.finish()

	done := base
	done.Kind = FileDone
	done.Path = req.Path
	done.Index = 1
	done.Outcome = outcome
	done.Err = err
	sink.Emit(done)

	terminal := base
	terminal.Summary = &summary

	if err != nil {
		terminal.Kind = Failed
		terminal.Err = err
		sink.Emit(terminal)

		return summary, err
	}

	terminal.Kind = Finished
	sink.Emit(terminal)

	return summary, nil
}

// RunEncryption encrypts path in the background and streams its events.
// The channel is closed after the terminal event and must be drained until ctx
// is cancelled; events not yet received by then may be dropped.
func (e *Engine) RunEncryption(ctx context.Context, path, password string) <-chan Event {
	return e.stream(ctx, Request{Path: path, Password: password, Mode: Encrypt})
}

// RunDecryption decrypts path in the background and streams its events.
// The channel is closed after the terminal event and must be drained until ctx
// is cancelled; events not yet received by then may be dropped.
func (e *Engine) RunDecryption(ctx context.Context, path, password string) <-chan Event {
	return e.stream(ctx, Request{Path: path, Password: password, Mode: Decrypt})
}

func (e *Engine) stream(ctx context.Context, req Request) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		e.Run(ctx, req, SinkFunc(func(event Event) { //nolint:errcheck // reported through the terminal event
			deliver(ctx, events, event)
		}))
	}()

	return events
}

// deliver sends event unless ctx is done first, so a consumer that cancels may
// stop receiving without blocking the run.
func deliver(ctx context.Context, events chan<- Event, event Event) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// Plan lists the jobs req would run without touching any file.
func (e *Engine) Plan(req Request) ([]FileJob, error) {
	info, err := e.fs.Stat(req.Path)
	if err != nil {
		return nil, classifyStat(req.Path, err)
	}

	if !info.IsDir() {
		job, err := NewFileJob(req.Path, req.Mode)

		return []FileJob{job}, err
	}

	return e.walker.Plan(req.Path, req.Mode), nil
}
