package presenter

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/soocke/ctr-meter/domain/acquisition"
)

// Runner executes one measurement run.
type Runner interface {
	Run(ctx context.Context) ([]acquisition.Record, error)
}

// RunView updates UI elements affected by starting and finishing a run.
type RunView interface {
	ConfigEditable(bool)
	SetRunning(bool)
}

// Arming gates operator input while a run is active.
type Arming interface{ Arm(bool) }

type runResult struct {
	records []acquisition.Record
	err     error
}

// RunPresenter owns the lifecycle of the single acquisition run.
type RunPresenter struct {
	build  func() (Runner, error)
	view   RunView
	input  Arming
	onDone func([]acquisition.Record, error)
	logger *slog.Logger

	started atomic.Bool
	running atomic.Bool
	cancel  context.CancelFunc
	doneCh  chan runResult
}

// NewRunPresenter wires a run factory to the view. onDone runs on the Tk thread.
func NewRunPresenter(build func() (Runner, error), view RunView, input Arming, onDone func([]acquisition.Record, error), logger *slog.Logger) *RunPresenter {
	return &RunPresenter{build: build, view: view, input: input, onDone: onDone, logger: logger, doneCh: make(chan runResult, 1)}
}

// Running reports whether the session goroutine is active.
func (p *RunPresenter) Running() bool { return p != nil && p.running.Load() }

// Start builds the session and runs it on its own goroutine. Only the first
// call has an effect.
func (p *RunPresenter) Start() {
	if p == nil || p.build == nil || p.view == nil {
		return
	}
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	r, err := p.build()
	if err != nil {
		p.started.Store(false)
		if p.onDone != nil {
			p.onDone(nil, err)
		}
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.view.ConfigEditable(false)
	p.view.SetRunning(true)
	if p.input != nil {
		p.input.Arm(true)
	}
	p.running.Store(true)
	if p.logger != nil {
		p.logger.Info("acquisition started")
	}
	go func() {
		recs, err := r.Run(ctx)
		p.doneCh <- runResult{records: recs, err: err}
	}()
}

// Cancel stops a running session without saving.
func (p *RunPresenter) Cancel() {
	if p == nil || p.cancel == nil {
		return
	}
	p.cancel()
}

// Tick collects the result of a finished run.
func (p *RunPresenter) Tick() {
	if p == nil {
		return
	}
	select {
	case res := <-p.doneCh:
		p.running.Store(false)
		if p.input != nil {
			p.input.Arm(false)
		}
		if p.cancel != nil {
			p.cancel()
		}
		if p.view != nil {
			p.view.SetRunning(false)
		}
		if p.onDone != nil {
			p.onDone(res.records, res.err)
		}
	default:
	}
}
