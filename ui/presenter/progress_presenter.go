package presenter

import (
	"time"

	"github.com/soocke/ctr-meter/ui/model"
)

// RunningModel reports whether a run is in progress.
type RunningModel interface{ Running() bool }

// ProgressView displays the run counters and elapsed time.
type ProgressView interface {
	SetProgress(p model.Progress)
}

// ProgressPresenter pushes the progress model to the view.
type ProgressPresenter struct {
	progress *model.ProgressModel
	run      RunningModel
	view     ProgressView
	last     model.Progress
	shown    bool
}

// NewProgressPresenter returns a new ProgressPresenter.
func NewProgressPresenter(progress *model.ProgressModel, run RunningModel, view ProgressView) *ProgressPresenter {
	return &ProgressPresenter{progress: progress, run: run, view: view}
}

// Tick advances the elapsed time and updates the view when something changed.
func (p *ProgressPresenter) Tick(now time.Time) {
	if p == nil || p.progress == nil || p.run == nil || p.view == nil {
		return
	}
	p.progress.OnTick(p.run.Running(), now)
	v := p.progress.Values()
	if p.shown && v.Frame == p.last.Frame && v.Records == p.last.Records &&
		v.Target == p.last.Target && v.Elapsed/time.Second == p.last.Elapsed/time.Second {
		return
	}
	p.last, p.shown = v, true
	p.view.SetProgress(v)
}
