package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	State    *StatePresenter
	Progress *ProgressPresenter
	Frames   *FramePresenter
	Run      *RunPresenter
	Schedule func()
}

func NewLoop(state *StatePresenter, progress *ProgressPresenter, frames *FramePresenter, run *RunPresenter, schedule func()) *Loop {
	return &Loop{State: state, Progress: progress, Frames: frames, Run: run, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Frame events first so the final record is drawn before the run result is handled.
	l.Frames.Tick()
	l.State.Tick(now)
	l.Progress.Tick(now)
	l.Run.Tick()
	if l.Schedule != nil {
		l.Schedule()
	}
}
