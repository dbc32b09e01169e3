package model

import (
	"fmt"
	"time"
)

// Progress is a snapshot of the run counters.
type Progress struct {
	Frame   int // 1-based; 0 before the first frame
	Frames  int
	Records int
	Target  int
	Elapsed time.Duration
}

// Lines renders the counters the way they are printed on the frame.
func (p Progress) Lines() []string {
	return []string{
		fmt.Sprintf("img #%d/%d", p.Frame, p.Frames),
		fmt.Sprintf("data points #%d/%d", p.Records, p.Target),
	}
}

// ProgressModel tracks frame and record counters plus the time spent measuring.
// It is decoupled from the UI; presenters update it from the Tk thread and poll
// Values(). The zero value is ready to use.
type ProgressModel struct {
	frame, frames   int
	records, target int

	active  bool
	start   time.Time
	elapsed time.Duration
}

// NewProgressModel returns a pointer to a ready-to-use ProgressModel.
func NewProgressModel(target int) *ProgressModel { return &ProgressModel{target: target} }

// OnFrame records that frame index (0-based) of total is on screen.
func (m *ProgressModel) OnFrame(index, total int) {
	if m == nil {
		return
	}
	m.frame, m.frames = index+1, total
}

// OnRecord stores the running record count.
func (m *ProgressModel) OnRecord(total int) {
	if m == nil {
		return
	}
	m.records = total
}

// SetTarget changes the record cap shown to the user.
func (m *ProgressModel) SetTarget(n int) {
	if m == nil {
		return
	}
	m.target = n
}

// OnTick advances the elapsed time while a run is active.
func (m *ProgressModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	if running {
		if !m.active {
			m.active = true
			m.start = now
		}
		m.elapsed = now.Sub(m.start)
	} else if m.active {
		m.elapsed = now.Sub(m.start)
		m.active = false
	}
}

// Values returns the current snapshot.
func (m *ProgressModel) Values() Progress {
	if m == nil {
		return Progress{}
	}
	return Progress{Frame: m.frame, Frames: m.frames, Records: m.records, Target: m.target, Elapsed: m.elapsed}
}
