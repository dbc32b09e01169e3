package acquisition

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/soocke/ctr-meter/domain/roi"
)

// State enumerates the phases of a measurement run.
type State int32

const (
	StateIdle State = iota
	StateFrameSetup
	StateAwaitSignal
	StateAwaitBackground
	StateRecord
	StateFrameDone
	StateFinished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFrameSetup:
		return "frame setup"
	case StateAwaitSignal:
		return "select signal"
	case StateAwaitBackground:
		return "select background"
	case StateRecord:
		return "record"
	case StateFrameDone:
		return "frame done"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RegionKind tells signal and background selections apart.
type RegionKind int

const (
	Signal RegionKind = iota
	Background
)

func (k RegionKind) String() string {
	if k == Background {
		return "background"
	}
	return "signal"
}

// ErrFrameDone is returned by a PointSource when the operator asks to move on
// to the next frame.
var ErrFrameDone = errors.New("frame done")

// PointSource blocks until n points have been supplied.
type PointSource interface {
	AwaitPoints(ctx context.Context, n int) ([]roi.Point, error)
}

// Record is one signal/background measurement. Records are never modified
// once appended.
type Record struct {
	Depth       float64    `json:"depth_px"`
	CTR         float64    `json:"ctr_db"`
	Frame       int        `json:"frame"`
	SignalX     [4]float64 `json:"signal_x"`
	SignalY     [4]float64 `json:"signal_y"`
	BackgroundX [4]float64 `json:"background_x"`
	BackgroundY [4]float64 `json:"background_y"`
}

// FrameInfo describes a frame about to be measured.
type FrameInfo struct {
	Index   int
	Total   int
	Frame   *mat.Dense
	Records []Record // snapshot of everything recorded so far
	Target  int
}

// Observer receives rendering hooks from a running session. Calls arrive on
// the session goroutine.
type Observer interface {
	FrameStarted(FrameInfo)
	RegionSelected(kind RegionKind, r roi.Region)
	RecordAdded(rec Record, total int)
	FrameFinished(index int)
}

// StateListener is called on each state transition.
type StateListener func(prev, next State)

// NopObserver ignores all hooks.
type NopObserver struct{}

func (NopObserver) FrameStarted(FrameInfo)                {}
func (NopObserver) RegionSelected(RegionKind, roi.Region) {}
func (NopObserver) RecordAdded(Record, int)               {}
func (NopObserver) FrameFinished(int)                     {}

// Options configures a session.
type Options struct {
	// TargetPoints caps the number of records for the whole run.
	TargetPoints int
	// StopOnOriginClick ends a frame when a signal click pair has a coordinate
	// sum at or below StopThreshold, i.e. both clicks land near the origin marker.
	StopOnOriginClick bool
	StopThreshold     float64
}
