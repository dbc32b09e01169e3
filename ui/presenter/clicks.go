package presenter

import (
	"context"
	"sync/atomic"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/roi"
)

type clickEvent struct {
	p    roi.Point
	done bool
}

// ClickSource turns frame clicks and next-frame gestures from the Tk thread
// into the blocking PointSource the session consumes.
type ClickSource struct {
	ch    chan clickEvent
	armed atomic.Bool
}

// NewClickSource returns a disarmed source.
func NewClickSource() *ClickSource { return &ClickSource{ch: make(chan clickEvent, 64)} }

// Arm enables or disables input. Events are dropped while disarmed.
func (s *ClickSource) Arm(on bool) {
	if s == nil {
		return
	}
	s.armed.Store(on)
	if !on {
		for {
			select {
			case <-s.ch:
			default:
				return
			}
		}
	}
}

// Armed reports whether input is accepted.
func (s *ClickSource) Armed() bool { return s != nil && s.armed.Load() }

// Click queues a point. It reports whether the point was accepted.
func (s *ClickSource) Click(p roi.Point) bool { return s.push(clickEvent{p: p}) }

// Done queues the next-frame gesture.
func (s *ClickSource) Done() bool { return s.push(clickEvent{done: true}) }

func (s *ClickSource) push(ev clickEvent) bool {
	if !s.Armed() {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// AwaitPoints blocks until n clicks arrived. A next-frame gesture discards
// the partial pair and returns acquisition.ErrFrameDone.
func (s *ClickSource) AwaitPoints(ctx context.Context, n int) ([]roi.Point, error) {
	pts := make([]roi.Point, 0, n)
	for len(pts) < n {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-s.ch:
			if ev.done {
				return nil, acquisition.ErrFrameDone
			}
			pts = append(pts, ev.p)
		}
	}
	return pts, nil
}

var _ acquisition.PointSource = (*ClickSource)(nil)
