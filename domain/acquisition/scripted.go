package acquisition

import (
	"context"
	"errors"
	"fmt"

	"github.com/soocke/ctr-meter/domain/roi"
)

// ErrScriptExhausted is returned once a ScriptedSource has no steps left.
var ErrScriptExhausted = errors.New("point script exhausted")

// Step is one scripted answer: either a set of points or a frame-done gesture.
type Step struct {
	Points []roi.Point
	Done   bool
}

// Pair builds a step from two diagonal corners.
func Pair(x1, y1, x2, y2 float64) Step {
	return Step{Points: []roi.Point{{X: x1, Y: y1}, {X: x2, Y: y2}}}
}

// DoneStep is the frame-done gesture.
var DoneStep = Step{Done: true}

// ScriptedSource replays a fixed list of steps. It lets the loop run without
// an interactive backend.
type ScriptedSource struct {
	steps   []Step
	next    int
	Prompts int // number of AwaitPoints calls served
}

// NewScriptedSource returns a source that answers with steps in order.
func NewScriptedSource(steps ...Step) *ScriptedSource {
	return &ScriptedSource{steps: steps}
}

// Remaining returns the number of unused steps.
func (s *ScriptedSource) Remaining() int { return len(s.steps) - s.next }

func (s *ScriptedSource) AwaitPoints(ctx context.Context, n int) ([]roi.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Prompts++
	if s.next >= len(s.steps) {
		return nil, ErrScriptExhausted
	}
	step := s.steps[s.next]
	s.next++
	if step.Done {
		return nil, ErrFrameDone
	}
	if len(step.Points) != n {
		return nil, fmt.Errorf("script step %d has %d points, want %d", s.next-1, len(step.Points), n)
	}
	return step.Points, nil
}

var _ PointSource = (*ScriptedSource)(nil)
