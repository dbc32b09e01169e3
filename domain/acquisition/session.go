package acquisition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/soocke/ctr-meter/domain/contrast"
	"github.com/soocke/ctr-meter/domain/frames"
	"github.com/soocke/ctr-meter/domain/roi"
)

// Session drives the acquisition loop over all frames of a source.
type Session struct {
	src       frames.Source
	points    PointSource
	opts      Options
	logger    *slog.Logger
	observer  Observer
	state     atomic.Int32
	listeners []StateListener

	mu      sync.Mutex
	records []Record

	// per-run cursor
	frameIdx int
	frame    *mat.Dense
	signal   roi.Region
	bg       roi.Region
}

// NewSession returns an idle session. A non-positive TargetPoints means no cap
// beyond the number of frames.
func NewSession(src frames.Source, points PointSource, opts Options, logger *slog.Logger) *Session {
	return &Session{src: src, points: points, opts: opts, logger: logger, observer: NopObserver{}}
}

// SetObserver installs the rendering hooks. Call before Run.
func (s *Session) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	s.observer = o
}

// AddListener registers a transition listener. Call before Run.
func (s *Session) AddListener(l StateListener) { s.listeners = append(s.listeners, l) }

// Current returns the current state. Safe for concurrent use.
func (s *Session) Current() State { return State(s.state.Load()) }

// Records returns a copy of the records collected so far. Safe for concurrent use.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of records collected so far.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Session) capReached() bool {
	return s.opts.TargetPoints > 0 && s.Count() >= s.opts.TargetPoints
}

// Run executes the loop until the record cap is reached or frames are
// exhausted. Any failure aborts the run and no records are returned.
func (s *Session) Run(ctx context.Context) (recs []Record, err error) {
	if s.src == nil || s.points == nil {
		return nil, errors.New("session needs a frame source and a point source")
	}
	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.Error("session panic", "error", r, "stack", string(debug.Stack()))
			}
			s.transition(StateFailed)
			recs, err = nil, fmt.Errorf("session panic: %v", r)
		}
	}()
	s.frameIdx = 0
	s.transition(StateFrameSetup)
	for {
		var stepErr error
		switch s.Current() {
		case StateFrameSetup:
			stepErr = s.setupFrame()
		case StateAwaitSignal:
			stepErr = s.awaitSignal(ctx)
		case StateAwaitBackground:
			stepErr = s.awaitBackground(ctx)
		case StateRecord:
			s.record()
		case StateFrameDone:
			s.observer.FrameFinished(s.frameIdx)
			s.frameIdx++
			s.transition(StateFrameSetup)
		case StateFinished:
			return s.Records(), nil
		default:
			stepErr = fmt.Errorf("unexpected state %v", s.Current())
		}
		if stepErr != nil {
			if s.logger != nil {
				s.logger.Error("acquisition aborted", "frame", s.frameIdx, "state", s.Current().String(), "error", stepErr)
			}
			s.transition(StateFailed)
			return nil, fmt.Errorf("frame %d: %w", s.frameIdx, stepErr)
		}
	}
}

func (s *Session) setupFrame() error {
	if s.capReached() || s.frameIdx >= s.src.Len() {
		s.transition(StateFinished)
		return nil
	}
	f, err := s.src.Frame(s.frameIdx)
	if err != nil {
		return err
	}
	s.frame = f
	s.observer.FrameStarted(FrameInfo{
		Index:   s.frameIdx,
		Total:   s.src.Len(),
		Frame:   f,
		Records: s.Records(),
		Target:  s.opts.TargetPoints,
	})
	s.transition(StateAwaitSignal)
	return nil
}

func (s *Session) awaitPair(ctx context.Context) ([]roi.Point, error) {
	pts, err := s.points.AwaitPoints(ctx, 2)
	if err != nil {
		return nil, err
	}
	if len(pts) != 2 {
		return nil, fmt.Errorf("point source returned %d points, want 2", len(pts))
	}
	return pts, nil
}

func (s *Session) awaitSignal(ctx context.Context) error {
	pts, err := s.awaitPair(ctx)
	if errors.Is(err, ErrFrameDone) {
		s.transition(StateFrameDone)
		return nil
	}
	if err != nil {
		return err
	}
	if s.opts.StopOnOriginClick && pts[0].Sum()+pts[1].Sum() <= s.opts.StopThreshold {
		s.transition(StateFrameDone)
		return nil
	}
	r, err := roi.Extract(s.frame, pts[0], pts[1])
	if err != nil {
		return err
	}
	s.signal = r
	s.logRegion(Signal, r)
	s.observer.RegionSelected(Signal, r)
	s.transition(StateAwaitBackground)
	return nil
}

func (s *Session) awaitBackground(ctx context.Context) error {
	pts, err := s.awaitPair(ctx)
	if errors.Is(err, ErrFrameDone) {
		if s.logger != nil {
			s.logger.Info("signal selection dropped", "frame", s.frameIdx)
		}
		s.transition(StateFrameDone)
		return nil
	}
	if err != nil {
		return err
	}
	r, err := roi.Extract(s.frame, pts[0], pts[1])
	if err != nil {
		return err
	}
	s.bg = r
	s.logRegion(Background, r)
	s.observer.RegionSelected(Background, r)
	s.transition(StateRecord)
	return nil
}

func (s *Session) record() {
	rec := Record{
		Depth:       s.signal.Depth(),
		CTR:         contrast.CTR(s.signal.Values, s.bg.Values),
		Frame:       s.frameIdx,
		SignalX:     s.signal.XS(),
		SignalY:     s.signal.YS(),
		BackgroundX: s.bg.XS(),
		BackgroundY: s.bg.YS(),
	}
	s.mu.Lock()
	s.records = append(s.records, rec)
	total := len(s.records)
	s.mu.Unlock()

	if s.logger != nil {
		if !contrast.Finite(rec.CTR) {
			s.logger.Warn("degenerate contrast", "frame", rec.Frame, "depth", rec.Depth, "ctr", rec.CTR)
		}
		s.logger.Info("record", "n", total, "target", s.opts.TargetPoints, "frame", rec.Frame, "depth", rec.Depth, "ctr", rec.CTR)
	}
	s.observer.RecordAdded(rec, total)
	if s.capReached() {
		s.transition(StateFrameDone)
		return
	}
	s.transition(StateAwaitSignal)
}

func (s *Session) logRegion(kind RegionKind, r roi.Region) {
	if s.logger == nil {
		return
	}
	if r.Empty() {
		s.logger.Warn("empty region", "frame", s.frameIdx, "kind", kind.String(), "rect", r.Rect.String())
		return
	}
	s.logger.Debug("region selected", "frame", s.frameIdx, "kind", kind.String(), "rows", r.Rows(), "cols", r.Cols())
}

func (s *Session) transition(next State) {
	prev := s.Current()
	if prev == next {
		return
	}
	s.state.Store(int32(next))
	if s.logger != nil {
		s.logger.Debug("acquisition state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range s.listeners {
		l(prev, next)
	}
}
