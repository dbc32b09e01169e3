package presenter

import (
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/roi"
	"github.com/soocke/ctr-meter/ui/images"
	"github.com/soocke/ctr-meter/ui/model"
	"github.com/soocke/ctr-meter/ui/plots"
)

// FrameView shows the annotated frame.
type FrameView interface {
	ShowFrame(img image.Image)
}

// ScatterView shows the running depth/contrast scatter.
type ScatterView interface {
	ShowScatter(png []byte)
}

// PointSink accepts operator input for the session.
type PointSink interface {
	Click(p roi.Point) bool
	Done() bool
}

// Display controls how frames are mapped to the screen.
type Display struct {
	Min, Max float64
	Aspect   float64
	Width    int
}

type eventKind int

const (
	eventFrameStarted eventKind = iota + 1
	eventRegion
	eventRecord
	eventFrameFinished
)

type sessionEvent struct {
	kind    eventKind
	frame   acquisition.FrameInfo
	region  acquisition.RegionKind
	corners [4]roi.Point
	record  acquisition.Record
	total   int
}

// FramePresenter receives session hooks on the session goroutine, queues them
// and applies them to the models and views on the Tk thread.
type FramePresenter struct {
	Overlay  *model.OverlayModel
	Progress *model.ProgressModel
	Frames   FrameView
	Scatter  ScatterView
	Points   PointSink
	Display  Display
	Plot     plots.Options
	logger   *slog.Logger

	mu      sync.Mutex
	pending []sessionEvent

	records      []acquisition.Record
	scatterDirty bool
}

// NewFramePresenter constructs a frame presenter.
func NewFramePresenter(overlay *model.OverlayModel, progress *model.ProgressModel, frames FrameView, scatter ScatterView, points PointSink, display Display, plot plots.Options, logger *slog.Logger) *FramePresenter {
	return &FramePresenter{
		Overlay:      overlay,
		Progress:     progress,
		Frames:       frames,
		Scatter:      scatter,
		Points:       points,
		Display:      display,
		Plot:         plot,
		logger:       logger,
		scatterDirty: true,
	}
}

func (p *FramePresenter) enqueue(ev sessionEvent) {
	p.mu.Lock()
	p.pending = append(p.pending, ev)
	p.mu.Unlock()
}

func (p *FramePresenter) FrameStarted(info acquisition.FrameInfo) {
	p.enqueue(sessionEvent{kind: eventFrameStarted, frame: info})
}

func (p *FramePresenter) RegionSelected(kind acquisition.RegionKind, r roi.Region) {
	p.enqueue(sessionEvent{kind: eventRegion, region: kind, corners: r.Corners})
}

func (p *FramePresenter) RecordAdded(rec acquisition.Record, total int) {
	p.enqueue(sessionEvent{kind: eventRecord, record: rec, total: total})
}

func (p *FramePresenter) FrameFinished(index int) {
	p.enqueue(sessionEvent{kind: eventFrameFinished})
}

var _ acquisition.Observer = (*FramePresenter)(nil)

// OnClick maps a click on the frame image to frame coordinates and forwards it.
func (p *FramePresenter) OnClick(px, py int) {
	if p == nil || p.Overlay == nil || p.Points == nil {
		return
	}
	g, ok := p.Overlay.Geometry()
	if !ok {
		return
	}
	pt := g.ToFrame(px, py)
	if p.Points.Click(pt) {
		p.Overlay.AddClick(pt)
		if p.logger != nil {
			p.logger.Debug("click", "x", pt.X, "y", pt.Y)
		}
	}
}

// OnNextFrame forwards the next-frame gesture.
func (p *FramePresenter) OnNextFrame() {
	if p == nil || p.Points == nil {
		return
	}
	if p.Points.Done() && p.Overlay != nil {
		p.Overlay.ClearClicks()
	}
}

// Tick drains queued session events and refreshes the views.
func (p *FramePresenter) Tick() {
	if p == nil || p.Overlay == nil {
		return
	}
	p.mu.Lock()
	events := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, ev := range events {
		p.apply(ev)
	}
	if p.Frames != nil {
		if img := p.Overlay.Render(p.Progress.Values().Lines()); img != nil {
			p.Frames.ShowFrame(img)
		}
	}
	if p.scatterDirty && p.Scatter != nil {
		p.scatterDirty = false
		png, err := plots.Scatter(p.records, p.Plot)
		if err != nil {
			if p.logger != nil {
				p.logger.Error("scatter render", "error", err)
			}
			return
		}
		p.Scatter.ShowScatter(png)
	}
}

func (p *FramePresenter) apply(ev sessionEvent) {
	switch ev.kind {
	case eventFrameStarted:
		f := ev.frame
		rows, cols := f.Frame.Dims()
		gray := images.Grayscale(f.Frame, p.Display.Min, p.Display.Max)
		p.Overlay.Reset(gray, images.NewGeometry(rows, cols, p.Display.Width, p.Display.Aspect))
		p.Progress.OnFrame(f.Index, f.Total)
		p.Progress.OnRecord(len(f.Records))
		p.records = append(p.records[:0], f.Records...)
		p.scatterDirty = true
	case eventRegion:
		p.Overlay.AddRegion(ev.region, ev.corners)
	case eventRecord:
		p.records = append(p.records, ev.record)
		p.Progress.OnRecord(ev.total)
		p.Overlay.Invalidate()
		p.scatterDirty = true
	case eventFrameFinished:
		p.Overlay.ClearClicks()
	}
}
