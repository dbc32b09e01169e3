package model

import (
	"image"
	"testing"
	"time"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/roi"
	"github.com/soocke/ctr-meter/ui/images"
)

func TestProgressModel_Lifecycle(t *testing.T) {
	m := NewProgressModel(100)
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnFrame(0, 12)
	m.OnRecord(3)
	m.OnTick(true, base.Add(5*time.Second))
	p := m.Values()
	if p.Frame != 1 || p.Frames != 12 || p.Records != 3 || p.Target != 100 {
		t.Fatalf("unexpected counters %+v", p)
	}
	if p.Elapsed != 5*time.Second {
		t.Fatalf("expected 5s elapsed, got %v", p.Elapsed)
	}

	m.OnTick(false, base.Add(7*time.Second))
	m.OnTick(false, base.Add(9*time.Second))
	if got := m.Values().Elapsed; got != 7*time.Second {
		t.Fatalf("elapsed should freeze when stopped, got %v", got)
	}

	lines := m.Values().Lines()
	if lines[0] != "img #1/12" || lines[1] != "data points #3/100" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestProgressModel_NilSafe(t *testing.T) {
	var m *ProgressModel
	m.OnFrame(1, 2)
	m.OnRecord(1)
	m.OnTick(true, time.Now())
	if m.Values() != (Progress{}) {
		t.Fatalf("nil model should report zero values")
	}
}

func TestOverlayModel_RenderOnlyWhenDirty(t *testing.T) {
	m := NewOverlayModel()
	if m.Render(nil) != nil {
		t.Fatalf("no frame yet, expected nil render")
	}
	if _, ok := m.Geometry(); ok {
		t.Fatalf("geometry should be unavailable before first frame")
	}
	m.AddClick(roi.Point{X: 1, Y: 1}) // ignored before first frame

	g := images.NewGeometry(20, 20, 40, 1)
	m.Reset(image.NewGray(image.Rect(0, 0, 20, 20)), g)
	if img := m.Render([]string{"img #1/1"}); img == nil || img.Bounds().Dx() != 40 {
		t.Fatalf("expected 40px wide render")
	}
	if m.Render(nil) != nil {
		t.Fatalf("second render without changes should be nil")
	}

	m.AddClick(roi.Point{X: 2, Y: 2})
	m.AddRegion(acquisition.Signal, roi.CornersOf(roi.Point{X: 2, Y: 2}, roi.Point{X: 8, Y: 8}))
	m.AddRegion(acquisition.Background, roi.CornersOf(roi.Point{X: 10, Y: 10}, roi.Point{X: 15, Y: 15}))
	if m.Outlines() != 2 {
		t.Fatalf("expected 2 outlines, got %d", m.Outlines())
	}
	if m.Render(nil) == nil {
		t.Fatalf("expected redraw after regions added")
	}

	m.Reset(image.NewGray(image.Rect(0, 0, 20, 20)), g)
	if m.Outlines() != 0 {
		t.Fatalf("reset should clear outlines")
	}
}
