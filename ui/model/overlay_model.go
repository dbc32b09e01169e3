package model

import (
	"image"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/roi"
	"github.com/soocke/ctr-meter/ui/images"
)

// OverlayModel holds the frame on screen and what is drawn over it.
// No synchronization needed: updates occur on the UI thread tick.
type OverlayModel struct {
	base     image.Image
	geom     images.Geometry
	outlines []images.Outline
	clicks   []roi.Point
	dirty    bool
}

func NewOverlayModel() *OverlayModel { return &OverlayModel{} }

// Reset installs a new frame and clears all overlays.
func (m *OverlayModel) Reset(base image.Image, g images.Geometry) {
	if m == nil {
		return
	}
	m.base, m.geom = base, g
	m.outlines = m.outlines[:0]
	m.clicks = m.clicks[:0]
	m.dirty = true
}

// Geometry returns the mapping of the frame on screen. ok is false before the
// first frame.
func (m *OverlayModel) Geometry() (g images.Geometry, ok bool) {
	if m == nil || m.base == nil {
		return images.Geometry{}, false
	}
	return m.geom, true
}

// AddClick marks a pending corner.
func (m *OverlayModel) AddClick(p roi.Point) {
	if m == nil || m.base == nil {
		return
	}
	m.clicks = append(m.clicks, p)
	m.dirty = true
}

// AddRegion outlines a completed selection and drops the pending corners.
func (m *OverlayModel) AddRegion(kind acquisition.RegionKind, corners [4]roi.Point) {
	if m == nil || m.base == nil {
		return
	}
	c := images.SignalColor
	if kind == acquisition.Background {
		c = images.BackgroundColor
	}
	m.outlines = append(m.outlines, images.Outline{Corners: corners, Color: c})
	m.clicks = m.clicks[:0]
	m.dirty = true
}

// ClearClicks drops pending corners, e.g. after a frame-done gesture.
func (m *OverlayModel) ClearClicks() {
	if m == nil || len(m.clicks) == 0 {
		return
	}
	m.clicks = m.clicks[:0]
	m.dirty = true
}

// Outlines returns the number of completed selections on the current frame.
func (m *OverlayModel) Outlines() int {
	if m == nil {
		return 0
	}
	return len(m.outlines)
}

// Invalidate forces the next Render to redraw, e.g. when progress text changes.
func (m *OverlayModel) Invalidate() {
	if m != nil {
		m.dirty = true
	}
}

// Render composes the frame with its overlays. It returns nil when nothing
// changed since the last call.
func (m *OverlayModel) Render(lines []string) *image.RGBA {
	if m == nil || m.base == nil || !m.dirty {
		return nil
	}
	m.dirty = false
	return images.Compose(m.base, m.geom, images.Annotations{
		Lines:    lines,
		Outlines: m.outlines,
		Clicks:   m.clicks,
		Guide:    true,
		Marker:   true,
	})
}
