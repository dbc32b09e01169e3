package images

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/soocke/ctr-meter/domain/roi"
)

// Overlay colours.
var (
	SignalColor     = color.RGBA{R: 0xff, A: 0xff}
	BackgroundColor = color.RGBA{B: 0xff, A: 0xff}
	GuideColor      = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	ClickColor      = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
)

// StopMarker is the frame position of the upper-left corner marker.
var StopMarker = roi.Point{X: 0.5, Y: 3}

// Outline is a selection rectangle traced by its four corners.
type Outline struct {
	Corners [4]roi.Point
	Color   color.Color
}

// Annotations describe everything drawn on top of the frame.
type Annotations struct {
	Lines    []string    // progress text, top-left
	Outlines []Outline   // completed selections
	Clicks   []roi.Point // clicks of a pair in progress
	Guide    bool        // vertical centre line
	Marker   bool        // upper-left stop marker
}

// Compose scales base to the geometry and draws the annotations on it.
func Compose(base image.Image, g Geometry, a Annotations) *image.RGBA {
	w, h := g.Size()
	dst := Resize(base, w, h)
	z := vector.NewRasterizer(w, h)

	if a.Guide {
		x, _ := g.ToScreen(roi.Point{X: float64(g.Cols) / 2})
		stroke(z, dst, GuideColor, 1, [2]float64{x, 0}, [2]float64{x, float64(h)})
	}
	for _, o := range a.Outlines {
		var pts [4][2]float64
		for i, c := range o.Corners {
			x, y := g.ToScreen(c)
			pts[i] = [2]float64{x, y}
		}
		for i := range pts {
			stroke(z, dst, o.Color, 1.5, pts[i], pts[(i+1)%4])
		}
	}
	for _, c := range a.Clicks {
		x, y := g.ToScreen(c)
		stroke(z, dst, ClickColor, 1.5, [2]float64{x - 4, y}, [2]float64{x + 4, y})
		stroke(z, dst, ClickColor, 1.5, [2]float64{x, y - 4}, [2]float64{x, y + 4})
	}
	if a.Marker {
		x, y := g.ToScreen(StopMarker)
		const r = 5
		draw.Draw(dst, image.Rect(int(x-r), int(y-r), int(x+r), int(y+r)), image.Black, image.Point{}, draw.Src)
		red := color.RGBA{R: 0xff, A: 0xff}
		stroke(z, dst, red, 1.2, [2]float64{x - r + 1, y - r + 1}, [2]float64{x + r - 1, y + r - 1})
		stroke(z, dst, red, 1.2, [2]float64{x - r + 1, y + r - 1}, [2]float64{x + r - 1, y - r + 1})
	}
	drawLines(dst, a.Lines, 14)
	return dst
}

// stroke rasterizes a segment of the given width as a filled quad.
func stroke(z *vector.Rasterizer, dst *image.RGBA, c color.Color, width float64, a, b [2]float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	nx, ny := -dy/n*width/2, dx/n*width/2
	b0 := dst.Bounds()
	z.Reset(b0.Dx(), b0.Dy())
	z.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
	z.LineTo(float32(b[0]+nx), float32(b[1]+ny))
	z.LineTo(float32(b[0]-nx), float32(b[1]-ny))
	z.LineTo(float32(a[0]-nx), float32(a[1]-ny))
	z.ClosePath()
	z.Draw(dst, b0, image.NewUniform(c), image.Point{})
}

// drawLines prints white text on black boxes below the stop marker, one line
// every lineH pixels.
func drawLines(dst *image.RGBA, lines []string, lineH int) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	for i, s := range lines {
		if s == "" {
			continue
		}
		top := 18 + i*(lineH+2)
		adv := d.MeasureString(s).Ceil()
		box := image.Rect(2, top, 2+adv+4, top+lineH)
		draw.Draw(dst, box, image.Black, image.Point{}, draw.Src)
		d.Dot = fixed.P(box.Min.X+2, box.Min.Y+face.Ascent)
		d.DrawString(s)
	}
}
