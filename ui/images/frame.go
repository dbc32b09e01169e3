package images

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/soocke/ctr-meter/domain/roi"
)

// Grayscale maps frame values linearly onto 0..255, clamping outside [lo, hi].
// NaN renders black.
func Grayscale(frame mat.Matrix, lo, hi float64) *image.Gray {
	rows, cols := frame.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for r := 0; r < rows; r++ {
		off := r * img.Stride
		for c := 0; c < cols; c++ {
			v := (frame.At(r, c) - lo) / span
			switch {
			case math.IsNaN(v) || v <= 0:
				img.Pix[off+c] = 0
			case v >= 1:
				img.Pix[off+c] = 255
			default:
				img.Pix[off+c] = uint8(v*255 + 0.5)
			}
		}
	}
	return img
}

// Geometry maps between frame coordinates and the on-screen frame image.
// Pixel centres sit on integer frame coordinates, so pixel i spans
// [i-0.5, i+0.5) along each axis.
type Geometry struct {
	Rows, Cols     int
	ScaleX, ScaleY float64 // screen pixels per frame pixel
}

// NewGeometry sizes a frame of rows x cols to the given screen width. aspect is
// the height of one frame pixel relative to its width.
func NewGeometry(rows, cols, width int, aspect float64) Geometry {
	if cols < 1 {
		cols = 1
	}
	if width < 1 {
		width = cols
	}
	if aspect <= 0 {
		aspect = 1
	}
	sx := float64(width) / float64(cols)
	return Geometry{Rows: rows, Cols: cols, ScaleX: sx, ScaleY: sx * aspect}
}

// Size returns the screen size of the frame image.
func (g Geometry) Size() (w, h int) {
	w = max(int(math.Round(float64(g.Cols)*g.ScaleX)), 1)
	h = max(int(math.Round(float64(g.Rows)*g.ScaleY)), 1)
	return w, h
}

// ToFrame converts a screen position within the frame image to frame
// coordinates, clamped to [0, Cols] x [0, Rows]. The half-pixel margin of the
// edge pixels therefore maps onto the frame, not outside it.
func (g Geometry) ToFrame(px, py int) roi.Point {
	return roi.Point{
		X: clamp((float64(px)+0.5)/g.ScaleX-0.5, 0, float64(g.Cols)),
		Y: clamp((float64(py)+0.5)/g.ScaleY-0.5, 0, float64(g.Rows)),
	}
}

func clamp(v, lo, hi float64) float64 { return min(max(v, lo), hi) }

// ToScreen converts frame coordinates to a screen position (float, sub-pixel).
func (g Geometry) ToScreen(p roi.Point) (x, y float64) {
	return (p.X + 0.5) * g.ScaleX, (p.Y + 0.5) * g.ScaleY
}
