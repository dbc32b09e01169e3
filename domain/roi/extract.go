package roi

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrOutOfBounds is returned when a selection reaches outside the frame.
var ErrOutOfBounds = errors.New("roi outside frame bounds")

// Point is a position in frame pixel coordinates (X = column, Y = row).
// Clicks are sub-pixel, so both components are floats.
type Point struct {
	X, Y float64
}

// Sum returns X+Y.
func (p Point) Sum() float64 { return p.X + p.Y }

// Region is a rectangular sub-image selected by two diagonal corners.
type Region struct {
	// Rect is the integer slice window within the frame (Max exclusive).
	Rect image.Rectangle
	// Values holds the pixels inside Rect in row-major order.
	Values []float64
	// Corners trace the selection (x1,y1)-(x1,y2)-(x2,y2)-(x2,y1).
	Corners [4]Point
}

// Rows returns the region height in pixels.
func (r Region) Rows() int { return r.Rect.Dy() }

// Cols returns the region width in pixels.
func (r Region) Cols() int { return r.Rect.Dx() }

// Empty reports whether the region holds no pixels.
func (r Region) Empty() bool { return len(r.Values) == 0 }

// XS returns the x coordinates of the four corners.
func (r Region) XS() [4]float64 {
	return [4]float64{r.Corners[0].X, r.Corners[1].X, r.Corners[2].X, r.Corners[3].X}
}

// YS returns the y coordinates of the four corners.
func (r Region) YS() [4]float64 {
	return [4]float64{r.Corners[0].Y, r.Corners[1].Y, r.Corners[2].Y, r.Corners[3].Y}
}

// Depth is the mean y of the corners, used as the vertical position of a target.
func (r Region) Depth() float64 {
	ys := r.YS()
	return (ys[0] + ys[1] + ys[2] + ys[3]) / 4
}

// CornersOf returns the rectangle outline for two diagonal points, in drawing order.
func CornersOf(a, b Point) [4]Point {
	return [4]Point{{a.X, a.Y}, {a.X, b.Y}, {b.X, b.Y}, {b.X, a.Y}}
}

// Bounds returns the integer window covering two diagonal points: the floor of
// each minimum and the ceiling of each maximum.
func Bounds(a, b Point) image.Rectangle {
	x0 := int(math.Floor(math.Min(a.X, b.X)))
	x1 := int(math.Ceil(math.Max(a.X, b.X)))
	y0 := int(math.Floor(math.Min(a.Y, b.Y)))
	y1 := int(math.Ceil(math.Max(a.Y, b.Y)))
	return image.Rect(x0, y0, x1, y1)
}

// Extract copies the rectangle spanned by a and b out of frame.
// Points may be given in any diagonal order. A selection narrower than one
// pixel in either axis yields an empty region.
func Extract(frame mat.Matrix, a, b Point) (Region, error) {
	if frame == nil {
		return Region{}, errors.New("nil frame")
	}
	for _, p := range []Point{a, b} {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Region{}, fmt.Errorf("%w: non-finite point %v", ErrOutOfBounds, p)
		}
	}
	rect := Bounds(a, b)
	rows, cols := frame.Dims()
	if rect.Min.X < 0 || rect.Min.Y < 0 || rect.Max.X > cols || rect.Max.Y > rows {
		return Region{}, fmt.Errorf("%w: %v not within %dx%d", ErrOutOfBounds, rect, cols, rows)
	}
	out := Region{Rect: rect, Corners: CornersOf(a, b)}
	if rect.Empty() {
		return out, nil
	}
	out.Values = make([]float64, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			out.Values = append(out.Values, frame.At(y, x))
		}
	}
	return out, nil
}
