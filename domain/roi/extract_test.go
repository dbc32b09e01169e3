package roi

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// ramp returns a rows x cols frame where each pixel holds row*100+col.
func ramp(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.Set(y, x, float64(y*100+x))
		}
	}
	return m
}

func TestExtract_ShapeFollowsFloorCeil(t *testing.T) {
	frame := ramp(50, 60)
	cases := []struct{ a, b Point }{
		{Point{10.2, 5.7}, Point{20.9, 15.1}},
		{Point{20.9, 15.1}, Point{10.2, 5.7}},
		{Point{10.2, 15.1}, Point{20.9, 5.7}},
		{Point{20.9, 5.7}, Point{10.2, 15.1}},
	}
	for _, c := range cases {
		r, err := Extract(frame, c.a, c.b)
		if err != nil {
			t.Fatalf("extract %v %v: %v", c.a, c.b, err)
		}
		// ceil(15.1)-floor(5.7)=11 rows, ceil(20.9)-floor(10.2)=11 cols
		if r.Rows() != 11 || r.Cols() != 11 {
			t.Fatalf("expected 11x11 got %dx%d for %v %v", r.Rows(), r.Cols(), c.a, c.b)
		}
		if len(r.Values) != 121 {
			t.Fatalf("expected 121 values got %d", len(r.Values))
		}
		if r.Values[0] != frame.At(5, 10) {
			t.Fatalf("first value %v, want %v", r.Values[0], frame.At(5, 10))
		}
		if last := r.Values[len(r.Values)-1]; last != frame.At(15, 20) {
			t.Fatalf("last value %v, want %v", last, frame.At(15, 20))
		}
	}
}

func TestExtract_CornersTraceSameRectangle(t *testing.T) {
	frame := ramp(40, 40)
	a, b := Point{3, 4}, Point{12, 30}
	r1, err := Extract(frame, a, b)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Extract(frame, b, a)
	if err != nil {
		t.Fatal(err)
	}
	want := [4]Point{{3, 4}, {3, 30}, {12, 30}, {12, 4}}
	if r1.Corners != want {
		t.Fatalf("unexpected corner order %v", r1.Corners)
	}
	set := func(cs [4]Point) map[Point]bool {
		m := map[Point]bool{}
		for _, c := range cs {
			m[c] = true
		}
		return m
	}
	s1, s2 := set(r1.Corners), set(r2.Corners)
	for p := range s1 {
		if !s2[p] {
			t.Fatalf("corner %v missing when points swapped: %v", p, r2.Corners)
		}
	}
	if r1.Rect != r2.Rect {
		t.Fatalf("rects differ: %v vs %v", r1.Rect, r2.Rect)
	}
}

func TestExtract_OutOfBounds(t *testing.T) {
	frame := ramp(10, 10)
	_, err := Extract(frame, Point{5, 5}, Point{10.5, 8})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	_, err = Extract(frame, Point{-0.5, 1}, Point{3, 3})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds for negative x, got %v", err)
	}
}

func TestExtract_FullFrameEdgeIsInBounds(t *testing.T) {
	frame := ramp(10, 10)
	r, err := Extract(frame, Point{0, 0}, Point{10, 10})
	if err != nil {
		t.Fatalf("full frame selection: %v", err)
	}
	if r.Rows() != 10 || r.Cols() != 10 {
		t.Fatalf("expected 10x10 got %dx%d", r.Rows(), r.Cols())
	}
}

func TestExtract_ZeroWidthIsEmpty(t *testing.T) {
	frame := ramp(10, 10)
	r, err := Extract(frame, Point{4, 2}, Point{4, 7})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Empty() || r.Cols() != 0 {
		t.Fatalf("expected empty region, got %d values", len(r.Values))
	}
}

func TestRegion_DepthIsMeanOfYCorners(t *testing.T) {
	frame := ramp(100, 100)
	r, err := Extract(frame, Point{10, 20}, Point{30, 60})
	if err != nil {
		t.Fatal(err)
	}
	if d := r.Depth(); d != 40 {
		t.Fatalf("expected depth 40, got %v", d)
	}
}
