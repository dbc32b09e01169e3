// Package frames loads multi-frame image stacks from MATLAB MAT-files.
package frames

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// ErrFrameIndex is returned for a frame index outside the stack.
var ErrFrameIndex = errors.New("frame index out of range")

// Source provides read-only frames by index.
type Source interface {
	Len() int
	Frame(i int) (*mat.Dense, error)
}

// Stack is a [rows, cols, channels, frames] array. Frames are taken from a
// single channel.
type Stack struct {
	name     string
	rows     int
	cols     int
	channels int
	count    int
	channel  int
	data     []float64 // column-major
}

// Open reads variable from the MAT-file at path and wraps it as a Stack.
func Open(path, variable string, logger *slog.Logger) (*Stack, error) {
	v, err := ReadVariable(path, variable)
	if err != nil {
		return nil, err
	}
	s, err := NewStack(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if logger != nil {
		logger.Info("frames loaded", "path", path, "variable", variable, "rows", s.rows, "cols", s.cols, "channels", s.channels, "frames", s.count)
	}
	return s, nil
}

// NewStack interprets v as a frame stack. Two-dimensional arrays are a single
// frame; three-dimensional arrays are [rows, cols, frames].
func NewStack(v *Variable) (*Stack, error) {
	if v == nil {
		return nil, errors.New("nil variable")
	}
	dims := v.Dims
	s := &Stack{name: v.Name, data: v.Data, channels: 1, count: 1}
	switch len(dims) {
	case 2:
		s.rows, s.cols = dims[0], dims[1]
	case 3:
		s.rows, s.cols, s.count = dims[0], dims[1], dims[2]
	case 4:
		s.rows, s.cols, s.channels, s.count = dims[0], dims[1], dims[2], dims[3]
	default:
		return nil, fmt.Errorf("%w: %q has %d dimensions", ErrUnsupported, v.Name, len(dims))
	}
	if s.rows <= 0 || s.cols <= 0 || s.channels <= 0 {
		return nil, fmt.Errorf("%w: %q has empty frame dims %v", ErrUnsupported, v.Name, dims)
	}
	return s, nil
}

// Len returns the number of frames.
func (s *Stack) Len() int { return s.count }

// Dims returns the frame height and width.
func (s *Stack) Dims() (rows, cols int) { return s.rows, s.cols }

// Frame copies frame i of channel 0 into a row-major matrix.
func (s *Stack) Frame(i int) (*mat.Dense, error) {
	if i < 0 || i >= s.count {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrFrameIndex, i, s.count)
	}
	base := s.rows * s.cols * (s.channel + s.channels*i)
	out := mat.NewDense(s.rows, s.cols, nil)
	for c := 0; c < s.cols; c++ {
		col := s.data[base+c*s.rows : base+(c+1)*s.rows]
		for r, v := range col {
			out.Set(r, c, v)
		}
	}
	return out, nil
}

var _ Source = (*Stack)(nil)
