package frames

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

var (
	ErrNotMAT           = errors.New("not a level 5 MAT-file")
	ErrUnsupported      = errors.New("unsupported MAT content")
	ErrVariableNotFound = errors.New("variable not found")
)

const headerLen = 128

// MAT data element types.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
)

// Array classes that carry numeric data.
const (
	mxDOUBLE = 6
	mxUINT64 = 15

	flagComplex = 0x0800
)

// Variable is a numeric array read from a MAT-file. Data is column-major,
// as stored by MATLAB.
type Variable struct {
	Name  string
	Class int
	Dims  []int
	Data  []float64
}

// ReadVariable reads the named numeric variable from a MAT-file on disk.
func ReadVariable(path, name string) (*Variable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := DecodeVariable(raw, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// DecodeVariable scans an in-memory MAT-file for the named variable. Other
// variables are skipped without decoding their data.
func DecodeVariable(raw []byte, name string) (*Variable, error) {
	order, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(raw[headerLen:])
	for {
		t, err := readTag(r, order)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
		}
		if err != nil {
			return nil, err
		}
		if t.small {
			continue
		}
		body := io.LimitReader(r, int64(t.size))
		switch t.typ {
		case miCOMPRESSED:
			zr, err := zlib.NewReader(body)
			if err != nil {
				return nil, fmt.Errorf("compressed element: %w", err)
			}
			inner, err := readTag(zr, order)
			if err != nil {
				zr.Close()
				return nil, fmt.Errorf("compressed element: %w", err)
			}
			var v *Variable
			if inner.typ == miMATRIX && inner.size > 0 {
				v, err = readMatrix(io.LimitReader(zr, int64(inner.size)), order, name)
			}
			zr.Close()
			if err != nil {
				return nil, err
			}
			if v != nil {
				return v, nil
			}
			// compressed elements are not padded
			if _, err := io.Copy(io.Discard, body); err != nil {
				return nil, err
			}
			continue
		case miMATRIX:
			if t.size > 0 {
				v, err := readMatrix(body, order, name)
				if err != nil {
					return nil, err
				}
				if v != nil {
					return v, nil
				}
			}
		}
		if _, err := io.Copy(io.Discard, body); err != nil {
			return nil, err
		}
		if err := skip(r, padding(t.size)); err != nil {
			return nil, err
		}
	}
}

func parseHeader(raw []byte) (binary.ByteOrder, error) {
	if len(raw) < headerLen {
		return nil, fmt.Errorf("%w: short header", ErrNotMAT)
	}
	text := string(raw[:116])
	if strings.HasPrefix(text, "MATLAB 7.3") {
		return nil, fmt.Errorf("%w: v7.3 (HDF5) files, re-save with -v7", ErrUnsupported)
	}
	if !strings.HasPrefix(text, "MATLAB") {
		return nil, ErrNotMAT
	}
	switch string(raw[126:128]) {
	case "IM":
		return binary.LittleEndian, nil
	case "MI":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("%w: bad endian indicator", ErrNotMAT)
}

type tag struct {
	typ   uint32
	size  uint32
	small bool
	data  [4]byte
}

func readTag(r io.Reader, order binary.ByteOrder) (tag, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return tag{}, fmt.Errorf("%w: truncated tag", ErrNotMAT)
		}
		return tag{}, err
	}
	first := order.Uint32(buf[:4])
	if hi := first >> 16; hi != 0 {
		t := tag{typ: first & 0xffff, size: hi, small: true}
		copy(t.data[:], buf[4:])
		return t, nil
	}
	return tag{typ: first, size: order.Uint32(buf[4:])}, nil
}

// readElement reads one sub-element, including its padding.
func readElement(r io.Reader, order binary.ByteOrder) (uint32, []byte, error) {
	t, err := readTag(r, order)
	if err != nil {
		return 0, nil, unexpected(err)
	}
	if t.small {
		return t.typ, t.data[:t.size], nil
	}
	b := make([]byte, t.size)
	if _, err := io.ReadFull(r, b); err != nil {
		return 0, nil, unexpected(err)
	}
	if err := skip(r, padding(t.size)); err != nil {
		return 0, nil, unexpected(err)
	}
	return t.typ, b, nil
}

// readMatrix decodes a miMATRIX body. It returns nil without error when the
// array is named differently from want.
func readMatrix(r io.Reader, order binary.ByteOrder, want string) (*Variable, error) {
	typ, flags, err := readElement(r, order)
	if err != nil {
		return nil, err
	}
	if typ != miUINT32 || len(flags) < 8 {
		return nil, fmt.Errorf("%w: bad array flags", ErrNotMAT)
	}
	word := order.Uint32(flags[:4])
	class := int(word & 0xff)

	typ, rawDims, err := readElement(r, order)
	if err != nil {
		return nil, err
	}
	if typ != miINT32 || len(rawDims)%4 != 0 {
		return nil, fmt.Errorf("%w: bad dimensions", ErrNotMAT)
	}
	dims := make([]int, len(rawDims)/4)
	for i := range dims {
		dims[i] = int(int32(order.Uint32(rawDims[i*4:])))
	}

	_, rawName, err := readElement(r, order)
	if err != nil {
		return nil, err
	}
	name := string(rawName)
	if name != want {
		return nil, nil
	}
	if class < mxDOUBLE || class > mxUINT64 {
		return nil, fmt.Errorf("%w: %q has non-numeric class %d", ErrUnsupported, name, class)
	}
	if word&flagComplex != 0 {
		return nil, fmt.Errorf("%w: %q is complex", ErrUnsupported, name)
	}

	typ, rawData, err := readElement(r, order)
	if err != nil {
		return nil, err
	}
	data, err := toFloat64(typ, rawData, order)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: %q holds %d values, dims %v need %d", ErrNotMAT, name, len(data), dims, n)
	}
	return &Variable{Name: name, Class: class, Dims: dims, Data: data}, nil
}

func toFloat64(typ uint32, b []byte, order binary.ByteOrder) ([]float64, error) {
	var width int
	switch typ {
	case miINT8, miUINT8:
		width = 1
	case miINT16, miUINT16:
		width = 2
	case miINT32, miUINT32, miSINGLE:
		width = 4
	case miDOUBLE, miINT64, miUINT64:
		width = 8
	default:
		return nil, fmt.Errorf("%w: data type %d", ErrUnsupported, typ)
	}
	if len(b)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes not a multiple of %d", ErrNotMAT, len(b), width)
	}
	out := make([]float64, len(b)/width)
	for i := range out {
		p := b[i*width:]
		switch typ {
		case miINT8:
			out[i] = float64(int8(p[0]))
		case miUINT8:
			out[i] = float64(p[0])
		case miINT16:
			out[i] = float64(int16(order.Uint16(p)))
		case miUINT16:
			out[i] = float64(order.Uint16(p))
		case miINT32:
			out[i] = float64(int32(order.Uint32(p)))
		case miUINT32:
			out[i] = float64(order.Uint32(p))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(order.Uint32(p)))
		case miDOUBLE:
			out[i] = math.Float64frombits(order.Uint64(p))
		case miINT64:
			out[i] = float64(int64(order.Uint64(p)))
		case miUINT64:
			out[i] = float64(order.Uint64(p))
		}
	}
	return out, nil
}

func padding(n uint32) int64 { return int64((8 - n%8) % 8) }

func skip(r io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated element", ErrNotMAT)
	}
	return err
}
