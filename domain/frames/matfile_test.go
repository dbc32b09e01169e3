package frames

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// matWriter assembles level 5 MAT-files for tests.
type matWriter struct {
	order binary.ByteOrder
	buf   bytes.Buffer
}

func newMatWriter(order binary.ByteOrder) *matWriter {
	w := &matWriter{order: order}
	hdr := make([]byte, headerLen)
	copy(hdr, "MATLAB 5.0 MAT-file, created by tests")
	for i := len("MATLAB 5.0 MAT-file, created by tests"); i < 116; i++ {
		hdr[i] = ' '
	}
	order.PutUint16(hdr[124:], 0x0100)
	if order == binary.LittleEndian {
		copy(hdr[126:], "IM")
	} else {
		copy(hdr[126:], "MI")
	}
	w.buf.Write(hdr)
	return w
}

func (w *matWriter) element(typ uint32, data []byte) []byte {
	var out bytes.Buffer
	if len(data) <= 4 && typ != miMATRIX {
		var t [8]byte
		w.order.PutUint32(t[:4], uint32(len(data))<<16|typ)
		copy(t[4:], data)
		out.Write(t[:])
		return out.Bytes()
	}
	var t [8]byte
	w.order.PutUint32(t[:4], typ)
	w.order.PutUint32(t[4:], uint32(len(data)))
	out.Write(t[:])
	out.Write(data)
	out.Write(make([]byte, padding(uint32(len(data)))))
	return out.Bytes()
}

func (w *matWriter) matrix(name string, class int, dims []int, dataType uint32, data []byte) []byte {
	flags := make([]byte, 8)
	w.order.PutUint32(flags, uint32(class))
	rawDims := make([]byte, 4*len(dims))
	for i, d := range dims {
		w.order.PutUint32(rawDims[i*4:], uint32(d))
	}
	var body bytes.Buffer
	body.Write(w.element(miUINT32, flags))
	body.Write(w.element(miINT32, rawDims))
	body.Write(w.element(miINT8, []byte(name)))
	body.Write(w.element(dataType, data))
	return w.element(miMATRIX, body.Bytes())
}

func (w *matWriter) add(elem []byte) { w.buf.Write(elem) }

func (w *matWriter) addCompressed(elem []byte) {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write(elem)
	zw.Close()
	var t [8]byte
	w.order.PutUint32(t[:4], miCOMPRESSED)
	w.order.PutUint32(t[4:], uint32(z.Len()))
	w.buf.Write(t[:])
	w.buf.Write(z.Bytes())
}

func (w *matWriter) doubles(vs []float64) []byte {
	b := make([]byte, 8*len(vs))
	for i, v := range vs {
		w.order.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b
}

func (w *matWriter) int16s(vs []int16) []byte {
	b := make([]byte, 2*len(vs))
	for i, v := range vs {
		w.order.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

// seq returns 0..n-1 as floats.
func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestDecodeVariable_FourDimensional(t *testing.T) {
	w := newMatWriter(binary.LittleEndian)
	w.add(w.matrix("RData", mxDOUBLE, []int{3, 2, 2, 2}, miDOUBLE, w.doubles(seq(24))))
	v, err := DecodeVariable(w.buf.Bytes(), "RData")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v.Dims) != 4 || v.Dims[3] != 2 || len(v.Data) != 24 {
		t.Fatalf("unexpected variable dims=%v len=%d", v.Dims, len(v.Data))
	}
	s, err := NewStack(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 frames got %d", s.Len())
	}
	f, err := s.Frame(1)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := f.Dims()
	if rows != 3 || cols != 2 {
		t.Fatalf("expected 3x2 frame got %dx%d", rows, cols)
	}
	// frame 1, channel 0 starts at 3*2*2 = 12 in column-major order
	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			if got, want := f.At(r, c), float64(12+r+3*c); got != want {
				t.Fatalf("frame(1)[%d,%d]=%v want %v", r, c, got, want)
			}
		}
	}
}

func TestDecodeVariable_CompressedSkipsOtherVariables(t *testing.T) {
	w := newMatWriter(binary.LittleEndian)
	w.addCompressed(w.matrix("decoy", mxDOUBLE, []int{1, 3}, miDOUBLE, w.doubles([]float64{9, 9, 9})))
	w.addCompressed(w.matrix("RData", mxINT16ForTest, []int{2, 2, 1, 1}, miINT16, w.int16s([]int16{-1, 2, -3, 4})))
	v, err := DecodeVariable(w.buf.Bytes(), "RData")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []float64{-1, 2, -3, 4}
	for i := range want {
		if v.Data[i] != want[i] {
			t.Fatalf("data[%d]=%v want %v", i, v.Data[i], want[i])
		}
	}
}

const mxINT16ForTest = 10

func TestDecodeVariable_BigEndian(t *testing.T) {
	w := newMatWriter(binary.BigEndian)
	w.add(w.matrix("img", mxDOUBLE, []int{2, 2}, miDOUBLE, w.doubles([]float64{1.5, 2.5, 3.5, 4.5})))
	v, err := DecodeVariable(w.buf.Bytes(), "img")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s, err := NewStack(v)
	if err != nil {
		t.Fatal(err)
	}
	f, err := s.Frame(0)
	if err != nil {
		t.Fatal(err)
	}
	if f.At(0, 1) != 3.5 || f.At(1, 0) != 2.5 {
		t.Fatalf("column-major layout not honoured: %v %v", f.At(0, 1), f.At(1, 0))
	}
}

func TestDecodeVariable_NotFound(t *testing.T) {
	w := newMatWriter(binary.LittleEndian)
	w.add(w.matrix("other", mxDOUBLE, []int{1, 1}, miDOUBLE, w.doubles([]float64{1})))
	_, err := DecodeVariable(w.buf.Bytes(), "RData")
	if !errors.Is(err, ErrVariableNotFound) {
		t.Fatalf("expected ErrVariableNotFound, got %v", err)
	}
}

func TestDecodeVariable_RejectsHDF5AndGarbage(t *testing.T) {
	hdr := make([]byte, headerLen)
	copy(hdr, "MATLAB 7.3 MAT-file, Platform: GLNXA64")
	if _, err := DecodeVariable(hdr, "RData"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for v7.3, got %v", err)
	}
	if _, err := DecodeVariable([]byte("hello"), "RData"); !errors.Is(err, ErrNotMAT) {
		t.Fatalf("expected ErrNotMAT for short input, got %v", err)
	}
	junk := bytes.Repeat([]byte{'x'}, headerLen)
	if _, err := DecodeVariable(junk, "RData"); !errors.Is(err, ErrNotMAT) {
		t.Fatalf("expected ErrNotMAT for junk, got %v", err)
	}
}

func TestDecodeVariable_Truncated(t *testing.T) {
	w := newMatWriter(binary.LittleEndian)
	w.add(w.matrix("RData", mxDOUBLE, []int{2, 2}, miDOUBLE, w.doubles([]float64{1, 2, 3, 4})))
	raw := w.buf.Bytes()
	_, err := DecodeVariable(raw[:len(raw)-12], "RData")
	if !errors.Is(err, ErrNotMAT) {
		t.Fatalf("expected ErrNotMAT for truncated data, got %v", err)
	}
}

func TestStack_FrameIndexAndOpen(t *testing.T) {
	w := newMatWriter(binary.LittleEndian)
	w.add(w.matrix("RData", mxDOUBLE, []int{2, 2, 1, 3}, miDOUBLE, w.doubles(seq(12))))
	path := filepath.Join(t.TempDir(), "stack.mat")
	if err := os.WriteFile(path, w.buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, "RData", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", s.Len())
	}
	if _, err := s.Frame(3); !errors.Is(err, ErrFrameIndex) {
		t.Fatalf("expected ErrFrameIndex, got %v", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mat"), "RData", nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
