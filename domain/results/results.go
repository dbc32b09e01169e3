// Package results persists the records of a measurement run.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/contrast"
)

// SidecarVersion is written into every JSON sidecar.
const SidecarVersion = 1

// DefaultSuffix is appended to the input base name.
const DefaultSuffix = "_CTR"

// ErrNoRecords is returned when there is nothing to save.
var ErrNoRecords = errors.New("no records to save")

// OutputPath derives <dir>/<base><suffix><ext> from the input path.
func OutputPath(input, suffix, ext string) string {
	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(dir, base+suffix+ext)
}

// Matrix returns the 2×M array of depths (row 0) and contrasts (row 1).
func Matrix(recs []acquisition.Record) (*mat.Dense, error) {
	if len(recs) == 0 {
		return nil, ErrNoRecords
	}
	m := mat.NewDense(2, len(recs), nil)
	for i, r := range recs {
		m.Set(0, i, r.Depth)
		m.Set(1, i, r.CTR)
	}
	return m, nil
}

// SaveNPY writes the depth/contrast array as a float64 .npy file.
func SaveNPY(path string, recs []acquisition.Record) error {
	m, err := Matrix(recs)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write npy: %w", err)
	}
	return f.Close()
}

// LoadNPY reads back an array written by SaveNPY.
func LoadNPY(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, fmt.Errorf("read npy: %w", err)
	}
	return &m, nil
}

// Sidecar is the self-describing companion of the .npy output.
type Sidecar struct {
	Version int                  `json:"version"`
	Source  string               `json:"source"`
	Records []acquisition.Record `json:"records"`
}

// sidecarRecord keeps non-finite contrasts representable in JSON.
type sidecarRecord struct {
	acquisition.Record
	CTR *float64 `json:"ctr_db"`
}

// SaveJSON writes the sidecar. Non-finite contrast values are stored as null.
func SaveJSON(path, source string, recs []acquisition.Record) error {
	if len(recs) == 0 {
		return ErrNoRecords
	}
	out := struct {
		Version int             `json:"version"`
		Source  string          `json:"source"`
		Records []sidecarRecord `json:"records"`
	}{Version: SidecarVersion, Source: source, Records: make([]sidecarRecord, len(recs))}
	for i, r := range recs {
		sr := sidecarRecord{Record: r}
		if v := r.CTR; contrast.Finite(v) {
			sr.CTR = &v
		}
		out.Records[i] = sr
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// LoadJSON reads a sidecar. A null contrast loads as NaN.
func LoadJSON(path string) (*Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in struct {
		Version int             `json:"version"`
		Source  string          `json:"source"`
		Records []sidecarRecord `json:"records"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse sidecar: %w", err)
	}
	if in.Version != SidecarVersion {
		return nil, fmt.Errorf("unsupported sidecar version %d", in.Version)
	}
	sc := &Sidecar{Version: in.Version, Source: in.Source, Records: make([]acquisition.Record, len(in.Records))}
	for i, r := range in.Records {
		rec := r.Record
		rec.CTR = math.NaN()
		if r.CTR != nil {
			rec.CTR = *r.CTR
		}
		sc.Records[i] = rec
	}
	return sc, nil
}
