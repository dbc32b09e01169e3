package results

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/ctr-meter/domain/acquisition"
)

func sampleRecords() []acquisition.Record {
	return []acquisition.Record{
		{Depth: 120, CTR: -12.5, Frame: 0, SignalX: [4]float64{1, 1, 5, 5}, SignalY: [4]float64{118, 122, 122, 118}},
		{Depth: 240.5, CTR: -30.25, Frame: 1},
		{Depth: 300, CTR: math.Inf(1), Frame: 2},
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "scan_01_CTR.npy"), OutputPath(filepath.Join("data", "scan_01.mat"), DefaultSuffix, ".npy"))
	assert.Equal(t, "scan_CTR.png", OutputPath("scan.mat", "_CTR", "png"))
	assert.Equal(t, filepath.Join("a.b", "noext_x.json"), OutputPath(filepath.Join("a.b", "noext"), "_x", ".json"))
}

func TestMatrixLayout(t *testing.T) {
	m, err := Matrix(sampleRecords())
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 240.5, m.At(0, 1))
	assert.Equal(t, -30.25, m.At(1, 1))

	_, err = Matrix(nil)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestSaveNPY_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out_CTR.npy")
	require.NoError(t, SaveNPY(path, sampleRecords()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 10)
	assert.Equal(t, "\x93NUMPY", string(raw[:6]))

	m, err := LoadNPY(path)
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, [2]int{2, 3}, [2]int{r, c})
	assert.Equal(t, 120.0, m.At(0, 0))
	assert.Equal(t, -12.5, m.At(1, 0))
	assert.True(t, math.IsInf(m.At(1, 2), 1), "sentinel kept in the array")
}

func TestSaveNPY_Empty(t *testing.T) {
	err := SaveNPY(filepath.Join(t.TempDir(), "x.npy"), nil)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out_CTR.json")
	require.NoError(t, SaveJSON(path, "scan.mat", sampleRecords()))

	sc, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, SidecarVersion, sc.Version)
	assert.Equal(t, "scan.mat", sc.Source)
	require.Len(t, sc.Records, 3)
	assert.Equal(t, sampleRecords()[0], sc.Records[0])
	assert.True(t, math.IsNaN(sc.Records[2].CTR), "non-finite contrast stored as null")
	assert.Equal(t, 300.0, sc.Records[2].Depth)
}

func TestLoadJSON_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v2.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"records":[]}`), 0o644))
	_, err := LoadJSON(path)
	assert.Error(t, err)
}
