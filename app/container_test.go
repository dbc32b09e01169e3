package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/soocke/ctr-meter/config"
	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/frames"
	"github.com/soocke/ctr-meter/domain/roi"
)

type fakeFrames struct{ n int }

func (f fakeFrames) Len() int { return f.n }
func (f fakeFrames) Frame(i int) (*mat.Dense, error) {
	return mat.NewDense(40, 40, nil), nil
}

func TestBuildContainer_WiresPresenters(t *testing.T) {
	c := BuildContainer(config.DefaultConfig(), nil, "")
	require.NotNil(t, c.Loop)
	assert.Same(t, c.FramePresenter, c.Loop.Frames)
	assert.Same(t, c.RunPresenter, c.Loop.Run)
	assert.Equal(t, 100, c.Progress.Values().Target)
	assert.False(t, c.RunPresenter.Running())
}

func TestNewRunner_UsesCurrentConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	c := BuildContainer(cfg, nil, "")
	var opened string
	c.openFrames = func(path, variable string, _ *slog.Logger) (frames.Source, error) {
		opened = path + ":" + variable
		return fakeFrames{n: 2}, nil
	}

	// Edits made after construction, as the config panel would.
	cfg.InputFile = "scan.mat"
	cfg.TargetPoints = 3
	cfg.DisplayWidth = 300
	cfg.ScatterXMax = 80

	r, err := c.newRunner()
	require.NoError(t, err)
	assert.Equal(t, "scan.mat:RData", opened)
	assert.Equal(t, 3, c.Progress.Values().Target)
	assert.Equal(t, 300, c.FramePresenter.Display.Width)
	assert.Equal(t, 80.0, c.FramePresenter.Plot.XMax)

	// The session reads points from the container's click source.
	c.Clicks.Arm(true)
	c.Clicks.Click(roi.Point{X: 1, Y: 1})
	c.Clicks.Click(roi.Point{X: 5, Y: 5})
	c.Clicks.Click(roi.Point{X: 1, Y: 20})
	c.Clicks.Click(roi.Point{X: 5, Y: 24})
	c.Clicks.Done()
	c.Clicks.Done()
	recs, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, acquisition.StateFinished, r.(*acquisition.Session).Current())
}

func TestNewRunner_OpenError(t *testing.T) {
	c := BuildContainer(config.DefaultConfig(), nil, "")
	boom := errors.New("no such file")
	c.openFrames = func(string, string, *slog.Logger) (frames.Source, error) { return nil, boom }
	_, err := c.newRunner()
	assert.ErrorIs(t, err, boom)
}
