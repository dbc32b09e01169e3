package app

import (
	"log/slog"

	"github.com/soocke/ctr-meter/config"
	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/frames"
	"github.com/soocke/ctr-meter/ui/model"
	"github.com/soocke/ctr-meter/ui/plots"
	"github.com/soocke/ctr-meter/ui/presenter"
	"github.com/soocke/ctr-meter/ui/view"
)

// AppContainer assembles models, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	Progress *model.ProgressModel
	Overlay  *model.OverlayModel
	Clicks   *presenter.ClickSource
	RootView *view.RootView
	UI       view.UI

	// Presenters
	StatePresenter    *presenter.StatePresenter
	ProgressPresenter *presenter.ProgressPresenter
	FramePresenter    *presenter.FramePresenter
	RunPresenter      *presenter.RunPresenter
	ResultPresenter   *presenter.ResultPresenter
	Loop              *presenter.Loop

	// openFrames is swapped in tests.
	openFrames func(path, variable string, logger *slog.Logger) (frames.Source, error)
}

// BuildContainer constructs all components. Nothing touches the input file
// until a run is started.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) *AppContainer {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	c.openFrames = func(path, variable string, logger *slog.Logger) (frames.Source, error) {
		return frames.Open(path, variable, logger)
	}

	c.Progress = model.NewProgressModel(cfg.TargetPoints)
	c.Overlay = model.NewOverlayModel()
	c.Clicks = presenter.NewClickSource()

	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	c.StatePresenter = presenter.NewStatePresenter(c.UI)
	c.FramePresenter = presenter.NewFramePresenter(c.Overlay, c.Progress, c.UI, c.UI, c.Clicks, c.display(), c.plotOptions(), logger)
	c.ResultPresenter = presenter.NewResultPresenter(c.exportOptions(), c.UI, logger)
	c.RunPresenter = presenter.NewRunPresenter(c.newRunner, c.UI, c.Clicks, c.ResultPresenter.Finish, logger)
	c.ProgressPresenter = presenter.NewProgressPresenter(c.Progress, c.RunPresenter, c.UI)
	c.Loop = presenter.NewLoop(c.StatePresenter, c.ProgressPresenter, c.FramePresenter, c.RunPresenter, nil)
	return c
}

// newRunner opens the frame stack and builds a session from the current
// config. The config panel may have changed values since BuildContainer.
func (c *AppContainer) newRunner() (presenter.Runner, error) {
	cfg := c.Config
	src, err := c.openFrames(cfg.InputFile, cfg.Variable, c.Logger)
	if err != nil {
		return nil, err
	}
	c.FramePresenter.Display = c.display()
	c.FramePresenter.Plot = c.plotOptions()
	c.ResultPresenter.SetOptions(c.exportOptions())
	c.Progress.SetTarget(cfg.TargetPoints)

	s := acquisition.NewSession(src, c.Clicks, acquisition.Options{
		TargetPoints:      cfg.TargetPoints,
		StopOnOriginClick: cfg.StopOnOriginClick,
		StopThreshold:     cfg.StopThreshold,
	}, c.Logger)
	s.SetObserver(c.FramePresenter)
	s.AddListener(c.StatePresenter.OnState)
	if c.Logger != nil {
		c.Logger.Info("run prepared", "file", cfg.InputFile, "frames", src.Len(), "target", cfg.TargetPoints)
	}
	return s, nil
}

func (c *AppContainer) display() presenter.Display {
	return presenter.Display{
		Min:    c.Config.DisplayMin,
		Max:    c.Config.DisplayMax,
		Aspect: c.Config.Aspect,
		Width:  c.Config.DisplayWidth,
	}
}

func (c *AppContainer) plotOptions() plots.Options {
	o := plots.DefaultOptions()
	o.XMax = c.Config.ScatterXMax
	o.YMin = c.Config.ScatterYMin
	o.YMax = c.Config.ScatterYMax
	return o
}

func (c *AppContainer) exportOptions() presenter.ExportOptions {
	return presenter.ExportOptions{
		Input:    c.Config.InputFile,
		Suffix:   c.Config.OutputSuffix,
		BinWidth: c.Config.BinWidth,
		Plot:     plots.DefaultOptions(),
	}
}
