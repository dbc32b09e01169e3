package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/ctr-meter/config"
	"github.com/soocke/ctr-meter/ui/theme"
	"github.com/soocke/ctr-meter/ui/view"
)

const (
	tick = 100 * time.Millisecond
)

type app struct {
	container *AppContainer
	logger    *slog.Logger
	afterID   string
	closed    bool
}

func NewApp(title string, width, height int, cfg *config.Config, logger *slog.Logger) *app {
	a := &app{logger: logger}
	a.container = BuildContainer(cfg, logger, cfg.ConfigFile)
	a.container.Loop.Schedule = a.scheduleUpdate

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

func (a *app) Start() {
	theme.InitStyles()
	c := a.container
	c.RootView.Build(view.Handlers{
		Start:     c.RunPresenter.Start,
		NextFrame: c.FramePresenter.OnNextFrame,
		Exit:      a.exitHandler,
		Click:     c.FramePresenter.OnClick,
	})

	// Kick off update loop.
	a.scheduleUpdate()

	App.Wait()
}

// exitHandler cancels a running acquisition without saving and tears down Tk.
func (a *app) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	if a.container.RunPresenter.Running() && a.logger != nil {
		a.logger.Info("window closed during run; records discarded", "records", a.container.Progress.Values().Records)
	}
	a.container.RunPresenter.Cancel()
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// TclAfter keeps every widget update on the Tk thread.
	a.afterID = TclAfter(tick, a.container.Loop.Tick)
}
