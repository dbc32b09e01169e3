package view

import (
	"image"
	"log/slog"

	"github.com/soocke/ctr-meter/assets"
	"github.com/soocke/ctr-meter/config"
	"github.com/soocke/ctr-meter/ui/model"
	"github.com/soocke/ctr-meter/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Progress    ProgressStats
	ConfigPanel ConfigPanel
	Pane        FramePane
	Summary     SummaryWindow

	// Widgets
	StateLabel   *TLabelWidget
	MessageLabel *TLabelWidget
	startBtn     *TButtonWidget
	nextBtn      *TButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	ConfigEditable(enabled bool)
	SetRunning(running bool)
	ShowFrame(img image.Image)
	ShowScatter(png []byte)
	SetProgress(p model.Progress)
	ShowMessage(text string)
	ShowSummary(png []byte)
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Handlers are invoked on user actions.
type Handlers struct {
	Start     func()
	NextFrame func()
	Exit      func()
	Click     func(x, y int)
}

// Build constructs the layout.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: state label, progress counters, buttons
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.Progress = NewProgressStats(0, 1)

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.startBtn = TButton(Txt("Start"), Style(theme.StylePrimaryButton), Command(func() {
		if rv.ConfigPanel != nil {
			rv.ConfigPanel.ApplyChanges()
		}
		h.Start()
	}))
	Grid(rv.startBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.nextBtn = TButton(Txt("Next frame [N]"), Command(h.NextFrame), State("disabled"))
	Grid(rv.nextBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(h.Exit))
	Grid(exitBtn, In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(App, "<KeyPress-n>", Command(h.NextFrame))

	// Row 1: frame + scatter, config panel on the right
	rv.Pane = NewFramePane(1, h.Click)
	cfgFrame := Frame()
	Grid(cfgFrame, Row(1), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(cfgFrame, 0)

	// Row 2: messages
	rv.MessageLabel = TLabel(Txt(assets.Instructions()), Wraplength("12c"), Style(theme.StyleMessageLabel))
	Grid(rv.MessageLabel, Row(2), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	rv.Summary = NewSummaryWindow("CTR summary")
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// ConfigEditable toggles config panel editability.
func (rv *RootView) ConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// SetRunning swaps which run buttons are active.
func (rv *RootView) SetRunning(running bool) {
	if rv == nil || rv.startBtn == nil || rv.nextBtn == nil {
		return
	}
	next := "disabled"
	if running {
		next = "normal"
	}
	rv.nextBtn.Configure(State(next))
	rv.startBtn.Configure(State("disabled"))
}

// ShowFrame proxies to the frame pane.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Pane != nil {
		rv.Pane.ShowFrame(img)
	}
}

// ShowScatter proxies to the frame pane.
func (rv *RootView) ShowScatter(png []byte) {
	if rv != nil && rv.Pane != nil {
		rv.Pane.ShowScatter(png)
	}
}

// SetProgress updates the counters.
func (rv *RootView) SetProgress(p model.Progress) {
	if rv != nil && rv.Progress != nil {
		rv.Progress.SetProgress(p)
	}
}

// ShowMessage replaces the status line.
func (rv *RootView) ShowMessage(text string) {
	if rv != nil && rv.MessageLabel != nil {
		rv.MessageLabel.Configure(Txt(text))
	}
}

// ShowSummary opens the summary window.
func (rv *RootView) ShowSummary(png []byte) {
	if rv != nil && rv.Summary != nil {
		rv.Summary.Show(png)
	}
}
