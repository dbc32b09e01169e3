package view

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SummaryWindow shows the final depth/contrast figure in its own toplevel.
type SummaryWindow interface {
	Show(png []byte)
	Close()
}

type summaryWindow struct {
	title string
	win   *ToplevelWidget
	label *LabelWidget
	photo *Img
}

// NewSummaryWindow creates the manager; the window opens on the first Show.
func NewSummaryWindow(title string) SummaryWindow {
	return &summaryWindow{title: title}
}

func (v *summaryWindow) Show(png []byte) {
	if len(png) == 0 {
		return
	}
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(png))
	if v.win != nil {
		v.label.Configure(Image(v.photo))
		return
	}
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle(v.title)
	v.win = win
	v.label = win.Label(Image(v.photo), Borderwidth(1), Relief("sunken"))
	Grid(v.label, Row(0), Column(0), Padx("0.4m"), Pady("0.4m"))
	closeBtn := win.Button(Txt("Close [Esc]"), Command(v.Close))
	Grid(closeBtn, Row(1), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Bind(win, "<Escape>", Command(v.Close))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.Close)
}

func (v *summaryWindow) Close() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
		v.label = nil
	}
}
