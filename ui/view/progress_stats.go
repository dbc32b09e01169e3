package view

import (
	"fmt"

	"github.com/soocke/ctr-meter/ui/model"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// ProgressStats shows frame and record counters plus elapsed time.
type ProgressStats interface {
	SetProgress(p model.Progress)
}

type progressStats struct {
	frameLbl   *LabelWidget
	recordLbl  *LabelWidget
	elapsedLbl *LabelWidget
}

// NewProgressStats creates the three labels in row, starting at startCol.
func NewProgressStats(row, startCol int) ProgressStats {
	s := &progressStats{frameLbl: Label(Width(12)), recordLbl: Label(Width(20)), elapsedLbl: Label(Width(14))}
	for i, l := range []*LabelWidget{s.frameLbl, s.recordLbl, s.elapsedLbl} {
		Grid(l, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
	}
	s.SetProgress(model.Progress{})
	return s
}

func (s *progressStats) SetProgress(p model.Progress) {
	if s == nil || s.frameLbl == nil {
		return
	}
	lines := p.Lines()
	s.frameLbl.Configure(Txt(lines[0]))
	s.recordLbl.Configure(Txt(lines[1]))
	seconds := int(p.Elapsed.Seconds())
	s.elapsedLbl.Configure(Txt(fmt.Sprintf("Elapsed: %02d:%02d", seconds/60, seconds%60)))
}
