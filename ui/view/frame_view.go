package view

import (
	"image"

	"github.com/soocke/ctr-meter/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// FramePane shows the annotated frame and the running scatter side by side.
// Clicks on the frame are reported in frame-image pixel coordinates.
type FramePane interface {
	// ShowFrame takes ownership of img; an *image.RGBA is recycled once encoded.
	ShowFrame(img image.Image)
	ShowScatter(png []byte)
}

type framePane struct {
	frameLabel   *LabelWidget
	scatterLabel *LabelWidget
	framePhoto   *Img // last Tk photo for the frame
	scatterPhoto *Img // last Tk photo for the scatter
}

// Old photos are deleted before replacing them so off-screen pixel data does
// not accumulate over a long run.

// frameBorder is the frame label's border. Its padx/pady are zero, so the
// image starts right inside the border.
const frameBorder = 1

// labelToImage converts label-relative event coordinates to image pixels.
func labelToImage(x, y int) (int, int) { return x - frameBorder, y - frameBorder }

// NewFramePane creates both labels in the given row. The frame spans columns
// 0-2 and the scatter sits in column 3.
func NewFramePane(row int, onClick func(x, y int)) FramePane {
	placeholder := images.EncodePNG(image.NewGray(image.Rect(0, 0, 320, 240)))
	fp := NewPhoto(Data(placeholder))
	sp := NewPhoto(Data(placeholder))
	frame := Label(Image(fp), Borderwidth(frameBorder), Padx(0), Pady(0), Relief("sunken"))
	scatter := Label(Image(sp), Borderwidth(1), Relief("sunken"))
	Grid(frame, Row(row), Column(0), Columnspan(3), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Grid(scatter, Row(row), Column(3), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	if onClick != nil {
		Bind(frame, "<Button-1>", Command(func(e *Event) { onClick(labelToImage(e.X, e.Y)) }))
	}
	return &framePane{frameLabel: frame, scatterLabel: scatter, framePhoto: fp, scatterPhoto: sp}
}

func (v *framePane) ShowFrame(img image.Image) {
	if v.frameLabel == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if rgba, ok := img.(*image.RGBA); ok {
		images.Recycle(rgba)
	}
	if v.framePhoto != nil {
		v.framePhoto.Delete()
	}
	v.framePhoto = NewPhoto(Data(pngBytes))
	v.frameLabel.Configure(Image(v.framePhoto))
}

func (v *framePane) ShowScatter(png []byte) {
	if v.scatterLabel == nil || len(png) == 0 {
		return
	}
	if v.scatterPhoto != nil {
		v.scatterPhoto.Delete()
	}
	v.scatterPhoto = NewPhoto(Data(png))
	v.scatterLabel.Configure(Image(v.scatterPhoto))
}
