// Package plots renders the depth/contrast figures as PNG images.
package plots

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/soocke/ctr-meter/domain/acquisition"
	"github.com/soocke/ctr-meter/domain/binning"
	"github.com/soocke/ctr-meter/domain/contrast"
)

// Options controls figure size and the fixed axes of the running scatter.
type Options struct {
	WidthPx, HeightPx int
	XMax              float64
	YMin, YMax        float64
}

// DefaultOptions matches the live acquisition view.
func DefaultOptions() Options {
	return Options{WidthPx: 420, HeightPx: 600, XMax: 500, YMin: -50, YMax: 0}
}

const dpi = 96

func pxLength(px int) vg.Length { return vg.Length(px) * vg.Inch / dpi }

// finiteXYs keeps records with a finite contrast.
func finiteXYs(recs []acquisition.Record) (plotter.XYs, []float64, []float64) {
	xys := make(plotter.XYs, 0, len(recs))
	var xs, ys []float64
	for _, r := range recs {
		if !contrast.Finite(r.CTR) || !contrast.Finite(r.Depth) {
			continue
		}
		xys = append(xys, plotter.XY{X: r.Depth, Y: r.CTR})
		xs = append(xs, r.Depth)
		ys = append(ys, r.CTR)
	}
	return xys, xs, ys
}

func newScatter(xys plotter.XYs, radius vg.Length) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = color.Black
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	return s, nil
}

// Scatter draws the running depth/contrast scatter on fixed axes.
func Scatter(recs []acquisition.Record, opts Options) ([]byte, error) {
	p := plot.New()
	p.X.Label.Text = "depth [px]"
	p.Y.Label.Text = "CTR [dB]"
	p.Add(plotter.NewGrid())
	xys, _, _ := finiteXYs(recs)
	if len(xys) > 0 {
		s, err := newScatter(xys, vg.Points(3))
		if err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
		p.Add(s)
	}
	p.X.Min, p.X.Max = 0, opts.XMax
	p.Y.Min, p.Y.Max = opts.YMin, opts.YMax

	wt, err := p.WriterTo(pxLength(opts.WidthPx), pxLength(opts.HeightPx), "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// errPoints pairs bin centres with symmetric std error bars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Summary draws the final two-panel figure: the raw scatter and the binned
// means with ±std error bars, sharing the Y axis.
func Summary(recs []acquisition.Record, binWidth float64, opts Options) ([]byte, error) {
	xys, xs, ys := finiteXYs(recs)
	if len(xys) == 0 {
		return nil, errors.New("no finite records to plot")
	}
	sum, err := binning.Bin(xs, ys, binWidth)
	if err != nil {
		return nil, fmt.Errorf("bin: %w", err)
	}

	raw := plot.New()
	raw.X.Label.Text = "depth [px]"
	raw.Y.Label.Text = "CTR [dB]"
	s, err := newScatter(xys, vg.Points(1.5))
	if err != nil {
		return nil, err
	}
	raw.Add(s)

	binned := plot.New()
	binned.X.Label.Text = "depth [px]"
	ep := errPoints{XYs: make(plotter.XYs, sum.Len()), YErrors: make(plotter.YErrors, sum.Len())}
	for i := range sum.Centers {
		ep.XYs[i] = plotter.XY{X: sum.Centers[i], Y: sum.Means[i]}
		ep.YErrors[i].Low = sum.StdDevs[i]
		ep.YErrors[i].High = sum.StdDevs[i]
	}
	bars, err := plotter.NewYErrorBars(ep)
	if err != nil {
		return nil, err
	}
	means, err := newScatter(ep.XYs, vg.Points(1.5))
	if err != nil {
		return nil, err
	}
	binned.Add(bars, means)

	ymin := min(raw.Y.Min, binned.Y.Min)
	ymax := max(raw.Y.Max, binned.Y.Max)
	pad := (ymax - ymin) * 0.05
	if pad == 0 {
		pad = 1
	}
	for _, p := range []*plot.Plot{raw, binned} {
		p.Y.Min, p.Y.Max = ymin-pad, ymax+pad
	}

	img := vgimg.NewWith(vgimg.UseWH(pxLength(opts.WidthPx), pxLength(opts.HeightPx)), vgimg.UseDPI(dpi))
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter * 2, PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2, PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2}
	canvases := plot.Align([][]*plot.Plot{{raw, binned}}, tiles, dc)
	raw.Draw(canvases[0][0])
	binned.Draw(canvases[0][1])

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
