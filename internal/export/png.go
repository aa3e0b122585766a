package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/lti"
)

var errNoData = errors.New("export: nothing to plot")

type ChartOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "y(t)",
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
		DPI:    96,
	}
}

func points(res *dynamo.Result) plotter.XYs {
	pts := make(plotter.XYs, res.Len())
	for i := range pts {
		pts[i].X = res.Times[i]
		pts[i].Y = res.Outputs[i]
	}
	return pts
}

func newPlot(opts ChartOptions) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())
	return p
}

// WritePNG renders res as a line chart.
func WritePNG(w io.Writer, res *dynamo.Result, opts ChartOptions) error {
	if res == nil || res.Len() == 0 {
		return errNoData
	}
	p := newPlot(opts)

	line, err := plotter.NewLine(points(res))
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	p.Add(line)

	return render(w, p, opts)
}

// WriteDiscretePNG draws the continuous response as a line and the
// sampled response as markers on the same axes.
func WriteDiscretePNG(w io.Writer, d *lti.Discretization, opts ChartOptions) error {
	if d == nil || d.Continuous == nil || d.Sampled == nil {
		return errNoData
	}
	p := newPlot(opts)

	line, err := plotter.NewLine(points(d.Continuous))
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

	scatter, err := plotter.NewScatter(points(d.Sampled))
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}

	p.Add(line, scatter)
	p.Legend.Add("continuous", line)
	p.Legend.Add(fmt.Sprintf("sampled Ts=%g", d.Ts), scatter)
	p.Legend.Top = false

	return render(w, p, opts)
}

func render(w io.Writer, p *plot.Plot, opts ChartOptions) error {
	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return bw.Flush()
}
