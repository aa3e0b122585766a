package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/blocksim/internal/dynamo"
)

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 70, Height: 15, Caption: "y(t)"}
}

// Plot draws the outputs of res. Long series are downsampled by asciigraph
// to fit Width.
func Plot(res *dynamo.Result, opts PlotOptions) string {
	if res == nil || res.Len() == 0 {
		return ""
	}
	caption := opts.Caption
	if caption != "" {
		caption = fmt.Sprintf("%s  t = [%g, %g]", caption, res.Times[0], res.Times[res.Len()-1])
	}
	return plotValues(res.Outputs, opts.Width, opts.Height, caption)
}

func plotValues(ys []float64, width, height int, caption string) string {
	if len(ys) == 0 {
		return ""
	}
	args := []asciigraph.Option{
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(3),
	}
	if caption != "" {
		args = append(args, asciigraph.Caption(caption))
	}
	return asciigraph.Plot(ys, args...)
}

// Summary formats metrics and solver statistics as an aligned panel.
func Summary(title string, res *dynamo.Result, theme Theme) string {
	st := newStyles(theme)

	var b strings.Builder
	b.WriteString(st.title.Render(title) + "\n")
	b.WriteString(st.label.Render("samples") + st.value.Render(fmt.Sprintf("%d", res.Len())) + "\n")

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(st.label.Render(name) + st.value.Render(fmt.Sprintf("%.6g", res.Metrics[name])) + "\n")
	}

	if res.Solver.Loops > 0 {
		b.WriteString(st.label.Render("loops") + st.value.Render(fmt.Sprintf("%d", res.Solver.Loops)) + "\n")
		line := fmt.Sprintf("%d/%d unconverged, max %d iter",
			res.Solver.Unconverged, res.Solver.Resolutions, res.Solver.MaxIterations)
		if res.Solver.Unconverged > 0 {
			b.WriteString(st.label.Render("solver") + st.warn.Render(line) + "\n")
		} else {
			b.WriteString(st.label.Render("solver") + st.good.Render(line) + "\n")
		}
	}
	for _, w := range res.Warnings {
		b.WriteString(st.warn.Render("! "+w.Error()) + "\n")
	}
	return st.panel.Render(strings.TrimRight(b.String(), "\n"))
}
