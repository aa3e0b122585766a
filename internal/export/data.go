// Package export writes simulation results as CSV, JSON or PNG charts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/lti"
)

// Decimals used for values and times in serialized series.
const (
	ValueDecimals = 6
	TimeDecimals  = 6
)

// Series is the wire shape of a response: parallel t and y arrays.
type Series struct {
	T        []float64           `json:"t"`
	Y        []float64           `json:"y"`
	Metrics  map[string]float64  `json:"metrics,omitempty"`
	Solver   *dynamo.SolverStats `json:"solver,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
}

// NewSeries rounds res for output. Solver stats are attached only when a
// loop was resolved.
func NewSeries(res *dynamo.Result) Series {
	r := res.Rounded(ValueDecimals, TimeDecimals)
	s := Series{T: r.Times, Y: r.Outputs, Metrics: r.Metrics}
	if r.Solver.Loops > 0 {
		stats := r.Solver
		s.Solver = &stats
	}
	for _, w := range r.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}

// XY is a plotted curve.
type XY struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

func newXY(res *dynamo.Result) XY {
	r := res.Rounded(ValueDecimals, TimeDecimals)
	return XY{X: r.Times, Y: r.Outputs}
}

type DiscreteSeries struct {
	Continuous XY        `json:"continuous"`
	Discrete   XY        `json:"discrete"`
	Horizon    float64   `json:"horizon"`
	Ts         float64   `json:"ts"`
	Num        []float64 `json:"num"`
	Den        []float64 `json:"den"`
}

func NewDiscreteSeries(d *lti.Discretization) DiscreteSeries {
	return DiscreteSeries{
		Continuous: newXY(d.Continuous),
		Discrete:   newXY(d.Sampled),
		Horizon:    dynamo.Round(d.Horizon, ValueDecimals),
		Ts:         d.Ts,
		Num:        d.TF.Num,
		Den:        d.TF.Den,
	}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes res as a "time,y" table.
func WriteCSV(w io.Writer, res *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "y"}); err != nil {
		return err
	}
	for i, t := range res.Times {
		row := []string{
			strconv.FormatFloat(dynamo.Round(t, TimeDecimals), 'f', -1, 64),
			strconv.FormatFloat(dynamo.Round(res.Outputs[i], ValueDecimals), 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetrics writes metrics as "name,value" rows sorted by name.
func WriteMetrics(w io.Writer, metrics map[string]float64) error {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	for _, name := range names {
		v := strconv.FormatFloat(dynamo.Round(metrics[name], ValueDecimals), 'f', -1, 64)
		if err := cw.Write([]string{name, v}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile creates path and hands it to write.
func ToFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
