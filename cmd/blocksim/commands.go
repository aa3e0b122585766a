package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/blocksim/internal/api"
	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/export"
	"github.com/san-kum/blocksim/internal/graph"
	"github.com/san-kum/blocksim/internal/loops"
	"github.com/san-kum/blocksim/internal/lti"
	"github.com/san-kum/blocksim/internal/metrics"
	"github.com/san-kum/blocksim/internal/network"
	"github.com/san-kum/blocksim/internal/storage"
	"github.com/san-kum/blocksim/internal/viz"
)

// loadDiagram resolves ref as a file path, then a preset name, then a
// stored diagram id or name.
func loadDiagram(ref string) (*graph.Graph, error) {
	if _, err := os.Stat(ref); err == nil {
		return graph.Load(ref)
	}
	if g := config.GetPreset(ref); g != nil {
		return g, nil
	}
	g, err := storage.New(cfg.DataDir).Find(ref)
	if errors.Is(err, dynamo.ErrDiagramNotFound) {
		return nil, fmt.Errorf("%w: %s is not a file, preset (%v) or stored diagram",
			dynamo.ErrUnknownPreset, ref, config.ListPresets())
	}
	return g, err
}

// simConfig starts from the config file and applies --dt and --time when
// given on the command line.
func simConfig(cmd *cobra.Command) dynamo.Config {
	c := cfg.Sim()
	if cmd.Flags().Changed("dt") {
		c.Dt = config.Sanitize(dt, config.DefaultDt)
	}
	if cmd.Flags().Changed("time") {
		c.Duration = config.Sanitize(duration, config.DefaultDuration)
	}
	return c
}

// simulate runs the named diagram with the step-response metrics attached,
// logging recoverable diagram faults.
func simulate(cmd *cobra.Command, name string) (*graph.Graph, *dynamo.Result, error) {
	g, err := loadDiagram(name)
	if err != nil {
		return nil, nil, err
	}

	sim := network.New(g)
	for _, m := range metrics.StepResponse() {
		sim.AddMetric(m)
	}
	if cmd.Flags().Changed("ref") {
		sim.AddMetric(metrics.NewIAE(iaeRef))
	}
	if bound > 0 {
		sim.AddMetric(metrics.NewStability(bound))
	}
	c := simConfig(cmd)

	logrus.WithFields(logrus.Fields{
		"diagram": g.Name,
		"blocks":  len(g.Blocks),
		"dt":      c.Dt,
		"time":    c.Duration,
	}).Debug("simulating")

	res, err := sim.Run(c)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range res.Warnings {
		logrus.WithField("diagram", g.Name).Warn(w)
	}
	if res.Solver.Unconverged > 0 {
		logrus.WithFields(logrus.Fields{
			"unconverged": res.Solver.Unconverged,
			"resolutions": res.Solver.Resolutions,
		}).Debug("algebraic loop did not converge")
	}
	return g, res, nil
}

func runDiagram(cmd *cobra.Command, args []string) error {
	g, res, err := simulate(cmd, args[0])
	if err != nil {
		return err
	}

	t := viz.GetTheme(theme)
	if showPlot {
		fmt.Println(viz.Plot(res, viz.DefaultPlotOptions()))
	}
	fmt.Println(viz.Summary(g.Name, res, t))
	return nil
}

func runStep(cmd *cobra.Command, args []string) error {
	tf := lti.New(num, den)
	res, err := lti.StepResponse(tf, config.Sanitize(tFinal, config.DefaultFinalTime), points)
	if err != nil {
		return fmt.Errorf("%s: %w", tf, err)
	}
	res.Metrics = metrics.Evaluate(res, metrics.StepResponse()...)

	if plotStep {
		fmt.Println(viz.Plot(res, viz.DefaultPlotOptions()))
	}
	fmt.Println(viz.Summary(tf.String(), res, viz.GetTheme(theme)))
	return nil
}

func runDiscretize(cmd *cobra.Command, args []string) error {
	d, err := lti.DiscreteResponse(zeros, poles, ts)
	if err != nil {
		return fmt.Errorf("%s: %w", d.TF, err)
	}

	fmt.Printf("G(s) = %s\n", d.TF)
	fmt.Printf("horizon %.4gs, dt %.4gs, Ts %.4gs, %d samples\n", d.Horizon, d.Dt, d.Ts, d.Sampled.Len())
	fmt.Println(viz.Plot(d.Sampled, viz.PlotOptions{Width: 70, Height: 12, Caption: "y[k]"}))

	if outPath == "" {
		return nil
	}
	err = export.ToFile(outPath, func(w io.Writer) error {
		opts := export.DefaultChartOptions()
		opts.Title = "G(s) = " + d.TF.String()
		return export.WriteDiscretePNG(w, d, opts)
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func reduceDiagram(cmd *cobra.Command, args []string) error {
	g, err := loadDiagram(args[0])
	if err != nil {
		return err
	}
	tf, err := network.Reduce(g)
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name, err)
	}
	fmt.Printf("G(s) = %s\n", tf)
	fmt.Printf("DC gain %.6g\n", tf.DCGain())
	return nil
}

// output opens outPath, or stdout when it is empty.
func output(write func(io.Writer) error) error {
	if outPath == "" {
		return write(os.Stdout)
	}
	return export.ToFile(outPath, write)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, res, err := simulate(cmd, args[0])
	if err != nil {
		return err
	}
	return output(func(w io.Writer) error {
		return export.WriteCSV(w, res)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, res, err := simulate(cmd, args[0])
	if err != nil {
		return err
	}
	return output(func(w io.Writer) error {
		return export.WriteJSON(w, export.NewSeries(res))
	})
}

func exportPNG(cmd *cobra.Command, args []string) error {
	g, res, err := simulate(cmd, args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = g.Name + ".png"
	}

	opts := export.DefaultChartOptions()
	opts.Title = g.Name
	err = export.ToFile(path, func(w io.Writer) error {
		return export.WritePNG(w, res, opts)
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	g, res, err := simulate(cmd, args[0])
	if err != nil {
		return err
	}
	return viz.Play(res, g.Name, viz.GetTheme(theme))
}

func runBatch(cmd *cobra.Command, args []string) error {
	c := simConfig(cmd)
	jobs := make([]network.Job, len(args))
	names := make([]string, len(args))
	for i, ref := range args {
		g, err := loadDiagram(ref)
		if err != nil {
			return err
		}
		jobs[i] = network.Job{Graph: g, Config: c}
		names[i] = g.Name
	}

	results, err := network.NewBatch(workers).Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIAGRAM\tSAMPLES\tFINAL\tPEAK\tSETTLING\tLOOPS")
	for i, res := range results {
		m := metrics.Evaluate(res, metrics.StepResponse()...)
		fmt.Fprintf(w, "%s\t%d\t%.6g\t%.6g\t%.4gs\t%d\n",
			names[i], res.Len(), m["final_value"], m["peak"], m["settling_time"], res.Solver.Loops)
	}
	return w.Flush()
}

func saveDiagram(cmd *cobra.Command, args []string) error {
	g, err := loadDiagram(args[0])
	if err != nil {
		return err
	}
	if saveAs != "" {
		g.Name = saveAs
	}
	if g.Name == "" {
		g.Name = filepath.Base(args[0])
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta, err := st.Save(g, loops.HasCycle(g))
	if err != nil {
		return err
	}
	for _, w := range meta.Warnings {
		logrus.WithField("diagram", meta.Name).Warn(w)
	}
	fmt.Printf("saved %s as %s\n", meta.Name, meta.ID)
	return nil
}

func listDiagrams(cmd *cobra.Command, args []string) error {
	list, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no diagrams found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSAVED\tBLOCKS\tLINKS\tFEEDBACK")
	for _, d := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\n",
			d.ID,
			d.Name,
			d.Timestamp.Format("2006-01-02 15:04:05"),
			d.Blocks,
			d.Links,
			d.Cyclic,
		)
	}
	return w.Flush()
}

func showDiagram(cmd *cobra.Command, args []string) error {
	g, err := storage.New(cfg.DataDir).Find(args[0])
	if err != nil {
		return err
	}
	return graph.Encode(os.Stdout, g, graph.FormatYAML)
}

func deleteDiagram(cmd *cobra.Command, args []string) error {
	if err := storage.New(cfg.DataDir).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	if addr != "" {
		cfg.Server.Addr = addr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.NewServer(cfg, logrus.StandardLogger()).ListenAndServe(ctx)
}
