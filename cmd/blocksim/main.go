package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/blocksim/internal/config"
	"github.com/san-kum/blocksim/internal/graph"
)

var (
	configFile string
	dataDir    string
	logLevel   string

	dt       float64
	duration float64
	showPlot bool
	outPath  string
	theme    string
	workers  int
	iaeRef   float64
	bound    float64

	num      []float64
	den      []float64
	tFinal   float64
	points   int
	plotStep bool
	poles    []float64
	zeros    []float64
	ts       float64
	addr     string
	saveAs   string

	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the blocksim commands under the root command.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "blocksim",
		Short:             "block-diagram dynamical network simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "diagram library directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [diagram]",
		Short: "simulate a diagram file, preset or stored diagram",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiagram,
	}
	simFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "draw the response in the terminal")
	runCmd.Flags().StringVar(&theme, "theme", "scope", "color theme")

	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "unit step response of a single transfer function",
		RunE:  runStep,
	}
	stepCmd.Flags().Float64SliceVar(&num, "num", []float64{1}, "numerator coefficients, highest power first")
	stepCmd.Flags().Float64SliceVar(&den, "den", []float64{1, 1}, "denominator coefficients, highest power first")
	stepCmd.Flags().Float64Var(&tFinal, "time", config.DefaultFinalTime, "final time")
	stepCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of samples")
	stepCmd.Flags().BoolVar(&plotStep, "plot", true, "draw the response in the terminal")
	stepCmd.Flags().StringVar(&theme, "theme", "scope", "color theme")

	discretizeCmd := &cobra.Command{
		Use:   "discretize",
		Short: "sample the step response of a zero/pole system",
		RunE:  runDiscretize,
	}
	discretizeCmd.Flags().Float64SliceVar(&poles, "poles", []float64{-1}, "real poles")
	discretizeCmd.Flags().Float64SliceVar(&zeros, "zeros", nil, "real zeros")
	discretizeCmd.Flags().Float64Var(&ts, "ts", config.DefaultSamplePeriod, "sampling period")
	discretizeCmd.Flags().StringVarP(&outPath, "output", "o", "", "write a PNG chart to this path")

	reduceCmd := &cobra.Command{
		Use:   "reduce [diagram]",
		Short: "overall transfer function of an acyclic diagram",
		Args:  cobra.ExactArgs(1),
		RunE:  reduceDiagram,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [diagram]",
		Short: "simulate and write the response as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	simFlags(exportCSVCmd)
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [diagram]",
		Short: "simulate and write the response as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	simFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	pngCmd := &cobra.Command{
		Use:   "png [diagram]",
		Short: "simulate and render the response as a PNG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	simFlags(pngCmd)
	pngCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default <name>.png)")

	liveCmd := &cobra.Command{
		Use:   "live [diagram]",
		Short: "simulate and play the response back in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "scope", "color theme")

	batchCmd := &cobra.Command{
		Use:   "batch [diagram]...",
		Short: "simulate several diagrams concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	simFlags(batchCmd)
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent simulations (default GOMAXPROCS)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in diagrams and block kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				g := config.GetPreset(p)
				fmt.Printf("  %-14s %d blocks, %d links\n", p, len(g.Blocks), len(g.Links))
			}
			fmt.Println("block kinds:")
			for _, k := range graph.Kinds() {
				fmt.Printf("  %s\n", k)
			}
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save [diagram]",
		Short: "store a diagram file or preset in the library",
		Args:  cobra.ExactArgs(1),
		RunE:  saveDiagram,
	}
	saveCmd.Flags().StringVar(&saveAs, "name", "", "name to store the diagram under")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored diagrams",
		RunE:  listDiagrams,
	}

	showCmd := &cobra.Command{
		Use:   "show [id|name]",
		Short: "print a stored diagram as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  showDiagram,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "remove a stored diagram",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteDiagram,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulator over HTTP",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	rootCmd.AddCommand(runCmd, stepCmd, discretizeCmd, reduceCmd, exportCSVCmd, exportJSONCmd,
		pngCmd, liveCmd, batchCmd, presetsCmd, saveCmd, listCmd, showCmd, deleteCmd, serveCmd)
	return rootCmd
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&iaeRef, "ref", 1, "reference for the integrated absolute error (iae) metric")
	cmd.Flags().Float64Var(&bound, "bound", 0, "report the fraction of samples with |y| <= bound (stability)")
}

// setup loads the config file and applies global flag overrides.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	logrus.SetLevel(level)
	return nil
}
