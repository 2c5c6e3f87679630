package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/automation"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/gui"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/storage"
	"github.com/san-kum/springsim/internal/viz"
)

var (
	dataDir string
	debug   bool
	// Config sources
	configFile string
	preset     string
	// Overrides
	dt          float64
	steps       int
	seed        int64
	integrator  string
	particles   int
	capacity    int
	stiffness   float64
	restLength  float64
	gravity     float64
	closed      bool
	recordEvery int
	runName     string
	// Analysis
	particle    int
	frameIdx    int
	svgParticle int
	themeName   string
	lyapunov    bool
	outFile     string
	paramName   string
	paramMin    float64
	paramMax    float64
	sweepSteps  int
	trials      int
	saveRuns    bool
	metricName  string
	grid        []string
)

// main registers the springsim commands. With no subcommand it opens the
// window renderer on the preset menu.
func main() {
	var closeLog func()

	rootCmd := &cobra.Command{
		Use:          "springsim",
		Short:        "interactive 2d mass-spring simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := setupLogging(debug, "logs")
			if err != nil {
				return err
			}
			closeLog = c
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			gui.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write logs to logs/springsim.log")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	runCmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record one frame every n steps")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot mean height and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a recorded frame, or one particle's path, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index (negative counts from the end)")
	exportSVGCmd.Flags().IntVar(&svgParticle, "particle", -1, "draw this particle's trajectory instead of a frame")
	exportSVGCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "color theme")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the chain height",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "also estimate the largest lyapunov exponent")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot the trajectory of one particle",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&particle, "particle", 0, "particle index")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal; click to add particles",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window; click to add particles",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same chain",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)
	compareCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput by chain length",
		Args:  cobra.NoArgs,
		RunE:  benchSteps,
	}
	benchCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	benchCmd.Flags().IntVar(&steps, "steps", 1000, "steps per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tCAPACITY\tINTEG\tSTIFFNESS\tREST\tGRAVITY")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%.1f\t%.3f\t%.2f\n",
					name, p.Chain.Particles, p.Chain.Capacity, p.Integrator,
					p.Physics.Stiffness, p.Physics.RestLength, p.Physics.Gravity)
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", true, "store every run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a physical parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	sweepCmd.Flags().StringVar(&paramName, "param", "stiffness", "parameter name")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 1, "minimum value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 50, "maximum value")
	sweepCmd.Flags().IntVar(&sweepSteps, "n", 10, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest metric value",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"dt=0.001:0.01:4"}, "param=min:max:n (repeatable)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		analyzeCmd, phaseCmd, liveCmd, guiCmd, compareCmd, benchCmd, presetsCmd,
		scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd)

	err := rootCmd.Execute()
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		os.Exit(1)
	}
}

// addSimFlags registers the flags that shape a chain. They override the
// preset and config file only when set.
func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", dynamo.DefaultConfig().Dt, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", dynamo.DefaultConfig().Seed, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().IntVar(&particles, "particles", dynamo.DefaultConfig().InitialCount, "initial particle count")
	cmd.Flags().IntVar(&capacity, "capacity", dynamo.DefaultConfig().Capacity, "maximum particle count")
	cmd.Flags().Float64Var(&stiffness, "stiffness", dynamo.DefaultConfig().Stiffness, "spring stiffness")
	cmd.Flags().Float64Var(&restLength, "rest-length", dynamo.DefaultConfig().RestLength, "spring rest length")
	cmd.Flags().Float64Var(&gravity, "gravity", dynamo.DefaultConfig().Gravity, "gravity")
	cmd.Flags().BoolVar(&closed, "closed", false, "close the chain into a ring")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("particles") {
		cfg.Chain.Particles = particles
	}
	if flags.Changed("capacity") {
		cfg.Chain.Capacity = capacity
	}
	if flags.Changed("closed") {
		cfg.Chain.Closed = closed
	}
	if flags.Changed("stiffness") {
		cfg.Physics.Stiffness = stiffness
	}
	if flags.Changed("rest-length") {
		cfg.Physics.RestLength = restLength
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configName() string {
	switch {
	case runName != "":
		return runName
	case preset != "":
		return preset
	case configFile != "":
		return strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	default:
		return "chain"
	}
}

// signalContext cancels on interrupt so long headless runs stop between
// frames.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	exp.Setup(registry.DefaultMetrics())

	ctx, cancel := signalContext()
	defer cancel()

	name := configName()
	fmt.Printf("running %s (%d particles, %s, %d steps)...\n", name, cfg.Chain.Particles, cfg.Integrator, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("run %s stopped: %v", name, err)
		if len(result.Frames) == 0 {
			return err
		}
		fmt.Printf("stopped early: %v\n", err)
	}

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	if result.Rejected > 0 {
		fmt.Printf("rejected appends: %d\n", result.Rejected)
	}
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range experiment.NewRegistry().ListMetrics() {
		if v, ok := m[name]; ok {
			fmt.Fprintf(w, "  %s\t%.6g\n", name, v)
		}
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tINTEG\tPARTICLES\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4fs\t%s\t%d/%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
			run.Particles,
			run.Capacity,
			run.FrameCount,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}

	return meta, &dynamo.Result{Frames: frames, Metrics: meta.Metrics, Rejected: meta.Rejected}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(result.Frames))

	series := []struct {
		caption string
		data    []float64
	}{
		{"mean height", result.Heights()},
		{"total energy", result.Energies()},
	}
	for _, s := range series {
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// output opens outFile, or stdout when it is empty.
func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	f, done, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteJSON(f, *meta, result); err != nil {
		done()
		return err
	}
	return done()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	f, done, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(f, result.Frames); err != nil {
		done()
		return err
	}
	return done()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	theme := viz.GetTheme(themeName)
	var svg string
	if svgParticle >= 0 {
		points := analysis.Trajectory(result.Frames, svgParticle)
		if len(points) < 2 {
			return fmt.Errorf("particle %d has fewer than 2 recorded positions in run %s", svgParticle, meta.ID)
		}
		svg = export.TrajectoryToSVG(points, 640, 480, string(theme.Primary))
	} else {
		idx := frameIdx
		if idx < 0 {
			idx += len(result.Frames)
		}
		if idx < 0 || idx >= len(result.Frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(result.Frames))
		}
		o := export.DefaultOptions()
		o.Theme = theme
		o.Ground = meta.Ground
		o.Closed = meta.Closed
		svg = export.FrameToSVG(result.Frames[idx], o)
	}

	f, done, err := output()
	if err != nil {
		return err
	}
	if _, err := f.WriteString(svg); err != nil {
		done()
		return err
	}
	return done()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.Frames) < 4 {
		return fmt.Errorf("run %s: need at least 4 frames, got %d", meta.ID, len(result.Frames))
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("integrator: %s\n\n", meta.Integrator)

	heights := result.Heights()
	sampleDt := result.Frames[1].Time - result.Frames[0].Time

	ps := analysis.PowerSpectrum(heights)
	plotData := ps[1:max(len(ps)/4, 2)]

	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (mean height)"),
	))
	fmt.Println()

	freq := analysis.DominantFrequency(heights, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if lyapunov {
		cfg := dynamo.DefaultConfig()
		cfg.Seed = meta.Seed
		cfg.Dt = meta.Dt
		cfg.Integrator = meta.Integrator
		cfg.InitialCount = meta.Particles
		cfg.Capacity = meta.Capacity
		cfg.Stiffness = meta.Stiffness
		cfg.RestLength = meta.RestLength
		cfg.Gravity = meta.Gravity
		cfg.GroundHeight = meta.Ground
		cfg.Closed = meta.Closed

		lambda, err := analysis.LyapunovExponent(cfg, 1e-8, meta.Steps, 10)
		if err != nil {
			return err
		}
		fmt.Printf("lyapunov exponent: %.4f\n", lambda)
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	points := analysis.Trajectory(result.Frames, particle)
	if len(points) == 0 {
		return fmt.Errorf("particle %d never existed in run %s", particle, meta.ID)
	}

	fmt.Printf("trajectory: %s, particle %d\n\n", meta.ID, particle)
	fmt.Print(analysis.TrajectoryToASCII(points, meta.Ground, 70, 20))
	fmt.Printf("\nLegend: • = position, ─ = ground\n")
	return nil
}

var chainFlags = []string{"config", "preset", "dt", "seed", "integrator", "particles",
	"capacity", "stiffness", "rest-length", "gravity", "closed"}

// newSimulator builds a simulator for the interactive renderers. ok is false
// when no chain flag was given, so the caller can show the preset menu
// instead.
func newSimulator(cmd *cobra.Command) (s *sim.Simulator, name string, ok bool, err error) {
	changed := false
	for _, f := range chainFlags {
		changed = changed || cmd.Flags().Changed(f)
	}
	if !changed {
		return nil, "", false, nil
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, "", false, err
	}
	s, err = sim.New(cfg.Simulation())
	if err != nil {
		return nil, "", false, err
	}
	return s, configName(), true, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, name, ok, err := newSimulator(cmd)
	if err != nil {
		return err
	}
	if !ok {
		return viz.RunInteractive()
	}
	return viz.Run(s, name)
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, name, ok, err := newSimulator(cmd)
	if err != nil {
		return err
	}
	if !ok {
		gui.RunInteractive()
		return nil
	}
	gui.Run(s, name)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	configs := make([]dynamo.Config, len(names))
	for i, name := range names {
		c := cfg.Clone()
		c.Integrator = name
		configs[i] = c.Simulation()
	}

	ensemble := sim.NewEnsemble(configs, func() []dynamo.Metric {
		return []dynamo.Metric{metrics.NewEnergyDrift(), metrics.NewHeight()}
	})

	ctx, cancel := signalContext()
	defer cancel()

	outcomes, err := ensemble.Run(ctx, cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (dt=%.4f, steps=%d, particles=%d)\n\n", cfg.Dt, cfg.Steps, cfg.Chain.Particles)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL_HEIGHT\tENERGY_DRIFT\tTIME_MS")

	for i, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", names[i], o.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%.2f\n", names[i],
			o.Metrics["height"], o.Metrics["energy_drift"],
			float64(o.Elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func benchSteps(cmd *cobra.Command, args []string) error {
	counts := []int{10, 50, 100, 250}

	fmt.Printf("benchmarking %s, %d steps\n\n", integrator, steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		cfg := dynamo.DefaultConfig()
		cfg.Integrator = integrator
		cfg.InitialCount = n
		cfg.Capacity = n
		cfg.Seed = 42

		s, err := sim.New(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := s.Run(context.Background(), steps); err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, steps, elapsed, float64(steps)/elapsed.Seconds())
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	runs, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry())
	st := storage.New(dataDir)
	if saveRuns {
		if initErr := st.Init(); initErr != nil {
			return initErr
		}
	}
	for _, r := range runs {
		fmt.Printf("\n%s: %d frames\n", r.Name, len(r.Result.Frames))
		if saveRuns {
			id, saveErr := st.Save(r.Name, r.Config, r.Result)
			if saveErr != nil {
				return saveErr
			}
			fmt.Printf("run id: %s\n", id)
		}
		printMetrics(r.Result.Metrics)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  sweepSteps,
	})
	if err != nil && len(results) == 0 {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL_HEIGHT\tMIN_ENERGY\tMAX_ENERGY\n", strings.ToUpper(paramName))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\t\t\n", r.ParamValue, r.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.6f\n", r.ParamValue, r.FinalHeight, r.MinEnergy, r.MaxEnergy)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      cfg.Seed,
	})
	if err != nil && len(results) == 0 {
		return err
	}

	heights := make([]float64, len(results))
	for i, r := range results {
		heights[i] = r.FinalHeight
	}
	stable, unstable := automation.MonteCarloStats(results)

	fmt.Printf("trials: %d (stable %d, unstable %d)\n\n", len(results), stable, unstable)
	if len(heights) > 1 {
		fmt.Println(asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("final mean height per trial"),
		))
	}
	return err
}

// parseGrid reads "name=min:max:n" into a parameter name and its values.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad grid %q: want param=min:max:n", arg)
	}
	var lo, hi float64
	var n int
	if _, err := fmt.Sscanf(rng, "%g:%g:%d", &lo, &hi, &n); err != nil {
		return "", nil, fmt.Errorf("bad grid %q: %w", arg, err)
	}
	if n < 1 {
		return "", nil, fmt.Errorf("bad grid %q: n must be at least 1", arg)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(grid))
	ranges := make([][]float64, 0, len(grid))
	for _, g := range grid {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	fmt.Printf("searching %d grid points for the lowest %s...\n", search.Size(), metricName)
	best, value, err := search.Search(ctx, optim.ChainBuilder(cfg, registry, metricName), metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g\n", metricName, value)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, best[name])
	}
	return w.Flush()
}
