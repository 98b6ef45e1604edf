package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/vehiclerig/internal/analysis"
	"github.com/san-kum/vehiclerig/internal/automation"
	"github.com/san-kum/vehiclerig/internal/config"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/cpscene"
	"github.com/san-kum/vehiclerig/internal/export"
	"github.com/san-kum/vehiclerig/internal/metrics"
	"github.com/san-kum/vehiclerig/internal/optim"
	"github.com/san-kum/vehiclerig/internal/rig"
	"github.com/san-kum/vehiclerig/internal/scene"
	"github.com/san-kum/vehiclerig/internal/sim"
	"github.com/san-kum/vehiclerig/internal/storage"
	"github.com/san-kum/vehiclerig/internal/viz"
	"github.com/spf13/cobra"
)

var errConfigWithPresets = errors.New("compare runs presets; --config would replace every one of them")

func loadConfig(name string) (*config.RigConfig, error) {
	switch {
	case configFile != "":
		return config.Load(configFile)
	case name != "":
		cfg := config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(config.ListPresets(), ", "))
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func loadScene() (*scene.Description, error) {
	if sceneFile == "" {
		return scene.SixWheeler(), nil
	}
	return scene.LoadDescription(sceneFile)
}

// assemble builds a solver-backed scene for the preset and puts the
// rig on it with the drive flags applied to its controls.
func assemble(presetName string) (*cpscene.Space, *rig.Rig, error) {
	cfg, err := loadConfig(presetName)
	if err != nil {
		return nil, nil, err
	}
	return assembleWith(cfg)
}

func assembleWith(cfg *config.RigConfig) (*cpscene.Space, *rig.Rig, error) {
	desc, err := loadScene()
	if err != nil {
		return nil, nil, err
	}

	space := cpscene.New(desc, cpscene.DefaultOptions())
	r, err := rig.NewAssembler(space, cfg, rig.WithLogger(log)).Assemble()
	if err != nil {
		return nil, nil, err
	}
	return space, r, nil
}

func applyControls(r *rig.Rig) {
	for name, v := range map[string]float64{
		control.MotorSpeed:  speed,
		control.MotorTorque: torque,
		control.SteerAngle:  steer,
	} {
		if got, _ := r.Controls.Set(name, v); got != v {
			log.Warn().Str("param", name).Float64("requested", v).Float64("applied", got).Msg("control clamped")
		}
	}
}

func newSimulator(space *cpscene.Space, r *rig.Rig) *sim.Simulator {
	return withMetrics(sim.New(space, r), space, r)
}

// withMetrics adds the standard metrics, judging travel against the
// rig's own suspension bounds.
func withMetrics(s *sim.Simulator, space *cpscene.Space, r *rig.Rig) *sim.Simulator {
	lower, upper := config.DefaultSuspLower, config.DefaultSuspUpper
	if wheels := r.WheelRigs(); len(wheels) > 0 {
		lower, upper = wheels[0].Suspension.Lower, wheels[0].Suspension.Upper
	}
	for _, m := range metrics.Standard(space.Channels(), lower, upper) {
		s.AddMetric(m)
	}
	return s
}

func buildRig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(preset)
	if err != nil {
		return err
	}
	desc, err := loadScene()
	if err != nil {
		return err
	}

	store := scene.NewMemory(desc)
	r, err := rig.NewAssembler(store, cfg, rig.WithLogger(log)).Assemble()
	if err != nil {
		return err
	}

	objects := 0
	store.Walk(func(*scene.Object, int) bool {
		objects++
		return true
	})

	fmt.Print(viz.RenderTree(r))
	fmt.Printf("\n%d wheels rigged, %d scene objects\n", len(r.WheelRigs()), objects)

	if svgPath != "" {
		svg := export.CanvasToSVG(viz.SideCanvas(store, r, 80, 20), 4)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		log.Info().Str("path", svgPath).Msg("side view written")
	}
	return nil
}

func driveRig(cmd *cobra.Command, args []string) error {
	space, r, err := assemble(preset)
	if err != nil {
		return err
	}
	applyControls(r)

	cfg := sim.Config{Dt: dt, Duration: duration, ValidateState: true}
	result, err := newSimulator(space, r).Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		log.Warn().Err(e).Msg("simulation diverged")
	}

	meta := storage.RunMetadata{
		Preset:   preset,
		Scene:    sceneFile,
		Dt:       dt,
		Duration: duration,
		Controls: r.Controls.Values(),
	}

	if asJSON {
		return storage.ExportJSON(os.Stdout, meta, result)
	}

	printMetrics(map[string]*sim.Result{presetLabel(preset): result})

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		log.Info().Str("run", runID).Int("steps", result.StepsTaken).Msg("run saved")
	}
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		return errConfigWithPresets
	}
	cases := make([]sim.Case, len(args))
	for i, name := range args {
		name := name
		cases[i] = sim.Case{
			Name: name,
			Build: func() (*sim.Simulator, error) {
				space, r, err := assemble(name)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				applyControls(r)
				return newSimulator(space, r), nil
			},
		}
	}

	results, err := sim.Sweep(cmd.Context(), sim.Config{Dt: dt, Duration: duration, ValidateState: true}, cases)
	if err != nil {
		return err
	}

	byName := make(map[string]*sim.Result, len(results))
	for i, res := range results {
		byName[cases[i].Name] = res
	}
	printMetrics(byName)
	return nil
}

func presetLabel(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

func printMetrics(results map[string]*sim.Result) {
	names := make([]string, 0, len(results))
	for n := range results {
		names = append(names, n)
	}
	sort.Strings(names)

	var keys []string
	for k := range results[names[0]].Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "PRESET\tSTEPS")
	for _, k := range keys {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(k))
	}
	fmt.Fprintln(w)
	for _, n := range names {
		res := results[n]
		fmt.Fprintf(w, "%s\t%d", n, res.StepsTaken)
		for _, k := range keys {
			fmt.Fprintf(w, "\t%.3f", res.Metrics[k])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	name := script.Preset
	if cmd.Flags().Changed("preset") {
		name = preset
	}

	space, r, err := assemble(name)
	if err != nil {
		return err
	}
	if err := script.Validate(r.Controls); err != nil {
		return err
	}

	tl := automation.NewTimeline(script, r.Controls, r)
	s := withMetrics(sim.New(space, tl), space, r)

	log.Info().Str("script", script.Name).Int("segments", len(script.Segments)).Float64("duration", script.Duration()).Msg("running script")
	result, err := s.Run(cmd.Context(), sim.Config{Dt: script.Dt, Duration: script.Duration(), ValidateState: true})
	if err != nil {
		return err
	}
	printMetrics(map[string]*sim.Result{script.Name: result})

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:   presetLabel(name),
			Scene:    sceneFile,
			Dt:       script.Dt,
			Duration: script.Duration(),
			Controls: r.Controls.Values(),
		}, result)
		if err != nil {
			return err
		}
		log.Info().Str("run", runID).Msg("run saved")
	}
	return nil
}

func tuneSuspension(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(preset)
	if err != nil {
		return err
	}

	grid := optim.NewGridSearch(
		[]string{"stiffness", "damping"},
		[][]float64{optim.Linspace(1, 10, tuneSteps), optim.Linspace(0.05, 2, tuneSteps)},
	)
	build := func(p map[string]float64) (*sim.Simulator, error) {
		cfg := base.Clone()
		cfg.Suspension.Stiffness = p["stiffness"]
		cfg.Suspension.Damping = p["damping"]
		space, r, err := assembleWith(cfg)
		if err != nil {
			return nil, err
		}
		applyControls(r)
		return newSimulator(space, r), nil
	}

	best, all, err := grid.Search(cmd.Context(), build, sim.Config{Dt: dt, Duration: duration, ValidateState: true}, tuneMetric)
	if err != nil {
		return err
	}
	log.Debug().Int("points", len(all)).Msg("grid evaluated")

	fmt.Printf("best %s = %.4f at stiffness %.3f, damping %.3f\n", tuneMetric, best.Value, best.Params["stiffness"], best.Params["damping"])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	space, r, err := assemble(preset)
	if err != nil {
		return err
	}
	return viz.RunDashboard(r, space, dt)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSPEED\tSTEER")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.1f\t%.1f\n",
			run.ID,
			presetLabel(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Controls[control.MotorSpeed],
			run.Controls[control.SteerAngle],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(res.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nsamples: %d\n\n", args[0], len(res.States))

	const maxPlots = 6
	plotted := 0
	for _, name := range res.Channels {
		if channel != "" && !strings.Contains(name, channel) {
			continue
		}
		if plotted == maxPlots {
			break
		}
		data, _ := res.Channel(name)
		if svgPath != "" && plotted == 0 {
			svg := export.SeriesToSVG(name, res.Times, data, 800, 300, "#00ccff")
			if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
				return err
			}
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		))
		fmt.Println()
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("no channel matches %q", channel)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tRIDE_HZ\tSETTLED_AT\tFINAL")
	for _, i := range metrics.Select(res.Channels, ".travel") {
		name := res.Channels[i]
		data, _ := res.Channel(name)
		if len(data) == 0 {
			continue
		}
		settled := "-"
		if ts, ok := analysis.Settle(data, res.Times, 1.0); ok {
			settled = fmt.Sprintf("%.2fs", ts)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\n", name, analysis.DominantFrequency(data, meta.Dt), settled, data[len(data)-1])
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, res)
}

func writeScene(cmd *cobra.Command, args []string) error {
	desc := scene.SixWheeler()
	if fourWide {
		desc = scene.FourWheeler()
	}
	if err := scene.SaveDescription(args[0], desc); err != nil {
		return err
	}
	log.Info().Str("path", args[0]).Int("bodies", len(desc.Bodies)).Msg("scene written")
	return nil
}
