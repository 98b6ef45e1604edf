package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/san-kum/vehiclerig/internal/config"
	"github.com/san-kum/vehiclerig/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	sceneFile  string
	configFile string
	preset     string

	dt       float64
	duration float64
	speed    float64
	torque   float64
	steer    float64

	save     bool
	asJSON   bool
	channel  string
	fourWide bool
	svgPath  string

	tuneSteps  int
	tuneMetric string

	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vehiclerig",
		Short: "wheeled vehicle rig builder and driver",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(logLevel, os.Stderr)
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vehiclerig", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&sceneFile, "scene", "", "scene description file (yaml)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "rig config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "assemble the rig and print its hierarchy",
		RunE:  buildRig,
	}
	buildCmd.Flags().StringVar(&svgPath, "svg", "", "also write the side view as SVG")

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "assemble the rig and drive it for a fixed time",
		RunE:  driveRig,
	}
	addDriveFlags(driveCmd)
	driveCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	driveCmd.Flags().BoolVar(&asJSON, "json", false, "write the run as JSON to stdout")

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "drive the same scene under several presets",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	addDriveFlags(compareCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted drive",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search suspension stiffness and damping",
		RunE:  tuneSuspension,
	}
	addDriveFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 4, "grid points per parameter")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "peak_travel", "metric to minimize")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive the rig interactively",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channel, "channel", "", "plot only channels containing this text")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write the first plotted channel as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "ride frequency and settling time per suspension",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	sceneCmd := &cobra.Command{
		Use:   "scene [path]",
		Short: "write the default scene description",
		Args:  cobra.ExactArgs(1),
		RunE:  writeScene,
	}
	sceneCmd.Flags().BoolVar(&fourWide, "four", false, "omit the middle wheels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available rig presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(buildCmd, driveCmd, compareCmd, scriptCmd, tuneCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, sceneCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addDriveFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 5.0, "duration")
	cmd.Flags().Float64Var(&speed, "speed", 10, "motor speed")
	cmd.Flags().Float64Var(&torque, "torque", 50, "motor torque")
	cmd.Flags().Float64Var(&steer, "steer", 0, "steering angle in degrees")
}
