package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rvolchart/internal/config"
	apperrors "rvolchart/internal/errors"
	"rvolchart/internal/infrastructure"
	"rvolchart/internal/operations"
	"rvolchart/pkg/contracts"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Chart RVOL20/GEX, its rolling z-score and the SPX close",
		Long: `Reads the study workbook, computes the trailing z-score of the
gex/rvol20 column and writes a PNG chart with the ratio, the z-score and
the SPX close price. Without flags the defaults are used: rvol.study.xlsx
in, dynamic_graph_with_zscore.png out.`,
		Version:       contracts.GetFullVersionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runChart,
	}

	root.Flags().String("config", "", "config file path (default rvolchart.yaml or configs/rvolchart.yaml)")
	root.Flags().String("input", "", "input workbook path")
	root.Flags().String("output", "", "output PNG path")
	root.Flags().String("window", "", "z-score window: count (60 rows) or time (60 days)")
	root.Flags().String("csv", "", "also export the z-score column to this CSV path")
	root.Flags().Bool("preview", true, "open the chart in the desktop viewer when a display is available")

	return root
}

func runChart(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd.Flags()); err != nil {
		return err
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pipeline, err := operations.NewPipelineFromConfig(cfg, logger, telemetry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())

	logger.InfoContext(ctx, "Starting rvolchart",
		slog.String("version", config.AppVersion),
		slog.String("input", cfg.Input.Path),
		slog.String("output", cfg.Chart.OutputPath),
		slog.String("window", cfg.Window.Mode),
		slog.String("layout", cfg.ResolvedLayout()))

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

// applyFlags overlays explicitly set flags onto cfg and revalidates it
func applyFlags(cfg *config.Config, flags *pflag.FlagSet) error {
	if flags.Changed("input") {
		cfg.Input.Path, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		cfg.Chart.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("window") {
		cfg.Window.Mode, _ = flags.GetString("window")
	}
	if flags.Changed("csv") {
		cfg.Export.CSVPath, _ = flags.GetString("csv")
	}
	if flags.Changed("preview") {
		cfg.Chart.Preview, _ = flags.GetBool("preview")
	}

	if err := cfg.Validate(); err != nil {
		return apperrors.ConfigError("invalid flags", err)
	}
	return nil
}

func printSummary(w io.Writer, result *operations.RunResult) {
	fmt.Fprintf(w, "Chart written to %s\n", result.ChartPath)
	if result.CSVPath != "" {
		fmt.Fprintf(w, "Z-scores written to %s\n", result.CSVPath)
	}
	fmt.Fprintf(w, "Rows: %d, z-scores: %d valid, %d null, %d non-finite\n",
		result.Stats.Total, result.Stats.Valid, result.Stats.Null, result.Stats.NonFinite)
}
