// Command uvspec reduces HST COS ultraviolet spectra of one visit.
//
// Usage:
//
//	uvspec [--config visit.yaml] [--debug] <command> [flags]
//
// Commands:
//
//	flux         integrated fluxes of the configured lines
//	split        time-tag split every exposure and list the splits
//	systematics  fit and remove the common drift of the splits
//	airglow      fit an airglow template to a contaminated line
//	xcorr        line centroids by cross-correlation
//	plot         render a spectral range to PNG or SVG
//	lightcurve   print stored fluxes of one line over time
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/internal/config"
	"github.com/cwbudde/algo-uvspec/internal/log"
	"github.com/cwbudde/algo-uvspec/pipeline"
	"github.com/cwbudde/algo-uvspec/spectrum"
	"github.com/cwbudde/algo-uvspec/visit"
)

var (
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "uvspec",
		Short:         "HST COS ultraviolet spectra reduction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.Init(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "uvspec.yaml", "analysis configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging")

	rootCmd.AddCommand(fluxCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(systematicsCmd())
	rootCmd.AddCommand(airglowCmd())
	rootCmd.AddCommand(xcorrCmd())
	rootCmd.AddCommand(plotCmd())
	rootCmd.AddCommand(lightcurveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "uvspec: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log.Debugw("configuration loaded", "path", configPath, "datasets", cfg.Datasets)
	return cfg, nil
}

func openVisit(cfg *config.Config) (*visit.Visit, error) {
	opts := []visit.Option{
		visit.WithLoadOptions(cfg.LoadOptions()...),
		visit.WithProperError(cfg.RecomputeProperError()),
		visit.WithShiftNet(cfg.ShiftNet),
		visit.WithLogger(log.Logger()),
	}
	if cfg.Split.Command != "" {
		cmd := pipeline.NewCommand(cfg.Split.Command,
			pipeline.WithArgs(cfg.Split.Args...),
			pipeline.WithLogger(log.Logger()),
		)
		opts = append(opts, visit.WithPipeline(cmd))
	}
	v, err := visit.New(cfg.Datasets, cfg.InstrumentValue(), opts...)
	if err != nil {
		return nil, err
	}
	log.Infow("visit loaded", "instrument", v.Instrument, "exposures", len(v.Datasets))
	return v, nil
}

// ensureSplits fills v.Splits as the configuration asks.
func ensureSplits(ctx context.Context, v *visit.Visit, cfg *config.Config) error {
	s := cfg.Split
	switch {
	case s.Existing:
		return v.AssignSplits(s.OutDir)
	case s.Count > 0:
		return v.TimeTagSplit(ctx, s.Count, s.Calibration, s.OutDir)
	case len(s.Bins) > 0:
		return v.TimeTagSplitBins(ctx, s.Bins, s.Calibration, s.OutDir)
	default:
		return fmt.Errorf("%w: configuration has no split count, bins or existing splits", spectrum.ErrMissingPrerequisite)
	}
}
