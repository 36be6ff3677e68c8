package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/catalog"
	"github.com/cwbudde/algo-uvspec/internal/config"
	"github.com/cwbudde/algo-uvspec/internal/log"
	"github.com/cwbudde/algo-uvspec/line"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

func fluxCmd() *cobra.Command {
	var (
		velocity []float64
		splits   bool
		species  string
	)

	cmd := &cobra.Command{
		Use:   "flux",
		Short: "Integrated fluxes of the configured lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(velocity) != 0 && len(velocity) != 2 {
				return fmt.Errorf("--velocity takes two values, got %d", len(velocity))
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := openVisit(cfg)
			if err != nil {
				return err
			}

			targets := v.Ordered()
			if splits {
				if err := ensureSplits(cmd.Context(), v, cfg); err != nil {
					return err
				}
				targets = nil
				for _, ss := range v.AllSplits() {
					targets = append(targets, ss...)
				}
			}

			var measurements []catalog.Measurement
			for _, l := range cfg.LineList().Lines() {
				if species != "" && l.Species != species {
					continue
				}
				r := spectrum.WavelengthRange(l.Range[0], l.Range[1])
				if len(velocity) == 2 {
					r = spectrum.VelocityRange(velocity[0], velocity[1], l.Central)
				}
				for _, s := range targets {
					m, err := catalog.Measure(s, l.Species, l.Central, r, methodOf(cfg), cfg.FluxOptions()...)
					if err != nil {
						log.Warnw("line skipped", "dataset", s.Dataset, "line", l.String(), "error", err)
						continue
					}
					measurements = append(measurements, m)
				}
			}

			printMeasurements(measurements)
			return record(cmd.Context(), cfg, measurements)
		},
	}

	cmd.Flags().Float64SliceVar(&velocity, "velocity", nil, "integrate over vmin,vmax km/s around each line instead of its range")
	cmd.Flags().BoolVar(&splits, "splits", false, "measure the time-tag splits instead of the exposures")
	cmd.Flags().StringVar(&species, "species", "", "only lines of this species")
	return cmd
}

func methodOf(cfg *config.Config) spectrum.Method {
	m, _ := spectrum.ParseMethod(cfg.Flux.Method)
	return m
}

func printMeasurements(ms []catalog.Measurement) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tLINE\tMID JD\tFLUX\tσ\tVERSION")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%s\t%.6f\t%.4e\t%.2e\t%d\n",
			m.Dataset, line.Line{Species: m.Species, Central: m.Central}, m.MidJD(), m.Flux, m.Uncertainty, m.Version)
	}
	w.Flush()
}

func record(ctx context.Context, cfg *config.Config, ms []catalog.Measurement) error {
	if cfg.Catalog == "" || len(ms) == 0 {
		return nil
	}
	c, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	for _, m := range ms {
		if _, err := c.Record(ctx, m); err != nil {
			return err
		}
	}
	log.Infow("measurements recorded", "catalog", cfg.Catalog, "count", len(ms))
	return nil
}
