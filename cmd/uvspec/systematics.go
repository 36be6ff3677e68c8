package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/catalog"
	"github.com/cwbudde/algo-uvspec/internal/log"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
	"github.com/cwbudde/algo-uvspec/stats/variability"
	"github.com/cwbudde/algo-uvspec/systematics"
)

func systematicsCmd() *cobra.Command {
	var plot bool

	cmd := &cobra.Command{
		Use:   "systematics",
		Short: "Fit and remove the common drift of the time-tag splits",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := openVisit(cfg)
			if err != nil {
				return err
			}
			if err := ensureSplits(cmd.Context(), v, cfg); err != nil {
				return err
			}

			sys := cfg.Systematics
			verifyOpts := []systematics.Option{systematics.WithFluxOptions(cfg.FluxOptions()...)}
			if len(sys.VelocityRange) == 2 {
				verifyOpts = append(verifyOpts,
					systematics.WithVelocityRange(sys.VelocityRange[0], sys.VelocityRange[1]),
					systematics.WithRVCorrections(sys.RVCorrections),
				)
			}
			var correctOpts []systematics.CorrectOption
			if sys.JDShift != 0 {
				correctOpts = append(correctOpts, systematics.WithJDShift(sys.JDShift))
			}
			if sys.RecomputeErrors {
				correctOpts = append(correctOpts, systematics.WithRecomputeErrors(cfg.ShiftNet))
			}

			list := cfg.LineList()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EXPOSURE\tSPLIT\tMID JD\tNORMALIZED FLUX\tFACTOR")

			var measurements []catalog.Measurement
			for _, name := range v.Datasets {
				splits := v.Splits[name]
				series, err := systematics.Verify(splits, list, verifyOpts...)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				baseline := series.Baseline()
				res, err := systematics.Correct(v.Exposures[name], splits, series, baseline, sys.Degree, correctOpts...)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				drift, err := variability.Calculate(series.Flux, series.Uncertainty)
				if err != nil {
					return err
				}
				log.Infow("systematics corrected", "dataset", name, "coefficients", res.Coefficients, "rms", res.RMS,
					"reduced_chi2", drift.ReducedChi2, "fvar", drift.FractionalVariability)

				for i, s := range res.Splits {
					fmt.Fprintf(w, "%s\t%s\t%.6f\t%.4f\t%.4f\n", name, s.Dataset, series.Time[i], series.Flux[i]/baseline, res.Factors[i])
				}

				if plot && cfg.PlotDir != "" {
					path := filepath.Join(cfg.PlotDir, name+"_systematics.png")
					opts := render.DefaultOptions()
					opts.Title, opts.XLabel, opts.YLabel = name, "Time (min)", "Normalized sum of integrated fluxes"
					opts.Style, opts.ErrorBars = render.StylePoints, true
					if err := (render.File{Path: path}).Render([]render.Series{series.Plot(v.Exposures[name].MidJD(), true)}, opts); err != nil {
						return err
					}
				}

				for _, l := range list.Lines() {
					r := spectrum.WavelengthRange(l.Range[0], l.Range[1])
					m, err := catalog.Measure(res.Parent, l.Species, l.Central, r, methodOf(cfg), cfg.FluxOptions()...)
					if err != nil {
						log.Warnw("line skipped", "dataset", name, "line", l.String(), "error", err)
						continue
					}
					measurements = append(measurements, m)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return record(cmd.Context(), cfg, measurements)
		},
	}

	cmd.Flags().BoolVar(&plot, "plot", false, "write the drift series to the plot directory")
	return cmd
}
