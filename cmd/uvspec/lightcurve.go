package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/catalog"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/stats/variability"
)

func lightcurveCmd() *cobra.Command {
	var (
		dataset string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "lightcurve <species>",
		Short: "Print stored fluxes of one line over time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Catalog == "" {
				return fmt.Errorf("configuration has no catalog")
			}
			c, err := catalog.Open(cfg.Catalog)
			if err != nil {
				return err
			}
			defer c.Close()

			ms, err := c.LightCurve(cmd.Context(), dataset, args[0])
			if err != nil {
				return err
			}
			printMeasurements(ms)
			if err := printVariability(ms); err != nil {
				return err
			}

			if output == "" || len(ms) == 0 {
				return nil
			}
			s := lightCurveSeries(args[0], ms)
			opts := render.DefaultOptions()
			opts.Title = args[0]
			opts.XLabel, opts.YLabel = "Time (min)", "Integrated flux (erg/s/cm²)"
			opts.Style = render.StylePoints
			return render.File{Path: output}.Render([]render.Series{s}, opts)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset prefix")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also plot the light curve to this image")
	return cmd
}

// lightCurveSeries puts the measurements on a minute axis starting at the
// first one.
func lightCurveSeries(label string, ms []catalog.Measurement) render.Series {
	s := render.Series{Label: label}
	t0 := ms[0].MidJD()
	for _, m := range ms {
		s.X = append(s.X, (m.MidJD()-t0)*24*60)
		s.Y = append(s.Y, m.Flux)
		s.Err = append(s.Err, m.Uncertainty)
	}
	return s
}

func printVariability(ms []catalog.Measurement) error {
	flux := make([]float64, len(ms))
	sigma := make([]float64, len(ms))
	for i, m := range ms {
		flux[i], sigma[i] = m.Flux, m.Uncertainty
	}
	s, err := variability.Calculate(flux, sigma)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stdout, "\nweighted mean %.4e ± %.2e, χ²/dof %.2f, Fvar %.3f, range %.1f%%\n",
		s.WeightedMean, s.WeightedMeanError, s.ReducedChi2, s.FractionalVariability, 100*s.Amplitude)
	return err
}
