package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/internal/log"
	"github.com/cwbudde/algo-uvspec/line"
)

func xcorrCmd() *cobra.Command {
	var (
		span    float64
		factor  float64
		species string
	)

	cmd := &cobra.Command{
		Use:   "xcorr",
		Short: "Line centroids by cross-correlation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := openVisit(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tLINE\tSHIFT (km/s)\tWIDTH (km/s)")
			for _, l := range cfg.LineList().Lines() {
				if species != "" && l.Species != species {
					continue
				}
				for _, s := range v.Ordered() {
					ccf, err := line.CrossCorrelate(l, s, span, factor)
					if err != nil {
						log.Warnw("cross-correlation failed", "dataset", s.Dataset, "line", l.String(), "error", err)
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\n", s.Dataset, l, ccf.Shift(), ccf.Fit.Params.Width)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&span, "span", line.DefaultSpan, "correlated wavelength span in Å")
	cmd.Flags().Float64Var(&factor, "mask-factor", line.DefaultMaskWidthFactor, "mask width as a fraction of the line half width")
	cmd.Flags().StringVar(&species, "species", "", "only lines of this species")
	return cmd
}
