package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/dsp/binning"
	"github.com/cwbudde/algo-uvspec/line"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

func plotCmd() *cobra.Command {
	var (
		wavelength []float64
		velocity   []float64
		center     float64
		combined   bool
		binWidth   float64
		binMode    string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a spectral range to PNG or SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				r   spectrum.Range
				ref float64
			)
			switch {
			case len(velocity) == 2 && center > 0:
				r, ref = spectrum.VelocityRange(velocity[0], velocity[1], center), center
			case len(wavelength) == 2:
				r = spectrum.WavelengthRange(wavelength[0], wavelength[1])
			default:
				return fmt.Errorf("give --wavelength lo,hi or --velocity lo,hi with --center")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := openVisit(cfg)
			if err != nil {
				return err
			}

			var series []render.Series
			switch {
			case binWidth > 0:
				if ref == 0 {
					return fmt.Errorf("--bin needs --velocity and --center")
				}
				mode, err := binning.ParseMode(binMode)
				if err != nil {
					return err
				}
				sl, err := line.NewSpectralLine(v.Ordered(), center, velocity[0], velocity[1])
				if err != nil {
					return err
				}
				if series, err = sl.BinnedSeries(binWidth, mode); err != nil {
					return err
				}
			case combined:
				c, err := v.Combined()
				if err != nil {
					return err
				}
				s, err := c.Series(r, ref)
				if err != nil {
					return err
				}
				series = []render.Series{s}
			default:
				if series, err = v.Series(r, ref); err != nil {
					return err
				}
			}

			opts := render.DefaultOptions()
			opts.Title = r.String()
			if ref > 0 {
				opts.XLabel = "Velocity (km/s)"
			}
			return render.File{Path: output}.Render(series, opts)
		},
	}

	f := cmd.Flags()
	f.Float64SliceVar(&wavelength, "wavelength", nil, "wavelength range lo,hi in Å")
	f.Float64SliceVar(&velocity, "velocity", nil, "velocity range lo,hi in km/s")
	f.Float64Var(&center, "center", 0, "reference wavelength of --velocity in Å")
	f.BoolVar(&combined, "combined", false, "plot the co-added spectrum")
	f.Float64Var(&binWidth, "bin", 0, "average into velocity bins of this width in km/s")
	f.StringVar(&binMode, "bin-mode", binning.ModeCombine.String(), "bin uncertainty: combine or poisson")
	f.StringVarP(&output, "output", "o", "spectrum.png", "output image")
	return cmd
}
