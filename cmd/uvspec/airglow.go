package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-uvspec/fit/mcmc"
	"github.com/cwbudde/algo-uvspec/internal/log"
	"github.com/cwbudde/algo-uvspec/line"
)

func airglowCmd() *cobra.Command {
	var (
		templatePath string
		center       float64
		lineRange    []float64
		fitRange     []float64
		shift        float64
		scale        float64
		walkers      int
		steps        int
		chainPath    string
	)

	cmd := &cobra.Command{
		Use:   "airglow",
		Short: "Fit an airglow template to a contaminated line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(lineRange) != 2 || len(fitRange) != 2 {
				return fmt.Errorf("--range and --fit-range take two values each")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := openVisit(cfg)
			if err != nil {
				return err
			}
			tpl, err := readTemplateFile(templatePath, center)
			if err != nil {
				return err
			}

			cl, err := line.NewContaminatedLine(v.Ordered(), tpl, center, lineRange[0], lineRange[1])
			if err != nil {
				return err
			}
			scales := make([]float64, cl.Len())
			for i := range scales {
				scales[i] = scale
			}
			tf, err := cl.FitTemplate(fitRange[0], fitRange[1], shift, scales)
			if err != nil {
				return err
			}
			log.Infow("template fitted", "shift", tf.Shift, "objective", tf.Objective, "converged", tf.Converged)

			flux, unc, err := cl.IntegratedCleanFlux(fitRange[0], fitRange[1])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "shift\t%.3f km/s\n", tf.Shift)
			fmt.Fprintln(w, "DATASET\tSCALE\tCLEAN FLUX\tσ")
			for i, name := range cl.Datasets {
				fmt.Fprintf(w, "%s\t%.4f\t%.4e\t%.2e\n", name, tf.Scales[i], flux[i], unc[i])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if steps == 0 {
				return nil
			}
			sampleOpts := []line.SampleOption{line.WithSteps(steps), line.WithSamplerOptions(mcmc.WithSeed(cfg.Flux.Seed))}
			if walkers > 0 {
				sampleOpts = append(sampleOpts, line.WithWalkers(walkers))
			}
			chain, err := cl.Sample(cmd.Context(), tf, sampleOpts...)
			if err != nil {
				return err
			}
			burn := steps / 2
			log.Infow("chain sampled", "acceptance", chain.AcceptanceFraction(),
				"mean", chain.Mean(burn), "stddev", chain.StdDev(burn))
			if chainPath != "" {
				return chain.SaveFile(chainPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&templatePath, "template", "", "airglow template: wavelength, flux and optional error columns")
	f.Float64Var(&center, "center", 1215.67, "line center in Å")
	f.Float64SliceVar(&lineRange, "range", []float64{-line.DefaultContaminatedVelocityRange, line.DefaultContaminatedVelocityRange}, "extracted velocity range in km/s")
	f.Float64SliceVar(&fitRange, "fit-range", []float64{-line.DefaultVelocityRange, line.DefaultVelocityRange}, "fitted velocity range in km/s")
	f.Float64Var(&shift, "shift", 0, "initial template shift in km/s")
	f.Float64Var(&scale, "scale", 1, "initial template scale of every exposure")
	f.IntVar(&walkers, "walkers", 0, "ensemble walkers, 0 for the default")
	f.IntVar(&steps, "steps", 0, "ensemble steps, 0 to skip sampling")
	f.StringVar(&chainPath, "chain", "", "write the sampled chain to this file")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func readTemplateFile(path string, ref float64) (*line.AirglowTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTemplate(f, ref)
}

// readTemplate parses whitespace-separated columns; lines starting with
// '#' are skipped.
func readTemplate(r io.Reader, ref float64) (*line.AirglowTemplate, error) {
	var wl, flux, sigma []float64
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("template line %d: want 2 or 3 columns, got %d", n, len(fields))
		}
		row := make([]float64, len(fields))
		for i, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("template line %d: %w", n, err)
			}
			row[i] = v
		}
		wl = append(wl, row[0])
		flux = append(flux, row[1])
		if len(row) == 3 {
			sigma = append(sigma, row[2])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(sigma) != 0 && len(sigma) != len(wl) {
		return nil, fmt.Errorf("template: %d of %d rows carry an error column", len(sigma), len(wl))
	}
	return line.NewAirglowTemplate(wl, flux, sigma, ref)
}
