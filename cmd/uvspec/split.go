package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Time-tag split every exposure and list the splits",
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

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EXPOSURE\tSPLIT\tSTART (UTC)\tEND (UTC)")
			for _, name := range v.Datasets {
				for _, s := range v.Splits[name] {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, s.Dataset,
						s.StartTime().Format("2006-01-02 15:04:05"), s.EndTime().Format("2006-01-02 15:04:05"))
				}
			}
			return w.Flush()
		},
	}
}
