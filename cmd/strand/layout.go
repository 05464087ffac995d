package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/strand/internal/config"
	"github.com/zulandar/strand/internal/design"
	"github.com/zulandar/strand/internal/layout"
	"github.com/zulandar/strand/internal/ring"
)

func newLayoutCmd() *cobra.Command {
	var (
		configPath string
		designID   string
	)

	cmd := &cobra.Command{
		Use:   "layout [bead...]",
		Short: "Print ring positions for a bead sequence",
		Long: `Computes ring placement for catalog beads given in order, or for a saved
design with --design. Prints one row per bead plus the ring radius and
predicted length.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, configPath, designID, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Strand config file")
	cmd.Flags().StringVar(&designID, "design", "", "saved design ID to lay out")
	return cmd
}

func runLayout(cmd *cobra.Command, configPath, designID string, names []string) error {
	var (
		cfg   *config.Config
		beads []ring.Bead
		err   error
	)
	if designID != "" {
		c, gormDB, err := connectFromConfig(configPath)
		if err != nil {
			return err
		}
		cfg = c
		d, err := design.Get(gormDB, designID)
		if err != nil {
			return err
		}
		beads = design.ToBeads(d)
	} else {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if len(names) == 0 {
			return fmt.Errorf("no beads given; pass catalog names or --design")
		}
		beads, err = cfg.Resolve(names)
		if err != nil {
			return err
		}
	}

	calc := layout.New(cfg.RingConfig())
	printLayout(cmd, calc, beads)
	return nil
}

func printLayout(cmd *cobra.Command, calc layout.Calculator, beads []ring.Bead) {
	out := cmd.OutOrStdout()
	res := calc.Layout(beads)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tCATEGORY\tDIAM(mm)\tX\tY\tANGLE")
	for i, p := range res.Positions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%.1f\t%.1f\t%s\n",
			i, truncate(p.Name, 24), p.Category, p.Diameter, p.X, p.Y, formatDegrees(p.Angle))
	}
	w.Flush()

	fmt.Fprintf(out, "\nRadius: %.1fpx\n", res.Radius)
	fmt.Fprintf(out, "Predicted length: %.1fcm\n", res.PredictedLength)
	if v := calc.ValidateLength(beads); !v.Valid {
		fmt.Fprintf(out, "Warning: %s\n", v.Message)
	}
}
