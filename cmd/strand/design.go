package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/strand/internal/design"
	"github.com/zulandar/strand/internal/layout"
)

func newDesignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Saved design commands",
	}

	cmd.AddCommand(newDesignCreateCmd())
	cmd.AddCommand(newDesignListCmd())
	cmd.AddCommand(newDesignShowCmd())
	cmd.AddCommand(newDesignDeleteCmd())
	return cmd
}

func newDesignCreateCmd() *cobra.Command {
	var (
		configPath string
		name       string
		beads      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a design from catalog beads",
		Long:  "Saves a new design built from a comma-separated list of catalog bead names, in ring order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesignCreate(cmd, configPath, name, splitNames(beads))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Strand config file")
	cmd.Flags().StringVar(&name, "name", "", "design name (required)")
	cmd.Flags().StringVar(&beads, "beads", "", "comma-separated catalog bead names")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runDesignCreate(cmd *cobra.Command, configPath, name string, names []string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	beads, err := cfg.Resolve(names)
	if err != nil {
		return err
	}

	calc := layout.New(cfg.RingConfig())
	d, err := design.Save(gormDB, design.SaveOpts{
		Name:            name,
		Beads:           beads,
		PredictedLength: calc.PredictedLength(beads),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created design %s\n", d.ID)
	fmt.Fprintf(out, "Beads: %d, predicted length %.1fcm\n", d.BeadCount, d.PredictedLength)
	if v := calc.ValidateLength(beads); !v.Valid {
		fmt.Fprintf(out, "Warning: %s\n", v.Message)
	}
	return nil
}

func newDesignListCmd() *cobra.Command {
	var (
		configPath string
		name       string
		drafts     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved designs",
		Long:  "Lists saved designs, most recently updated first. Autosaved drafts are hidden unless --drafts is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := design.ListFilters{Name: name}
			if !drafts {
				f := false
				filters.Draft = &f
			}
			return runDesignList(cmd, configPath, filters)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Strand config file")
	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	cmd.Flags().BoolVar(&drafts, "drafts", false, "include autosaved drafts")
	return cmd
}

func runDesignList(cmd *cobra.Command, configPath string, filters design.ListFilters) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	designs, err := design.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(designs) == 0 {
		fmt.Fprintln(out, "No designs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBEADS\tLENGTH\tUPDATED")
	for _, d := range designs {
		name := truncate(d.Name, 40)
		if d.Draft {
			name += " (draft)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fcm\t%s\n",
			d.ID, name, d.BeadCount, d.PredictedLength, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func newDesignShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved design",
		Long:  "Displays a saved design with the ring position of every bead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesignShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Strand config file")
	return cmd
}

func runDesignShow(cmd *cobra.Command, configPath, id string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	d, err := design.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", d.ID)
	fmt.Fprintf(out, "Name:     %s\n", d.Name)
	if d.Draft {
		fmt.Fprintln(out, "Draft:    yes")
	}
	fmt.Fprintf(out, "Updated:  %s\n\n", d.UpdatedAt.Format("2006-01-02 15:04"))

	printLayout(cmd, layout.New(cfg.RingConfig()), design.ToBeads(d))
	return nil
}

func newDesignDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := design.Delete(gormDB, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted design %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Strand config file")
	return cmd
}
