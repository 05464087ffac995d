package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/strand/internal/dashboard"
	"github.com/zulandar/strand/internal/design"
	"github.com/zulandar/strand/internal/position"
	"github.com/zulandar/strand/internal/ring"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		load       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the design session web API",
		Long:  "Starts a design session and serves it over a local web API with a live event stream.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, load)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfig, "path to Strand config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().StringVar(&load, "load", "", "saved design ID to open")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, load string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.Dashboard.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := position.NewManager(cfg.ManagerOpts())
	defer mgr.Close()

	if load != "" {
		d, err := design.Get(gormDB, load)
		if err != nil {
			return err
		}
		if err := mgr.SetBeads(ctx, design.ToBeads(d)); err != nil {
			return err
		}
	}

	var saver *design.Autosaver
	if cfg.Dashboard.Autosave != "" {
		saver, err = design.NewAutosaver(gormDB, cfg.Dashboard.Autosave, func() ([]ring.Bead, float64) {
			st := mgr.State()
			return ring.StripAll(st.Beads), st.PredictedLength
		})
		if err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:       gormDB,
		Manager:  mgr,
		Catalog:  cfg.Catalog,
		Port:     port,
		Out:      cmd.OutOrStdout(),
		Autosave: saver,
	})
}
