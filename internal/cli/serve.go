package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/handbook-courses/internal/server"
	"github.com/pfrederiksen/handbook-courses/internal/storage"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the batch course API server",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots (overrides config)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker pool size (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	orch := newOrchestrator(cfg)

	// Pre-warm the cache from the snapshot so prefetched codes never hit
	// the origin.
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	records, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	orch.Cache().Warm(records)
	if len(records) > 0 {
		log.Info().Int("records", len(records)).Msg("snapshot preloaded")
	}

	srv := server.New(orch, cfg)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
