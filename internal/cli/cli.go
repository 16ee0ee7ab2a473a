// Package cli wires the cobra commands for the handbook-courses binary.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/handbook-courses/internal/batch"
	"github.com/pfrederiksen/handbook-courses/internal/config"
	"github.com/pfrederiksen/handbook-courses/internal/logging"
	"github.com/pfrederiksen/handbook-courses/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig string
	flagAddr   string

	flagCodesFile string
	flagDataDir   string
	flagWorkers   int
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "handbook-courses",
		Short: "Batch-fetch structured course records from the UTS handbook",
		Long: `Extracts structured course records from UTS handbook subject pages.

serve runs the HTTP API with progress streaming; fetch prefetches a list of
subject codes into a local snapshot the server loads at startup.`,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newFetchCmd())

	return root
}

// loadConfig resolves config from defaults, file and environment, then
// applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	return cfg, nil
}

// newOrchestrator builds the fetch pipeline shared by serve and fetch.
func newOrchestrator(cfg config.Config) *batch.Orchestrator {
	sc := scraper.New(cfg.BaseURL)
	return batch.New(sc, batch.NewCache(), batch.Config{
		Workers:      cfg.Workers,
		RequestDelay: time.Duration(cfg.RequestDelay),
	})
}

func setupLogging(cfg config.Config) {
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
