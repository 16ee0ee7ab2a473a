package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/handbook-courses/internal/batch"
	"github.com/pfrederiksen/handbook-courses/internal/course"
	"github.com/pfrederiksen/handbook-courses/internal/storage"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [codes...]",
		Short: "Prefetch subject codes into the local snapshot",
		Long: `Fetches the given subject codes (arguments, or one per line via
--codes-file) and writes the successfully extracted records to the snapshot
file that serve preloads at startup.`,
		RunE: runFetch,
	}

	cmd.Flags().StringVar(&flagCodesFile, "codes-file", "", "File with one subject code per line")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots (overrides config)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker pool size (overrides config)")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	codes, err := collectCodes(args)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		return fmt.Errorf("no subject codes given (pass arguments or --codes-file)")
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	// Seed the cache with the existing snapshot so re-runs only fetch
	// codes that are still missing.
	existing, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	orch := newOrchestrator(cfg)
	orch.Cache().Warm(existing)

	var results []course.Outcome
	for ev := range orch.Run(cmd.Context(), codes) {
		switch ev.Type {
		case batch.EventProgress:
			status := "ok"
			if ev.Error != "" {
				status = ev.Error
			}
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", ev.Completed, ev.Total, ev.Code, status)
		case batch.EventComplete:
			results = ev.Results
		}
	}

	merged := mergeRecords(existing, results)
	if err := store.SaveSnapshot(merged); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	failed := 0
	for _, out := range results {
		if out.Failed() {
			failed++
		}
	}
	fmt.Printf("Saved %d courses to %s (%d failed)\n", len(merged), store.SnapshotPath(), failed)

	if failed > 0 {
		os.Exit(ExitError)
	}
	return nil
}

// collectCodes merges argument codes with the optional codes file.
func collectCodes(args []string) ([]string, error) {
	codes := make([]string, 0, len(args))
	for _, arg := range args {
		if code := strings.TrimSpace(arg); code != "" {
			codes = append(codes, code)
		}
	}

	if flagCodesFile == "" {
		return codes, nil
	}

	f, err := os.Open(flagCodesFile)
	if err != nil {
		return nil, fmt.Errorf("opening codes file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if code := strings.TrimSpace(scanner.Text()); code != "" && !strings.HasPrefix(code, "#") {
			codes = append(codes, code)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading codes file: %w", err)
	}

	return codes, nil
}

// mergeRecords folds freshly fetched records into the existing snapshot,
// replacing records that share a code and keeping the rest.
func mergeRecords(existing []*course.Record, results []course.Outcome) []*course.Record {
	byCode := make(map[string]int, len(existing))
	merged := make([]*course.Record, 0, len(existing)+len(results))
	for _, rec := range existing {
		byCode[rec.Code] = len(merged)
		merged = append(merged, rec)
	}
	for _, out := range results {
		if out.Record == nil {
			continue
		}
		if i, ok := byCode[out.Record.Code]; ok {
			merged[i] = out.Record
			continue
		}
		byCode[out.Record.Code] = len(merged)
		merged = append(merged, out.Record)
	}
	return merged
}
