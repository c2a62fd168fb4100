package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Go0ners/Orphan-Sweeper/pkg/config"
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// validateSweepFlags validates the sweep command flags
func validateSweepFlags() error {
	info, err := os.Stat(sweepFlags.Source)
	if os.IsNotExist(err) {
		return fmt.Errorf("source path does not exist: %s", sweepFlags.Source)
	} else if err != nil {
		return fmt.Errorf("failed to access source path: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", sweepFlags.Source)
	}

	sourceAbs, err := filepath.Abs(sweepFlags.Source)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}

	for _, dest := range sweepFlags.Dests {
		info, err := os.Stat(dest)
		if os.IsNotExist(err) {
			return fmt.Errorf("destination path does not exist: %s", dest)
		} else if err != nil {
			return fmt.Errorf("failed to access destination path: %w", err)
		} else if !info.IsDir() {
			return fmt.Errorf("destination path is not a directory: %s", dest)
		}

		destAbs, err := filepath.Abs(dest)
		if err != nil {
			return fmt.Errorf("failed to resolve destination path: %w", err)
		}
		if sourceAbs == destAbs {
			return fmt.Errorf("source and destination cannot be the same: %s", sourceAbs)
		}
	}

	validOutputs := map[string]bool{"human": true, "json": true}
	if !validOutputs[sweepFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", sweepFlags.Output)
	}

	if sweepFlags.DryRun && sweepFlags.AutoDelete {
		return fmt.Errorf("--dry-run and --auto-delete are mutually exclusive")
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	if sweepFlags.CachePath != "" {
		cfg.Cache.Path = sweepFlags.CachePath
	}

	if sweepFlags.Workers > 0 {
		cfg.Performance.MaxWorkers = sweepFlags.Workers
	}

	if sweepFlags.Bandwidth > 0 {
		cfg.Performance.BandwidthLimit = sweepFlags.Bandwidth
	}

	if sweepFlags.Output != "" {
		cfg.Output.Format = sweepFlags.Output
	}

	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createSweepOperation creates a sweep operation from configuration
func createSweepOperation(cfg *config.Config) (*models.SweepOperation, error) {
	operation := &models.SweepOperation{
		ID:               uuid.New().String(),
		SourcePath:       sweepFlags.Source,
		DestPaths:        sweepFlags.Dests,
		CachePath:        cfg.Cache.Path,
		DryRun:           sweepFlags.DryRun,
		AutoDelete:       sweepFlags.AutoDelete,
		ForceDeleteDirs:  sweepFlags.ForceDeleteDirs,
		MaxWorkers:       cfg.Performance.MaxWorkers,
		BufferSize:       cfg.Performance.BufferSize,
		BandwidthLimit:   cfg.Performance.BandwidthLimit,
		MinFileSize:      cfg.Scan.MinFileSize,
		Extensions:       cfg.Scan.Extensions,
		ExcludeSubstring: cfg.Scan.ExcludeSubstring,
		Verbose:          globalFlags.Verbose,
		CreatedAt:        time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
