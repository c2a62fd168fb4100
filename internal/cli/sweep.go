package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Go0ners/Orphan-Sweeper/pkg/cache"
	"github.com/Go0ners/Orphan-Sweeper/pkg/catalog"
	"github.com/Go0ners/Orphan-Sweeper/pkg/config"
	"github.com/Go0ners/Orphan-Sweeper/pkg/fingerprint"
	"github.com/Go0ners/Orphan-Sweeper/pkg/logging"
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
	"github.com/Go0ners/Orphan-Sweeper/pkg/output"
	"github.com/Go0ners/Orphan-Sweeper/pkg/ratelimit"
	"github.com/Go0ners/Orphan-Sweeper/pkg/sweep"
)

// SweepFlags holds sweep command flags
type SweepFlags struct {
	Source          string
	Dests           []string
	CachePath       string
	Workers         int
	Bandwidth       int64
	DryRun          bool
	AutoDelete      bool
	ForceDeleteDirs bool
	Output          string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var sweepFlags SweepFlags

// NewSweepCommand creates the sweep command
func NewSweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Find and delete orphan video files",
		Long: `Scan a source directory for video files that have no content-equivalent
copy under any destination directory, and remove them after confirmation.
Matching uses a size+mtime fast path and a partial-content fingerprint backed
by a persistent cache.`,
		RunE: runSweep,
	}

	// Required flags
	cmd.Flags().StringVarP(&sweepFlags.Source, "source", "s", "", "source directory to analyze (required)")
	cmd.Flags().StringSliceVarP(&sweepFlags.Dests, "dest", "d", nil, "destination directory, repeatable (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("dest")

	// Optional flags
	cmd.Flags().StringVar(&sweepFlags.CachePath, "cache", "", "fingerprint cache file (default: media_cache.db)")
	cmd.Flags().IntVarP(&sweepFlags.Workers, "workers", "w", 0, "parallel hashing workers (default: CPU count)")
	cmd.Flags().Int64VarP(&sweepFlags.Bandwidth, "bandwidth", "b", 0, "hash read bandwidth limit in bytes/s (0 = unlimited)")
	cmd.Flags().BoolVar(&sweepFlags.DryRun, "dry-run", false, "list orphans without deleting anything")
	cmd.Flags().BoolVar(&sweepFlags.AutoDelete, "auto-delete", false, "delete without confirmation (dangerous)")
	cmd.Flags().BoolVar(&sweepFlags.ForceDeleteDirs, "force-delete-folders", false, "delete non-empty name-matched folders without asking")
	cmd.Flags().StringVarP(&sweepFlags.Output, "output", "o", "human", "output format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&sweepFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&sweepFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&sweepFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Ctrl-C cancels between deletions, never mid-file
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validateSweepFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cfg)

	operation, err := createSweepOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create sweep operation: %w", err)
	}

	logger, err := createLogger(sweepFlags.LogFile, sweepFlags.LogFormat, sweepFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	formatter := createFormatter(cfg, operation)

	// An unusable cache degrades to full recomputation, never a failure
	store, err := cache.Open(operation.CachePath, cfg.Cache.FlushThreshold)
	if err != nil {
		formatter.Warning(models.SweepError{
			Path:  operation.CachePath,
			Stage: "cache",
			Error: err.Error(),
		})
		logger.Warn(ctx, "cache unavailable, fingerprints will be recomputed", logging.Fields{
			"path":  operation.CachePath,
			"error": err.Error(),
		})
		store = nil
	}
	defer store.Close()

	hasher := fingerprint.NewHasher(operation.BufferSize)
	hasher.SetLimiter(ratelimit.NewLimiter(operation.BandwidthLimit))
	pool := fingerprint.NewPool(hasher, store, operation.MaxWorkers, logger)

	scanner := catalog.NewScanner(config.ScanConfig{
		MinFileSize:      operation.MinFileSize,
		Extensions:       operation.Extensions,
		ExcludeSubstring: operation.ExcludeSubstring,
	}, logger)

	engine := sweep.NewEngine(scanner, store, pool, formatter, output.NewConsolePrompter(), logger, operation)

	report, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if err := formatter.Complete(report); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

// createFormatter selects the output formatter from config and flags
func createFormatter(cfg *config.Config, operation *models.SweepOperation) output.Formatter {
	switch cfg.Output.Format {
	case "json":
		return output.NewJSONFormatter()
	default:
		if cfg.Output.Progress && !cfg.Output.Quiet {
			f := output.NewProgressFormatter(cfg.Output.Quiet, operation.Verbose)
			f.SetDryRun(operation.DryRun)
			return f
		}
		f := output.NewHumanFormatter(cfg.Output.Quiet, operation.Verbose)
		f.SetDryRun(operation.DryRun)
		return f
	}
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       logFile,
		Format:     format,
		Level:      logging.ParseLevel(logLevel),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
}
