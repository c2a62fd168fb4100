// Package sweep orchestrates an orphan sweep: catalog scanning, scope
// correlation, fast filtering, fingerprinting, orphan detection and the
// removal session.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/cache"
	"github.com/Go0ners/Orphan-Sweeper/pkg/catalog"
	"github.com/Go0ners/Orphan-Sweeper/pkg/fingerprint"
	"github.com/Go0ners/Orphan-Sweeper/pkg/logging"
	"github.com/Go0ners/Orphan-Sweeper/pkg/match"
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
	"github.com/Go0ners/Orphan-Sweeper/pkg/output"
)

// Engine runs the full sweep data flow
type Engine struct {
	scanner   *catalog.Scanner
	store     *cache.Store
	pool      *fingerprint.Pool
	formatter output.Formatter
	prompter  Prompter
	logger    logging.Logger
	operation *models.SweepOperation
}

// NewEngine creates a sweep engine
func NewEngine(
	scanner *catalog.Scanner,
	store *cache.Store,
	pool *fingerprint.Pool,
	formatter output.Formatter,
	prompter Prompter,
	logger logging.Logger,
	operation *models.SweepOperation,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		scanner:   scanner,
		store:     store,
		pool:      pool,
		formatter: formatter,
		prompter:  prompter,
		logger:    logger,
		operation: operation,
	}
}

// scopeWork bundles a scope with its fast-filter outcome
type scopeWork struct {
	scope      models.Scope
	candidates []models.FileEntry
	destToHash []models.FileEntry
}

// Run executes the sweep and returns the report. Only a missing or unreadable
// root path is a fatal error; everything else is recorded as a warning and
// the sweep continues.
func (e *Engine) Run(ctx context.Context) (*models.SweepReport, error) {
	startTime := time.Now()
	report := &models.SweepReport{
		OperationID: e.operation.ID,
		SourcePath:  e.operation.SourcePath,
		DestPaths:   e.operation.DestPaths,
		DryRun:      e.operation.DryRun,
		StartTime:   startTime,
		Status:      models.StatusSuccess,
	}

	e.logger.Info(ctx, "starting sweep", logging.Fields{
		"operation_id": e.operation.ID,
		"source":       e.operation.SourcePath,
		"destinations": len(e.operation.DestPaths),
		"max_workers":  e.operation.MaxWorkers,
		"dry_run":      e.operation.DryRun,
	})

	// Phase 1: scan source and destination trees
	source, dests, err := e.scanAll(ctx, report)
	if err != nil {
		report.Status = models.StatusFailed
		return report, err
	}

	// Phase 2: correlate subdirectories into comparison scopes
	scopes, unmatched := catalog.Correlate(source, dests)
	report.Stats.ScopesMatched = len(scopes)
	for i := range scopes {
		e.formatter.ScopeMatched(scopes[i].ID, scopes[i].DestRoots)
	}
	if len(unmatched) > 0 {
		e.logger.Info(ctx, "source entries without a correlated scope", logging.Fields{
			"count": len(unmatched),
		})
	}

	// Phase 3: fast filter each scope on exact (size, mtime) twins
	works := make([]scopeWork, 0, len(scopes))
	totalCandidates := 0
	for i := range scopes {
		filtered := match.FastFilter(&scopes[i])
		report.Stats.FastFilterMatched += filtered.Matched
		totalCandidates += len(filtered.Candidates)

		// Destination files whose size matches no candidate can never
		// produce a fingerprint match, so they are not worth hashing
		sizes := match.SizeSet(filtered.Candidates)
		var destToHash []models.FileEntry
		for j := range scopes[i].DestEntries {
			if _, ok := sizes[scopes[i].DestEntries[j].Size]; ok {
				destToHash = append(destToHash, scopes[i].DestEntries[j])
			}
		}

		works = append(works, scopeWork{
			scope:      scopes[i],
			candidates: filtered.Candidates,
			destToHash: destToHash,
		})
	}
	report.Stats.HashingCandidates = totalCandidates + len(unmatched)
	e.formatter.FastFilterResult(report.Stats.HashingCandidates, report.Stats.SourceFilesScanned)

	// Phase 4: fingerprint candidates, then the restricted destination set
	var sourceToHash []models.FileEntry
	for i := range works {
		sourceToHash = append(sourceToHash, works[i].candidates...)
	}
	sourceToHash = append(sourceToHash, unmatched...)

	var destToHash []models.FileEntry
	for i := range works {
		destToHash = append(destToHash, works[i].destToHash...)
	}

	e.pool.SetProgressCallback(e.formatter.FingerprintProgress)
	e.pool.SetMessageCallback(e.formatter.FingerprintMessage)

	e.formatter.FingerprintStart("candidate", len(sourceToHash))
	sourceResult := e.pool.FingerprintAll(ctx, sourceToHash)
	e.formatter.FingerprintDone()

	e.formatter.FingerprintStart("destination", len(destToHash))
	destResult := e.pool.FingerprintAll(ctx, destToHash)
	e.formatter.FingerprintDone()

	e.collectFingerprintStats(report, sourceResult, destResult)

	// Confirmed cache state must be durable before anything is deleted
	if err := e.store.Flush(); err != nil {
		e.warn(report, models.SweepError{
			Path:      "",
			Stage:     "cache",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
	}

	if ctx.Err() != nil {
		report.Status = models.StatusAborted
		report.EndTime = time.Now()
		report.Duration = report.EndTime.Sub(startTime)
		return report, nil
	}

	// Phase 5: detect orphans per scope; unmatched entries have no
	// destination set and are automatic orphans
	var orphans []models.OrphanCandidate
	for i := range works {
		destFPs := make(map[string]string, len(works[i].destToHash))
		for j := range works[i].destToHash {
			path := works[i].destToHash[j].Path
			if fp, ok := destResult.Fingerprints[path]; ok {
				destFPs[path] = fp
			}
		}
		orphans = append(orphans, match.Detect(works[i].candidates, sourceResult.Fingerprints, destFPs)...)
	}
	orphans = append(orphans, match.Detect(unmatched, sourceResult.Fingerprints, nil)...)
	match.SortOrphans(orphans)

	report.Orphans = orphans
	report.Stats.OrphansDetected = len(orphans)
	for i := range orphans {
		report.Stats.OrphanBytes += orphans[i].Entry.Size
		e.formatter.OrphanDetected(orphans[i])
	}

	// Phase 6: removal session
	if len(orphans) > 0 {
		session := NewSession(e.prompter, e.formatter, e.logger, SessionConfig{
			DryRun:          e.operation.DryRun,
			AutoDelete:      e.operation.AutoDelete,
			ForceDeleteDirs: e.operation.ForceDeleteDirs,
		})
		results, aborted := session.Run(ctx, orphans)
		report.Removals = results
		e.collectRemovalStats(report, results)
		if aborted {
			report.Status = models.StatusAborted
		}
	}

	if report.Status == models.StatusSuccess && e.hasFailures(report) {
		report.Status = models.StatusPartial
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(startTime)

	e.logger.Info(ctx, "sweep finished", logging.Fields{
		"status":   string(report.Status),
		"orphans":  report.Stats.OrphansDetected,
		"deleted":  report.Stats.FilesDeleted,
		"duration": report.Duration.String(),
	})

	return report, nil
}

// scanAll scans the source and every destination root. Any root failure is
// fatal.
func (e *Engine) scanAll(ctx context.Context, report *models.SweepReport) (*catalog.Catalog, []*catalog.Catalog, error) {
	e.formatter.ScanStarted(e.operation.SourcePath)
	source, err := e.scanner.Scan(ctx, e.operation.SourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("source scan failed: %w", err)
	}
	e.formatter.ScanCompleted(source.Root, len(source.Entries))
	report.Stats.SourceFilesScanned = len(source.Entries)
	for _, warning := range source.Warnings {
		e.warn(report, warning)
	}

	dests := make([]*catalog.Catalog, 0, len(e.operation.DestPaths))
	for _, destPath := range e.operation.DestPaths {
		e.formatter.ScanStarted(destPath)
		dest, err := e.scanner.Scan(ctx, destPath)
		if err != nil {
			return nil, nil, fmt.Errorf("destination scan failed: %w", err)
		}
		e.formatter.ScanCompleted(dest.Root, len(dest.Entries))
		report.Stats.DestFilesScanned += len(dest.Entries)
		for _, warning := range dest.Warnings {
			e.warn(report, warning)
		}
		dests = append(dests, dest)
	}

	return source, dests, nil
}

// warn records a recoverable error on the report and forwards it to the
// formatter
func (e *Engine) warn(report *models.SweepReport, warning models.SweepError) {
	report.Warnings = append(report.Warnings, warning)
	e.formatter.Warning(warning)
}

func (e *Engine) collectFingerprintStats(report *models.SweepReport, results ...*fingerprint.Result) {
	for _, result := range results {
		report.Stats.FingerprintsComputed += result.Computed
		report.Stats.CacheHits += result.CacheHits
		report.Stats.FingerprintErrors += len(result.Warnings)
		for _, warning := range result.Warnings {
			e.warn(report, warning)
		}
	}
}

func (e *Engine) collectRemovalStats(report *models.SweepReport, results []models.RemovalResult) {
	for i := range results {
		result := &results[i]
		switch {
		case result.Error != nil:
			report.Warnings = append(report.Warnings, models.SweepError{
				Path:      result.Candidate.Entry.Path,
				Stage:     "delete",
				Error:     result.Error.Error(),
				Timestamp: time.Now(),
			})
		case result.Decision == models.DecisionSkipped:
			report.Stats.FilesSkipped++
		case result.Deleted:
			report.Stats.FilesDeleted++
			report.Stats.BytesFreed += result.Candidate.Entry.Size
			if result.ParentDeleted {
				report.Stats.DirsDeleted++
			}
		}
	}
}

// hasFailures reports whether any per-file operation failed
func (e *Engine) hasFailures(report *models.SweepReport) bool {
	if report.Stats.FingerprintErrors > 0 {
		return true
	}
	for i := range report.Removals {
		if report.Removals[i].Error != nil {
			return true
		}
	}
	return false
}
