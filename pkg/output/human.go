package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// HumanFormatter formats output in human-readable, colorized form
type HumanFormatter struct {
	writer  io.Writer
	quiet   bool
	verbose bool
	dryRun  bool

	headerColor *color.Color
	okColor     *color.Color
	warnColor   *color.Color
	errColor    *color.Color
}

// NewHumanFormatter creates a new human-readable formatter writing to stdout
func NewHumanFormatter(quiet, verbose bool) *HumanFormatter {
	return &HumanFormatter{
		writer:      os.Stdout,
		quiet:       quiet,
		verbose:     verbose,
		headerColor: color.New(color.FgCyan, color.Bold),
		okColor:     color.New(color.FgGreen),
		warnColor:   color.New(color.FgYellow),
		errColor:    color.New(color.FgRed),
	}
}

// SetWriter redirects output, used by tests
func (f *HumanFormatter) SetWriter(w io.Writer) {
	f.writer = w
}

// SetDryRun adjusts per-file wording for simulation mode
func (f *HumanFormatter) SetDryRun(dryRun bool) {
	f.dryRun = dryRun
}

// ScanStarted reports a scan beginning
func (f *HumanFormatter) ScanStarted(root string) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "Scanning %s\n", root)
}

// ScanCompleted reports a finished scan
func (f *HumanFormatter) ScanCompleted(root string, fileCount int) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "  %d file(s) in %s\n", fileCount, root)
}

// ScopeMatched reports a matched comparison scope
func (f *HumanFormatter) ScopeMatched(scopeID string, destRoots []string) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "Matched scope %q against %d destination folder(s)\n", scopeID, len(destRoots))
}

// FastFilterResult reports the fast-filter outcome
func (f *HumanFormatter) FastFilterResult(candidateCount, totalSourceCount int) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "Fast filter: %d of %d source file(s) need hashing\n",
		candidateCount, totalSourceCount)
}

// FingerprintStart begins a fingerprinting stage
func (f *HumanFormatter) FingerprintStart(label string, total int) {
	if f.quiet || total == 0 {
		return
	}
	fmt.Fprintf(f.writer, "Fingerprinting %d %s file(s)...\n", total, label)
}

// FingerprintProgress is a no-op for plain human output; the progress
// formatter renders a live bar instead
func (f *HumanFormatter) FingerprintProgress(done, total int, rate float64, elapsed time.Duration) {
}

// FingerprintMessage renders a verbose per-file message
func (f *HumanFormatter) FingerprintMessage(msg string) {
	if f.verbose && !f.quiet {
		fmt.Fprintf(f.writer, "  %s\n", msg)
	}
}

// FingerprintDone ends a fingerprinting stage
func (f *HumanFormatter) FingerprintDone() {}

// OrphanDetected reports a detected orphan
func (f *HumanFormatter) OrphanDetected(candidate models.OrphanCandidate) {
	if f.quiet {
		return
	}
	f.warnColor.Fprintf(f.writer, "Orphan: %s (%s)\n",
		candidate.Entry.Path, formatBytes(candidate.Entry.Size))
}

// RemovalResult reports one removal outcome
func (f *HumanFormatter) RemovalResult(result models.RemovalResult) {
	switch {
	case result.Error != nil:
		f.errColor.Fprintf(f.writer, "  failed: %s: %v\n", result.Candidate.Entry.Path, result.Error)
	case result.Decision == models.DecisionSkipped:
		if !f.quiet {
			fmt.Fprintf(f.writer, "  kept: %s\n", result.Candidate.Entry.Path)
		}
	case result.Deleted && f.dryRun:
		fmt.Fprintf(f.writer, "  [dry-run] would delete: %s\n", result.Candidate.Entry.Path)
		if result.ParentDeleted {
			fmt.Fprintf(f.writer, "  [dry-run] would delete folder: %s\n", parentDir(result.Candidate.Entry.Path))
		}
	case result.Deleted:
		f.okColor.Fprintf(f.writer, "  deleted: %s\n", result.Candidate.Entry.Path)
		if result.ParentDeleted {
			f.okColor.Fprintf(f.writer, "  deleted folder: %s\n", parentDir(result.Candidate.Entry.Path))
		}
	}
}

// Warning reports a recoverable error
func (f *HumanFormatter) Warning(warning models.SweepError) {
	f.warnColor.Fprintf(f.writer, "warning: %s: %s (%s)\n", warning.Stage, warning.Path, warning.Error)
}

// Complete prints the summary block
func (f *HumanFormatter) Complete(report *models.SweepReport) error {
	w := f.writer

	fmt.Fprintf(w, "\n")
	f.headerColor.Fprintf(w, "Summary\n")
	fmt.Fprintf(w, "  Scanned:\n")
	fmt.Fprintf(w, "    Source:       %d file(s)\n", report.Stats.SourceFilesScanned)
	fmt.Fprintf(w, "    Destinations: %d file(s)\n", report.Stats.DestFilesScanned)
	fmt.Fprintf(w, "    Scopes:       %d\n", report.Stats.ScopesMatched)
	fmt.Fprintf(w, "  Fingerprints:\n")
	fmt.Fprintf(w, "    Computed:     %d\n", report.Stats.FingerprintsComputed)
	fmt.Fprintf(w, "    Cache hits:   %d\n", report.Stats.CacheHits)
	if report.Stats.FingerprintErrors > 0 {
		fmt.Fprintf(w, "    Errors:       %d\n", report.Stats.FingerprintErrors)
	}
	fmt.Fprintf(w, "  Orphans:\n")
	fmt.Fprintf(w, "    Detected:     %d (%s)\n",
		report.Stats.OrphansDetected, formatBytes(report.Stats.OrphanBytes))
	if report.DryRun {
		fmt.Fprintf(w, "    Would delete: %d (%s)\n",
			report.Stats.FilesDeleted, formatBytes(report.Stats.BytesFreed))
	} else {
		fmt.Fprintf(w, "    Deleted:      %d (%s freed)\n",
			report.Stats.FilesDeleted, formatBytes(report.Stats.BytesFreed))
		fmt.Fprintf(w, "    Skipped:      %d\n", report.Stats.FilesSkipped)
		if report.Stats.DirsDeleted > 0 {
			fmt.Fprintf(w, "    Folders:      %d deleted\n", report.Stats.DirsDeleted)
		}
	}
	fmt.Fprintf(w, "  Duration:       %s\n", formatDuration(report.Duration))
	fmt.Fprintf(w, "\nStatus: %s\n", report.Status)

	if len(report.Warnings) > 0 && f.verbose {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  [%s] %s: %s\n", warning.Stage, warning.Path, warning.Error)
		}
	}

	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
