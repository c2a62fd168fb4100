package output

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// Formatter defines the interface for rendering core sweep events.
// Implementations include human-readable, JSON and progress-bar formatters.
// The core emits events; formatters contain no decision logic.
type Formatter interface {
	// ScanStarted reports that a directory tree scan began
	ScanStarted(root string)

	// ScanCompleted reports a finished scan and its file count
	ScanCompleted(root string, fileCount int)

	// ScopeMatched reports a source subdirectory paired with destination
	// subdirectories
	ScopeMatched(scopeID string, destRoots []string)

	// FastFilterResult reports how many source files need hashing
	FastFilterResult(candidateCount, totalSourceCount int)

	// FingerprintStart begins a fingerprinting stage of total files
	FingerprintStart(label string, total int)

	// FingerprintProgress reports fingerprinting progress; rate is in
	// files per second
	FingerprintProgress(done, total int, rate float64, elapsed time.Duration)

	// FingerprintMessage renders a verbose per-file message
	FingerprintMessage(msg string)

	// FingerprintDone ends the current fingerprinting stage
	FingerprintDone()

	// OrphanDetected reports one detected orphan
	OrphanDetected(candidate models.OrphanCandidate)

	// RemovalResult reports the outcome of one removal
	RemovalResult(result models.RemovalResult)

	// Warning reports a recoverable error
	Warning(warning models.SweepError)

	// Complete finalizes output and displays the summary
	Complete(report *models.SweepReport) error

	// Name returns the formatter name
	Name() string
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// parentDir returns the directory containing path
func parentDir(path string) string {
	return filepath.Dir(path)
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
