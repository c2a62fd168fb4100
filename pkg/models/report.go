package models

import (
	"time"
)

// SweepReport represents the results of a sweep operation
type SweepReport struct {
	// Operation details
	OperationID string
	SourcePath  string
	DestPaths   []string
	DryRun      bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Orphans detected, ordered by descending size then path
	Orphans []OrphanCandidate

	// Removals carries the per-candidate outcome of the removal session
	Removals []RemovalResult

	// Warnings encountered during scan, hashing or deletion
	Warnings []SweepError

	// Overall status
	Status SweepStatus
}

// Statistics holds sweep operation metrics
type Statistics struct {
	// Scan counts
	SourceFilesScanned int
	DestFilesScanned   int
	ScopesMatched      int

	// Fast-filter counts
	FastFilterMatched  int // source files cleared by size+mtime twin
	HashingCandidates  int

	// Fingerprinting counts
	FingerprintsComputed int
	CacheHits            int
	FingerprintErrors    int

	// Removal counts
	OrphansDetected int
	FilesDeleted    int
	FilesSkipped    int
	DirsDeleted     int

	// Bytes freed by deletion (dry-run counts what would be freed)
	BytesFreed int64
	// Total bytes of all detected orphans
	OrphanBytes int64
}

// SweepStatus represents the overall result
type SweepStatus string

const (
	// StatusSuccess indicates the sweep completed normally
	StatusSuccess SweepStatus = "success"
	// StatusPartial indicates some removals or fingerprints failed
	StatusPartial SweepStatus = "partial"
	// StatusAborted indicates the user quit the removal session
	StatusAborted SweepStatus = "aborted"
	// StatusFailed indicates a fatal path or argument error
	StatusFailed SweepStatus = "failed"
)

// ExitCode returns the process exit code for the sweep status
func (s SweepStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusAborted:
		return 3
	default:
		return 2
	}
}

// SweepError represents a recoverable error during a sweep stage
type SweepError struct {
	Path      string
	Stage     string // "scan", "fingerprint", "cache", "delete"
	Error     string
	Timestamp time.Time
}
