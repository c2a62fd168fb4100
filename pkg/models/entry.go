package models

import (
	"time"
)

// FileEntry represents a single scanned video file
type FileEntry struct {
	// Path is the absolute path on the filesystem
	Path string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// ScopeID identifies the comparison scope the entry belongs to
	ScopeID string
}

// MetaKey is the fast-filter lookup key. Identical size and modification time
// means the source file provably has a twin in the destination scope.
// Modification time is compared at nanosecond precision, exact equality.
type MetaKey struct {
	Size        int64
	ModTimeNano int64
}

// MetaKey returns the (size, mtime) identity of the entry
func (e *FileEntry) MetaKey() MetaKey {
	return MetaKey{Size: e.Size, ModTimeNano: e.ModTime.UnixNano()}
}

// Scope pairs a source subdirectory with the destination subdirectories that
// share its name. Entries are only ever compared within their own scope.
type Scope struct {
	// ID identifies the scope (the subdirectory name, or "." for the root scope)
	ID string

	// SourceRoot is the source subdirectory being analyzed
	SourceRoot string

	// DestRoots are the matching destination subdirectories across all
	// destination trees
	DestRoots []string

	// SourceEntries are the scanned source files belonging to this scope
	SourceEntries []FileEntry

	// DestEntries are the scanned destination files belonging to this scope
	DestEntries []FileEntry
}

// OrphanCandidate is a source file that survived the fast filter and whose
// fingerprint matched nothing in its scope's destinations
type OrphanCandidate struct {
	Entry       FileEntry
	Fingerprint string
}

// RemovalDecision is the per-candidate outcome of the removal session
type RemovalDecision string

const (
	// DecisionPending indicates the candidate has not been presented yet
	DecisionPending RemovalDecision = "pending"
	// DecisionConfirmed indicates the candidate was approved for deletion
	DecisionConfirmed RemovalDecision = "confirmed"
	// DecisionSkipped indicates the candidate was explicitly kept
	DecisionSkipped RemovalDecision = "skipped"
	// DecisionAborted indicates the session ended before a decision was made
	DecisionAborted RemovalDecision = "aborted"
)

// RemovalAnswer is a reply to a removal prompt
type RemovalAnswer string

const (
	// AnswerYes confirms deletion of the current candidate only
	AnswerYes RemovalAnswer = "yes"
	// AnswerNo skips the current candidate
	AnswerNo RemovalAnswer = "no"
	// AnswerAll confirms the current and every remaining candidate
	AnswerAll RemovalAnswer = "all"
	// AnswerQuit aborts the session immediately
	AnswerQuit RemovalAnswer = "quit"
)

// RemovalResult records what happened to a single candidate
type RemovalResult struct {
	Candidate     OrphanCandidate
	Decision      RemovalDecision
	Deleted       bool
	ParentDeleted bool
	Error         error
	Duration      time.Duration
}
