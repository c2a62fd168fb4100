package models

import (
	"time"
)

// SweepOperation represents a sweep run configuration
type SweepOperation struct {
	ID               string
	SourcePath       string
	DestPaths        []string
	CachePath        string
	DryRun           bool
	AutoDelete       bool
	ForceDeleteDirs  bool
	MaxWorkers       int
	BufferSize       int
	BandwidthLimit   int64 // bytes per second, 0 = unlimited
	MinFileSize      int64
	Extensions       []string
	ExcludeSubstring string
	Verbose          bool
	CreatedAt        time.Time
}

// Validate checks if the operation configuration is valid
func (op *SweepOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if len(op.DestPaths) == 0 {
		return &ValidationError{Field: "DestPaths", Message: "at least one destination path is required"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.MinFileSize < 0 {
		return &ValidationError{Field: "MinFileSize", Message: "minimum file size cannot be negative"}
	}
	if op.DryRun && op.AutoDelete {
		return &ValidationError{Field: "AutoDelete", Message: "dry-run and auto-delete are mutually exclusive"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
