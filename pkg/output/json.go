package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// JSONFormatter emits one JSON object per event followed by a final report
// object, suitable for machine consumption
type JSONFormatter struct {
	writer  io.Writer
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter writing to stdout
func NewJSONFormatter() *JSONFormatter {
	w := os.Stdout
	return &JSONFormatter{
		writer:  w,
		encoder: json.NewEncoder(w),
	}
}

// SetWriter redirects output, used by tests
func (f *JSONFormatter) SetWriter(w io.Writer) {
	f.writer = w
	f.encoder = json.NewEncoder(w)
}

// event is the envelope of every emitted JSON line
type event struct {
	Event     string      `json:"event"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

func (f *JSONFormatter) emit(name string, data interface{}) {
	f.encoder.Encode(event{
		Event:     name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

// ScanStarted reports a scan beginning
func (f *JSONFormatter) ScanStarted(root string) {
	f.emit("scan_started", map[string]interface{}{"root": root})
}

// ScanCompleted reports a finished scan
func (f *JSONFormatter) ScanCompleted(root string, fileCount int) {
	f.emit("scan_completed", map[string]interface{}{
		"root":       root,
		"file_count": fileCount,
	})
}

// ScopeMatched reports a matched comparison scope
func (f *JSONFormatter) ScopeMatched(scopeID string, destRoots []string) {
	f.emit("scope_matched", map[string]interface{}{
		"scope":      scopeID,
		"dest_roots": destRoots,
	})
}

// FastFilterResult reports the fast-filter outcome
func (f *JSONFormatter) FastFilterResult(candidateCount, totalSourceCount int) {
	f.emit("fast_filter_result", map[string]interface{}{
		"candidates":   candidateCount,
		"total_source": totalSourceCount,
	})
}

// FingerprintStart begins a fingerprinting stage
func (f *JSONFormatter) FingerprintStart(label string, total int) {
	f.emit("fingerprint_start", map[string]interface{}{
		"stage": label,
		"total": total,
	})
}

// FingerprintProgress is suppressed in JSON mode to keep output bounded
func (f *JSONFormatter) FingerprintProgress(done, total int, rate float64, elapsed time.Duration) {
}

// FingerprintMessage is suppressed in JSON mode
func (f *JSONFormatter) FingerprintMessage(msg string) {}

// FingerprintDone ends a fingerprinting stage
func (f *JSONFormatter) FingerprintDone() {
	f.emit("fingerprint_done", nil)
}

// OrphanDetected reports a detected orphan
func (f *JSONFormatter) OrphanDetected(candidate models.OrphanCandidate) {
	f.emit("orphan_detected", map[string]interface{}{
		"path":        candidate.Entry.Path,
		"size":        candidate.Entry.Size,
		"mod_time":    candidate.Entry.ModTime.UTC().Format(time.RFC3339Nano),
		"fingerprint": candidate.Fingerprint,
	})
}

// RemovalResult reports one removal outcome
func (f *JSONFormatter) RemovalResult(result models.RemovalResult) {
	data := map[string]interface{}{
		"path":           result.Candidate.Entry.Path,
		"decision":       string(result.Decision),
		"deleted":        result.Deleted,
		"parent_deleted": result.ParentDeleted,
	}
	if result.Error != nil {
		data["error"] = result.Error.Error()
	}
	f.emit("removal_result", data)
}

// Warning reports a recoverable error
func (f *JSONFormatter) Warning(warning models.SweepError) {
	f.emit("warning", map[string]interface{}{
		"stage": warning.Stage,
		"path":  warning.Path,
		"error": warning.Error,
	})
}

// Complete emits the final report object
func (f *JSONFormatter) Complete(report *models.SweepReport) error {
	summary := map[string]interface{}{
		"operation_id":          report.OperationID,
		"source":                report.SourcePath,
		"destinations":          report.DestPaths,
		"dry_run":               report.DryRun,
		"status":                string(report.Status),
		"duration_seconds":      report.Duration.Seconds(),
		"source_files_scanned":  report.Stats.SourceFilesScanned,
		"dest_files_scanned":    report.Stats.DestFilesScanned,
		"scopes_matched":        report.Stats.ScopesMatched,
		"fast_filter_matched":   report.Stats.FastFilterMatched,
		"hashing_candidates":    report.Stats.HashingCandidates,
		"fingerprints_computed": report.Stats.FingerprintsComputed,
		"cache_hits":            report.Stats.CacheHits,
		"fingerprint_errors":    report.Stats.FingerprintErrors,
		"orphans_detected":      report.Stats.OrphansDetected,
		"orphan_bytes":          report.Stats.OrphanBytes,
		"files_deleted":         report.Stats.FilesDeleted,
		"files_skipped":         report.Stats.FilesSkipped,
		"dirs_deleted":          report.Stats.DirsDeleted,
		"bytes_freed":           report.Stats.BytesFreed,
		"warnings":              len(report.Warnings),
	}
	f.emit("summary", summary)
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
