package sweep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/logging"
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
	"github.com/Go0ners/Orphan-Sweeper/pkg/output"
)

// Prompter asks for a removal decision on one candidate
type Prompter interface {
	Prompt(candidate models.OrphanCandidate) (models.RemovalAnswer, error)
}

// SessionConfig controls the removal session behavior
type SessionConfig struct {
	// DryRun evaluates every decision but replaces deletion with a no-op
	DryRun bool

	// AutoDelete treats every candidate as pre-confirmed, no prompting
	AutoDelete bool

	// ForceDeleteDirs removes remaining content from a name-matched parent
	// directory instead of leaving it alone
	ForceDeleteDirs bool
}

// Session drives the confirm/skip/all/quit protocol over the ordered orphan
// list and performs the deletions. Deletions are strictly sequential; the
// quit transition and context cancellation are honored between candidates,
// never mid-deletion.
type Session struct {
	prompter   Prompter
	formatter  output.Formatter
	logger     logging.Logger
	config     SessionConfig
	confirmAll bool
}

// NewSession creates a removal session
func NewSession(prompter Prompter, formatter output.Formatter, logger logging.Logger, config SessionConfig) *Session {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Session{
		prompter:  prompter,
		formatter: formatter,
		logger:    logger,
		config:    config,
	}
}

// Run processes the candidates in order and returns the per-candidate
// results plus whether the session was aborted. On abort, the current
// candidate is marked aborted and the remaining ones stay pending; no
// further deletion is attempted.
func (s *Session) Run(ctx context.Context, candidates []models.OrphanCandidate) ([]models.RemovalResult, bool) {
	results := make([]models.RemovalResult, 0, len(candidates))

	for i, candidate := range candidates {
		// Cancellation check happens here, before any deletion starts
		if ctx.Err() != nil {
			results = append(results, models.RemovalResult{
				Candidate: candidate,
				Decision:  models.DecisionAborted,
			})
			results = append(results, pendingResults(candidates[i+1:])...)
			return results, true
		}

		decision, err := s.decide(candidate)
		if err != nil {
			s.logger.Error(ctx, "prompt failed, aborting session", err, nil)
			decision = models.DecisionAborted
		}

		if decision == models.DecisionAborted {
			results = append(results, models.RemovalResult{
				Candidate: candidate,
				Decision:  models.DecisionAborted,
			})
			results = append(results, pendingResults(candidates[i+1:])...)
			return results, true
		}

		result := models.RemovalResult{
			Candidate: candidate,
			Decision:  decision,
		}

		if decision == models.DecisionConfirmed {
			startTime := time.Now()
			s.remove(ctx, &result)
			result.Duration = time.Since(startTime)
		}

		if s.formatter != nil {
			s.formatter.RemovalResult(result)
		}
		results = append(results, result)
	}

	return results, false
}

// decide resolves the decision for one candidate according to the session
// mode and the prompt answer
func (s *Session) decide(candidate models.OrphanCandidate) (models.RemovalDecision, error) {
	if s.config.AutoDelete || s.config.DryRun || s.confirmAll {
		return models.DecisionConfirmed, nil
	}

	answer, err := s.prompter.Prompt(candidate)
	if err != nil {
		return models.DecisionAborted, err
	}

	switch answer {
	case models.AnswerYes:
		return models.DecisionConfirmed, nil
	case models.AnswerNo:
		return models.DecisionSkipped, nil
	case models.AnswerAll:
		s.confirmAll = true
		return models.DecisionConfirmed, nil
	case models.AnswerQuit:
		return models.DecisionAborted, nil
	default:
		return models.DecisionSkipped, nil
	}
}

// remove deletes a confirmed candidate and, when the parent directory name
// equals the file name without extension, the now-empty parent too
func (s *Session) remove(ctx context.Context, result *models.RemovalResult) {
	path := result.Candidate.Entry.Path

	if s.config.DryRun {
		result.Deleted = true
		result.ParentDeleted = parentNameMatches(path)
		return
	}

	if err := os.Remove(path); err != nil {
		result.Error = fmt.Errorf("failed to delete file: %w", err)
		s.logger.Error(ctx, "deletion failed", err, logging.Fields{"path": path})
		return
	}
	result.Deleted = true
	s.logger.Info(ctx, "deleted orphan", logging.Fields{"path": path})

	if !parentNameMatches(path) {
		return
	}

	parentDeleted, err := s.removeParent(ctx, filepath.Dir(path))
	if err != nil {
		// The file itself is gone; a surviving folder is only a warning
		if s.formatter != nil {
			s.formatter.Warning(models.SweepError{
				Path:      filepath.Dir(path),
				Stage:     "delete",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
		}
		return
	}
	result.ParentDeleted = parentDeleted
}

// removeParent deletes the parent directory when empty, or entirely when
// ForceDeleteDirs is set. A non-empty parent without the force flag is left
// alone and reported.
func (s *Session) removeParent(ctx context.Context, parent string) (bool, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return false, fmt.Errorf("failed to inspect folder: %w", err)
	}

	if len(entries) == 0 {
		if err := os.Remove(parent); err != nil {
			return false, fmt.Errorf("failed to delete folder: %w", err)
		}
		s.logger.Info(ctx, "deleted folder", logging.Fields{"path": parent})
		return true, nil
	}

	if !s.config.ForceDeleteDirs {
		return false, fmt.Errorf("folder not empty (%d entries remain)", len(entries))
	}

	if err := os.RemoveAll(parent); err != nil {
		return false, fmt.Errorf("failed to delete folder: %w", err)
	}
	s.logger.Info(ctx, "deleted folder and remaining content", logging.Fields{
		"path":    parent,
		"entries": len(entries),
	})
	return true, nil
}

// parentNameMatches reports whether the parent directory name equals the file
// name without extension, exact match only
func parentNameMatches(path string) bool {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Base(filepath.Dir(path)) == stem
}

// pendingResults marks untouched candidates after an abort
func pendingResults(candidates []models.OrphanCandidate) []models.RemovalResult {
	out := make([]models.RemovalResult, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, models.RemovalResult{
			Candidate: candidate,
			Decision:  models.DecisionPending,
		})
	}
	return out
}
