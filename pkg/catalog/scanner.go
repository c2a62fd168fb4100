package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/config"
	"github.com/Go0ners/Orphan-Sweeper/pkg/logging"
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// Catalog represents one scanned directory tree
type Catalog struct {
	// Root is the absolute path of the scanned tree
	Root string

	// Entries are the video files that passed the scan filters,
	// in walk order
	Entries []models.FileEntry

	// Subdirs are the names of the immediate subdirectories of Root,
	// used by the correlator
	Subdirs []string

	// Warnings are unreadable files or directories skipped during the walk
	Warnings []models.SweepError
}

// Scanner walks directory trees and produces catalogs of eligible video files
type Scanner struct {
	minSize    int64
	extensions map[string]bool
	exclude    string
	logger     logging.Logger
}

// NewScanner creates a scanner from the scan configuration
func NewScanner(cfg config.ScanConfig, logger logging.Logger) *Scanner {
	extensions := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		extensions[strings.ToLower(ext)] = true
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Scanner{
		minSize:    cfg.MinFileSize,
		extensions: extensions,
		exclude:    strings.ToLower(cfg.ExcludeSubstring),
		logger:     logger,
	}
}

// Scan walks the tree rooted at rootPath and returns a catalog of every
// regular file matching the extension, size and name filters. A missing or
// unreadable root is a fatal error; unreadable entries below the root are
// recorded as warnings and skipped.
func (s *Scanner) Scan(ctx context.Context, rootPath string) (*Catalog, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	cat := &Catalog{Root: absRoot}

	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if p == absRoot {
				return walkErr
			}
			cat.Warnings = append(cat.Warnings, models.SweepError{
				Path:      p,
				Stage:     "scan",
				Error:     walkErr.Error(),
				Timestamp: time.Now(),
			})
			s.logger.Warn(ctx, "skipping unreadable entry", logging.Fields{
				"path":  p,
				"error": walkErr.Error(),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if filepath.Dir(p) == absRoot {
				cat.Subdirs = append(cat.Subdirs, d.Name())
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if !s.extensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		if s.exclude != "" && strings.Contains(strings.ToLower(d.Name()), s.exclude) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			cat.Warnings = append(cat.Warnings, models.SweepError{
				Path:      p,
				Stage:     "scan",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			return nil
		}

		if fi.Size() < s.minSize {
			return nil
		}

		cat.Entries = append(cat.Entries, models.FileEntry{
			Path:    p,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", absRoot, err)
	}

	return cat, nil
}
