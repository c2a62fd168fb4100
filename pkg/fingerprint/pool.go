package fingerprint

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/cache"
	"github.com/Go0ners/Orphan-Sweeper/pkg/logging"
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// messageBuffer bounds the verbose-event channel between workers and the
// single reporting consumer. Workers block once the buffer is full rather
// than allocating without bound.
const messageBuffer = 256

// ProgressFunc receives fingerprinting progress after each completed entry.
// rate is in files per second.
type ProgressFunc func(done, total int, rate float64, elapsed time.Duration)

// MessageFunc receives verbose per-file messages (cache hit, hashing started)
// from a single consumer goroutine, decoupled from worker throughput.
type MessageFunc func(msg string)

// Result aggregates the output of a fingerprinting pass
type Result struct {
	// Fingerprints maps file path to content fingerprint. Files that
	// failed to hash are absent: they are neither matches nor orphans.
	Fingerprints map[string]string

	// Warnings records per-file read failures
	Warnings []models.SweepError

	CacheHits int
	Computed  int
}

// Pool computes fingerprints with bounded parallelism, consulting and
// populating the persistent cache
type Pool struct {
	hasher     *Hasher
	store      *cache.Store
	maxWorkers int
	logger     logging.Logger
	onProgress ProgressFunc
	onMessage  MessageFunc
}

// NewPool creates a fingerprint pool. maxWorkers defaults to the number of
// available CPUs when non-positive.
func NewPool(hasher *Hasher, store *cache.Store, maxWorkers int, logger logging.Logger) *Pool {
	if maxWorkers < 1 {
		maxWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Pool{
		hasher:     hasher,
		store:      store,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// SetProgressCallback sets the per-file progress callback
func (p *Pool) SetProgressCallback(fn ProgressFunc) {
	p.onProgress = fn
}

// SetMessageCallback sets the verbose message callback
func (p *Pool) SetMessageCallback(fn MessageFunc) {
	p.onMessage = fn
}

// FingerprintAll fingerprints every entry using the worker pool and returns
// the path -> fingerprint mapping. The mapping is identical regardless of
// worker count or interleaving since window boundaries depend only on file
// size. Per-file read errors are recorded as warnings and the file is left
// out of the mapping; they never abort the pass.
func (p *Pool) FingerprintAll(ctx context.Context, entries []models.FileEntry) *Result {
	result := &Result{
		Fingerprints: make(map[string]string, len(entries)),
	}
	if len(entries) == 0 {
		return result
	}

	total := len(entries)
	startTime := time.Now()

	tasks := make(chan models.FileEntry)
	messages := make(chan string, messageBuffer)

	// Single consumer keeps verbose output ordered without stalling the
	// workers beyond the bounded buffer
	var consumerWg sync.WaitGroup
	consumerWg.Add(1)
	go func() {
		defer consumerWg.Done()
		for msg := range messages {
			if p.onMessage != nil {
				p.onMessage(msg)
			}
		}
	}()

	var mu sync.Mutex
	done := 0

	var workersWg sync.WaitGroup
	for i := 0; i < p.maxWorkers; i++ {
		workersWg.Add(1)
		go func() {
			defer workersWg.Done()
			for entry := range tasks {
				fp, hit, err := p.fingerprintOne(ctx, entry, messages)

				mu.Lock()
				done++
				if err != nil {
					result.Warnings = append(result.Warnings, models.SweepError{
						Path:      entry.Path,
						Stage:     "fingerprint",
						Error:     err.Error(),
						Timestamp: time.Now(),
					})
				} else {
					result.Fingerprints[entry.Path] = fp
					if hit {
						result.CacheHits++
					} else {
						result.Computed++
					}
				}
				completed := done
				mu.Unlock()

				if p.onProgress != nil {
					elapsed := time.Since(startTime)
					rate := 0.0
					if elapsed > 0 {
						rate = float64(completed) / elapsed.Seconds()
					}
					p.onProgress(completed, total, rate, elapsed)
				}
			}
		}()
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			// Drain: stop feeding, let in-flight work finish
		case tasks <- entry:
			continue
		}
		break
	}
	close(tasks)

	workersWg.Wait()
	close(messages)
	consumerWg.Wait()

	return result
}

// fingerprintOne resolves a single entry: cache hit, or compute and store
func (p *Pool) fingerprintOne(ctx context.Context, entry models.FileEntry, messages chan<- string) (string, bool, error) {
	if fp, ok := p.store.Lookup(ctx, entry.Path, entry.Size, entry.ModTime); ok {
		messages <- fmt.Sprintf("cache hit: %s", entry.Path)
		return fp, true, nil
	}

	messages <- fmt.Sprintf("hashing: %s", entry.Path)

	fp, err := p.hasher.Fingerprint(ctx, entry.Path)
	if err != nil {
		p.logger.Warn(ctx, "fingerprint failed", logging.Fields{
			"path":  entry.Path,
			"error": err.Error(),
		})
		return "", false, err
	}

	if err := p.store.Put(ctx, entry.Path, entry.Size, entry.ModTime, fp); err != nil {
		// A failed cache write costs a recomputation next run, nothing more
		p.logger.Warn(ctx, "cache write failed", logging.Fields{
			"path":  entry.Path,
			"error": err.Error(),
		})
	}

	return fp, false, nil
}
