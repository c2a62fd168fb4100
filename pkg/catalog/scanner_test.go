package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Go0ners/Orphan-Sweeper/pkg/config"
)

// TestHelper provides utilities for catalog tests
type TestHelper struct {
	t       *testing.T
	tempDir string
}

// NewTestHelper creates a new test helper with a temporary root
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "orphansweeper-catalog-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	return &TestHelper{t: t, tempDir: tempDir}
}

// Cleanup removes all temporary files
func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.tempDir)
}

// Root returns the temporary root directory
func (h *TestHelper) Root() string {
	return h.tempDir
}

// CreateFile creates a file with content of the given size under the root
func (h *TestHelper) CreateFile(name string, size int) string {
	h.t.Helper()
	path := filepath.Join(h.tempDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
	return path
}

// CreateDir creates a directory under the root
func (h *TestHelper) CreateDir(name string) string {
	h.t.Helper()
	path := filepath.Join(h.tempDir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
	return path
}

// testScanConfig returns a scan configuration with a tiny size floor so tests
// can use small files
func testScanConfig() config.ScanConfig {
	return config.ScanConfig{
		MinFileSize:      100,
		Extensions:       []string{".mkv", ".mp4", ".avi"},
		ExcludeSubstring: "sample",
	}
}

func TestScan(t *testing.T) {
	t.Run("FiltersByExtension", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateFile("movie.mkv", 200)
		helper.CreateFile("episode.mp4", 200)
		helper.CreateFile("notes.txt", 200)
		helper.CreateFile("subtitles.srt", 200)

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		if len(cat.Entries) != 2 {
			t.Errorf("len(Entries) = %d, want 2", len(cat.Entries))
		}
		for _, entry := range cat.Entries {
			ext := filepath.Ext(entry.Path)
			if ext != ".mkv" && ext != ".mp4" {
				t.Errorf("unexpected entry: %s", entry.Path)
			}
		}
	})

	t.Run("ExtensionMatchIsCaseInsensitive", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateFile("movie.MKV", 200)

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		if len(cat.Entries) != 1 {
			t.Errorf("len(Entries) = %d, want 1 (uppercase extension)", len(cat.Entries))
		}
	})

	t.Run("FiltersBySize", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateFile("big.mkv", 200)
		helper.CreateFile("small.mkv", 50)
		helper.CreateFile("exact.mkv", 100)

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		// Files at exactly the minimum size are included
		if len(cat.Entries) != 2 {
			t.Errorf("len(Entries) = %d, want 2", len(cat.Entries))
		}
		for _, entry := range cat.Entries {
			if entry.Size < 100 {
				t.Errorf("entry below minimum size: %s (%d bytes)", entry.Path, entry.Size)
			}
		}
	})

	t.Run("ExcludesSampleFiles", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateFile("movie.mkv", 200)
		helper.CreateFile("movie-sample.mkv", 200)
		helper.CreateFile("SAMPLE-movie.mkv", 200)

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		if len(cat.Entries) != 1 {
			t.Fatalf("len(Entries) = %d, want 1", len(cat.Entries))
		}
		if filepath.Base(cat.Entries[0].Path) != "movie.mkv" {
			t.Errorf("wrong entry kept: %s", cat.Entries[0].Path)
		}
	})

	t.Run("RecordsImmediateSubdirectories", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateDir("movies")
		helper.CreateDir("shows")
		helper.CreateFile("movies/nested/deep.mkv", 200)

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		subdirs := make(map[string]bool)
		for _, name := range cat.Subdirs {
			subdirs[name] = true
		}
		if !subdirs["movies"] || !subdirs["shows"] {
			t.Errorf("Subdirs = %v, want movies and shows", cat.Subdirs)
		}
		// Nested directories are walked for files but not recorded as scopes
		if subdirs["nested"] {
			t.Error("nested directory should not appear in Subdirs")
		}
	})

	t.Run("WalksNestedDirectories", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateFile("movies/Film (2024)/film.mkv", 200)
		helper.CreateFile("movies/Other/disc1/other.mkv", 200)

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		if len(cat.Entries) != 2 {
			t.Errorf("len(Entries) = %d, want 2", len(cat.Entries))
		}
	})

	t.Run("MissingRootIsFatal", func(t *testing.T) {
		scanner := NewScanner(testScanConfig(), nil)
		if _, err := scanner.Scan(context.Background(), "/nonexistent/root"); err == nil {
			t.Error("Scan() should fail for a missing root")
		}
	})

	t.Run("FileRootIsFatal", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		path := helper.CreateFile("notadir.mkv", 200)

		scanner := NewScanner(testScanConfig(), nil)
		if _, err := scanner.Scan(context.Background(), path); err == nil {
			t.Error("Scan() should fail when root is a regular file")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateFile("movie.mkv", 200)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		scanner := NewScanner(testScanConfig(), nil)
		if _, err := scanner.Scan(ctx, helper.Root()); err == nil {
			t.Error("Scan() should fail when context is cancelled")
		}
	})

	t.Run("EmptyRoot", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		scanner := NewScanner(testScanConfig(), nil)
		cat, err := scanner.Scan(context.Background(), helper.Root())
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}

		if len(cat.Entries) != 0 {
			t.Errorf("len(Entries) = %d, want 0", len(cat.Entries))
		}
		if len(cat.Warnings) != 0 {
			t.Errorf("len(Warnings) = %d, want 0", len(cat.Warnings))
		}
	})
}
