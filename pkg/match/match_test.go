package match

import (
	"testing"
	"time"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

func entry(path string, size int64, modTime time.Time) models.FileEntry {
	return models.FileEntry{Path: path, Size: size, ModTime: modTime}
}

func TestFastFilter(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("TwinIsCleared", func(t *testing.T) {
		scope := &models.Scope{
			SourceEntries: []models.FileEntry{
				entry("/src/movies/film.mkv", 1000, base),
			},
			DestEntries: []models.FileEntry{
				entry("/dst/movies/renamed.mkv", 1000, base),
			},
		}

		result := FastFilter(scope)

		if result.Matched != 1 {
			t.Errorf("Matched = %d, want 1", result.Matched)
		}
		if len(result.Candidates) != 0 {
			t.Errorf("len(Candidates) = %d, want 0", len(result.Candidates))
		}
	})

	t.Run("DifferentSizeSurvives", func(t *testing.T) {
		scope := &models.Scope{
			SourceEntries: []models.FileEntry{
				entry("/src/movies/film.mkv", 1000, base),
			},
			DestEntries: []models.FileEntry{
				entry("/dst/movies/film.mkv", 1001, base),
			},
		}

		result := FastFilter(scope)

		if len(result.Candidates) != 1 {
			t.Errorf("len(Candidates) = %d, want 1", len(result.Candidates))
		}
	})

	t.Run("DifferentMtimeSurvives", func(t *testing.T) {
		scope := &models.Scope{
			SourceEntries: []models.FileEntry{
				entry("/src/movies/film.mkv", 1000, base),
			},
			DestEntries: []models.FileEntry{
				entry("/dst/movies/film.mkv", 1000, base.Add(time.Nanosecond)),
			},
		}

		result := FastFilter(scope)

		// Exact nanosecond equality, no tolerance
		if len(result.Candidates) != 1 {
			t.Errorf("len(Candidates) = %d, want 1", len(result.Candidates))
		}
	})

	t.Run("MixedScope", func(t *testing.T) {
		scope := &models.Scope{
			SourceEntries: []models.FileEntry{
				entry("/src/a.mkv", 1000, base), // twin below
				entry("/src/b.mkv", 2000, base), // no twin
				entry("/src/c.mkv", 3000, base), // twin below
			},
			DestEntries: []models.FileEntry{
				entry("/dst/x.mkv", 1000, base),
				entry("/dst/y.mkv", 3000, base),
				entry("/dst/z.mkv", 9000, base),
			},
		}

		result := FastFilter(scope)

		if result.Matched != 2 {
			t.Errorf("Matched = %d, want 2", result.Matched)
		}
		if len(result.Candidates) != 1 || result.Candidates[0].Path != "/src/b.mkv" {
			t.Errorf("Candidates = %+v, want only /src/b.mkv", result.Candidates)
		}
	})

	t.Run("EmptyDestinations", func(t *testing.T) {
		scope := &models.Scope{
			SourceEntries: []models.FileEntry{
				entry("/src/a.mkv", 1000, base),
			},
		}

		result := FastFilter(scope)

		if len(result.Candidates) != 1 {
			t.Errorf("len(Candidates) = %d, want 1 with no destinations", len(result.Candidates))
		}
	})
}

func TestSizeSet(t *testing.T) {
	base := time.Now()
	candidates := []models.FileEntry{
		entry("/src/a.mkv", 1000, base),
		entry("/src/b.mkv", 2000, base),
		entry("/src/c.mkv", 1000, base),
	}

	sizes := SizeSet(candidates)

	if len(sizes) != 2 {
		t.Errorf("len(sizes) = %d, want 2", len(sizes))
	}
	if _, ok := sizes[1000]; !ok {
		t.Error("size 1000 missing")
	}
	if _, ok := sizes[2000]; !ok {
		t.Error("size 2000 missing")
	}
}

func TestDetect(t *testing.T) {
	base := time.Now()

	t.Run("MissingFromDestIsOrphan", func(t *testing.T) {
		candidates := []models.FileEntry{
			entry("/src/a.mkv", 1000, base),
			entry("/src/b.mkv", 2000, base),
		}
		sourceFps := map[string]string{
			"/src/a.mkv": "aaa",
			"/src/b.mkv": "bbb",
		}
		destFps := map[string]string{
			"/dst/x.mkv": "bbb",
		}

		orphans := Detect(candidates, sourceFps, destFps)

		if len(orphans) != 1 {
			t.Fatalf("len(orphans) = %d, want 1", len(orphans))
		}
		if orphans[0].Entry.Path != "/src/a.mkv" {
			t.Errorf("orphan = %s, want /src/a.mkv", orphans[0].Entry.Path)
		}
		if orphans[0].Fingerprint != "aaa" {
			t.Errorf("fingerprint = %s, want aaa", orphans[0].Fingerprint)
		}
	})

	t.Run("RenamedCopyIsNotOrphan", func(t *testing.T) {
		candidates := []models.FileEntry{
			entry("/src/movies/Original Name.mkv", 1000, base),
		}
		sourceFps := map[string]string{
			"/src/movies/Original Name.mkv": "samecontent",
		}
		destFps := map[string]string{
			"/dst/movies/Renamed (2024).mkv": "samecontent",
		}

		orphans := Detect(candidates, sourceFps, destFps)

		if len(orphans) != 0 {
			t.Errorf("renamed identical copy detected as orphan: %+v", orphans)
		}
	})

	t.Run("FailedFingerprintIsExcluded", func(t *testing.T) {
		candidates := []models.FileEntry{
			entry("/src/a.mkv", 1000, base),
			entry("/src/unreadable.mkv", 2000, base),
		}
		sourceFps := map[string]string{
			"/src/a.mkv": "aaa",
			// unreadable.mkv absent: fingerprinting failed
		}

		orphans := Detect(candidates, sourceFps, nil)

		// The unreadable file is neither a match nor an orphan
		if len(orphans) != 1 || orphans[0].Entry.Path != "/src/a.mkv" {
			t.Errorf("orphans = %+v, want only /src/a.mkv", orphans)
		}
	})

	t.Run("EmptyDestSetMakesAllOrphans", func(t *testing.T) {
		candidates := []models.FileEntry{
			entry("/src/a.mkv", 1000, base),
			entry("/src/b.mkv", 2000, base),
		}
		sourceFps := map[string]string{
			"/src/a.mkv": "aaa",
			"/src/b.mkv": "bbb",
		}

		orphans := Detect(candidates, sourceFps, nil)

		if len(orphans) != 2 {
			t.Errorf("len(orphans) = %d, want 2", len(orphans))
		}
	})

	t.Run("NoCandidates", func(t *testing.T) {
		orphans := Detect(nil, nil, map[string]string{"/dst/x.mkv": "xxx"})
		if len(orphans) != 0 {
			t.Errorf("len(orphans) = %d, want 0", len(orphans))
		}
	})
}

func TestSortOrphans(t *testing.T) {
	base := time.Now()
	orphans := []models.OrphanCandidate{
		{Entry: entry("/src/b.mkv", 1000, base)},
		{Entry: entry("/src/c.mkv", 3000, base)},
		{Entry: entry("/src/a.mkv", 1000, base)},
	}

	SortOrphans(orphans)

	// Descending size, ties broken by ascending path
	want := []string{"/src/c.mkv", "/src/a.mkv", "/src/b.mkv"}
	for i, path := range want {
		if orphans[i].Entry.Path != path {
			t.Errorf("orphans[%d] = %s, want %s", i, orphans[i].Entry.Path, path)
		}
	}
}
