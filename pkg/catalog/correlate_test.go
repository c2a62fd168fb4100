package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// scanTree builds a catalog from a just-created temp tree
func scanTree(t *testing.T, root string) *Catalog {
	t.Helper()
	scanner := NewScanner(testScanConfig(), nil)
	cat, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	return cat
}

func TestCorrelate(t *testing.T) {
	t.Run("MatchedSubdirectoriesBecomeScopes", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		dest := NewTestHelper(t)
		defer dest.Cleanup()

		// source/{movies,shows,incomplete}, dest/{movies,shows,4k}:
		// movies and shows match, incomplete and 4k do not
		source.CreateFile("movies/a.mkv", 200)
		source.CreateFile("shows/b.mkv", 200)
		source.CreateFile("incomplete/c.mkv", 200)
		dest.CreateFile("movies/a.mkv", 200)
		dest.CreateFile("shows/b.mkv", 200)
		dest.CreateDir("4k")

		scopes, unmatched := Correlate(scanTree(t, source.Root()), []*Catalog{scanTree(t, dest.Root())})

		if len(scopes) != 2 {
			t.Fatalf("len(scopes) = %d, want 2", len(scopes))
		}
		// Scopes come back sorted by name
		if scopes[0].ID != "movies" || scopes[1].ID != "shows" {
			t.Errorf("scope IDs = %s, %s, want movies, shows", scopes[0].ID, scopes[1].ID)
		}

		if len(unmatched) != 1 {
			t.Fatalf("len(unmatched) = %d, want 1", len(unmatched))
		}
		if filepath.Base(unmatched[0].Path) != "c.mkv" {
			t.Errorf("unmatched entry = %s, want c.mkv", unmatched[0].Path)
		}
	})

	t.Run("UnmatchedSubdirIsNeverCompared", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		dest := NewTestHelper(t)
		defer dest.Cleanup()

		for _, name := range []string{"movies", "shows", "4k", "incomplete"} {
			source.CreateFile(filepath.Join(name, name+".mkv"), 200)
		}
		for _, name := range []string{"movies", "shows", "4k"} {
			dest.CreateDir(name)
		}

		scopes, unmatched := Correlate(scanTree(t, source.Root()), []*Catalog{scanTree(t, dest.Root())})

		if len(scopes) != 3 {
			t.Fatalf("len(scopes) = %d, want 3", len(scopes))
		}
		want := []string{"4k", "movies", "shows"}
		for i, name := range want {
			if scopes[i].ID != name {
				t.Errorf("scopes[%d].ID = %s, want %s", i, scopes[i].ID, name)
			}
		}
		// incomplete has no counterpart: its files skip comparison entirely
		if len(unmatched) != 1 || filepath.Base(unmatched[0].Path) != "incomplete.mkv" {
			t.Errorf("unmatched = %+v, want incomplete.mkv", unmatched)
		}
	})

	t.Run("ScopesOnlyContainTheirOwnEntries", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		dest := NewTestHelper(t)
		defer dest.Cleanup()

		source.CreateFile("movies/film.mkv", 200)
		source.CreateFile("shows/episode.mkv", 300)
		dest.CreateFile("movies/other.mkv", 200)
		dest.CreateDir("shows")

		scopes, _ := Correlate(scanTree(t, source.Root()), []*Catalog{scanTree(t, dest.Root())})

		if len(scopes) != 2 {
			t.Fatalf("len(scopes) = %d, want 2", len(scopes))
		}

		movies := scopes[0]
		if len(movies.SourceEntries) != 1 || filepath.Base(movies.SourceEntries[0].Path) != "film.mkv" {
			t.Errorf("movies scope source entries wrong: %+v", movies.SourceEntries)
		}
		if len(movies.DestEntries) != 1 || filepath.Base(movies.DestEntries[0].Path) != "other.mkv" {
			t.Errorf("movies scope dest entries wrong: %+v", movies.DestEntries)
		}
		if movies.SourceEntries[0].ScopeID != "movies" {
			t.Errorf("ScopeID = %s, want movies", movies.SourceEntries[0].ScopeID)
		}

		shows := scopes[1]
		if len(shows.SourceEntries) != 1 || len(shows.DestEntries) != 0 {
			t.Errorf("shows scope entries wrong: %d source, %d dest",
				len(shows.SourceEntries), len(shows.DestEntries))
		}
	})

	t.Run("MultipleDestinationsContributeToOneScope", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		destA := NewTestHelper(t)
		defer destA.Cleanup()
		destB := NewTestHelper(t)
		defer destB.Cleanup()

		source.CreateFile("movies/film.mkv", 200)
		destA.CreateFile("movies/one.mkv", 200)
		destB.CreateFile("movies/two.mkv", 200)

		scopes, _ := Correlate(scanTree(t, source.Root()),
			[]*Catalog{scanTree(t, destA.Root()), scanTree(t, destB.Root())})

		if len(scopes) != 1 {
			t.Fatalf("len(scopes) = %d, want 1", len(scopes))
		}
		if len(scopes[0].DestRoots) != 2 {
			t.Errorf("len(DestRoots) = %d, want 2", len(scopes[0].DestRoots))
		}
		if len(scopes[0].DestEntries) != 2 {
			t.Errorf("len(DestEntries) = %d, want 2", len(scopes[0].DestEntries))
		}
	})

	t.Run("NameMatchIsCaseSensitive", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		dest := NewTestHelper(t)
		defer dest.Cleanup()

		source.CreateFile("Movies/film.mkv", 200)
		dest.CreateFile("movies/film.mkv", 200)

		scopes, unmatched := Correlate(scanTree(t, source.Root()), []*Catalog{scanTree(t, dest.Root())})

		// Different case means no match, so the root scope takes over
		if len(scopes) != 1 || scopes[0].ID != RootScopeID {
			t.Fatalf("expected the root scope fallback, got %+v", scopes)
		}
		if len(unmatched) != 0 {
			t.Errorf("len(unmatched) = %d, want 0 in root scope mode", len(unmatched))
		}
	})

	t.Run("RootScopeFallback", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		dest := NewTestHelper(t)
		defer dest.Cleanup()

		source.CreateFile("downloads/film.mkv", 200)
		dest.CreateFile("library/film.mkv", 200)

		scopes, unmatched := Correlate(scanTree(t, source.Root()), []*Catalog{scanTree(t, dest.Root())})

		if len(scopes) != 1 {
			t.Fatalf("len(scopes) = %d, want 1", len(scopes))
		}
		scope := scopes[0]
		if scope.ID != RootScopeID {
			t.Errorf("scope ID = %s, want %s", scope.ID, RootScopeID)
		}
		if len(scope.SourceEntries) != 1 || len(scope.DestEntries) != 1 {
			t.Errorf("root scope entries: %d source, %d dest, want 1 each",
				len(scope.SourceEntries), len(scope.DestEntries))
		}
		if unmatched != nil {
			t.Errorf("unmatched = %v, want nil", unmatched)
		}
	})

	t.Run("FilesDirectlyUnderSourceRootAreUnmatched", func(t *testing.T) {
		source := NewTestHelper(t)
		defer source.Cleanup()
		dest := NewTestHelper(t)
		defer dest.Cleanup()

		source.CreateFile("movies/film.mkv", 200)
		source.CreateFile("loose.mkv", 200)
		dest.CreateDir("movies")

		scopes, unmatched := Correlate(scanTree(t, source.Root()), []*Catalog{scanTree(t, dest.Root())})

		if len(scopes) != 1 || scopes[0].ID != "movies" {
			t.Fatalf("expected a single movies scope, got %+v", scopes)
		}
		if len(unmatched) != 1 || filepath.Base(unmatched[0].Path) != "loose.mkv" {
			t.Errorf("unmatched = %+v, want loose.mkv", unmatched)
		}
	})

	t.Run("EmptyCatalogs", func(t *testing.T) {
		source := &Catalog{Root: "/src"}
		dest := &Catalog{Root: "/dst"}

		scopes, unmatched := Correlate(source, []*Catalog{dest})

		if len(scopes) != 1 || scopes[0].ID != RootScopeID {
			t.Fatalf("expected the root scope fallback, got %+v", scopes)
		}
		if len(scopes[0].SourceEntries) != 0 {
			t.Errorf("root scope should be empty")
		}
		if unmatched != nil {
			t.Errorf("unmatched = %v, want nil", unmatched)
		}
	})
}

func TestEntriesUnder(t *testing.T) {
	entries := []models.FileEntry{
		{Path: filepath.Join("/src", "movies", "a.mkv")},
		{Path: filepath.Join("/src", "moviesX", "b.mkv")},
		{Path: filepath.Join("/src", "movies", "sub", "c.mkv")},
	}

	got := entriesUnder(entries, filepath.Join("/src", "movies"), "movies")

	// Prefix match must not leak the sibling moviesX directory
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, entry := range got {
		if entry.ScopeID != "movies" {
			t.Errorf("ScopeID = %s, want movies", entry.ScopeID)
		}
	}
}
