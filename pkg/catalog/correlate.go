package catalog

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// RootScopeID identifies the degenerate scope created when no subdirectory
// names match between source and destinations.
const RootScopeID = "."

// Correlate pairs source subdirectories with same-named destination
// subdirectories, producing one comparison scope per matched name. Names are
// compared case-sensitively on the literal folder name. A destination root
// lacking the subdirectory simply contributes nothing to that scope.
//
// Source entries that fall under no matched scope (unmatched subdirectories,
// or files directly under the source root once scopes exist) are returned
// separately: they can never have a destination counterpart and are automatic
// orphan candidates.
//
// If no subdirectory names match at all, a single root scope covers the
// entire source tree against the union of all destination trees, and the
// unmatched list is empty.
func Correlate(source *Catalog, dests []*Catalog) ([]models.Scope, []models.FileEntry) {
	destSubdirs := make(map[string][]*Catalog)
	for _, dest := range dests {
		for _, name := range dest.Subdirs {
			destSubdirs[name] = append(destSubdirs[name], dest)
		}
	}

	var matched []string
	for _, name := range source.Subdirs {
		if len(destSubdirs[name]) > 0 {
			matched = append(matched, name)
		}
	}
	sort.Strings(matched)

	if len(matched) == 0 {
		scope := models.Scope{
			ID:         RootScopeID,
			SourceRoot: source.Root,
		}
		for i := range source.Entries {
			entry := source.Entries[i]
			entry.ScopeID = RootScopeID
			scope.SourceEntries = append(scope.SourceEntries, entry)
		}
		for _, dest := range dests {
			scope.DestRoots = append(scope.DestRoots, dest.Root)
			for i := range dest.Entries {
				entry := dest.Entries[i]
				entry.ScopeID = RootScopeID
				scope.DestEntries = append(scope.DestEntries, entry)
			}
		}
		return []models.Scope{scope}, nil
	}

	scopes := make([]models.Scope, 0, len(matched))
	claimed := make(map[string]string, len(matched)) // subdir path -> scope id

	for _, name := range matched {
		scope := models.Scope{
			ID:         name,
			SourceRoot: filepath.Join(source.Root, name),
		}
		claimed[scope.SourceRoot] = name

		scope.SourceEntries = entriesUnder(source.Entries, scope.SourceRoot, name)

		for _, dest := range destSubdirs[name] {
			destRoot := filepath.Join(dest.Root, name)
			scope.DestRoots = append(scope.DestRoots, destRoot)
			scope.DestEntries = append(scope.DestEntries, entriesUnder(dest.Entries, destRoot, name)...)
		}

		scopes = append(scopes, scope)
	}

	var unmatched []models.FileEntry
	for i := range source.Entries {
		entry := source.Entries[i]
		if scopeFor(entry.Path, claimed, source.Root) == "" {
			unmatched = append(unmatched, entry)
		}
	}

	return scopes, unmatched
}

// entriesUnder selects entries whose path lies under root, tagging them with
// the scope id
func entriesUnder(entries []models.FileEntry, root, scopeID string) []models.FileEntry {
	prefix := root + string(filepath.Separator)
	var out []models.FileEntry
	for i := range entries {
		if strings.HasPrefix(entries[i].Path, prefix) {
			entry := entries[i]
			entry.ScopeID = scopeID
			out = append(out, entry)
		}
	}
	return out
}

// scopeFor returns the scope id owning the given path, or "" if none
func scopeFor(path string, claimed map[string]string, sourceRoot string) string {
	dir := filepath.Dir(path)
	for dir != sourceRoot && len(dir) > len(sourceRoot) {
		if id, ok := claimed[dir]; ok {
			return id
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
