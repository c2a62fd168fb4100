// Package match implements the two matching stages of a sweep: the metadata
// fast filter that rules out source files with an exact size+mtime twin, and
// the fingerprint-based orphan detector.
package match

import (
	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// FilterResult partitions a scope's source entries into hashing candidates
// and fast-filter matches
type FilterResult struct {
	// Candidates survived the filter and require fingerprinting
	Candidates []models.FileEntry

	// Matched is the number of source entries cleared by a size+mtime twin
	Matched int
}

// FastFilter classifies the scope's source entries against its destination
// entries. A source entry with a destination twin of identical size and
// identical modification time (exact nanosecond equality, no tolerance) is
// immediately non-orphan. Everything else becomes a hashing candidate.
//
// One pass builds a (size, mtime) set over the destination entries so each
// source entry is tested in near-constant time.
func FastFilter(scope *models.Scope) FilterResult {
	destMeta := make(map[models.MetaKey]struct{}, len(scope.DestEntries))
	for i := range scope.DestEntries {
		destMeta[scope.DestEntries[i].MetaKey()] = struct{}{}
	}

	var result FilterResult
	for i := range scope.SourceEntries {
		entry := scope.SourceEntries[i]
		if _, ok := destMeta[entry.MetaKey()]; ok {
			result.Matched++
			continue
		}
		result.Candidates = append(result.Candidates, entry)
	}

	return result
}

// SizeSet returns the set of candidate sizes, used to restrict which
// destination entries are worth fingerprinting: a destination file whose size
// matches no candidate can never produce a fingerprint match.
func SizeSet(candidates []models.FileEntry) map[int64]struct{} {
	sizes := make(map[int64]struct{}, len(candidates))
	for i := range candidates {
		sizes[candidates[i].Size] = struct{}{}
	}
	return sizes
}
