package match

import (
	"sort"

	"github.com/Go0ners/Orphan-Sweeper/pkg/models"
)

// Detect determines which candidates are orphans: a candidate is an orphan if
// and only if its fingerprint is absent from the destination fingerprint set.
// Equality is exact digest equality.
//
// Candidates missing from sourceFingerprints (fingerprinting failed) are
// excluded entirely: they are neither confirmed matches nor orphans.
func Detect(candidates []models.FileEntry, sourceFingerprints map[string]string, destFingerprints map[string]string) []models.OrphanCandidate {
	destSet := make(map[string]struct{}, len(destFingerprints))
	for _, fp := range destFingerprints {
		destSet[fp] = struct{}{}
	}

	var orphans []models.OrphanCandidate
	for i := range candidates {
		entry := candidates[i]
		fp, ok := sourceFingerprints[entry.Path]
		if !ok {
			continue
		}
		if _, found := destSet[fp]; found {
			continue
		}
		orphans = append(orphans, models.OrphanCandidate{
			Entry:       entry,
			Fingerprint: fp,
		})
	}

	return orphans
}

// SortOrphans orders orphans deterministically: descending file size, ties
// broken by ascending path. Output and test expectations stay reproducible.
func SortOrphans(orphans []models.OrphanCandidate) {
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].Entry.Size != orphans[j].Entry.Size {
			return orphans[i].Entry.Size > orphans[j].Entry.Size
		}
		return orphans[i].Entry.Path < orphans[j].Entry.Path
	})
}
