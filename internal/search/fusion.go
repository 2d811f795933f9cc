package search

import (
	"sort"

	"github.com/sanadlabs/sanad/internal/store"
)

// DefaultRRFConstant dampens the contribution of lower ranks. Larger
// values flatten the score curve across ranks.
const DefaultRRFConstant = 60

// fuseRRF merges ranked result lists by reciprocal rank fusion. A chunk
// at 0-indexed rank r in a list contributes 1/(k + r + 1); contributions
// add across lists. Ties keep first-seen order, semantic list first.
func fuseRRF(semantic []store.Chunk, lexical []store.Chunk, k int) []FusedResult {
	if k <= 0 {
		k = DefaultRRFConstant
	}

	type entry struct {
		fused FusedResult
		seen  int
	}
	byID := make(map[string]*entry)
	order := 0

	add := func(chunks []store.Chunk, semanticLeg bool) {
		for rank, c := range chunks {
			e, ok := byID[c.ID]
			if !ok {
				e = &entry{fused: FusedResult{Chunk: c}, seen: order}
				order++
				byID[c.ID] = e
			}
			e.fused.Score += 1.0 / float64(k+rank+1)
			if semanticLeg {
				e.fused.InSemantic = true
			} else {
				e.fused.InLexical = true
			}
		}
	}
	add(semantic, true)
	add(lexical, false)

	entries := make([]*entry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].fused.Score != entries[j].fused.Score {
			return entries[i].fused.Score > entries[j].fused.Score
		}
		return entries[i].seen < entries[j].seen
	})

	fused := make([]FusedResult, len(entries))
	for i, e := range entries {
		fused[i] = e.fused
	}
	return fused
}
