package mixing

import (
	"math"
	"sort"
	"strings"
)

const (
	// How many ranked results a search returns.
	topK = 5

	// Weight vectors closer than this per entry count as the same
	// mixture when deduplicating.
	weightDedupeTol = 1e-3
)

// rankResults drops discarded and non-finite candidates, deduplicates
// near-identical mixtures, sorts ascending by perceptual error (fewer
// paints win ties) and truncates to the presentation bound.
func rankResults(candidates []*MixResult, limit int) []MixResult {
	var kept []MixResult
	for _, c := range candidates {
		if c == nil || math.IsNaN(c.Error) || math.IsInf(c.Error, 0) {
			continue
		}
		if i, dup := findDuplicate(kept, c); dup {
			if c.Error < kept[i].Error {
				kept[i] = *c
			}
			continue
		}
		kept = append(kept, *c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Error != kept[j].Error {
			return kept[i].Error < kept[j].Error
		}
		return len(kept[i].Paints) < len(kept[j].Paints)
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// findDuplicate reports an existing result with the same paint subset and
// weights within tolerance. Independent optimizer restarts can land on
// the same mixture.
func findDuplicate(results []MixResult, c *MixResult) (int, bool) {
	key := subsetKey(c.Paints)
	for i := range results {
		if subsetKey(results[i].Paints) != key {
			continue
		}
		if len(results[i].Weights) != len(c.Weights) {
			continue
		}
		same := true
		for j := range c.Weights {
			if math.Abs(results[i].Weights[j]-c.Weights[j]) > weightDedupeTol {
				same = false
				break
			}
		}
		if same {
			return i, true
		}
	}
	return 0, false
}

func subsetKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
