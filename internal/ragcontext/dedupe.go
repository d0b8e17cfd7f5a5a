package ragcontext

import "sort"

// tripleKey identifies a record for deduplication purposes. Two items that
// coincide on description, amount and date are the same underlying expense
// even when different sources surfaced them.
type tripleKey struct {
	description string
	amount      float64
	date        int64
}

// DedupeAndRank removes duplicate (description, amount, date) triples,
// sorts by descending relevance and truncates to max. First-seen wins on a
// duplicate, so the concatenation order of the sources decides which
// source's score survives. The sort is stable: ties preserve input order.
func DedupeAndRank(items []Item, max int) []Item {
	seen := make(map[tripleKey]struct{}, len(items))
	unique := make([]Item, 0, len(items))
	for _, it := range items {
		key := tripleKey{it.Description, it.Amount, it.Date.Unix()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, it)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].RelevanceScore > unique[j].RelevanceScore
	})

	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}
	return unique
}
