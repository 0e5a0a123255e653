package headhunter

import "sort"

// Rank orders candidates by score descending and returns the top limit of
// them with ranks assigned. The sort is stable, so equal scores keep their
// collection order. matches counts selected candidates at or above the
// match threshold.
func Rank(candidates []Candidate, limit int) (selected []Candidate, matches int) {
	if limit <= 0 || len(candidates) == 0 {
		return nil, 0
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	if limit > len(ordered) {
		limit = len(ordered)
	}
	selected = ordered[:limit]
	for i := range selected {
		selected[i].Rank = i + 1
		if selected[i].Score >= MatchThreshold {
			matches++
		}
	}
	return selected, matches
}
