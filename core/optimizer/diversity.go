package optimizer

import "sort"

// SelectDiverse reduces the candidate pool to at most target mutually
// dissimilar schedules. The best candidate is always kept; the rest are
// accepted in fitness order only if their distance to every already selected
// candidate reaches minDistance. When too few candidates satisfy the
// threshold, the next best remaining ones fill the gap regardless of
// distance. The result never contains duplicate signatures.
func SelectDiverse(pool []Candidate, minDistance, target int) []Candidate {
	if len(pool) == 0 || target <= 0 {
		return nil
	}
	sorted := make([]Candidate, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Fitness > sorted[j].Fitness })

	selected := make([]Candidate, 0, target)
	seen := make(map[string]struct{})
	taken := make([]bool, len(sorted))

	accept := func(i int) bool {
		sig := sorted[i].Chromosome.Signature()
		if _, ok := seen[sig]; ok {
			taken[i] = true
			return false
		}
		seen[sig] = struct{}{}
		taken[i] = true
		selected = append(selected, sorted[i])
		return true
	}

	accept(0)
	for i := 1; i < len(sorted) && len(selected) < target; i++ {
		if minDist(sorted[i], selected) >= minDistance {
			accept(i)
		}
	}
	// Backfill with the next best remaining candidates.
	for i := 1; i < len(sorted) && len(selected) < target; i++ {
		if !taken[i] {
			accept(i)
		}
	}
	return selected
}

func minDist(c Candidate, selected []Candidate) int {
	min := -1
	for _, s := range selected {
		d := Distance(c.Chromosome, s.Chromosome)
		if min == -1 || d < min {
			min = d
		}
	}
	return min
}
