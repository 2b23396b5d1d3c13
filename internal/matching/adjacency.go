package matching

// IsAdjacent reports whether right directly follows left: the matches belong
// to consecutive search words and sit next to each other in the compared text.
//
// Inside a single compare word the left substring has to end before the right
// one starts. Across compare words only the word positions matter.
func IsAdjacent(left, right WordMatch) bool {
	if right.SearchWordIndex-left.SearchWordIndex != 1 {
		return false
	}
	if left.CompareWordIndex == right.CompareWordIndex {
		return left.CompareWordSubstringStart+left.SearchWordLength-1 < right.CompareWordSubstringStart
	}
	return right.CompareWordIndex-left.CompareWordIndex == 1
}

// AccumulateAdjacent returns one Adjacent bonus for every adjacent pair taken
// from left and right. Pairs are not de-duplicated.
func (m *Matcher) AccumulateAdjacent(left, right []WordMatch) float64 {
	total := 0.0
	if len(left) == 0 || len(right) == 0 {
		return total
	}

	bonus := Adjacent(m.points.Adjacent)
	for _, l := range left {
		for _, r := range right {
			if IsAdjacent(l, r) {
				total = bonus.Accumulate(total)
			}
		}
	}
	return total
}
