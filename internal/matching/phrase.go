package matching

import "github.com/gcbaptista/note-search/internal/tokenizer"

// MatchPhrases scores how well searchPhrase matches comparePhrase.
//
// Blank or absent phrases are not split; they are rated as single words.
// Otherwise every search word contributes its best rating against all compare
// words, plus an adjacency bonus computed from its matches and those of the
// search word before it.
func (m *Matcher) MatchPhrases(searchPhrase, comparePhrase *string) float64 {
	if tokenizer.IsBlankPtr(searchPhrase) || tokenizer.IsBlankPtr(comparePhrase) {
		return m.MatchWords(searchPhrase, comparePhrase).Rating.Points
	}

	searchWords := tokenizer.Words(*searchPhrase)
	compareWords := tokenizer.Words(*comparePhrase)

	total := 0.0
	var previous []WordMatch
	for i, word := range searchWords {
		best, current := m.matchSearchWord(i, word, compareWords)
		total = best.Rating.Accumulate(total)
		total += m.AccumulateAdjacent(previous, current)
		previous = current
	}
	return total
}

// matchSearchWord compares one search word with every compare word. It returns
// the highest rated match (earliest on ties) and all real matches in
// compare-word order.
func (m *Matcher) matchSearchWord(index int, searchWord string, compareWords []string) (WordMatch, []WordMatch) {
	best := noMatch(index, &searchWord)
	var matches []WordMatch

	for j := range compareWords {
		match := m.matchWords(&searchWord, &compareWords[j], index, j)
		if !match.IsMatch() {
			continue
		}
		matches = append(matches, match)
		if !best.IsMatch() || match.Rating.Points > best.Rating.Points {
			best = match
		}
	}
	return best, matches
}
