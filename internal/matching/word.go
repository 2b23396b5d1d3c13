package matching

import (
	"strings"
	"unicode/utf8"
)

// WordMatch records how one search word matched one compare word.
// Offsets and lengths are counted in runes of the lower-cased words.
//
// A CompareWordSubstringStart of -1 together with a Default(0) rating is the
// no-match sentinel; use IsMatch rather than comparing fields.
type WordMatch struct {
	SearchWordIndex           int
	SearchWordLength          int
	CompareWordIndex          int
	CompareWordSubstringStart int
	Rating                    MatchRating
}

// IsMatch reports whether m is a real match and not the sentinel.
func (m WordMatch) IsMatch() bool {
	return m.CompareWordSubstringStart >= 0
}

// Matcher compares words and phrases using a fixed set of rating points.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	points Points
}

// NewMatcher creates a Matcher with the given rating points.
func NewMatcher(points Points) *Matcher {
	return &Matcher{points: points}
}

// Points returns the rating points the matcher was configured with.
func (m *Matcher) Points() Points {
	return m.points
}

// IsExactMatch reports whether two words are equal after lower-casing, the
// same case rule IsApproximateMatch uses. Two absent words are equal; an
// absent word never equals a present one.
func IsExactMatch(searchWord, compareWord *string) bool {
	if searchWord == nil || compareWord == nil {
		return searchWord == nil && compareWord == nil
	}
	return strings.ToLower(*searchWord) == strings.ToLower(*compareWord)
}

// IsApproximateMatch reports whether searchWord occurs inside compareWord
// ignoring case. Only containment in that direction counts.
func IsApproximateMatch(searchWord, compareWord *string) bool {
	if searchWord == nil || compareWord == nil {
		return searchWord == nil && compareWord == nil
	}
	return strings.Contains(strings.ToLower(*compareWord), strings.ToLower(*searchWord))
}

// MatchWords rates a single pair of words: exact first, then approximate,
// otherwise the no-match sentinel.
func (m *Matcher) MatchWords(searchWord, compareWord *string) WordMatch {
	return m.matchWords(searchWord, compareWord, 0, 0)
}

func (m *Matcher) matchWords(searchWord, compareWord *string, searchIndex, compareIndex int) WordMatch {
	match := noMatch(searchIndex, searchWord)
	match.CompareWordIndex = compareIndex

	switch {
	case IsExactMatch(searchWord, compareWord):
		match.CompareWordSubstringStart = 0
		match.Rating = Exact(m.points.Exact)
	case IsApproximateMatch(searchWord, compareWord):
		match.CompareWordSubstringStart = substringStart(*searchWord, *compareWord)
		match.Rating = Approximate(m.points.Approximate)
	}
	return match
}

func noMatch(searchIndex int, searchWord *string) WordMatch {
	return WordMatch{
		SearchWordIndex:           searchIndex,
		SearchWordLength:          runeLength(searchWord),
		CompareWordSubstringStart: -1,
		Rating:                    Default(0),
	}
}

// substringStart returns the rune offset of the first case-insensitive
// occurrence of search within compare, or -1.
func substringStart(search, compare string) int {
	lowerCompare := strings.ToLower(compare)
	i := strings.Index(lowerCompare, strings.ToLower(search))
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(lowerCompare[:i])
}

func runeLength(word *string) int {
	if word == nil {
		return 0
	}
	return utf8.RuneCountInString(strings.ToLower(*word))
}
