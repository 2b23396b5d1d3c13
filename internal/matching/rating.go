// Package matching scores how well a search phrase matches a piece of text.
//
// Words are compared case-insensitively and classified as exact or
// approximate (substring) matches. Phrase scores add the best rating of every
// search word plus a bonus for each pair of consecutive search words whose
// matches sit next to each other in the compared text.
package matching

// RatingKind identifies the variant of a MatchRating.
type RatingKind int

const (
	// KindDefault marks the absence of a match.
	KindDefault RatingKind = iota
	KindExact
	KindApproximate
	KindAdjacent
)

func (k RatingKind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindApproximate:
		return "approximate"
	case KindAdjacent:
		return "adjacent"
	default:
		return "default"
	}
}

// MatchRating is a closed set of rating kinds, each carrying its point value.
// How a rating folds into a running total is decided per kind by Accumulate.
type MatchRating struct {
	Kind   RatingKind
	Points float64
}

// Exact returns a rating for a case-insensitive exact word match.
func Exact(points float64) MatchRating {
	return MatchRating{Kind: KindExact, Points: points}
}

// Approximate returns a rating for a search word contained in a compare word.
func Approximate(points float64) MatchRating {
	return MatchRating{Kind: KindApproximate, Points: points}
}

// Adjacent returns the bonus rating for neighbouring matches.
func Adjacent(points float64) MatchRating {
	return MatchRating{Kind: KindAdjacent, Points: points}
}

// Default returns the rating carried by the no-match sentinel.
func Default(points float64) MatchRating {
	return MatchRating{Kind: KindDefault, Points: points}
}

// Accumulate folds the rating into total. Every current kind is additive;
// unknown kinds leave the total untouched.
func (r MatchRating) Accumulate(total float64) float64 {
	switch r.Kind {
	case KindExact, KindApproximate, KindAdjacent, KindDefault:
		return total + r.Points
	default:
		return total
	}
}

// Points holds the point value of each rating kind. It is configured once at
// startup; Exact is expected to outrank Approximate.
type Points struct {
	Exact       float64 `json:"exact"`
	Approximate float64 `json:"approximate"`
	Adjacent    float64 `json:"adjacent"`
}

// DefaultPoints returns the point values used when none are configured.
func DefaultPoints() Points {
	return Points{
		Exact:       3,
		Approximate: 2,
		Adjacent:    1,
	}
}
