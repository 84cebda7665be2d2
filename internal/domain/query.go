package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortOldest  SortKey = "oldest"
	SortHighest SortKey = "highest"
	SortLowest  SortKey = "lowest"
	SortHelpful SortKey = "helpful"
)

var SortKeys = []SortKey{SortNewest, SortOldest, SortHighest, SortLowest, SortHelpful}

// RatingFilter is "all" or a single star value "1".."5".
type RatingFilter string

const FilterAll RatingFilter = "all"

var RatingFilters = []RatingFilter{FilterAll, "1", "2", "3", "4", "5"}

// ParseSortKey maps "" to the default and rejects anything else unknown.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	k := SortKey(s)
	if !slices.Contains(SortKeys, k) {
		return "", &ValidationError{Fields: []string{"sort"}}
	}
	return k, nil
}

// ParseRatingFilter maps "" to "all" and rejects anything else unknown.
func ParseRatingFilter(s string) (RatingFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := RatingFilter(s)
	if !slices.Contains(RatingFilters, f) {
		return "", &ValidationError{Fields: []string{"rating"}}
	}
	return f, nil
}

// Matches reports whether r passes the filter. Unknown filters match nothing.
func (f RatingFilter) Matches(r Review) bool {
	if f == FilterAll {
		return true
	}
	n, err := strconv.Atoi(string(f))
	if err != nil {
		return false
	}
	return r.Rating == n
}

type ReviewQuery struct {
	SortBy       SortKey
	FilterRating RatingFilter
}

// Normalize fills zero values with the defaults.
func (q ReviewQuery) Normalize() ReviewQuery {
	if q.SortBy == "" {
		q.SortBy = SortNewest
	}
	if q.FilterRating == "" {
		q.FilterRating = FilterAll
	}
	return q
}

func (q ReviewQuery) String() string {
	q = q.Normalize()
	return fmt.Sprintf("%s:%s", q.SortBy, q.FilterRating)
}

// QueryReviews filters then stably sorts a copy of reviews. Reviews with equal
// sort keys keep their input order. The input slice is not modified.
func QueryReviews(reviews []Review, q ReviewQuery) []Review {
	q = q.Normalize()

	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if q.FilterRating.Matches(r) {
			out = append(out, r)
		}
	}

	var order func(a, b Review) int
	switch q.SortBy {
	case SortNewest:
		order = func(a, b Review) int { return b.Date.Compare(a.Date) }
	case SortOldest:
		order = func(a, b Review) int { return a.Date.Compare(b.Date) }
	case SortHighest:
		order = func(a, b Review) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortLowest:
		order = func(a, b Review) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortHelpful:
		order = func(a, b Review) int { return cmp.Compare(b.Helpful, a.Helpful) }
	default:
		return out
	}
	slices.SortStableFunc(out, order)
	return out
}
