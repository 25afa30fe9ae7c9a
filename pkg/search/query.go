/*
Package search applies declarative filter/sort specifications over the loaded
corpus, producing ranked result sets.
*/
package search

import (
	"fmt"
	"strings"

	"github.com/bertonantho/Names-sub000/pkg/corpus"
)

// SortKey enumerates the supported result orderings.
type SortKey string

const (
	// SortPopularity orders by descending most-recent-year count. Records
	// with zero births in the latest year compare by their most recent
	// nonzero year instead, so historically popular names do not collapse
	// to the bottom ahead of true zeros.
	SortPopularity SortKey = "popularity"
	// SortAlphabetical orders lexicographically by name.
	SortAlphabetical SortKey = "alphabetical"
	// SortRarity drops zero-recent records and orders ascending by the
	// latest-year count, smallest first.
	SortRarity SortKey = "rarity"
	// SortTrending orders by descending growth ratio, ties broken by
	// descending latest-year count.
	SortTrending SortKey = "trending"
)

// ParseSortKey validates a sort key at the boundary. Empty defaults to
// popularity.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return SortPopularity, nil
	case SortPopularity:
		return SortPopularity, nil
	case SortAlphabetical:
		return SortAlphabetical, nil
	case SortRarity:
		return SortRarity, nil
	case SortTrending:
		return SortTrending, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Query is a declarative search specification. Every field is optional; the
// zero Query matches the whole corpus ("browse all"). Numeric ranges are
// inclusive. A range with min > max is a caller error: the engine evaluates
// the predicates as written and does not reorder the bounds.
type Query struct {
	// Text matches case-insensitively anywhere in the name.
	Text string
	// Sex restricts to one partition when set.
	Sex corpus.Sex
	// MinYear/MaxYear select records whose active span overlaps the range:
	// record.LastYear >= MinYear and record.FirstYear <= MaxYear.
	MinYear int
	MaxYear int
	// Letter-count bounds, inclusive. Zero means unbounded.
	MinLetters int
	MaxLetters int
	// Syllable-count bounds, inclusive. Zero means unbounded.
	MinSyllables int
	MaxSyllables int
	// MinRecentBirths keeps records with at least this many births in the
	// dataset's latest year.
	MinRecentBirths int
	// Trend-ratio bounds over the last two dataset years. Nil means
	// unbounded on that side.
	MinTrend *float64
	MaxTrend *float64

	SortBy SortKey
	// Limit truncates the result set when positive.
	Limit int
}

// needsYearlyDetail reports whether any requested filter or sort needs the
// full yearly series rather than index-only fields.
func (q *Query) needsYearlyDetail() bool {
	if q.MinSyllables > 0 || q.MaxSyllables > 0 {
		return true
	}
	if q.MinTrend != nil || q.MaxTrend != nil {
		return true
	}
	return q.SortBy == SortTrending || q.SortBy == SortPopularity
}
