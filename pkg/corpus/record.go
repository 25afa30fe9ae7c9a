/*
Package corpus holds the in-memory representation of the name statistics
dataset: full records with per-year birth counts, the lightweight search
index, and the chunked loader that materializes both from disk.

Records are immutable once loaded. All derived metrics (totals, first/last
year, peaks, trend ratios) are computed on demand from the yearly series.
*/
package corpus

import (
	"strings"

	"github.com/bertonantho/Names-sub000/pkg/analysis"
)

// Sex partitions the corpus. The dataset ships one partition per value.
type Sex string

const (
	Female Sex = "f"
	Male   Sex = "m"
)

// ParseSex normalizes a user-supplied sex filter. Empty means no filter.
func ParseSex(s string) (Sex, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female":
		return Female, true
	case "m", "male":
		return Male, true
	case "":
		return "", true
	}
	return "", false
}

// NameRecord is one (name, sex) entry with its sparse yearly birth counts.
// A missing year means zero births that year, not an error.
type NameRecord struct {
	Name   string      `json:"name"`
	Sex    Sex         `json:"sex"`
	Births map[int]int `json:"births"`
}

// Count returns the birth count for year, zero when absent.
func (r *NameRecord) Count(year int) int {
	return r.Births[year]
}

// TotalBirths sums the yearly series.
func (r *NameRecord) TotalBirths() int {
	total := 0
	for _, c := range r.Births {
		total += c
	}
	return total
}

// FirstYear returns the earliest year with a positive count, 0 when the
// series is empty.
func (r *NameRecord) FirstYear() int {
	first := 0
	for y, c := range r.Births {
		if c > 0 && (first == 0 || y < first) {
			first = y
		}
	}
	return first
}

// LastYear returns the latest year with a positive count, 0 when the series
// is empty.
func (r *NameRecord) LastYear() int {
	last := 0
	for y, c := range r.Births {
		if c > 0 && y > last {
			last = y
		}
	}
	return last
}

// PeakYear returns the year with the highest count and that count.
// Ties resolve to the earliest year so the result is deterministic.
func (r *NameRecord) PeakYear() (year, births int) {
	for y, c := range r.Births {
		if c > births || (c == births && c > 0 && (year == 0 || y < year)) {
			year, births = y, c
		}
	}
	return year, births
}

// RecentCount returns the count for the dataset's latest year. Records that
// fell out of use report zero here; LatestNonzero is the fallback for
// ranking those.
func (r *NameRecord) RecentCount(latestYear int) int {
	return r.Births[latestYear]
}

// LatestNonzero walks back from latestYear to the most recent year with a
// positive count and returns that count. Zero when the series never had one.
func (r *NameRecord) LatestNonzero(latestYear int) int {
	for y := latestYear; y >= r.FirstYear() && y > 0; y-- {
		if c := r.Births[y]; c > 0 {
			return c
		}
	}
	return 0
}

// GrowthRatio derives the yearA over yearB growth ratio for this record.
func (r *NameRecord) GrowthRatio(yearA, yearB int) float64 {
	return analysis.GrowthRatio(r.Count(yearA), r.Count(yearB))
}

// Trend classifies the direction between two years of this record.
func (r *NameRecord) Trend(yearA, yearB int) analysis.TrendDirection {
	return analysis.Direction(r.Count(yearA), r.Count(yearB))
}

// Key returns the lookup key for a (name, sex) pair. Name matching across
// the corpus is case-insensitive.
func Key(name string, sex Sex) string {
	return strings.ToLower(name) + "|" + string(sex)
}

// IndexEntry is the lightweight projection of a NameRecord used to answer
// simple queries without materializing the full yearly series. It is always
// derivable from the record it mirrors.
type IndexEntry struct {
	Name        string `json:"name"`
	Sex         Sex    `json:"sex"`
	TotalBirths int    `json:"total_births"`
	RecentCount int    `json:"recent_count"`
	FirstYear   int    `json:"first_year"`
	LastYear    int    `json:"last_year"`
}

// EntryFor projects a record into its index form.
func EntryFor(r *NameRecord, latestYear int) IndexEntry {
	return IndexEntry{
		Name:        r.Name,
		Sex:         r.Sex,
		TotalBirths: r.TotalBirths(),
		RecentCount: r.RecentCount(latestYear),
		FirstYear:   r.FirstYear(),
		LastYear:    r.LastYear(),
	}
}
