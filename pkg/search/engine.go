package search

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bertonantho/Names-sub000/internal/utils"
	"github.com/bertonantho/Names-sub000/pkg/analysis"
	"github.com/bertonantho/Names-sub000/pkg/corpus"
)

// Engine runs queries over a Store. It holds no state of its own: filters
// and sorts are pure computation over the immutable loaded records, so one
// Engine serves concurrent requests.
type Engine struct {
	store *corpus.Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store *corpus.Store) *Engine {
	return &Engine{store: store}
}

// LatestYear exposes the dataset's most recent year for result shaping.
func (e *Engine) LatestYear() int {
	return e.store.LatestYear()
}

// Search applies the query's filters over the corpus and returns the ranked
// result set. Filters commute, so they run in a fixed cheap-first order.
// An empty query browses the whole corpus.
func (e *Engine) Search(q Query) []*corpus.NameRecord {
	if q.Sex != "" {
		e.store.LoadSex(q.Sex)
	} else {
		e.store.LoadAll()
	}
	latest := e.store.LatestYear()

	candidates := e.store.Records(q.Sex)
	results := make([]*corpus.NameRecord, 0, len(candidates))
	for _, r := range candidates {
		if matches(r, &q, latest) {
			results = append(results, r)
		}
	}

	sortRecords(results, q.SortBy, latest)
	if q.SortBy == SortRarity {
		results = dropZeroRecent(results, latest)
	}

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	log.Debugf("Search matched %d records (sort=%s)", len(results), q.SortBy)
	return results
}

// QuickSearch answers a query from the lightweight index alone, without
// loading full records. It reports ok=false when the query needs yearly
// detail (syllable or trend filters, trend/popularity ordering); callers
// then fall back to Search.
func (e *Engine) QuickSearch(q Query) (entries []corpus.IndexEntry, ok bool) {
	if q.needsYearlyDetail() {
		return nil, false
	}

	for _, entry := range e.store.LoadIndex() {
		if entryMatches(entry, &q) {
			entries = append(entries, entry)
		}
	}

	switch q.SortBy {
	case SortRarity:
		kept := entries[:0]
		for _, en := range entries {
			if en.RecentCount > 0 {
				kept = append(kept, en)
			}
		}
		entries = kept
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].RecentCount != entries[j].RecentCount {
				return entries[i].RecentCount < entries[j].RecentCount
			}
			return entries[i].Name < entries[j].Name
		})
	default: // alphabetical
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	}

	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	return entries, true
}

func matches(r *corpus.NameRecord, q *Query, latest int) bool {
	if q.Text != "" && !utils.ContainsIgnoreCase(r.Name, q.Text) {
		return false
	}
	if q.Sex != "" && r.Sex != q.Sex {
		return false
	}
	if q.MinYear > 0 && r.LastYear() < q.MinYear {
		return false
	}
	if q.MaxYear > 0 && r.FirstYear() > q.MaxYear {
		return false
	}
	letters := analysis.LetterCount(r.Name)
	if q.MinLetters > 0 && letters < q.MinLetters {
		return false
	}
	if q.MaxLetters > 0 && letters > q.MaxLetters {
		return false
	}
	if q.MinSyllables > 0 || q.MaxSyllables > 0 {
		syllables := analysis.SyllableCount(r.Name)
		if q.MinSyllables > 0 && syllables < q.MinSyllables {
			return false
		}
		if q.MaxSyllables > 0 && syllables > q.MaxSyllables {
			return false
		}
	}
	if q.MinRecentBirths > 0 && r.RecentCount(latest) < q.MinRecentBirths {
		return false
	}
	if q.MinTrend != nil || q.MaxTrend != nil {
		ratio := r.GrowthRatio(latest, latest-1)
		if q.MinTrend != nil && ratio < *q.MinTrend {
			return false
		}
		if q.MaxTrend != nil && ratio > *q.MaxTrend {
			return false
		}
	}
	return true
}

// entryMatches mirrors the structural subset of matches over index fields.
func entryMatches(e corpus.IndexEntry, q *Query) bool {
	if q.Text != "" && !utils.ContainsIgnoreCase(e.Name, q.Text) {
		return false
	}
	if q.Sex != "" && e.Sex != q.Sex {
		return false
	}
	if q.MinYear > 0 && e.LastYear < q.MinYear {
		return false
	}
	if q.MaxYear > 0 && e.FirstYear > q.MaxYear {
		return false
	}
	letters := analysis.LetterCount(e.Name)
	if q.MinLetters > 0 && letters < q.MinLetters {
		return false
	}
	if q.MaxLetters > 0 && letters > q.MaxLetters {
		return false
	}
	if q.MinRecentBirths > 0 && e.RecentCount < q.MinRecentBirths {
		return false
	}
	return true
}

func sortRecords(records []*corpus.NameRecord, key SortKey, latest int) {
	switch key {
	case SortAlphabetical:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.Compare(records[i].Name, records[j].Name) < 0
		})
	case SortRarity:
		sort.SliceStable(records, func(i, j int) bool {
			ci, cj := records[i].RecentCount(latest), records[j].RecentCount(latest)
			if ci != cj {
				return ci < cj
			}
			return records[i].Name < records[j].Name
		})
	case SortTrending:
		sort.SliceStable(records, func(i, j int) bool {
			ri := analysis.GrowthRatio(records[i].Count(latest), records[i].Count(latest-1))
			rj := analysis.GrowthRatio(records[j].Count(latest), records[j].Count(latest-1))
			if ri != rj {
				return ri > rj
			}
			return records[i].RecentCount(latest) > records[j].RecentCount(latest)
		})
	default: // SortPopularity
		sort.SliceStable(records, func(i, j int) bool {
			return popularityValue(records[i], latest) > popularityValue(records[j], latest)
		})
	}
}

// popularityValue is the latest-year count, or the most recent nonzero count
// for records that dropped to zero. Note the asymmetry with rarity, which
// removes zero-recent records outright; both behaviors are intentional.
func popularityValue(r *corpus.NameRecord, latest int) int {
	if c := r.RecentCount(latest); c > 0 {
		return c
	}
	return r.LatestNonzero(latest)
}

func dropZeroRecent(records []*corpus.NameRecord, latest int) []*corpus.NameRecord {
	kept := records[:0]
	for _, r := range records {
		if r.RecentCount(latest) > 0 {
			kept = append(kept, r)
		}
	}
	return kept
}
