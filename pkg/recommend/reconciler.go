package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bertonantho/Names-sub000/internal/utils"
	"github.com/bertonantho/Names-sub000/pkg/corpus"
)

// Placeholder birth-history shape for suggestions absent from the corpus,
// so downstream display code always has yearly data to work with.
const (
	placeholderRecent = 10
	placeholderPrior  = 5
)

// Recommender orchestrates local scoring and external suggestion
// reconciliation. The provider is optional; without one, Recommend returns
// the pure local list.
type Recommender struct {
	store    *corpus.Store
	scorer   *Scorer
	provider Provider
}

// NewRecommender creates a Recommender. provider may be nil.
func NewRecommender(store *corpus.Store, provider Provider) *Recommender {
	return &Recommender{
		store:    store,
		scorer:   NewScorer(store),
		provider: provider,
	}
}

// Recommend returns locally scored candidates for the family context.
func (rc *Recommender) Recommend(fc FamilyContext) []ScoredCandidate {
	return rc.scorer.Recommend(fc)
}

// RecommendWithInsights scores locally, then asks the external provider and
// merges its suggestions in. Any provider failure falls back to the pure
// local list: external trouble must never fail the recommendation request.
func (rc *Recommender) RecommendWithInsights(ctx context.Context, fc FamilyContext) []ScoredCandidate {
	local := rc.scorer.Recommend(fc)
	if rc.provider == nil {
		return local
	}

	suggestions, err := rc.provider.Suggest(ctx, fc)
	if err != nil {
		log.Warnf("Suggestion provider failed, using local recommendations only: %v", err)
		return local
	}
	return rc.Reconcile(suggestions, local, fc.Prefs.Sex)
}

// Reconcile merges external suggestions with the scored local candidates.
// Suggestion numerics are clamped into [0,1] on receipt, whichever path the
// provider built them through.
//
// Each suggestion is matched against the corpus by exact case-insensitive
// name first, then diacritic-stripped. A match produces a Both candidate
// carrying the record and the suggestion, scored by the local score when the
// record was already locally scored, the suggestion's overall compatibility
// otherwise; the record leaves the local pool to avoid duplication. An
// unmatched suggestion becomes an External candidate over a synthesized
// placeholder record. Externally sourced candidates come first, ordered by
// descending confidence, then the remaining locals by descending score,
// truncated to TopN.
func (rc *Recommender) Reconcile(suggestions []ExternalSuggestion, local []ScoredCandidate, sex corpus.Sex) []ScoredCandidate {
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	latest := rc.store.LatestYear()

	localIdx := make(map[string]int, len(local))
	for i, c := range local {
		localIdx[strings.ToLower(c.Record.Name)] = i
	}
	claimed := make(map[int]bool)

	var external []ScoredCandidate
	for i := range suggestions {
		sug := &suggestions[i]
		sug.clamp()

		record := rc.matchRecord(sug.Name, sex)
		if record == nil {
			external = append(external, ScoredCandidate{
				Record:  rc.placeholderRecord(sug.Name, sex, latest),
				Score:   sug.Compatibility.Overall,
				Insight: sug,
				Source:  SourceExternal,
			})
			continue
		}

		score := sug.Compatibility.Overall
		if idx, ok := localIdx[strings.ToLower(record.Name)]; ok {
			score = local[idx].Score
			claimed[idx] = true
		}
		external = append(external, ScoredCandidate{
			Record:  record,
			Score:   score,
			Insight: sug,
			Source:  SourceBoth,
		})
	}

	sort.SliceStable(external, func(i, j int) bool {
		return external[i].Insight.Confidence > external[j].Insight.Confidence
	})

	merged := external
	for i, c := range local {
		if !claimed[i] {
			merged = append(merged, c)
		}
	}
	if len(merged) > TopN {
		merged = merged[:TopN]
	}
	return merged
}

// matchRecord resolves a suggested name to a corpus record: exact
// case-insensitive lookup in the requested partitions, then a
// diacritic-insensitive scan.
func (rc *Recommender) matchRecord(name string, sex corpus.Sex) *corpus.NameRecord {
	sexes := []corpus.Sex{sex}
	if sex == "" {
		sexes = []corpus.Sex{corpus.Female, corpus.Male}
	}

	for _, sx := range sexes {
		if r, ok := rc.store.Record(name, sx); ok {
			return r
		}
	}
	for _, sx := range sexes {
		for _, r := range rc.store.Records(sx) {
			if utils.EqualFolded(r.Name, name) {
				return r
			}
		}
	}
	return nil
}

// placeholderRecord synthesizes a small fixed birth history for a suggested
// name the corpus does not know.
func (rc *Recommender) placeholderRecord(name string, sex corpus.Sex, latest int) *corpus.NameRecord {
	if sex == "" {
		sex = corpus.Female
	}
	return &corpus.NameRecord{
		Name: name,
		Sex:  sex,
		Births: map[int]int{
			latest - 1: placeholderPrior,
			latest:     placeholderRecent,
		},
	}
}
