package recommend

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bertonantho/Names-sub000/internal/utils"
	"github.com/bertonantho/Names-sub000/pkg/analysis"
	"github.com/bertonantho/Names-sub000/pkg/corpus"
)

// TopN bounds every recommendation result set.
const TopN = 12

// Combined-score weights, fixed by the scoring model.
const (
	lastNameWeight = 0.25
	siblingWeight  = 0.30
	bracketWeight  = 0.25
	trendWeight    = 0.20
)

// PopularityBracket names a popularity tier defined by fixed birth-count
// thresholds on the dataset's latest year.
type PopularityBracket string

const (
	BracketRare     PopularityBracket = "rare"
	BracketUncommon PopularityBracket = "uncommon"
	BracketModerate PopularityBracket = "moderate"
	BracketPopular  PopularityBracket = "popular"
	BracketAny      PopularityBracket = "any"
)

// SiblingStyle selects how sibling signals blend. The recommendation path
// always uses StyleAny; the other styles are for callers that want to steer.
type SiblingStyle string

const (
	StyleSimilar       SiblingStyle = "similar"
	StyleComplementary SiblingStyle = "complementary"
	StyleAny           SiblingStyle = "any"
)

// Child is an existing child of the family.
type Child struct {
	Name string
	Sex  corpus.Sex
}

// Preferences steer candidate selection and scoring.
type Preferences struct {
	// Sex filters candidates to one partition when set.
	Sex corpus.Sex
	// Bracket is the requested popularity tier.
	Bracket PopularityBracket
	// MaxLetters bounds candidate name length when positive.
	MaxLetters int
	// MeaningWeight is forwarded to the external suggestion provider to
	// steer its prompt; local scoring does not use it.
	MeaningWeight float64
}

// FamilyContext is the per-request input to recommendation scoring. It is
// never persisted by this package.
type FamilyContext struct {
	LastName string
	Children []Child
	Prefs    Preferences
}

// ScoredCandidate pairs a record with its combined score. Source tags which
// side produced it: pure local scoring, an external suggestion with no
// matching record, or both when a suggestion matched a local record.
type ScoredCandidate struct {
	Record  *corpus.NameRecord
	Score   float64
	Insight *ExternalSuggestion
	Source  CandidateSource
}

// CandidateSource is the tagged origin of a ScoredCandidate.
type CandidateSource int

const (
	SourceLocal CandidateSource = iota
	SourceExternal
	SourceBoth
)

// IsExternallySourced reports whether the candidate carries an external
// suggestion.
func (c *ScoredCandidate) IsExternallySourced() bool {
	return c.Source != SourceLocal
}

// Scorer computes family-aware recommendation scores over a Store.
type Scorer struct {
	store *corpus.Store
}

// NewScorer creates a Scorer over the given store.
func NewScorer(store *corpus.Store) *Scorer {
	return &Scorer{store: store}
}

// Recommend scores every eligible candidate against the family context and
// returns the top candidates by combined score, all tagged SourceLocal.
//
// Candidates are the records matching the requested sex filter, minus names
// already used by existing children (case-insensitive), minus records with
// zero births in the latest year, bounded by MaxLetters when set.
func (s *Scorer) Recommend(fc FamilyContext) []ScoredCandidate {
	if fc.Prefs.Sex != "" {
		s.store.LoadSex(fc.Prefs.Sex)
	} else {
		s.store.LoadAll()
	}
	latest := s.store.LatestYear()

	taken := make(map[string]bool, len(fc.Children))
	for _, child := range fc.Children {
		taken[strings.ToLower(child.Name)] = true
	}

	var scored []ScoredCandidate
	for _, r := range s.store.Records(fc.Prefs.Sex) {
		if taken[strings.ToLower(r.Name)] {
			continue
		}
		if r.RecentCount(latest) == 0 {
			continue
		}
		if fc.Prefs.MaxLetters > 0 && analysis.LetterCount(r.Name) > fc.Prefs.MaxLetters {
			continue
		}
		scored = append(scored, ScoredCandidate{
			Record: r,
			Score:  s.Score(r, fc, latest),
			Source: SourceLocal,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > TopN {
		scored = scored[:TopN]
	}
	log.Debugf("Scored recommendations: %d candidates for last name %q", len(scored), fc.LastName)
	return scored
}

// Score combines the four sub-scores with their fixed weights. Each
// sub-score is in [0,1], so the result is too.
func (s *Scorer) Score(r *corpus.NameRecord, fc FamilyContext, latest int) float64 {
	return lastNameWeight*LastNameScore(r.Name, fc.LastName) +
		siblingWeight*SiblingScore(r.Name, fc.Children, StyleAny) +
		bracketWeight*BracketScore(r.RecentCount(latest), fc.Prefs.Bracket) +
		trendWeight*TrendScore(r, latest)
}

// favorableInitials are the consonants whose alliteration with the last name
// reads smoothly; alliteration on anything else is penalized.
const favorableInitials = "lmnrs"

// Combined first+last length bands.
const (
	balancedMin = 8
	balancedMax = 16
	passableMin = 6
	passableMax = 20
)

// LastNameScore rates how a first name sounds against the family last name:
// alliteration quality, vowel hiatus at the name boundary, and whether the
// combined length lands in a balanced band.
func LastNameScore(first, last string) float64 {
	if first == "" || last == "" {
		return neutralScore
	}
	fr := []rune(strings.ToLower(utils.FoldDiacritics(first)))
	lr := []rune(strings.ToLower(utils.FoldDiacritics(last)))

	alliteration := 0.7
	if fr[0] == lr[0] {
		if strings.ContainsRune(favorableInitials, fr[0]) {
			alliteration = 1.0
		} else {
			alliteration = 0.2
		}
	}

	hiatus := 1.0
	if isVowelRune(fr[len(fr)-1]) && isVowelRune(lr[0]) {
		hiatus = 0.2
	}

	total := analysis.LetterCount(first) + analysis.LetterCount(last)
	length := 0.2
	switch {
	case total >= balancedMin && total <= balancedMax:
		length = 1.0
	case total >= passableMin && total <= passableMax:
		length = 0.6
	}

	return 0.3*alliteration + 0.3*hiatus + 0.4*length
}

func isVowelRune(r rune) bool {
	return strings.ContainsRune("aeiouy", r)
}

// nearDuplicateThreshold triggers the 50% penalty that steers away from
// near-duplicate sibling names.
const nearDuplicateThreshold = 0.7

// SiblingScore averages per-sibling compatibility. Each sibling contributes
// a blend of length-difference, syllable-difference and shared-initial
// signals under the requested style, halved when the raw name similarity
// exceeds the near-duplicate threshold. No siblings yields a neutral 0.5.
func SiblingScore(name string, children []Child, style SiblingStyle) float64 {
	if len(children) == 0 {
		return neutralScore
	}

	sum := 0.0
	for _, child := range children {
		sum += siblingPairScore(name, child.Name, style)
	}
	return sum / float64(len(children))
}

func siblingPairScore(name, sibling string, style SiblingStyle) float64 {
	lenDiff := absInt(analysis.LetterCount(name) - analysis.LetterCount(sibling))
	if lenDiff > 6 {
		lenDiff = 6
	}
	lenScore := 1 - float64(lenDiff)/6

	syllDiff := absInt(analysis.SyllableCount(name) - analysis.SyllableCount(sibling))
	if syllDiff > 4 {
		syllDiff = 4
	}
	syllScore := 1 - float64(syllDiff)/4

	initial := 0.0
	fn := []rune(strings.ToLower(utils.FoldDiacritics(name)))
	fs := []rune(strings.ToLower(utils.FoldDiacritics(sibling)))
	if len(fn) > 0 && len(fs) > 0 && fn[0] == fs[0] {
		initial = 1.0
	}

	var score float64
	switch style {
	case StyleSimilar:
		score = 0.35*lenScore + 0.35*syllScore + 0.30*initial
	case StyleComplementary:
		score = 0.35*(1-lenScore) + 0.35*(1-syllScore) + 0.30*(1-initial)
	default: // StyleAny
		score = 0.4*lenScore + 0.4*syllScore + 0.2*initial
	}

	if analysis.Similarity(name, sibling) > nearDuplicateThreshold {
		score *= 0.5
	}
	return score
}

// Bracket thresholds on latest-year births.
const (
	rareFull        = 50
	rarePartial     = 100
	uncommonFull    = 200
	uncommonPartial = 300
	moderateFull    = 1000
	moderatePartial = 1500
	popularPartial  = 600
)

// BracketScore rates a latest-year birth count against the requested
// popularity bracket: full credit inside the bracket, partial credit just
// outside it, minimal credit elsewhere. BracketAny is neutral.
func BracketScore(recent int, bracket PopularityBracket) float64 {
	switch bracket {
	case BracketRare:
		switch {
		case recent <= rareFull:
			return 1.0
		case recent <= rarePartial:
			return 0.5
		}
	case BracketUncommon:
		switch {
		case recent > rareFull && recent <= uncommonFull:
			return 1.0
		case recent <= uncommonPartial:
			return 0.5
		}
	case BracketModerate:
		switch {
		case recent > uncommonFull && recent <= moderateFull:
			return 1.0
		case recent > rarePartial && recent <= moderatePartial:
			return 0.5
		}
	case BracketPopular:
		switch {
		case recent > moderateFull:
			return 1.0
		case recent > popularPartial:
			return 0.5
		}
	default:
		return neutralScore
	}
	return 0.1
}

// TrendScore maps the latest year-over-year growth ratio into [0,1], capped
// at ratio 2. Without a prior-year baseline the score is neutral.
func TrendScore(r *corpus.NameRecord, latest int) float64 {
	baseline := r.Count(latest - 1)
	if baseline == 0 {
		return neutralScore
	}
	ratio := analysis.GrowthRatio(r.Count(latest), baseline)
	if ratio > 2 {
		ratio = 2
	}
	return ratio / 2
}

// ParseBracket validates a bracket name at the boundary. Empty means any.
func ParseBracket(s string) (PopularityBracket, bool) {
	switch PopularityBracket(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return BracketAny, true
	case BracketRare:
		return BracketRare, true
	case BracketUncommon:
		return BracketUncommon, true
	case BracketModerate:
		return BracketModerate, true
	case BracketPopular:
		return BracketPopular, true
	case BracketAny:
		return BracketAny, true
	}
	return "", false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
