package recommend

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/bertonantho/Names-sub000/pkg/corpus"
)

// newTestStore writes a one-chunk-per-sex dataset into a temp dir and opens
// a store on it.
func newTestStore(t *testing.T, maxYear int, bySex map[corpus.Sex][]*corpus.NameRecord) *corpus.Store {
	t.Helper()
	dir := t.TempDir()

	manifest := corpus.Manifest{Chunks: map[corpus.Sex]int{}, MinYear: 1900, MaxYear: maxYear}
	var index []corpus.IndexEntry
	for sex, recs := range bySex {
		manifest.Chunks[sex] = 1
		writeJSON(t, dir, "names_"+string(sex)+"_0001.json", recs)
		for _, r := range recs {
			index = append(index, corpus.EntryFor(r, maxYear))
		}
	}
	writeJSON(t, dir, "manifest.json", manifest)
	writeJSON(t, dir, "index.json", index)

	return corpus.NewStore(dir)
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func rec(name string, sex corpus.Sex, births map[int]int) *corpus.NameRecord {
	return &corpus.NameRecord{Name: name, Sex: sex, Births: births}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func scorerFixture(t *testing.T) *Scorer {
	t.Helper()
	store := newTestStore(t, 2024, map[corpus.Sex][]*corpus.NameRecord{
		corpus.Female: {
			rec("Emma", corpus.Female, map[int]int{2023: 3000, 2024: 2900}),
			rec("Léa", corpus.Female, map[int]int{2024: 40}),
			rec("Joséphine", corpus.Female, map[int]int{2023: 120, 2024: 150}),
			rec("Madeleine", corpus.Female, map[int]int{2022: 80}),
		},
		corpus.Male: {
			rec("Milo", corpus.Male, map[int]int{2023: 1300, 2024: 1550}),
		},
	})
	return NewScorer(store)
}

func TestRecommendExcludesChildren(t *testing.T) {
	scorer := scorerFixture(t)

	fc := FamilyContext{
		LastName: "Martin",
		Children: []Child{{Name: "EMMA", Sex: corpus.Female}},
		Prefs:    Preferences{Sex: corpus.Female},
	}
	for _, c := range scorer.Recommend(fc) {
		if strings.EqualFold(c.Record.Name, "Emma") {
			t.Error("existing child name must not be recommended")
		}
	}
}

func TestRecommendSkipsZeroRecent(t *testing.T) {
	scorer := scorerFixture(t)

	for _, c := range scorer.Recommend(FamilyContext{LastName: "Martin"}) {
		if c.Record.RecentCount(2024) == 0 {
			t.Errorf("zero-recent record %s recommended", c.Record.Name)
		}
	}
}

func TestRecommendMaxLetters(t *testing.T) {
	scorer := scorerFixture(t)

	fc := FamilyContext{LastName: "Martin", Prefs: Preferences{MaxLetters: 4}}
	results := scorer.Recommend(fc)
	if len(results) == 0 {
		t.Fatal("expected candidates under the letter bound")
	}
	for _, c := range results {
		if n := len([]rune(c.Record.Name)); n > 4 {
			t.Errorf("%s exceeds MaxLetters", c.Record.Name)
		}
	}
}

func TestRecommendBoundsAndOrdering(t *testing.T) {
	names := []string{
		"Alice", "Billie", "Capucine", "Diane", "Elsa", "Faustine", "Gabrielle",
		"Héloïse", "Inès", "Juliette", "Katell", "Louane", "Margaux", "Ninon",
	}
	recs := make([]*corpus.NameRecord, len(names))
	for i, n := range names {
		recs[i] = rec(n, corpus.Female, map[int]int{2023: 100 + i, 2024: 200 + 10*i})
	}
	scorer := NewScorer(newTestStore(t, 2024, map[corpus.Sex][]*corpus.NameRecord{
		corpus.Female: recs,
	}))

	results := scorer.Recommend(FamilyContext{
		LastName: "Durand",
		Children: []Child{{Name: "Paul", Sex: corpus.Male}},
	})

	if len(results) != TopN {
		t.Fatalf("got %d candidates, want %d", len(results), TopN)
	}
	for i, c := range results {
		if c.Score < 0 || c.Score > 1 {
			t.Errorf("%s score %v out of [0,1]", c.Record.Name, c.Score)
		}
		if c.Source != SourceLocal {
			t.Errorf("%s tagged %v, want SourceLocal", c.Record.Name, c.Source)
		}
		if i > 0 && c.Score > results[i-1].Score {
			t.Errorf("scores not descending at position %d", i)
		}
	}
}

func TestScoreCombination(t *testing.T) {
	scorer := scorerFixture(t)
	r := rec("Louise", corpus.Female, map[int]int{2023: 400, 2024: 600})
	fc := FamilyContext{
		LastName: "Lefebvre",
		Children: []Child{{Name: "Jules", Sex: corpus.Male}},
		Prefs:    Preferences{Bracket: BracketModerate},
	}

	expected := lastNameWeight*LastNameScore("Louise", "Lefebvre") +
		siblingWeight*SiblingScore("Louise", fc.Children, StyleAny) +
		bracketWeight*BracketScore(600, BracketModerate) +
		trendWeight*TrendScore(r, 2024)
	if got := scorer.Score(r, fc, 2024); !almostEqual(got, expected) {
		t.Errorf("Score = %v, want %v", got, expected)
	}
}

func TestLastNameScore(t *testing.T) {
	testCases := []struct {
		first       string
		last        string
		expected    float64
		description string
	}{
		{"Léa", "Laurent", 1.0, "Favorable alliteration, no hiatus, balanced length"},
		{"Paul", "Petit", 0.76, "Harsh alliteration penalized"},
		{"Emma", "Albert", 0.67, "Vowel hiatus at the boundary penalized"},
		{"Léo", "Bo", 0.59, "Combined length too short"},
		{"Emma", "", 0.5, "Missing last name is neutral"},
		{"", "Martin", 0.5, "Missing first name is neutral"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := LastNameScore(tc.first, tc.last); !almostEqual(got, tc.expected) {
				t.Errorf("LastNameScore(%q, %q) = %v, want %v", tc.first, tc.last, got, tc.expected)
			}
		})
	}
}

func TestSiblingScoreNoChildren(t *testing.T) {
	if got := SiblingScore("Emma", nil, StyleAny); got != neutralScore {
		t.Errorf("SiblingScore with no siblings = %v, want %v", got, neutralScore)
	}
}

func TestSiblingScoreNearDuplicatePenalty(t *testing.T) {
	// Maya vs Mya: length 5/6, syllables equal, shared initial, then the
	// near-duplicate penalty halves the blend.
	got := SiblingScore("Maya", []Child{{Name: "Mya", Sex: corpus.Female}}, StyleAny)
	want := (0.4*(5.0/6.0) + 0.4*1.0 + 0.2*1.0) * 0.5
	if !almostEqual(got, want) {
		t.Errorf("SiblingScore(Maya, Mya) = %v, want %v", got, want)
	}

	distinct := SiblingScore("Maya", []Child{{Name: "Zoé", Sex: corpus.Female}}, StyleAny)
	if distinct <= got {
		t.Errorf("distinct sibling scored %v, not above penalized %v", distinct, got)
	}
}

func TestSiblingScoreAverages(t *testing.T) {
	children := []Child{
		{Name: "Mya", Sex: corpus.Female},
		{Name: "Zoé", Sex: corpus.Female},
	}
	single1 := SiblingScore("Maya", children[:1], StyleAny)
	single2 := SiblingScore("Maya", children[1:], StyleAny)
	if got := SiblingScore("Maya", children, StyleAny); !almostEqual(got, (single1+single2)/2) {
		t.Errorf("two-sibling score %v is not the average of %v and %v", got, single1, single2)
	}
}

func TestBracketScore(t *testing.T) {
	testCases := []struct {
		recent      int
		bracket     PopularityBracket
		expected    float64
		description string
	}{
		{30, BracketRare, 1.0, "Rare full credit"},
		{75, BracketRare, 0.5, "Rare partial credit"},
		{500, BracketRare, 0.1, "Rare minimal credit"},
		{150, BracketUncommon, 1.0, "Uncommon full credit"},
		{250, BracketUncommon, 0.5, "Uncommon partial credit above"},
		{30, BracketUncommon, 0.5, "Uncommon partial credit below"},
		{400, BracketUncommon, 0.1, "Uncommon minimal credit"},
		{500, BracketModerate, 1.0, "Moderate full credit"},
		{1200, BracketModerate, 0.5, "Moderate partial credit"},
		{50, BracketModerate, 0.1, "Moderate minimal credit"},
		{2000, BracketPopular, 1.0, "Popular full credit"},
		{800, BracketPopular, 0.5, "Popular partial credit"},
		{300, BracketPopular, 0.1, "Popular minimal credit"},
		{7, BracketAny, 0.5, "Any is neutral"},
		{9999, BracketAny, 0.5, "Any is neutral at scale"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := BracketScore(tc.recent, tc.bracket); !almostEqual(got, tc.expected) {
				t.Errorf("BracketScore(%d, %s) = %v, want %v", tc.recent, tc.bracket, got, tc.expected)
			}
		})
	}
}

func TestTrendScore(t *testing.T) {
	testCases := []struct {
		births      map[int]int
		expected    float64
		description string
	}{
		{map[int]int{2024: 50}, 0.5, "No baseline is neutral"},
		{map[int]int{2023: 100, 2024: 100}, 0.5, "Flat ratio maps to midpoint"},
		{map[int]int{2023: 100, 2024: 200}, 1.0, "Doubling maps to maximum"},
		{map[int]int{2023: 100, 2024: 400}, 1.0, "Growth beyond double is capped"},
		{map[int]int{2023: 200, 2024: 100}, 0.25, "Decline maps below midpoint"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			r := rec("Test", corpus.Female, tc.births)
			if got := TrendScore(r, 2024); !almostEqual(got, tc.expected) {
				t.Errorf("TrendScore = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestParseBracket(t *testing.T) {
	testCases := []struct {
		in          string
		expected    PopularityBracket
		ok          bool
		description string
	}{
		{"", BracketAny, true, "Empty defaults to any"},
		{"rare", BracketRare, true, "Plain bracket"},
		{" Moderate ", BracketModerate, true, "Folded and trimmed"},
		{"legendary", "", false, "Unknown bracket rejected"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, ok := ParseBracket(tc.in)
			if ok != tc.ok || got != tc.expected {
				t.Errorf("ParseBracket(%q) = %q, %v", tc.in, got, ok)
			}
		})
	}
}
