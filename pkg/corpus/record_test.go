package corpus

import "testing"

func TestDerivedMetrics(t *testing.T) {
	r := &NameRecord{
		Name: "Emma",
		Sex:  Female,
		Births: map[int]int{
			2020: 3400,
			2021: 0,
			2022: 3100,
			2024: 2900,
		},
	}

	if got := r.TotalBirths(); got != 9400 {
		t.Errorf("TotalBirths = %d, want 9400", got)
	}
	if got := r.FirstYear(); got != 2020 {
		t.Errorf("FirstYear = %d, want 2020", got)
	}
	if got := r.LastYear(); got != 2024 {
		t.Errorf("LastYear = %d, want 2024", got)
	}
	year, births := r.PeakYear()
	if year != 2020 || births != 3400 {
		t.Errorf("PeakYear = (%d, %d), want (2020, 3400)", year, births)
	}
	// 2023 is absent from the series: absence means zero births.
	if got := r.Count(2023); got != 0 {
		t.Errorf("Count(2023) = %d, want 0", got)
	}
}

func TestEmptySeries(t *testing.T) {
	r := &NameRecord{Name: "Nobody", Sex: Male, Births: map[int]int{}}

	if r.TotalBirths() != 0 || r.FirstYear() != 0 || r.LastYear() != 0 {
		t.Error("empty series should report zero metrics")
	}
	year, births := r.PeakYear()
	if year != 0 || births != 0 {
		t.Errorf("PeakYear on empty series = (%d, %d)", year, births)
	}
}

func TestLatestNonzero(t *testing.T) {
	r := &NameRecord{
		Name:   "Jade",
		Sex:    Female,
		Births: map[int]int{2019: 700, 2022: 500},
	}

	if got := r.RecentCount(2024); got != 0 {
		t.Errorf("RecentCount(2024) = %d, want 0", got)
	}
	if got := r.LatestNonzero(2024); got != 500 {
		t.Errorf("LatestNonzero(2024) = %d, want 500", got)
	}
	if got := r.LatestNonzero(2021); got != 700 {
		t.Errorf("LatestNonzero(2021) = %d, want 700", got)
	}
}

func TestIndexEntryConsistency(t *testing.T) {
	r := &NameRecord{
		Name:   "Milo",
		Sex:    Male,
		Births: map[int]int{2023: 1300, 2024: 1550},
	}
	e := EntryFor(r, 2024)

	if e.Name != r.Name || e.Sex != r.Sex {
		t.Error("entry identity must match the record")
	}
	if e.TotalBirths != r.TotalBirths() {
		t.Errorf("entry TotalBirths = %d, record says %d", e.TotalBirths, r.TotalBirths())
	}
	if e.RecentCount != r.RecentCount(2024) {
		t.Errorf("entry RecentCount = %d, record says %d", e.RecentCount, r.RecentCount(2024))
	}
	if e.FirstYear != r.FirstYear() || e.LastYear != r.LastYear() {
		t.Error("entry year span must match the record")
	}
}

func TestKeyCaseInsensitive(t *testing.T) {
	if Key("Emma", Female) != Key("EMMA", Female) {
		t.Error("keys must fold case")
	}
	if Key("Emma", Female) == Key("Emma", Male) {
		t.Error("keys must separate sexes")
	}
}

func TestParseSex(t *testing.T) {
	testCases := []struct {
		in          string
		expected    Sex
		ok          bool
		description string
	}{
		{"f", Female, true, "Short female"},
		{"Female", Female, true, "Long female, case folded"},
		{"M", Male, true, "Short male"},
		{"", "", true, "Empty means no filter"},
		{"x", "", false, "Unknown value rejected"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, ok := ParseSex(tc.in)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("ParseSex(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.expected, tc.ok)
			}
		})
	}
}
