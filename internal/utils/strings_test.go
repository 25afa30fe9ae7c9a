package utils

import "testing"

func TestFoldDiacritics(t *testing.T) {
	testCases := []struct {
		in          string
		expected    string
		description string
	}{
		{"Éloïse", "Eloise", "Accents and diaeresis stripped"},
		{"Léa", "Lea", "Single accent stripped"},
		{"Jean-Luc", "Jean-Luc", "Plain ASCII untouched"},
		{"Noël", "Noel", "Diaeresis stripped"},
		{"", "", "Empty string"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := FoldDiacritics(tc.in); got != tc.expected {
				t.Errorf("FoldDiacritics(%q) = %q, want %q", tc.in, got, tc.expected)
			}
		})
	}
}

func TestEqualFolded(t *testing.T) {
	testCases := []struct {
		a, b        string
		expected    bool
		description string
	}{
		{"Éloïse", "eloise", true, "Accents and case both folded"},
		{"Léa", "LEA", true, "Accent plus uppercase"},
		{"Léa", "Léo", false, "Different names stay distinct"},
		{"", "", true, "Empty strings equal"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := EqualFolded(tc.a, tc.b); got != tc.expected {
				t.Errorf("EqualFolded(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	if !ContainsIgnoreCase("Joséphine", "JOS") {
		t.Error("substring match failed")
	}
	if ContainsIgnoreCase("Emma", "mme") {
		t.Error("unexpected substring match")
	}
}

func TestHasPrefixIgnoreCase(t *testing.T) {
	if !HasPrefixIgnoreCase("Emma", "em") {
		t.Error("prefix match failed")
	}
	if HasPrefixIgnoreCase("Emma", "ma") {
		t.Error("non-prefix matched")
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		in          int
		expected    string
		description string
	}{
		{0, "0", "Zero"},
		{999, "999", "Below first separator"},
		{1000, "1,000", "First separator"},
		{2900, "2,900", "Four digits"},
		{1234567, "1,234,567", "Seven digits"},
		{-56000, "-56,000", "Negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := FormatWithCommas(tc.in); got != tc.expected {
				t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.in, got, tc.expected)
			}
		})
	}
}
