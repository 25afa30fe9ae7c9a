/*
Package analysis provides the pure computation over name strings: letter and
syllable counting, pairwise name similarity, and year-over-year trend math.

Everything here is deterministic and side-effect free; the same input always
produces the same output. The syllable counter is a heuristic over vowel runs,
not a phonological parser, and is specified rule-for-rule so results are
reproducible across platforms.
*/
package analysis

import (
	"math"
	"strings"
	"unicode"
)

// vowels covers plain and accented nuclei found in the corpus, y included.
const vowels = "aeiouyàâäæéèêëîïôöœùûüÿ"

func isVowel(r rune) bool {
	return strings.ContainsRune(vowels, r)
}

// LetterCount returns the number of alphabetic runes in name.
// Spaces, hyphens, apostrophes and any other punctuation are ignored;
// accented letters count like any other letter.
func LetterCount(name string) int {
	count := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			count++
		}
	}
	return count
}

// cleanLetters lowercases name and drops every non-letter rune.
func cleanLetters(name string) []rune {
	var out []rune
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	return out
}

// SyllableCount estimates the number of syllables in name.
//
// The name is lowercased and stripped of non-letters, then maximal runs of
// vowels are counted as nuclei. A trailing silent 'e' on names longer than
// two letters removes one count, and every run of two or more consecutive
// vowels removes half a count before rounding. The result never drops
// below 1, so the empty string yields 1.
func SyllableCount(name string) int {
	letters := cleanLetters(name)

	nuclei := 0
	multiRuns := 0
	runLen := 0
	for _, r := range letters {
		if isVowel(r) {
			runLen++
			continue
		}
		if runLen > 0 {
			nuclei++
			if runLen >= 2 {
				multiRuns++
			}
		}
		runLen = 0
	}
	if runLen > 0 {
		nuclei++
		if runLen >= 2 {
			multiRuns++
		}
	}

	count := float64(nuclei)
	if len(letters) > 2 && letters[len(letters)-1] == 'e' {
		count--
	}
	count -= 0.5 * float64(multiRuns)

	rounded := int(math.Round(count))
	if rounded < 1 {
		return 1
	}
	return rounded
}

// Similarity weights. They sum to 1 so the result stays in [0,1].
const (
	lengthWeight  = 0.20
	initialWeight = 0.30
	endingWeight  = 0.25
	sharedWeight  = 0.25
)

// Similarity computes a [0,1] similarity between two names from length,
// initial letter, ending and shared-letter-set signals. A case-insensitive
// exact match scores 1.0.
//
// The ending term compares the last min(3, len) runes of both names; swapping
// the arguments does not change which window is used, so the function is
// symmetric (pinned by tests rather than assumed).
func Similarity(a, b string) float64 {
	la := []rune(strings.ToLower(a))
	lb := []rune(strings.ToLower(b))

	if string(la) == string(lb) {
		return 1.0
	}
	if len(la) == 0 || len(lb) == 0 {
		return 0
	}

	score := 0.0

	maxLen := len(la)
	if len(lb) > maxLen {
		maxLen = len(lb)
	}
	diff := len(la) - len(lb)
	if diff < 0 {
		diff = -diff
	}
	score += (1 - float64(diff)/float64(maxLen)) * lengthWeight

	if la[0] == lb[0] {
		score += initialWeight
	}

	score += endingScore(la, lb) * endingWeight
	score += sharedLetterRatio(la, lb) * sharedWeight

	return score
}

// endingScore compares suffixes over a window of the shorter of 3 runes and
// the shorter name. Full window match scores 1, a match on the window's last
// two runes scores 0.5.
func endingScore(a, b []rune) float64 {
	n := 3
	if len(a) < n {
		n = len(a)
	}
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	sa := string(a[len(a)-n:])
	sb := string(b[len(b)-n:])
	if sa == sb {
		return 1
	}
	if n >= 2 {
		ta := string(a[len(a)-2:])
		tb := string(b[len(b)-2:])
		if ta == tb {
			return 0.5
		}
	}
	return 0
}

// sharedLetterRatio is the count of letters present in both names divided by
// the size of the larger unique-letter set.
func sharedLetterRatio(a, b []rune) float64 {
	setA := make(map[rune]struct{}, len(a))
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := make(map[rune]struct{}, len(b))
	for _, r := range b {
		setB[r] = struct{}{}
	}

	shared := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			shared++
		}
	}

	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}
	if larger == 0 {
		return 0
	}
	return float64(shared) / float64(larger)
}
