package score

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dgallion1/docrank/internal/textutil"
)

// FuzzyPartial returns a bounded similarity in [0,100] between two
// strings, robust to partial overlap: the shorter string is slid in
// word windows across the longer one and the best Levenshtein
// similarity wins. An exact substring scores 100.
func FuzzyPartial(a, b string) float64 {
	a = textutil.CollapseSpaces(strings.ToLower(a))
	b = textutil.CollapseSpaces(strings.ToLower(b))
	if a == "" || b == "" {
		return 0
	}
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if strings.Contains(long, short) {
		return 100
	}

	longWords := strings.Fields(long)
	window := len(strings.Fields(short))
	if window < 1 {
		window = 1
	}

	best := similarity(short, long)
	for i := 0; i+window <= len(longWords); i++ {
		cand := strings.Join(longWords[i:i+window], " ")
		if s := similarity(short, cand); s > best {
			best = s
			if best >= 100 {
				break
			}
		}
	}
	return best
}

// similarity is the normalized Levenshtein similarity of two strings
// in [0,100].
func similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return (1 - float64(d)/float64(max)) * 100
}
