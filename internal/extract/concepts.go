package extract

import (
	"sort"
	"strings"
	"unicode"
)

// MaxConcepts caps how many keywords seed the content templates.
const MaxConcepts = 10

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "against": true, "also": true,
	"because": true, "been": true, "before": true, "being": true, "between": true,
	"both": true, "could": true, "does": true, "doing": true, "down": true,
	"during": true, "each": true, "from": true, "further": true, "have": true,
	"having": true, "here": true, "into": true, "itself": true, "just": true,
	"more": true, "most": true, "once": true, "only": true, "other": true,
	"over": true, "same": true, "should": true, "some": true, "such": true,
	"than": true, "that": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "those": true,
	"through": true, "under": true, "until": true, "very": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "with": true, "would": true, "your": true, "yours": true,
}

// Concepts frequency-ranks the non-stopword tokens of a text and returns the
// top MaxConcepts, ties broken by first-encounter order. Pure and
// deterministic: identical input always yields identical output.
func Concepts(text string) []string {
	counts := make(map[string]int)
	var order []string

	for _, raw := range strings.Fields(strings.ToLower(text)) {
		token := stripPunctuation(raw)
		if len(token) <= 3 || stopwords[token] {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxConcepts {
		order = order[:MaxConcepts]
	}
	return order
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
