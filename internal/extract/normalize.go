package extract

import (
	"bytes"
	"strings"
)

// CleanText normalizes line endings, collapses runs of whitespace within each
// line to single spaces, collapses multiple blank lines to exactly one, and
// trims the result. Every format strategy goes through this.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(collapsed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}

// TruncateForBudget caps text at a token budget, approximating 1 token ≈ 4
// characters. Text that fits is returned unchanged. Otherwise the cut lands
// on the last sentence boundary found after 80% of the character budget, or
// hard-truncates with an ellipsis when no boundary exists. This is a
// heuristic, not an exact tokenizer.
func TruncateForBudget(text string, maxTokens int) string {
	budget := maxTokens * 4
	if len(text) <= budget {
		return text
	}

	cut := text[:budget]
	floor := budget * 8 / 10
	if idx := strings.LastIndex(cut, "."); idx >= floor {
		return cut[:idx+1]
	}

	return cut + "..."
}
