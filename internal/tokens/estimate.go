// Package tokens approximates how many language-model tokens a text consumes.
//
// The estimate is a heuristic of roughly four characters per token for
// English text. It is not a tokenizer and makes no claim of exactness.
package tokens

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CharsPerToken is the character-to-token ratio used by Estimate.
const CharsPerToken = 4

// Estimate returns the approximate token count of text. Runs of whitespace
// are collapsed to a single space and the result is trimmed before counting
// characters. Empty or whitespace-only text yields 0.
func Estimate(text string) int {
	normalized := strings.Join(strings.Fields(text), " ")
	return utf8.RuneCountInString(normalized) / CharsPerToken
}

// EstimateValue estimates the tokens of v in its compact JSON form.
func EstimateValue(v any) (int, error) {
	text, err := CompactJSON(v)
	if err != nil {
		return 0, err
	}
	return Estimate(text), nil
}

// PercentOf formats used as a percentage of budget with one decimal place.
// It returns "N/A" when budget is not positive.
func PercentOf(used, budget int) string {
	if budget <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", float64(used)/float64(budget)*100)
}
