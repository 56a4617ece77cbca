// Package normalizer cleans raw message text before any rule is applied.
package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	invisible = strings.NewReplacer(
		"\u200b", "",
		"\u200c", "",
		"\u200d", "",
		"\u2060", "",
		"\ufeff", "",
	)

	// ₹ is not touched by NFKC, so it is folded by hand.
	rupeeGlyph = strings.NewReplacer("₹", " INR ")

	// Rs, Rs., INR and INR. directly before a number, with or without a space.
	currencyPrefix = regexp.MustCompile(`(?i)\b(?:rs|inr)\.?\s*(\d)`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize folds unicode compatibility forms, currency glyphs and
// whitespace. Case is preserved so merchant names keep their spelling.
// The result is a fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return text
	}

	s := invisible.Replace(text)
	s = norm.NFKC.String(s)
	s = rupeeGlyph.Replace(s)
	s = currencyPrefix.ReplaceAllString(s, "INR $1")
	s = whitespace.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
