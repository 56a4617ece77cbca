package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotNumeric is returned when a token does not parse as a non-negative number.
	ErrNotNumeric = errors.New("not numeric")
	// ErrPrecision is returned when a token carries more than two fractional digits.
	ErrPrecision = errors.New("more than two fractional digits")
)

var (
	currencyAffix = regexp.MustCompile(`(?i)^(?:inr|rs\.?|₹)\s*|\s*(?:inr|rs\.?|₹)$`)
	trailingJunk  = regexp.MustCompile(`(?:/-|[.,;:!)\]])+$`)
	plainNumber   = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)
)

// Canonical renders a raw numeric token as a decimal string with exactly two
// fractional digits and no separators. Thousands separators, a currency
// prefix or suffix and trailing punctuation are stripped first. Tokens with
// more than two fractional digits fail with ErrPrecision instead of being
// rounded; negative or non-numeric tokens fail with ErrNotNumeric.
func Canonical(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "(")

	for {
		next := currencyAffix.ReplaceAllString(s, "")
		next = trailingJunk.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == s {
			break
		}
		s = next
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	m := plainNumber.FindStringSubmatch(s)
	if m == nil {
		return "", ErrNotNumeric
	}
	if len(m[2]) > 2 {
		return "", ErrPrecision
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", ErrNotNumeric
	}
	return d.StringFixed(2), nil
}

// MustCanonical is Canonical for literals known to be valid.
func MustCanonical(raw string) string {
	s, err := Canonical(raw)
	if err != nil {
		panic("money: " + raw + ": " + err.Error())
	}
	return s
}
