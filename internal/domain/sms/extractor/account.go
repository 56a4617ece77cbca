package extractor

import (
	"strings"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

const (
	maxVisibleDigits = 6
	keptDigits       = 4
)

// Account extracts the instrument. Captures whose number overlaps a span
// in claimed are skipped, so an amount or reference number is never reused
// as an account suffix.
func Account(text string, groups []*catalog.RuleGroup, claimed Spans) (model.Account, Hit, bool) {
	hit, ok := scan(text, groups, catalog.FieldAccount, func(_ *catalog.RuleGroup, r *catalog.Rule, c catalog.Capture) (Hit, bool) {
		if c.Start >= 0 && claimed.Overlaps(Span{Start: c.Start, End: c.End}) {
			return Hit{}, false
		}

		number := AccountSuffix(c.Value)
		name := r.Label()
		if name == "" {
			name = canonicalName(c.Name)
		}
		if number == "" && name == "" {
			return Hit{}, false
		}
		return Hit{Value: number, Name: name}, true
	})
	if !ok {
		return model.Account{}, Hit{}, false
	}

	acc := model.Account{Type: hit.Rule.AccountType()}
	if hit.Value != "" {
		acc.Number = model.Some(hit.Value)
	}
	if hit.Name != "" {
		acc.Name = model.Some(hit.Name)
	}
	return acc, hit, true
}

// AccountSuffix keeps short visible suffixes as printed and cuts longer
// unmasked numbers to their last four digits.
func AccountSuffix(digits string) string {
	if len(digits) > maxVisibleDigits {
		return digits[len(digits)-keptDigits:]
	}
	return digits
}

// canonicalName turns "Amazon Pay" into "amazon_pay".
func canonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}
