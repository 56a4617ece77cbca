package extractor

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

const trailingCutset = " .,;:-*'\"/|"

// Reference extracts a reference, UTR or RRN number.
func Reference(text string, groups []*catalog.RuleGroup, claimed Spans) (model.Optional[string], Hit) {
	hit, ok := scan(text, groups, catalog.FieldReference, func(_ *catalog.RuleGroup, _ *catalog.Rule, c catalog.Capture) (Hit, bool) {
		if claimed.Overlaps(Span{Start: c.Start, End: c.End}) {
			return Hit{}, false
		}
		v := strings.TrimSpace(c.Value)
		if v == "" {
			return Hit{}, false
		}
		return Hit{Value: v}, true
	})
	if !ok {
		return model.None[string](), Hit{}
	}
	return model.Some(hit.Value), hit
}

// Merchant extracts the counterparty. The raw capture is cut at the first
// boilerplate delimiter declared by any candidate group, then trimmed of
// trailing punctuation. A candidate that trims to nothing or matches a
// reject pattern of any candidate group does not count as a match.
func Merchant(text string, groups []*catalog.RuleGroup) (model.Optional[string], Hit) {
	var delimiters, rejects []*regexp.Regexp
	for _, g := range groups {
		delimiters = append(delimiters, g.MerchantDelimiters()...)
		rejects = append(rejects, g.MerchantRejects()...)
	}

	hit, ok := scan(text, groups, catalog.FieldMerchant, func(_ *catalog.RuleGroup, _ *catalog.Rule, c catalog.Capture) (Hit, bool) {
		v := TrimMerchant(c.Value, delimiters...)
		if v == "" || matchesAny(v, rejects) {
			return Hit{}, false
		}
		return Hit{Value: v}, true
	})
	if !ok {
		return model.None[string](), Hit{}
	}
	return model.Some(hit.Value), hit
}

// TrimMerchant cuts raw at the earliest delimiter match and trims
// surrounding punctuation and space.
func TrimMerchant(raw string, delimiters ...*regexp.Regexp) string {
	cut := len(raw)
	for _, re := range delimiters {
		if loc := re.FindStringIndex(raw); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}
	v := strings.TrimSpace(raw[:cut])
	v = strings.TrimRight(v, trailingCutset)
	return strings.TrimLeft(v, " .,;:-")
}

func matchesAny(v string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
