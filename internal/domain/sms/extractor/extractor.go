// Package extractor runs a field's rules over normalized text. Groups are
// tried in candidate order and, within a group, rules in priority order;
// the first capture a field accepts wins.
package extractor

import (
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
)

// Span is a half-open byte range in the normalized text.
type Span struct {
	Start, End int
}

// Valid reports whether the span points into the text.
func (s Span) Valid() bool { return s.Start >= 0 && s.End >= s.Start }

func (s Span) overlaps(o Span) bool {
	return s.Valid() && o.Valid() && s.Start < o.End && o.Start < s.End
}

// Spans is a set of byte ranges already claimed by another field.
type Spans []Span

// Overlaps reports whether s intersects any claimed range.
func (ss Spans) Overlaps(s Span) bool {
	for _, o := range ss {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}

// Hit records where a field's value came from.
type Hit struct {
	Group string
	Rule  *catalog.Rule
	Value string
	Name  string
	Span  Span
}

// RuleName returns the winning rule's name, or "" for a zero Hit.
func (h Hit) RuleName() string {
	if h.Rule == nil {
		return ""
	}
	return h.Rule.Name()
}

// acceptFunc turns a raw capture into a field value. Returning false makes
// the scan continue as if the rule had not matched there.
type acceptFunc func(g *catalog.RuleGroup, r *catalog.Rule, c catalog.Capture) (Hit, bool)

func scan(text string, groups []*catalog.RuleGroup, f catalog.Field, accept acceptFunc) (Hit, bool) {
	for _, g := range groups {
		for _, r := range g.Rules(f) {
			for _, c := range r.Captures(text) {
				if hit, ok := accept(g, r, c); ok {
					hit.Group = g.Name()
					hit.Rule = r
					hit.Span = Span{Start: c.Start, End: c.End}
					return hit, true
				}
			}
		}
	}
	return Hit{}, false
}
