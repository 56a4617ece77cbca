package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Kind classifies the channel a RuleGroup covers.
type Kind string

const (
	KindBank    Kind = "bank"
	KindCard    Kind = "card"
	KindWallet  Kind = "wallet"
	KindChannel Kind = "channel"
	KindGeneric Kind = "generic"
)

func (k Kind) valid() bool {
	switch k {
	case KindBank, KindCard, KindWallet, KindChannel, KindGeneric:
		return true
	}
	return false
}

// GroupSpec is the declarative form of a RuleGroup. An empty rule list for a
// field defers that field to the next candidate group.
type GroupSpec struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// Rank orders groups with the same number of fingerprint hits; lower is
	// more specific.
	Rank int `yaml:"rank"`

	Keywords   []string `yaml:"keywords"`
	Structures []string `yaml:"structures"`

	Account     []RuleSpec `yaml:"account"`
	Available   []RuleSpec `yaml:"available_balance"`
	Outstanding []RuleSpec `yaml:"outstanding_balance"`
	Amount      []RuleSpec `yaml:"amount"`
	Reference   []RuleSpec `yaml:"reference"`
	Merchant    []RuleSpec `yaml:"merchant"`

	// MerchantDelimiters mark where boilerplate starts after a merchant name.
	MerchantDelimiters []string `yaml:"merchant_delimiters"`
	// MerchantRejects discard a trimmed merchant that is really something else,
	// such as "your account XX1234".
	MerchantRejects []string `yaml:"merchant_rejects"`
}

func (s GroupSpec) rules(f Field) []RuleSpec {
	switch f {
	case FieldAccount:
		return s.Account
	case FieldAvailableBalance:
		return s.Available
	case FieldOutstandingBalance:
		return s.Outstanding
	case FieldAmount:
		return s.Amount
	case FieldReference:
		return s.Reference
	case FieldMerchant:
		return s.Merchant
	}
	return nil
}

// RuleGroup is the immutable, compiled bundle of rules for one institution
// or channel.
type RuleGroup struct {
	name       string
	kind       Kind
	rank       int
	keywords   []string
	structures []*regexp.Regexp
	rules      [fieldCount][]*Rule
	delimiters []*regexp.Regexp
	rejects    []*regexp.Regexp
}

func compileGroup(spec GroupSpec) (*RuleGroup, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, errors.New("group name is required")
	}
	if !spec.Kind.valid() {
		return nil, fmt.Errorf("group %q: unknown kind %q", spec.Name, spec.Kind)
	}
	if spec.Kind != KindGeneric && len(spec.Keywords) == 0 && len(spec.Structures) == 0 {
		return nil, fmt.Errorf("group %q: needs at least one keyword or structure fingerprint", spec.Name)
	}

	g := &RuleGroup{name: spec.Name, kind: spec.Kind, rank: spec.Rank}
	var errs []error

	for _, kw := range spec.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			errs = append(errs, fmt.Errorf("group %q: empty keyword", spec.Name))
			continue
		}
		g.keywords = append(g.keywords, kw)
	}

	compileList := func(what string, patterns []string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				errs = append(errs, fmt.Errorf("group %q: %s %q: %w", spec.Name, what, p, err))
				continue
			}
			out = append(out, re)
		}
		return out
	}
	g.structures = compileList("structure", spec.Structures)
	g.delimiters = compileList("merchant delimiter", spec.MerchantDelimiters)
	g.rejects = compileList("merchant reject", spec.MerchantRejects)

	for _, f := range Fields() {
		specs := spec.rules(f)
		seen := make(map[int]string, len(specs))
		for _, rs := range specs {
			r, err := compileRule(f, rs)
			if err != nil {
				errs = append(errs, fmt.Errorf("group %q %s rule %q: %w", spec.Name, f, rs.Name, err))
				continue
			}
			if other, dup := seen[r.priority]; dup {
				errs = append(errs, fmt.Errorf("group %q %s: rules %q and %q share priority %d", spec.Name, f, other, r.name, r.priority))
				continue
			}
			seen[r.priority] = r.name
			g.rules[f] = append(g.rules[f], r)
		}
		sort.SliceStable(g.rules[f], func(i, j int) bool {
			return g.rules[f][i].priority < g.rules[f][j].priority
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func (g *RuleGroup) Name() string { return g.name }
func (g *RuleGroup) Kind() Kind   { return g.kind }
func (g *RuleGroup) Rank() int    { return g.rank }

// Keywords returns the group's keyword fingerprints.
func (g *RuleGroup) Keywords() []string {
	return append([]string(nil), g.keywords...)
}

// MatchesStructure reports whether any structural fingerprint matches text.
func (g *RuleGroup) MatchesStructure(text string) bool {
	for _, re := range g.structures {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Rules returns the field's rules in ascending priority order. The slice is
// shared and must not be modified.
func (g *RuleGroup) Rules(f Field) []*Rule {
	if f < 0 || f >= fieldCount {
		return nil
	}
	return g.rules[f]
}

// MerchantDelimiters returns the group's merchant boilerplate delimiters.
func (g *RuleGroup) MerchantDelimiters() []*regexp.Regexp { return g.delimiters }

// MerchantRejects returns patterns that disqualify a merchant candidate.
func (g *RuleGroup) MerchantRejects() []*regexp.Regexp { return g.rejects }
