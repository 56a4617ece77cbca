// Package dispatcher picks the rule groups a message should be tried against.
package dispatcher

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
)

// Dispatcher scans a message once for every group keyword in the catalog
// using an Aho-Corasick automaton, then checks structural fingerprints.
// It is immutable after New and safe for concurrent use.
type Dispatcher struct {
	groups  []*catalog.RuleGroup
	generic *catalog.RuleGroup

	matcher    *ahocorasick.Matcher
	keywords   []string // upper-cased, unique, in matcher order
	owners     [][]int  // keyword index -> indexes into groups
	positional []bool   // keyword index -> owned by a wallet or card group
}

// payeeLookback is how many words before a keyword are searched for the
// "at" or "to" that opens a payee name.
const payeeLookback = 4

// New builds the keyword automaton for c.
func New(c *catalog.Catalog) *Dispatcher {
	d := &Dispatcher{
		groups:  c.Groups(),
		generic: c.Generic(),
	}

	keywordIndex := make(map[string]int)
	for gi, g := range d.groups {
		for _, kw := range g.Keywords() {
			key := strings.ToUpper(kw)
			idx, ok := keywordIndex[key]
			if !ok {
				idx = len(d.keywords)
				keywordIndex[key] = idx
				d.keywords = append(d.keywords, key)
				d.owners = append(d.owners, nil)
				d.positional = append(d.positional, false)
			}
			d.owners[idx] = appendUnique(d.owners[idx], gi)
			if g.Kind() == catalog.KindWallet || g.Kind() == catalog.KindCard {
				d.positional[idx] = true
			}
		}
	}

	if len(d.keywords) > 0 {
		d.matcher = ahocorasick.NewStringMatcher(d.keywords)
	}
	return d
}

// Candidates returns the groups to try for text: groups whose fingerprints
// matched, most hits first, then lower rank, then name; the generic group
// is always last.
func (d *Dispatcher) Candidates(text string) []*catalog.RuleGroup {
	hits := d.hits(text)

	matched := make([]int, 0, len(hits))
	for gi := range hits {
		matched = append(matched, gi)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := d.groups[matched[i]], d.groups[matched[j]]
		if hits[matched[i]] != hits[matched[j]] {
			return hits[matched[i]] > hits[matched[j]]
		}
		if a.Rank() != b.Rank() {
			return a.Rank() < b.Rank()
		}
		return a.Name() < b.Name()
	})

	out := make([]*catalog.RuleGroup, 0, len(matched)+1)
	for _, gi := range matched {
		out = append(out, d.groups[gi])
	}
	return append(out, d.generic)
}

// hits counts distinct fingerprint matches per group index. A matching set
// of structural cues counts as one hit. Wallet and card names are also
// merchant names, so their keywords only count outside a payee phrase.
func (d *Dispatcher) hits(text string) map[int]int {
	hits := make(map[int]int)

	if d.matcher != nil {
		upper := strings.ToUpper(text)
		seen := make(map[int]bool)
		for _, idx := range d.matcher.MatchThreadSafe([]byte(upper)) {
			if idx < 0 || idx >= len(d.owners) || seen[idx] {
				continue
			}
			seen[idx] = true
			if d.positional[idx] && !outsidePayee(upper, d.keywords[idx]) {
				continue
			}
			for _, gi := range d.owners[idx] {
				hits[gi]++
			}
		}
	}

	for gi, g := range d.groups {
		if g.MatchesStructure(text) {
			hits[gi]++
		}
	}
	return hits
}

// KeywordCount returns the number of distinct keywords in the automaton.
func (d *Dispatcher) KeywordCount() int {
	return len(d.keywords)
}

// outsidePayee reports whether kw occurs at least once in upper outside an
// "at ..." or "to ..." payee phrase.
func outsidePayee(upper, kw string) bool {
	for from := 0; from < len(upper); {
		i := strings.Index(upper[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		if !inPayee(upper[:i]) {
			return true
		}
		from = i + len(kw)
	}
	return false
}

// inPayee walks back from the end of before, within the current clause,
// until it meets a word that opens a payee or an instrument.
func inPayee(before string) bool {
	if j := strings.LastIndexAny(before, ";,!?\n"); j >= 0 {
		before = before[j+1:]
	}
	if j := strings.LastIndex(before, ". "); j >= 0 {
		before = before[j+1:]
	}

	words := strings.Fields(before)
	for n := 0; n < payeeLookback && n < len(words); n++ {
		switch words[len(words)-1-n] {
		case "AT", "TO":
			return true
		case "FROM", "VIA", "USING", "WITH", "THROUGH", "ON", "YOUR", "BY":
			return false
		}
	}
	return false
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
