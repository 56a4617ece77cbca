package categorization

import (
	"sort"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/google/uuid"
)

// MatchResult represents a single pattern match with its associated metadata
type MatchResult struct {
	Pattern   string     // Normalized pattern that matched
	CleanName string     // Display name, empty for signals
	Category  Category   // Category to assign
	RuleID    *uuid.UUID // Set when a user rule matched
	Priority  int        // Higher priority matches take precedence
	IsRule    bool
}

// Engine matches every known pattern against a text in a single pass using
// the Aho-Corasick algorithm. Patterns only match on word boundaries, so
// "CRED" does not fire inside "CREDITED".
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []string        // Unique patterns in same order as matcher
	metadata [][]MatchResult // Metadata for each pattern (rule and merchant may share one)
	mu       sync.RWMutex
}

// NewEngine creates an engine from user rules and directory merchants.
func NewEngine(rules []Rule, merchants []Merchant) *Engine {
	e := &Engine{}
	e.Build(rules, merchants)
	return e
}

// Build replaces the loaded patterns. Rules outrank merchants.
func (e *Engine) Build(rules []Rule, merchants []Merchant) {
	e.mu.Lock()
	defer e.mu.Unlock()

	patternToIndex := make(map[string]int)
	patterns := make([]string, 0, len(rules)+len(merchants))
	metadata := make([][]MatchResult, 0, len(rules)+len(merchants))

	add := func(result MatchResult) {
		if idx, ok := patternToIndex[result.Pattern]; ok {
			metadata[idx] = append(metadata[idx], result)
			return
		}
		patternToIndex[result.Pattern] = len(patterns)
		patterns = append(patterns, result.Pattern)
		metadata = append(metadata, []MatchResult{result})
	}

	for _, rule := range rules {
		pattern := normalizePattern(rule.Pattern)
		if pattern == "" {
			continue
		}
		ruleID := rule.ID
		add(MatchResult{
			Pattern:   pattern,
			CleanName: rule.CleanName,
			Category:  rule.Category,
			RuleID:    &ruleID,
			Priority:  rule.Priority + 1000,
			IsRule:    true,
		})
	}

	for _, m := range merchants {
		pattern := normalizePattern(m.Pattern)
		if pattern == "" {
			continue
		}
		add(MatchResult{
			Pattern:   pattern,
			CleanName: m.CleanName,
			Category:  m.Category,
		})
	}

	e.patterns = patterns
	e.metadata = metadata
	e.matcher = nil
	if len(patterns) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(patterns)
	}
}

// Match returns the best match in text, or nil. Ties on priority go to the
// longer pattern, so "AMAZON PRIME" beats "AMAZON".
func (e *Engine) Match(text string) *MatchResult {
	all := e.MatchAll(text)
	if len(all) == 0 {
		return nil
	}
	best := all[0]
	return &best
}

// MatchAll returns every match in text, best first.
func (e *Engine) MatchAll(text string) []MatchResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil {
		return nil
	}

	upper := strings.ToUpper(text)
	hits := e.matcher.MatchThreadSafe([]byte(upper))
	if len(hits) == 0 {
		return nil
	}

	results := make([]MatchResult, 0, len(hits))
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.patterns) || !containsWord(upper, e.patterns[idx]) {
			continue
		}
		results = append(results, e.metadata[idx]...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return outranks(results[i], results[j])
	})
	return results
}

// PatternCount returns the number of distinct patterns loaded.
func (e *Engine) PatternCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.patterns)
}

// IsEmpty reports whether the engine has no patterns loaded.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.matcher == nil
}

func outranks(a, b MatchResult) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return len(a.Pattern) > len(b.Pattern)
}

// normalizePattern strips SQL LIKE wildcards and upper-cases.
func normalizePattern(p string) string {
	return strings.ToUpper(strings.TrimSpace(strings.Trim(p, "%")))
}

func containsWord(text, word string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if !isWordByte(text, start-1) && !isWordByte(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
