package categorization

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FuzzyMatchResult represents a fuzzy match with its similarity score
type FuzzyMatchResult struct {
	Pattern   string
	CleanName string
	Category  Category
	Score     int // 0-100, higher is closer
	Distance  int // Levenshtein distance
	IsRule    bool
}

// FuzzyMatcher catches merchant spellings the exact engine misses, such as
// "SWIGY" or "ZOMATOO".
type FuzzyMatcher struct {
	patterns []fuzzyPattern
	mu       sync.RWMutex
}

type fuzzyPattern struct {
	normalized string
	cleanName  string
	category   Category
	isRule     bool
	priority   int
}

// NewFuzzyMatcher creates a fuzzy matcher from rules and merchants.
func NewFuzzyMatcher(rules []Rule, merchants []Merchant) *FuzzyMatcher {
	fm := &FuzzyMatcher{}
	fm.Build(rules, merchants)
	return fm
}

// Build replaces the loaded patterns.
func (fm *FuzzyMatcher) Build(rules []Rule, merchants []Merchant) {
	patterns := make([]fuzzyPattern, 0, len(rules)+len(merchants))

	for _, rule := range rules {
		p := normalizePattern(rule.Pattern)
		if p == "" {
			continue
		}
		patterns = append(patterns, fuzzyPattern{
			normalized: p,
			cleanName:  rule.CleanName,
			category:   rule.Category,
			isRule:     true,
			priority:   rule.Priority + 1000,
		})
	}

	for _, m := range merchants {
		p := normalizePattern(m.Pattern)
		if p == "" {
			continue
		}
		patterns = append(patterns, fuzzyPattern{
			normalized: p,
			cleanName:  m.CleanName,
			category:   m.Category,
		})
	}

	fm.mu.Lock()
	fm.patterns = patterns
	fm.mu.Unlock()
}

// Match returns the closest pattern scoring at least threshold, or nil.
// Equal scores go to the higher priority pattern.
func (fm *FuzzyMatcher) Match(description string, threshold int) *FuzzyMatchResult {
	fm.mu.RLock()
	defer fm.mu.RUnlock()

	normalized := strings.ToUpper(strings.TrimSpace(description))
	if normalized == "" {
		return nil
	}

	var best *FuzzyMatchResult
	bestPriority := 0
	for _, p := range fm.patterns {
		score := fuzzyScore(normalized, p.normalized)
		if score < threshold {
			continue
		}
		if best == nil || score > best.Score || (score == best.Score && p.priority > bestPriority) {
			best = p.result(normalized, score)
			bestPriority = p.priority
		}
	}
	return best
}

// RankMatches returns the patterns ranked by similarity to description.
func (fm *FuzzyMatcher) RankMatches(description string, limit int) []FuzzyMatchResult {
	fm.mu.RLock()
	defer fm.mu.RUnlock()

	normalized := strings.ToUpper(strings.TrimSpace(description))
	results := make([]FuzzyMatchResult, 0, len(fm.patterns))
	for _, p := range fm.patterns {
		results = append(results, *p.result(normalized, fuzzyScore(normalized, p.normalized)))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results
}

// PatternCount returns the number of patterns in the matcher
func (fm *FuzzyMatcher) PatternCount() int {
	fm.mu.RLock()
	defer fm.mu.RUnlock()
	return len(fm.patterns)
}

func (p fuzzyPattern) result(input string, score int) *FuzzyMatchResult {
	return &FuzzyMatchResult{
		Pattern:   p.normalized,
		CleanName: p.cleanName,
		Category:  p.category,
		Score:     score,
		Distance:  fuzzy.LevenshteinDistance(input, p.normalized),
		IsRule:    p.isRule,
	}
}

// fuzzyScore rates the similarity of two upper-cased strings from 0 to 100.
// It takes the best of containment, edit distance and in-order subsequence
// matching.
func fuzzyScore(input, pattern string) int {
	if input == pattern {
		return 100
	}

	short, long := input, pattern
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) >= 4 && strings.Contains(long, short) {
		return 75 + 25*len(short)/len(long)
	}

	best := 0
	if maxLen := len(long); maxLen > 0 {
		distance := fuzzy.LevenshteinDistance(input, pattern)
		best = 100 * (maxLen - distance) / maxLen
	}

	// The pattern appears in order inside the input, e.g. BIGBASKET in
	// "BIG BASKET".
	if rank := fuzzy.RankMatch(pattern, input); rank >= 0 {
		if s := 100 * len(pattern) / (len(pattern) + rank); s > best {
			best = s
		}
	}
	return best
}
