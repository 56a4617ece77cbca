package categorization

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyMatcher_Match(t *testing.T) {
	matcher := NewFuzzyMatcher(nil, DefaultMerchants())

	t.Run("exact match", func(t *testing.T) {
		result := matcher.Match("ZOMATO", DefaultFuzzyThreshold)
		require.NotNil(t, result)
		assert.Equal(t, "Zomato", result.CleanName)
		assert.Equal(t, 100, result.Score)
		assert.Equal(t, 0, result.Distance)
	})

	t.Run("extra letter", func(t *testing.T) {
		result := matcher.Match("ZOMATOO", DefaultFuzzyThreshold)
		require.NotNil(t, result)
		assert.Equal(t, "Zomato", result.CleanName)
		assert.Equal(t, FoodDining, result.Category)
	})

	t.Run("missing letter", func(t *testing.T) {
		result := matcher.Match("swigy", DefaultFuzzyThreshold)
		require.NotNil(t, result)
		assert.Equal(t, "Swiggy", result.CleanName)
		assert.Equal(t, 1, result.Distance)
	})

	t.Run("split words", func(t *testing.T) {
		result := matcher.Match("BIG BASKET", DefaultFuzzyThreshold)
		require.NotNil(t, result)
		assert.Equal(t, "BigBasket", result.CleanName)
	})

	t.Run("no match below threshold", func(t *testing.T) {
		assert.Nil(t, matcher.Match("RANDOM SHOP", DefaultFuzzyThreshold))
	})

	t.Run("blank input", func(t *testing.T) {
		assert.Nil(t, matcher.Match("   ", 0))
	})
}

func TestFuzzyMatcher_RulesWinTies(t *testing.T) {
	rules := []Rule{{ID: uuid.New(), Pattern: "ZOMATO", CleanName: "Team Lunch", Category: Other}}
	matcher := NewFuzzyMatcher(rules, DefaultMerchants())

	result := matcher.Match("ZOMATO", DefaultFuzzyThreshold)
	require.NotNil(t, result)
	assert.True(t, result.IsRule)
	assert.Equal(t, "Team Lunch", result.CleanName)
}

func TestFuzzyMatcher_RankMatches(t *testing.T) {
	matcher := NewFuzzyMatcher(nil, DefaultMerchants())

	results := matcher.RankMatches("zomat", 3)
	require.Len(t, results, 3)
	assert.Equal(t, "Zomato", results[0].CleanName)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)

	assert.Len(t, matcher.RankMatches("zomat", 0), matcher.PatternCount())
}

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
		min     int
		max     int
	}{
		{"identical", "NETFLIX", "NETFLIX", 100, 100},
		{"pattern inside input", "ZOMATOO", "ZOMATO", 95, 99},
		{"input inside pattern", "UBER", "UBER EATS", 80, 90},
		{"short inputs skip containment", "AIR", "AIR INDIA", 0, 50},
		{"one edit", "SWIGY", "SWIGGY", 80, 85},
		{"unrelated", "KIRANA", "NETFLIX", 0, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := fuzzyScore(tt.input, tt.pattern)
			assert.GreaterOrEqual(t, score, tt.min)
			assert.LessOrEqual(t, score, tt.max)
		})
	}
}
