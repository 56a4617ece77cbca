package categorization

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Match(t *testing.T) {
	engine := NewEngine(nil, DefaultMerchants())

	t.Run("matches directory merchant", func(t *testing.T) {
		result := engine.Match("UPI-SWIGGY BANGALORE")
		require.NotNil(t, result)
		assert.Equal(t, "Swiggy", result.CleanName)
		assert.Equal(t, FoodDining, result.Category)
		assert.False(t, result.IsRule)
	})

	t.Run("case insensitive matching", func(t *testing.T) {
		result := engine.Match("zomato order 4411")
		require.NotNil(t, result)
		assert.Equal(t, "Zomato", result.CleanName)
	})

	t.Run("matches inside a VPA", func(t *testing.T) {
		result := engine.Match("swiggy@ybl")
		require.NotNil(t, result)
		assert.Equal(t, "Swiggy", result.CleanName)
	})

	t.Run("only whole words match", func(t *testing.T) {
		assert.Nil(t, engine.Match("INR 500 CREDITED TO ACCOUNT"))
		assert.Nil(t, engine.Match("CHOCOLATE FACTORY"))
	})

	t.Run("longer pattern wins a tie", func(t *testing.T) {
		result := engine.Match("AMAZON PRIME VIDEO")
		require.NotNil(t, result)
		assert.Equal(t, "Amazon Prime", result.CleanName)
		assert.Equal(t, Subscription, result.Category)
	})

	t.Run("returns nil for no match", func(t *testing.T) {
		assert.Nil(t, engine.Match("RANDOM TRANSACTION WITH NO MATCH"))
	})
}

func TestEngine_RulesOutrankMerchants(t *testing.T) {
	ruleID := uuid.New()
	rules := []Rule{
		{ID: ruleID, Pattern: "%SWIGGY%", CleanName: "Swiggy Instamart", Category: Shopping, Priority: 0},
	}
	engine := NewEngine(rules, DefaultMerchants())

	result := engine.Match("SWIGGY INSTAMART")
	require.NotNil(t, result)
	assert.True(t, result.IsRule)
	assert.Equal(t, Shopping, result.Category)
	assert.Equal(t, 1000, result.Priority)
	require.NotNil(t, result.RuleID)
	assert.Equal(t, ruleID, *result.RuleID)

	all := engine.MatchAll("SWIGGY INSTAMART")
	require.Len(t, all, 2)
	assert.True(t, all[0].IsRule)
	assert.False(t, all[1].IsRule)
	assert.Equal(t, FoodDining, all[1].Category)
}

func TestEngine_Empty(t *testing.T) {
	engine := NewEngine(nil, nil)

	assert.True(t, engine.IsEmpty())
	assert.Equal(t, 0, engine.PatternCount())
	assert.Nil(t, engine.Match("ANY TEXT"))
	assert.Nil(t, engine.MatchAll("ANY TEXT"))
}

func TestEngine_Rebuild(t *testing.T) {
	engine := NewEngine(nil, nil)
	assert.True(t, engine.IsEmpty())

	engine.Build([]Rule{{ID: uuid.New(), Pattern: "%CHAI POINT%", CleanName: "Chai Point", Category: FoodDining}}, nil)

	assert.False(t, engine.IsEmpty())
	assert.Equal(t, 1, engine.PatternCount())
	result := engine.Match("PAID AT CHAI POINT HSR")
	require.NotNil(t, result)
	assert.Equal(t, "Chai Point", result.CleanName)

	engine.Build(nil, nil)
	assert.True(t, engine.IsEmpty())
}

func TestEngine_SkipsBlankPatterns(t *testing.T) {
	engine := NewEngine([]Rule{{Pattern: "%%"}}, []Merchant{{Pattern: "  "}})
	assert.True(t, engine.IsEmpty())
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text string
		word string
		want bool
	}{
		{"PAID TO CRED", "CRED", true},
		{"CREDITED", "CRED", false},
		{"SWIGGY@YBL", "SWIGGY", true},
		{"UPI-ZOMATO", "ZOMATO", true},
		{"ZOMATOO", "ZOMATO", false},
		{"PAYTM", "ATM", false},
		{"PAYTM ATM WDL", "ATM", true},
		{"", "ATM", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s in %s", tt.word, tt.text), func(t *testing.T) {
			assert.Equal(t, tt.want, containsWord(tt.text, tt.word))
		})
	}
}

func TestEngine_ConcurrentMatch(t *testing.T) {
	engine := NewEngine(nil, DefaultMerchants())

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				if m := engine.Match("UBER TRIP BLR"); m == nil || m.CleanName != "Uber" {
					t.Errorf("unexpected match %+v", m)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func BenchmarkEngine_Match(b *testing.B) {
	merchants := make([]Merchant, 1000)
	for i := range merchants {
		merchants[i] = Merchant{
			Pattern:   fmt.Sprintf("MERCHANT_%d", i),
			CleanName: fmt.Sprintf("Merchant %d", i),
			Category:  Shopping,
		}
	}
	merchants[500] = Merchant{Pattern: "ZOMATO", CleanName: "Zomato", Category: FoodDining}

	engine := NewEngine(nil, merchants)
	input := "Rs.349.00 spent on HDFC Bank Card x1234 at ZOMATO on 2024-03-05"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Match(input)
	}
}
