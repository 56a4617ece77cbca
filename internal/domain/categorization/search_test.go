package categorization

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMerchants() []Merchant {
	return []Merchant{
		{"ZOMATO", "Zomato", FoodDining},
		{"SWIGGY", "Swiggy", FoodDining},
		{"NETFLIX", "Netflix", Subscription},
	}
}

func TestSearchIndex_InMemory(t *testing.T) {
	index, err := NewSearchIndex("")
	require.NoError(t, err)
	defer index.Close()

	rules := []Rule{
		{ID: uuid.New(), Pattern: "%chai point%", CleanName: "Chai Point", Category: FoodDining, Priority: 2},
	}
	require.NoError(t, index.Reindex(rules, testMerchants()))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	t.Run("basic search", func(t *testing.T) {
		results, err := index.Search("zomato", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "Zomato", results[0].Document.CleanName)
		assert.Equal(t, "ZOMATO", results[0].Document.Pattern)
		assert.Equal(t, string(FoodDining), results[0].Document.Category)
		assert.False(t, results[0].IsRule)
	})

	t.Run("typo tolerant", func(t *testing.T) {
		results, err := index.Search("netflx", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "Netflix", results[0].Document.CleanName)
	})

	t.Run("prefix", func(t *testing.T) {
		results, err := index.Search("swi", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "Swiggy", results[0].Document.CleanName)
	})

	t.Run("rules are searchable", func(t *testing.T) {
		results, err := index.Search("chai", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.True(t, results[0].IsRule)
		assert.Equal(t, "CHAI POINT", results[0].Document.Pattern)
		assert.Equal(t, float64(1002), results[0].Document.Priority)
	})

	t.Run("blank query", func(t *testing.T) {
		results, err := index.Search("  ", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("by category", func(t *testing.T) {
		results, err := index.SearchByCategory(Subscription, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Netflix", results[0].Document.CleanName)
	})
}

func TestSearchIndex_ReindexReplacesDocuments(t *testing.T) {
	index, err := NewSearchIndex("")
	require.NoError(t, err)
	defer index.Close()

	require.NoError(t, index.Reindex(nil, testMerchants()))
	require.NoError(t, index.Reindex(nil, testMerchants()[:1]))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	results, err := index.Search("netflix", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchIndex_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merchants", "index.bleve")

	index, err := NewSearchIndex(path)
	require.NoError(t, err)
	require.NoError(t, index.Reindex(nil, testMerchants()))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}
