package categorization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	docTypeRule     = "rule"
	docTypeMerchant = "merchant"
)

// SearchDocument is one searchable merchant or rule.
type SearchDocument struct {
	ID        string  `json:"id"`
	Pattern   string  `json:"pattern"`
	CleanName string  `json:"clean_name"`
	Category  string  `json:"category"`
	Type      string  `json:"type"`
	Priority  float64 `json:"priority"`
}

// SearchResult represents a search hit with relevance score
type SearchResult struct {
	Document SearchDocument `json:"document"`
	Score    float64        `json:"score"`
	IsRule   bool           `json:"is_rule"`
}

// SearchIndex is a full-text index over the merchant directory and user
// rules, used for merchant lookup by name.
type SearchIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
	path    string
}

// NewSearchIndex opens the index at path, creating it when missing. An
// empty path gives an in-memory index.
func NewSearchIndex(path string) (*SearchIndex, error) {
	var (
		index bleve.Index
		err   error
	)

	switch {
	case path == "":
		index, err = bleve.NewMemOnly(buildIndexMapping())
	default:
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
				return nil, fmt.Errorf("failed to create index directory: %w", mkdirErr)
			}
			index, err = bleve.New(path, buildIndexMapping())
		} else {
			index, err = bleve.Open(path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create/open index: %w", err)
	}

	return &SearchIndex{index: index, path: path}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = simple.Name

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("pattern", exact)
	doc.AddFieldMappingsAt("clean_name", text)
	doc.AddFieldMappingsAt("category", exact)
	doc.AddFieldMappingsAt("type", exact)
	doc.AddFieldMappingsAt("priority", bleve.NewNumericFieldMapping())

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = simple.Name
	return m
}

// Reindex replaces the indexed documents with rules and merchants.
func (si *SearchIndex) Reindex(rules []Rule, merchants []Merchant) error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	if err := si.clear(); err != nil {
		return err
	}

	batch := si.index.NewBatch()
	for _, rule := range rules {
		doc := SearchDocument{
			ID:        docTypeRule + "_" + rule.ID.String(),
			Pattern:   normalizePattern(rule.Pattern),
			CleanName: rule.CleanName,
			Category:  string(rule.Category),
			Type:      docTypeRule,
			Priority:  float64(rule.Priority + 1000),
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to index rule %s: %w", rule.ID, err)
		}
	}

	for _, m := range merchants {
		pattern := normalizePattern(m.Pattern)
		doc := SearchDocument{
			ID:        docTypeMerchant + "_" + pattern,
			Pattern:   pattern,
			CleanName: m.CleanName,
			Category:  string(m.Category),
			Type:      docTypeMerchant,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to index merchant %s: %w", pattern, err)
		}
	}

	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch index: %w", err)
	}
	return nil
}

// Search finds merchants by name. Terms tolerate one typo and the last
// word also matches as a prefix, so "zom" and "zomatoo" both find Zomato.
func (si *SearchIndex) Search(text string, limit int) ([]SearchResult, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil, nil
	}

	match := bleve.NewMatchQuery(text)
	match.SetFuzziness(1)

	words := strings.Fields(text)
	prefix := bleve.NewPrefixQuery(words[len(words)-1])
	prefix.SetField("clean_name")

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery([]query.Query{match, prefix}...))
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return convertResults(res), nil
}

// SearchByCategory lists the documents filed under c.
func (si *SearchIndex) SearchByCategory(c Category, limit int) ([]SearchResult, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	term := bleve.NewTermQuery(string(c))
	term.SetField("category")

	req := bleve.NewSearchRequest(term)
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("category search failed: %w", err)
	}
	return convertResults(res), nil
}

func convertResults(res *bleve.SearchResult) []SearchResult {
	results := make([]SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc := SearchDocument{ID: hit.ID}
		doc.Pattern, _ = hit.Fields["pattern"].(string)
		doc.CleanName, _ = hit.Fields["clean_name"].(string)
		doc.Category, _ = hit.Fields["category"].(string)
		doc.Type, _ = hit.Fields["type"].(string)
		doc.Priority, _ = hit.Fields["priority"].(float64)

		results = append(results, SearchResult{
			Document: doc,
			Score:    hit.Score,
			IsRule:   doc.Type == docTypeRule,
		})
	}
	return results
}

// clear removes every document. Callers hold the write lock.
func (si *SearchIndex) clear() error {
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = 10000

	res, err := si.index.Search(req)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	batch := si.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// Close closes the index
func (si *SearchIndex) Close() error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	if si.index != nil {
		return si.index.Close()
	}
	return nil
}

// DocumentCount returns the number of documents in the index
func (si *SearchIndex) DocumentCount() (uint64, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	return si.index.DocCount()
}
