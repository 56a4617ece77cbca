package categorization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

// Where a category came from.
const (
	SourceRule     = "rule"
	SourceMerchant = "merchant"
	SourceSignal   = "signal"
	SourceFuzzy    = "fuzzy"
	SourceTransfer = "transfer"
	SourceDefault  = "default"
)

// DefaultFuzzyThreshold is the minimum fuzzy score accepted for a merchant.
const DefaultFuzzyThreshold = 80

// ErrInvalidRule is returned for rules with an empty pattern or an unknown
// category.
var ErrInvalidRule = errors.New("invalid category rule")

// RuleStore persists user rules.
type RuleStore interface {
	ListRules(ctx context.Context) ([]Rule, error)
	SaveRule(ctx context.Context, rule Rule) (*Rule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
}

// Input is what is known about a transaction when categorising it.
type Input struct {
	Merchant string       // Extracted merchant, may be empty
	Text     string       // Full message text
	Type     model.TxType // Direction of the money
}

// Result is the outcome of categorisation.
type Result struct {
	CleanName string   `json:"clean_name"`
	Category  Category `json:"category"`
	Source    string   `json:"source"`
}

var (
	vpaPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]{2,}@[A-Za-z]{2,}$`)

	merchantPrefixes = []string{"UPI-", "UPI/", "POS ", "VPS*", "IMPS-", "NEFT-", "PAYU*", "PYU*", "RAZ*"}
)

// Service categorises transactions from user rules and the merchant
// directory. The matchers are rebuilt in place by Reload.
type Service struct {
	store     RuleStore
	index     *SearchIndex
	logger    *slog.Logger
	directory []Merchant
	threshold int

	engine  *Engine
	signals *Engine
	fuzzy   *FuzzyMatcher
}

// NewService creates a service over the built-in directory. store and
// index may be nil; without a store there are no user rules.
func NewService(store RuleStore, index *SearchIndex, logger *slog.Logger) *Service {
	directory := DefaultMerchants()
	return &Service{
		store:     store,
		index:     index,
		logger:    logger,
		directory: directory,
		threshold: DefaultFuzzyThreshold,
		engine:    NewEngine(nil, directory),
		signals:   NewEngine(nil, signals()),
		fuzzy:     NewFuzzyMatcher(nil, directory),
	}
}

// Reload fetches user rules and rebuilds the matchers and search index.
func (s *Service) Reload(ctx context.Context) error {
	var rules []Rule
	if s.store != nil {
		var err error
		if rules, err = s.store.ListRules(ctx); err != nil {
			return fmt.Errorf("failed to load category rules: %w", err)
		}
	}

	s.engine.Build(rules, s.directory)
	s.fuzzy.Build(rules, s.directory)
	if s.index != nil {
		if err := s.index.Reindex(rules, s.directory); err != nil {
			return fmt.Errorf("failed to index merchants: %w", err)
		}
	}

	s.logger.Info("categorization rules loaded",
		slog.Int("rules", len(rules)),
		slog.Int("patterns", s.engine.PatternCount()),
	)
	return nil
}

// Categorize picks a category and display name for a transaction.
func (s *Service) Categorize(in Input) Result {
	merchant := strings.TrimSpace(in.Merchant)
	result := Result{CleanName: DisplayName(merchant), Category: Other, Source: SourceDefault}

	var byMerchant *MatchResult
	if merchant != "" {
		byMerchant = s.engine.Match(merchant)
		if byMerchant != nil && byMerchant.CleanName != "" {
			result.CleanName = byMerchant.CleanName
		}
	}

	signal := s.signal(in.Text, in.Type)
	if signal != nil && creditOnly(signal.Category) {
		result.Category, result.Source = signal.Category, SourceSignal
		return result
	}

	if byMerchant != nil {
		result.Category, result.Source = byMerchant.Category, sourceOf(byMerchant)
		return result
	}

	if signal != nil {
		result.Category, result.Source = signal.Category, SourceSignal
		return result
	}

	if byText := s.engine.Match(in.Text); byText != nil {
		result.Category, result.Source = byText.Category, sourceOf(byText)
		if merchant == "" && byText.CleanName != "" {
			result.CleanName = byText.CleanName
		}
		return result
	}

	if merchant != "" {
		if fm := s.fuzzy.Match(merchant, s.threshold); fm != nil {
			result.Category, result.Source = fm.Category, SourceFuzzy
			if fm.CleanName != "" {
				result.CleanName = fm.CleanName
			}
			return result
		}
	}

	if vpaPattern.MatchString(merchant) || in.Type == model.TxCredit {
		result.Category, result.Source = Transfer, SourceTransfer
	}
	return result
}

// signal returns the strongest message-level signal that applies to the
// direction of the money.
func (s *Service) signal(text string, dir model.TxType) *MatchResult {
	for _, m := range s.signals.MatchAll(text) {
		if creditOnly(m.Category) && dir != model.TxCredit {
			continue
		}
		return &m
	}
	return nil
}

func sourceOf(m *MatchResult) string {
	if m.IsRule {
		return SourceRule
	}
	return SourceMerchant
}

// Rules lists the stored user rules.
func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListRules(ctx)
}

// SaveRule validates and stores a rule, then reloads the matchers.
func (s *Service) SaveRule(ctx context.Context, rule Rule) (*Rule, error) {
	rule.Pattern = normalizePattern(rule.Pattern)
	if rule.Pattern == "" {
		return nil, fmt.Errorf("%w: pattern is required", ErrInvalidRule)
	}
	category, ok := ParseCategory(string(rule.Category))
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRule, rule.Category)
	}
	rule.Category = category
	if s.store == nil {
		return nil, errors.New("rule store not configured")
	}

	saved, err := s.store.SaveRule(ctx, rule)
	if err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteRule removes a rule and reloads the matchers.
func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return ErrRuleNotFound
	}
	if err := s.store.DeleteRule(ctx, id); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// SearchMerchants looks merchants up by name. Without an index, or when
// the index finds nothing, it falls back to fuzzy ranking.
func (s *Service) SearchMerchants(text string, limit int) ([]SearchResult, error) {
	if s.index != nil {
		results, err := s.index.Search(text, limit)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			return results, nil
		}
	}

	var out []SearchResult
	for _, fm := range s.fuzzy.RankMatches(text, limit) {
		if fm.Score < 50 {
			break
		}
		docType := docTypeMerchant
		if fm.IsRule {
			docType = docTypeRule
		}
		out = append(out, SearchResult{
			Document: SearchDocument{
				Pattern:   fm.Pattern,
				CleanName: fm.CleanName,
				Category:  string(fm.Category),
				Type:      docType,
			},
			Score:  float64(fm.Score) / 100,
			IsRule: fm.IsRule,
		})
	}
	return out, nil
}

// DisplayName tidies a raw merchant for display. VPAs are kept as they
// are, shouting or all-lowercase names are title-cased, and an empty
// merchant becomes "Unknown".
func DisplayName(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "Unknown"
	}
	if vpaPattern.MatchString(cleaned) {
		return strings.ToLower(cleaned)
	}

	upper := strings.ToUpper(cleaned)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(upper, prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}

	// Trailing terminal or order references such as "*1234".
	if idx := strings.LastIndex(cleaned, "*"); idx > 0 {
		if ref := cleaned[idx+1:]; len(ref) <= 6 && isNumeric(ref) {
			cleaned = strings.TrimSpace(cleaned[:idx])
		}
	}

	if cleaned == "" {
		return "Unknown"
	}
	if cleaned == strings.ToUpper(cleaned) || cleaned == strings.ToLower(cleaned) {
		return cases.Title(language.Und).String(cleaned)
	}
	return cleaned
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
