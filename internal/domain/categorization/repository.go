package categorization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/sms-finance-logger/pkg/db"
)

// ErrRuleNotFound is returned when deleting a rule that does not exist.
var ErrRuleNotFound = errors.New("category rule not found")

// Rule is a user override mapping a merchant pattern to a category. Rules
// outrank the built-in directory.
type Rule struct {
	ID        uuid.UUID `json:"id"`
	Pattern   string    `json:"pattern"`
	CleanName string    `json:"clean_name"`
	Category  Category  `json:"category"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores category rules in Postgres.
type Repository struct {
	db db.DBTX
}

// NewRepository creates a new categorization repository
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// ListRules returns every rule, highest priority first.
func (r *Repository) ListRules(ctx context.Context) ([]Rule, error) {
	query := `
		SELECT id, pattern, clean_name, category, priority, created_at
		FROM category_rules
		ORDER BY priority DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list category rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		var (
			rule     Rule
			category string
		)
		if err := rows.Scan(&rule.ID, &rule.Pattern, &rule.CleanName, &category, &rule.Priority, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category rule: %w", err)
		}
		rule.Category = Category(category)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// SaveRule inserts a rule or updates the existing rule for the same pattern.
func (r *Repository) SaveRule(ctx context.Context, rule Rule) (*Rule, error) {
	query := `
		INSERT INTO category_rules (pattern, clean_name, category, priority)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pattern) DO UPDATE SET
			clean_name = EXCLUDED.clean_name,
			category = EXCLUDED.category,
			priority = EXCLUDED.priority
		RETURNING id, created_at
	`

	saved := rule
	err := r.db.QueryRow(ctx, query,
		rule.Pattern,
		rule.CleanName,
		string(rule.Category),
		rule.Priority,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save category rule: %w", err)
	}
	return &saved, nil
}

// DeleteRule removes a rule by ID.
func (r *Repository) DeleteRule(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM category_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category rule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}
