package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
	"github.com/FACorreiaa/sms-finance-logger/pkg/db"
	"github.com/FACorreiaa/sms-finance-logger/pkg/money"
)

const entryColumns = `id, month_key, occurred_at, description, amount_minor, direction,
		category, account, friend_split_minor, notes, reference_no, raw_sms, created_at`

// Repository persists ledger entries in Postgres.
type Repository struct {
	db db.DBTX
}

// NewRepository creates a new ledger repository
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// Insert stores e and fills in CreatedAt.
func (r *Repository) Insert(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO ledger_entries (
			id, month_key, occurred_at, description, amount_minor, direction,
			category, account, friend_split_minor, notes, reference_no, raw_sms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		e.ID,
		e.Month.String(),
		e.OccurredAt,
		e.Description,
		e.Amount.Amount(),
		string(e.Direction),
		string(e.Category),
		e.Account,
		e.FriendSplit.Amount(),
		e.Notes,
		e.ReferenceNo,
		e.RawSMS,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// ListByMonth returns the month's entries in sheet order.
func (r *Repository) ListByMonth(ctx context.Context, month Month) ([]Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE month_key = $1
		ORDER BY occurred_at, created_at`

	rows, err := r.db.Query(ctx, query, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// Get returns one entry by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`

	e, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return e, nil
}

// Update applies the non-nil fields of u and returns the updated entry.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, u EntryUpdate) (*Entry, error) {
	query := `
		UPDATE ledger_entries SET
			category = COALESCE($2, category),
			friend_split_minor = COALESCE($3, friend_split_minor),
			notes = COALESCE($4, notes),
			description = COALESCE($5, description)
		WHERE id = $1
		RETURNING ` + entryColumns

	var category *string
	if u.Category != nil {
		c := string(*u.Category)
		category = &c
	}
	var split *int64
	if u.FriendSplit != nil {
		s := u.FriendSplit.Amount()
		split = &s
	}

	e, err := scanEntry(r.db.QueryRow(ctx, query, id, category, split, u.Notes, u.Description))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ledger entry: %w", err)
	}
	return e, nil
}

// Months lists every month that has entries, newest first.
func (r *Repository) Months(ctx context.Context) ([]Month, error) {
	query := `
		SELECT month_key
		FROM ledger_entries
		GROUP BY month_key
		ORDER BY MIN(occurred_at) DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger months: %w", err)
	}
	defer rows.Close()

	var months []Month
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan ledger month: %w", err)
		}
		m, err := ParseMonth(key)
		if err != nil {
			continue
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e                   Entry
		monthKey            string
		direction, category string
		amount, split       int64
	)
	err := row.Scan(
		&e.ID, &monthKey, &e.OccurredAt, &e.Description, &amount, &direction,
		&category, &e.Account, &split, &e.Notes, &e.ReferenceNo, &e.RawSMS, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Month, err = ParseMonth(monthKey)
	if err != nil {
		e.Month = MonthOf(e.OccurredAt)
	}
	e.Amount = money.New(amount, money.INR)
	e.FriendSplit = money.New(split, money.INR)
	e.Direction = model.TxType(direction)
	e.Category = categorization.Category(category)
	return &e, nil
}
