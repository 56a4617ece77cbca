package categorization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListRules(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, pattern, clean_name, category, priority, created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "pattern", "clean_name", "category", "priority", "created_at"}).
			AddRow(id, "CHAI POINT", "Chai Point", "Food & Dining", 3, now))

	repo := NewRepository(mock)
	rules, err := repo.ListRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, id, rules[0].ID)
	assert.Equal(t, "CHAI POINT", rules[0].Pattern)
	assert.Equal(t, FoodDining, rules[0].Category)
	assert.Equal(t, 3, rules[0].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListRules_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM category_rules`).WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(mock).ListRules(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list category rules")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveRule(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO category_rules`).
		WithArgs("CHAI POINT", "Chai Point", "Food & Dining", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, now))

	saved, err := NewRepository(mock).SaveRule(context.Background(), Rule{
		Pattern:   "CHAI POINT",
		CleanName: "Chai Point",
		Category:  FoodDining,
		Priority:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, now, saved.CreatedAt)
	assert.Equal(t, FoodDining, saved.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteRule(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, ErrRuleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			id := uuid.New()
			mock.ExpectExec(`DELETE FROM category_rules`).
				WithArgs(id).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err = NewRepository(mock).DeleteRule(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
