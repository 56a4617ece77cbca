// Package ledger records spend parsed from bank messages into monthly
// sheets and reports on them.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
	"github.com/FACorreiaa/sms-finance-logger/pkg/money"
)

var (
	// ErrInvalidSMS is returned for message text outside the accepted length bounds.
	ErrInvalidSMS = errors.New("invalid sms text")
	// ErrNotLoggable is returned when a parsed message is not a spend worth recording.
	ErrNotLoggable = errors.New("sms does not contain valid transaction information")
	// ErrEntryNotFound is returned when an entry ID does not exist.
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// Entry is one row of a monthly sheet.
type Entry struct {
	ID          uuid.UUID               `json:"id"`
	Month       Month                   `json:"month"`
	OccurredAt  time.Time               `json:"date"`
	Description string                  `json:"description"`
	Amount      *money.Money            `json:"amount"`
	Direction   model.TxType            `json:"direction"`
	Category    categorization.Category `json:"type"`
	Account     string                  `json:"account"`
	FriendSplit *money.Money            `json:"friend_split"`
	Notes       string                  `json:"notes"`
	ReferenceNo *string                 `json:"reference_no"`
	RawSMS      string                  `json:"raw_sms"`
	CreatedAt   time.Time               `json:"created_at"`
}

// AmountBorne is the part of the amount not covered by friends: amount minus
// the friend split when the amount is positive and the split non-negative,
// otherwise the full amount.
func (e Entry) AmountBorne() *money.Money {
	amount := e.Amount
	if amount == nil {
		amount = money.Zero(money.INR)
	}
	split := e.FriendSplit
	if split == nil || !amount.IsPositive() || split.Amount() < 0 {
		return amount
	}
	borne, err := amount.Subtract(split)
	if err != nil {
		return amount
	}
	return borne
}

// IsDebit reports whether the entry is money going out.
func (e Entry) IsDebit() bool {
	return e.Direction == model.TxDebit
}

// EntryUpdate carries the columns a user edits by hand after logging.
// Nil fields are left untouched.
type EntryUpdate struct {
	Category    *categorization.Category `json:"type,omitempty"`
	FriendSplit *money.Money             `json:"friend_split,omitempty"`
	Notes       *string                  `json:"notes,omitempty"`
	Description *string                  `json:"description,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u EntryUpdate) IsEmpty() bool {
	return u.Category == nil && u.FriendSplit == nil && u.Notes == nil && u.Description == nil
}
