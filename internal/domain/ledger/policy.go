package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

var invalidKeywords = regexp.MustCompile(`(?i)\b(failed|declined|otp|secret)\b`)

// Policy decides which parsed messages become ledger entries.
type Policy struct {
	MinLength  int
	MaxLength  int
	LogCredits bool
}

// DefaultPolicy accepts 10 to 1000 characters and debits only.
func DefaultPolicy() Policy {
	return Policy{MinLength: 10, MaxLength: 1000}
}

// CheckText validates the raw message length in characters.
func (p Policy) CheckText(text string) error {
	n := len([]rune(text))
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: 'text' field is required", ErrInvalidSMS)
	}
	if n < p.MinLength {
		return fmt.Errorf("%w: SMS text too short (minimum %d characters)", ErrInvalidSMS, p.MinLength)
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		return fmt.Errorf("%w: SMS text too long (maximum %d characters)", ErrInvalidSMS, p.MaxLength)
	}
	return nil
}

// Loggable returns nil when rec should be recorded, otherwise an error
// wrapping ErrNotLoggable with the reason.
func (p Policy) Loggable(rec model.TransactionRecord, text string) error {
	if !rec.IsValidTransaction {
		return fmt.Errorf("%w: not a transaction", ErrNotLoggable)
	}
	if rec.Transaction.Type == model.TxCredit && !p.LogCredits {
		return fmt.Errorf("%w: credits are not logged", ErrNotLoggable)
	}
	if kw := invalidKeywords.FindString(text); kw != "" {
		return fmt.Errorf("%w: message mentions %q", ErrNotLoggable, strings.ToLower(kw))
	}
	if !rec.Account.Type.Valid() {
		return fmt.Errorf("%w: account type missing", ErrNotLoggable)
	}
	if !rec.Account.Number.Present() && !rec.Account.Name.Present() {
		return fmt.Errorf("%w: account number missing", ErrNotLoggable)
	}
	if !rec.Transaction.Amount.Present() {
		return fmt.Errorf("%w: amount missing", ErrNotLoggable)
	}
	return nil
}
