package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

func TestPolicy_CheckText(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{name: "ok", text: "Rs 100 debited from a/c 1234"},
		{name: "blank", text: "   ", wantErr: "'text' field is required"},
		{name: "too short", text: "Rs 100", wantErr: "too short (minimum 10 characters)"},
		{name: "too long", text: strings.Repeat("a", 1001), wantErr: "too long (maximum 1000 characters)"},
		{name: "counts characters", text: strings.Repeat("₹", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckText(tt.text)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSMS)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPolicy_Loggable(t *testing.T) {
	debit := model.TransactionRecord{
		Account:            model.Account{Type: model.AccountBank, Number: model.Some("3423")},
		Transaction:        model.Transaction{Type: model.TxDebit, Amount: model.Some("2000.00")},
		IsValidTransaction: true,
	}
	credit := debit
	credit.Transaction.Type = model.TxCredit

	wallet := debit
	wallet.Account = model.Account{Type: model.AccountWallet, Name: model.Some("paytm")}

	noNumber := debit
	noNumber.Account = model.Account{Type: model.AccountBank}

	noAmount := debit
	noAmount.Transaction.Amount = model.None[string]()

	tests := []struct {
		name       string
		rec        model.TransactionRecord
		text       string
		logCredits bool
		wantErr    string
	}{
		{name: "debit", rec: debit, text: "INR 2000 debited"},
		{name: "wallet name stands in for number", rec: wallet, text: "Paid Rs.250 to Zomato"},
		{name: "not a transaction", rec: model.Empty(), text: "hello", wantErr: "not a transaction"},
		{name: "credit skipped", rec: credit, text: "credited", wantErr: "credits are not logged"},
		{name: "credit allowed", rec: credit, text: "credited", logCredits: true},
		{name: "failed keyword", rec: debit, text: "Txn of Rs 2000 FAILED", wantErr: `mentions "failed"`},
		{name: "otp keyword", rec: debit, text: "use OTP 1234", wantErr: `mentions "otp"`},
		{name: "keyword inside word ignored", rec: debit, text: "paid to OTPLESS store"},
		{name: "no account number", rec: noNumber, text: "debited", wantErr: "account number missing"},
		{name: "no amount", rec: noAmount, text: "debited", wantErr: "amount missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			p.LogCredits = tt.logCredits

			err := p.Loggable(tt.rec, tt.text)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrNotLoggable)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
