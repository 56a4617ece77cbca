package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

func TestScreen_Check(t *testing.T) {
	s := DefaultScreen()

	tests := []struct {
		name       string
		text       string
		wantReason Reason
		wantMatch  string
	}{
		{
			name:       "otp keyword before code",
			text:       "Your OTP is 482913, valid for 10 minutes",
			wantReason: ReasonOTP,
			wantMatch:  "OTP is 482913",
		},
		{
			name:       "code before otp keyword",
			text:       "482913 is your OTP for txn of INR 1,500.00 at AMAZON",
			wantReason: ReasonOTP,
			wantMatch:  "482913 is your OTP",
		},
		{
			name:       "use code",
			text:       "Use verification code 5521 to login",
			wantReason: ReasonOTP,
			wantMatch:  "Use verification code 5521",
		},
		{
			name:       "earliest listed phrase wins",
			text:       "Congratulations! You are pre-approved for a loan. Apply now",
			wantReason: ReasonPromotional,
			wantMatch:  "pre-approved",
		},
		{
			name:       "payment reminder",
			text:       "Minimum amount due INR 500 is due on 05-03-24",
			wantReason: ReasonReminder,
			wantMatch:  "minimum amount due",
		},
		{
			name:       "declined",
			text:       "Txn of INR 500 at AMAZON has been declined due to insufficient balance",
			wantReason: ReasonDeclined,
			wantMatch:  "has been declined",
		},
		{
			name:       "otp with colon",
			text:       "OTP: 7731. Do not share it with anyone",
			wantReason: ReasonOTP,
			wantMatch:  "OTP: 7731",
		},
		{
			name:       "reminder phrase without a transaction",
			text:       "Total Amt Due INR 9,000 for card XX1234. Pay by 05-04-24",
			wantReason: ReasonReminder,
			wantMatch:  "total amt due",
		},
		{
			name:       "declined wins over a transactional cue",
			text:       "INR 500 debited from A/c XX1234 has failed",
			wantReason: ReasonDeclined,
			wantMatch:  "has failed",
		},
		{
			name:       "statement",
			text:       "Your e-statement for March is ready",
			wantReason: ReasonStatement,
			wantMatch:  "e-statement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.Check(tt.text)
			assert.True(t, v.Rejected)
			assert.Equal(t, tt.wantReason, v.Reason)
			assert.Equal(t, tt.wantMatch, v.Match)
		})
	}
}

func TestScreen_PassesTransactions(t *testing.T) {
	s := DefaultScreen()

	tests := []struct {
		name string
		text string
	}{
		{"account debit", "INR 2000 debited from A/c no. XX3423 on 05-02-19 07:27:11 IST at ECS PAY. Avl Bal- INR 2343.23."},
		{"upi transfer", "Sent INR 500.00 From HDFC Bank A/C *1234 To John Doe On 01/01/24 Ref 412345678901"},
		{"credit", "INR 5,000.00 credited to A/c XX1234 on 01-02-24. UPI Ref No 412345678901."},
		{"empty", ""},
		{"otp footer with phone number", "INR 500 debited from A/c XX1234 on 01-03-24 at ZOMATO. Never share OTP with anyone. Call 1800-425-3800 if not you"},
		{"otp footer in one sentence", "INR 500 debited from A/c XX1234 at ZOMATO, never share OTP with anyone, call 1800-425-3800"},
		{"cashback with greeting", "Congratulations! INR 50 cashback credited to your A/c XX1234"},
		{"card spend with amount due", "INR 500 spent on card XX1234 at SHOP. Total Amt Due INR 9,000"},
		{"credit with overdue footer", "INR 1,200 credited to A/c XX1234. Avoid overdue charges on your loan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Verdict{}, s.Check(tt.text))
		})
	}
}

func TestNewScreen(t *testing.T) {
	t.Run("empty screen rejects nothing", func(t *testing.T) {
		s := NewScreen(nil, nil)
		assert.False(t, s.Check("Your OTP is 123456").Rejected)
	})

	t.Run("custom phrase", func(t *testing.T) {
		s := NewScreen([]Phrase{{Text: "KYC update", Reason: ReasonPromotional}}, nil)
		v := s.Check("please complete your kyc update today")
		assert.True(t, v.Rejected)
		assert.Equal(t, ReasonPromotional, v.Reason)
	})

	t.Run("cue overrules soft phrase only", func(t *testing.T) {
		s := NewScreen([]Phrase{
			{Text: "offer", Reason: ReasonPromotional},
			{Text: "failed", Reason: ReasonDeclined},
		}, nil).WithCues(`\bdebited\b`)

		assert.False(t, s.Check("debited 10, see offer").Rejected)
		assert.True(t, s.Check("see offer").Rejected)
		assert.Equal(t, ReasonPromotional, s.Check("debit failed, offer inside").Reason)
		assert.Equal(t, ReasonDeclined, s.Check("debited then failed").Reason)
	})

	t.Run("named match group", func(t *testing.T) {
		s := NewScreen(nil, []Pattern{{Expr: `code (?P<match>\d+)\.`, Reason: ReasonOTP}})
		assert.Equal(t, "42", s.Check("code 42.").Match)
	})

	t.Run("invalid pattern panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewScreen(nil, []Pattern{{Expr: `(`, Reason: ReasonOTP}})
		})
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		amount    model.Optional[string]
		polarity  model.TxType
		wantType  model.TxType
		wantValid bool
	}{
		{"debit", model.Some("10.00"), model.TxDebit, model.TxDebit, true},
		{"credit", model.Some("10.00"), model.TxCredit, model.TxCredit, true},
		{"no amount", model.None[string](), model.TxDebit, model.TxUnknown, false},
		{"no polarity", model.Some("10.00"), model.TxUnknown, model.TxUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, valid := Classify(tt.amount, tt.polarity)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantValid, valid)
		})
	}
}
