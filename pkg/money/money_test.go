package money

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Canonical Resolver Tests
// ============================================================================

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"bare integer", "2000", "2000.00", nil},
		{"two decimals", "2343.23", "2343.23", nil},
		{"one decimal", "12.5", "12.50", nil},
		{"thousands separators", "1,234,567.89", "1234567.89", nil},
		{"lakh grouping", "12,34,567.00", "1234567.00", nil},
		{"rupee glyph", "₹1,234", "1234.00", nil},
		{"rs dot prefix", "Rs.2,343.23", "2343.23", nil},
		{"rs space prefix", "Rs 500", "500.00", nil},
		{"inr prefix", "INR 2000", "2000.00", nil},
		{"inr glued", "INR2000", "2000.00", nil},
		{"inr suffix", "750.00 INR", "750.00", nil},
		{"trailing full stop", "2343.23.", "2343.23", nil},
		{"trailing comma", "99,", "99.00", nil},
		{"slash dash suffix", "Rs 500/-", "500.00", nil},
		{"surrounding space", "  42  ", "42.00", nil},
		{"zero", "0", "0.00", nil},
		{"three decimals", "2,343.234", "", ErrPrecision},
		{"european grouping", "1.234,56", "", ErrPrecision},
		{"negative", "-500", "", ErrNotNumeric},
		{"letters", "abc", "", ErrNotNumeric},
		{"empty", "", "", ErrNotNumeric},
		{"currency only", "INR", "", ErrNotNumeric},
		{"two dots", "1.2.3", "", ErrNotNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonical_GeneratedTokens(t *testing.T) {
	gen := NewTestDataGeneratorWithSeed(7)
	shape := regexp.MustCompile(`^\d+\.\d{2}$`)

	for i := 0; i < 500; i++ {
		m := gen.RandomAmount(0, 100_000_000)
		token := gen.AmountToken(m)

		got, err := Canonical(token)
		require.NoError(t, err, token)
		assert.Regexp(t, shape, got)
		assert.True(t, m.ToDecimal().Equal(ParseDecimal(got)), "token %q resolved to %s", token, got)
	}
}

func TestMustCanonical(t *testing.T) {
	assert.Equal(t, "10.00", MustCanonical("Rs.10"))
	assert.Panics(t, func() { MustCanonical("ten") })
}

// ============================================================================
// Money Tests
// ============================================================================

func TestNewFromCanonical(t *testing.T) {
	m, err := NewFromCanonical("2343.23")
	require.NoError(t, err)
	assert.Equal(t, int64(234323), m.Amount())
	assert.Equal(t, INR, m.Currency())

	_, err = NewFromCanonical("12.345")
	assert.ErrorIs(t, err, ErrPrecision)
}

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
	}{
		{"precise decimal", "123.45", INR, 12345},
		{"many decimals", "99.999", INR, 10000}, // Rounds up
		{"whole number", "500", INR, 50000},
		{"unknown currency falls back to INR", "1", "XXX-NOPE", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := decimal.NewFromString(tt.amount)
			m := NewFromDecimal(d, tt.currency)
			assert.Equal(t, tt.want, m.Amount())
		})
	}
}

func TestAddSubtract(t *testing.T) {
	a := New(10050, INR)
	b := New(2525, INR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(12575), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(7525), diff.Amount())

	_, err = a.Add(New(1, "USD"))
	assert.Error(t, err)

	var zero *Money
	sum, err = zero.Add(b)
	require.NoError(t, err)
	assert.Equal(t, b, sum)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, New(1, INR).Compare(New(2, INR)))
	assert.Equal(t, 0, New(2, INR).Compare(New(2, INR)))
	assert.Equal(t, 1, New(3, INR).Compare(nil))

	var zero *Money
	assert.Equal(t, -1, zero.Compare(New(5, INR)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "2000.00", New(200000, INR).String())
	assert.Equal(t, "0.05", New(5, INR).String())

	var zero *Money
	assert.Equal(t, "0.00", zero.String())
}

func TestDisplay(t *testing.T) {
	assert.Contains(t, New(123456, INR).Display(), "1,234.56")
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(New(234323, INR))
	require.NoError(t, err)
	assert.Equal(t, `"2343.23"`, string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"Rs.1,000"`), &m))
	assert.Equal(t, int64(100000), m.Amount())

	assert.Error(t, json.Unmarshal([]byte(`"1.001"`), &m))
}

func TestSQL(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan(int64(4200)))
	assert.Equal(t, "42.00", m.String())

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(4200), v)

	assert.Error(t, m.Scan("42"))
}

// ============================================================================
// Test Data Generator Tests
// ============================================================================

func TestTestDataGenerator(t *testing.T) {
	gen := NewTestDataGeneratorWithSeed(42)

	t.Run("debit messages carry expectations", func(t *testing.T) {
		sms := gen.DebitSMS()
		assert.NotEmpty(t, sms.Text)
		assert.Equal(t, "debit", sms.Type)
		assert.Len(t, sms.AccountNo, 4)
		assert.Contains(t, sms.Text, sms.AccountNo)
	})

	t.Run("credit messages never name a merchant", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			sms := gen.CreditSMS()
			assert.Equal(t, "credit", sms.Type)
			assert.Empty(t, sms.Merchant)
		}
	})

	t.Run("otp messages", func(t *testing.T) {
		assert.Regexp(t, `(?i)otp|verification code`, gen.OTPSMS())
	})

	t.Run("grouping", func(t *testing.T) {
		assert.Equal(t, "1,234,567.00", groupThousands("1234567.00"))
		assert.Equal(t, "12,34,567.00", groupLakhs("1234567.00"))
		assert.Equal(t, "999", groupLakhs("999"))
	})
}
