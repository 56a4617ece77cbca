package money

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator generates realistic bank notification messages with
// known expected values, for property tests over the parsing engine.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a new test data generator with a random seed.
func NewTestDataGenerator() *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(0), // Random seed
	}
}

// NewTestDataGeneratorWithSeed creates a generator with a specific seed for reproducibility.
func NewTestDataGeneratorWithSeed(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(seed),
	}
}

// TestSMS is a generated message together with the values a correct parse
// should produce. Optional expectations are empty when the message omits them.
type TestSMS struct {
	Text      string
	Amount    string
	Type      string
	AccountNo string
	Merchant  string
	Reference string
	Available string
}

// RandomAmount returns a random INR amount between minPaise and maxPaise.
func (g *TestDataGenerator) RandomAmount(minPaise, maxPaise int64) *Money {
	return New(int64(g.faker.Number(int(minPaise), int(maxPaise))), INR)
}

// AmountToken renders m the way banks do, picking a random currency prefix
// and grouping style. Whole amounts sometimes drop the fractional part.
func (g *TestDataGenerator) AmountToken(m *Money) string {
	d := m.ToDecimal()
	text := d.StringFixed(2)
	if d.Equal(d.Truncate(0)) && g.faker.Bool() {
		text = d.StringFixed(0)
	}

	switch g.faker.Number(0, 2) {
	case 1:
		text = groupThousands(text)
	case 2:
		text = groupLakhs(text)
	}

	prefixes := []string{"INR ", "INR", "Rs.", "Rs ", "Rs. ", "₹", "₹ "}
	return prefixes[g.faker.Number(0, len(prefixes)-1)] + text
}

func (g *TestDataGenerator) accountSuffix() string {
	return g.faker.Numerify("####")
}

func (g *TestDataGenerator) date() string {
	d := g.faker.DateRange(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	layouts := []string{"02-01-06", "02-Jan-2006", "02/01/2006", "2006-01-02"}
	return d.Format(layouts[g.faker.Number(0, len(layouts)-1)])
}

// Merchant returns a random merchant name in the upper case banks print.
func (g *TestDataGenerator) Merchant() string {
	return merchants[g.faker.Number(0, len(merchants)-1)]
}

// DebitSMS generates a debit notification from a bank account or card.
func (g *TestDataGenerator) DebitSMS() TestSMS {
	amt := g.RandomAmount(100, 5_000_000)
	bal := g.RandomAmount(0, 50_000_000)
	sms := TestSMS{
		Amount:    amt.String(),
		Type:      "debit",
		AccountNo: g.accountSuffix(),
		Merchant:  g.Merchant(),
	}

	switch g.faker.Number(0, 2) {
	case 0:
		sms.Available = bal.String()
		sms.Text = fmt.Sprintf("%s debited from A/c no. XX%s on %s at %s. Avl Bal- %s.",
			g.AmountToken(amt), sms.AccountNo, g.date(), sms.Merchant, g.AmountToken(bal))
	case 1:
		sms.Text = fmt.Sprintf("%s spent on your credit card ending %s at %s on %s.",
			g.AmountToken(amt), sms.AccountNo, sms.Merchant, g.date())
	default:
		sms.Merchant = ""
		sms.Available = bal.String()
		sms.Text = fmt.Sprintf("Your A/c XX%s is debited for %s on %s. Avl Bal %s",
			sms.AccountNo, g.AmountToken(amt), g.date(), g.AmountToken(bal))
	}
	return sms
}

// CreditSMS generates a credit notification without a merchant.
func (g *TestDataGenerator) CreditSMS() TestSMS {
	amt := g.RandomAmount(100, 5_000_000)
	bal := g.RandomAmount(0, 50_000_000)
	sms := TestSMS{
		Amount:    amt.String(),
		Type:      "credit",
		AccountNo: g.accountSuffix(),
	}

	if g.faker.Bool() {
		sms.Reference = g.faker.Numerify("############")
		sms.Available = bal.String()
		sms.Text = fmt.Sprintf("%s credited to A/c XX%s on %s. UPI Ref No %s. Avl Bal %s",
			g.AmountToken(amt), sms.AccountNo, g.date(), sms.Reference, g.AmountToken(bal))
		return sms
	}

	sms.Text = fmt.Sprintf("%s has been credited to your account XX%s on %s.",
		g.AmountToken(amt), sms.AccountNo, g.date())
	return sms
}

// OTPSMS generates a one time password message.
func (g *TestDataGenerator) OTPSMS() string {
	code := g.faker.Numerify("######")
	templates := []string{
		"Your OTP is %s, valid for 10 minutes. Do not share it with anyone.",
		"%s is your OTP for transaction of INR 1,500.00 at AMAZON. Valid for 5 mins.",
		"Use verification code %s to login. Never share this code.",
	}
	return fmt.Sprintf(templates[g.faker.Number(0, len(templates)-1)], code)
}

// NoiseText returns arbitrary text mixing words, digits and symbols.
func (g *TestDataGenerator) NoiseText() string {
	parts := make([]string, 0, 8)
	for i := 0; i < g.faker.Number(1, 8); i++ {
		switch g.faker.Number(0, 4) {
		case 0:
			parts = append(parts, g.faker.Word())
		case 1:
			parts = append(parts, g.faker.Numerify("#,###.###"))
		case 2:
			parts = append(parts, g.faker.RandomString([]string{"INR", "Rs.", "₹", "A/c", "XX", "debited", "credited", "Avl Bal", "at", "on", "-", "..."}))
		case 3:
			parts = append(parts, g.faker.LetterN(uint(g.faker.Number(1, 12))))
		default:
			parts = append(parts, g.faker.Emoji())
		}
	}
	return strings.Join(parts, g.faker.RandomString([]string{" ", "  ", "\n", "\t"}))
}

var merchants = []string{
	"AMAZON", "FLIPKART", "SWIGGY", "ZOMATO", "BIGBASKET",
	"UBER INDIA", "OLA CABS", "IRCTC", "MAKEMYTRIP", "NETFLIX",
	"SPOTIFY", "BOOKMYSHOW", "RELIANCE FRESH", "DMART", "APOLLO PHARMACY",
	"INDIAN OIL", "BHARAT PETROLEUM", "AIRTEL", "JIO", "TATA POWER",
	"MYNTRA", "NYKAA", "DOMINOS", "STARBUCKS", "ECS PAY",
}

func groupThousands(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return b.String()
}

// groupLakhs formats with Indian digit grouping, e.g. 12,34,567.00.
func groupLakhs(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var b strings.Builder
		for i, r := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		intPart = b.String() + "," + tail
	}
	if frac != "" {
		return intPart + "." + frac
	}
	return intPart
}

// ParseDecimal is a test helper for comparing canonical strings numerically.
func ParseDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
