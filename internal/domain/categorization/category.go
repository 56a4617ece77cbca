// Package categorization assigns a spending category and a display name to
// logged transactions.
//
// Resolution runs from most to least specific: user rules and the built-in
// merchant directory (Aho-Corasick over the merchant), message signals such as
// "refund" or "ATM", the directory again over the whole message, a fuzzy
// comparison against known merchants, and finally Transfer or Other.
package categorization

import "strings"

// Category is a spending bucket. Its string form is what appears in the Type
// column of the monthly sheet.
type Category string

const (
	FoodDining     Category = "Food & Dining"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Utilities      Category = "Utilities"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"
	Investment     Category = "Investment"
	Transfer       Category = "Transfer"
	Other          Category = "Other"
	Salary         Category = "Salary"
	Refund         Category = "Refund"
	CashWithdrawal Category = "Cash Withdrawal"
	BillPayment    Category = "Bill Payment"
	Subscription   Category = "Subscription"
)

var palette = []struct {
	category Category
	color    string
}{
	{FoodDining, "#FF6B6B"},
	{Transportation, "#4ECDC4"},
	{Shopping, "#45B7D1"},
	{Entertainment, "#96CEB4"},
	{Utilities, "#FFEAA7"},
	{Healthcare, "#DDA0DD"},
	{Education, "#98D8C8"},
	{Investment, "#F7DC6F"},
	{Transfer, "#AED6F1"},
	{Other, "#D5DBDB"},
	{Salary, "#58D68D"},
	{Refund, "#F8C471"},
	{CashWithdrawal, "#F1948A"},
	{BillPayment, "#BB8FCE"},
	{Subscription, "#85C1E9"},
}

// Categories returns every category in dropdown order.
func Categories() []Category {
	out := make([]Category, len(palette))
	for i, p := range palette {
		out[i] = p.category
	}
	return out
}

// Color returns the fill colour used for c in exports. Unknown categories
// get the colour of Other.
func (c Category) Color() string {
	for _, p := range palette {
		if p.category == c {
			return p.color
		}
	}
	return Other.Color()
}

func (c Category) Valid() bool {
	for _, p := range palette {
		if p.category == c {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories ignoring case and
// surrounding space.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, p := range palette {
		if strings.EqualFold(string(p.category), s) {
			return p.category, true
		}
	}
	return "", false
}

// creditOnly lists categories that only make sense for money coming in.
func creditOnly(c Category) bool {
	return c == Salary || c == Refund
}
