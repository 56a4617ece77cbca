package extractor

import (
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
	"github.com/FACorreiaa/sms-finance-logger/pkg/money"
)

// BalanceResult carries the balance and where each figure came from.
type BalanceResult struct {
	Balance     *model.Balance
	Available   Hit
	Outstanding Hit
}

// Spans returns the ranges consumed by the balance figures.
func (b BalanceResult) Spans() Spans {
	var out Spans
	if b.Available.Rule != nil {
		out = append(out, b.Available.Span)
	}
	if b.Outstanding.Rule != nil {
		out = append(out, b.Outstanding.Span)
	}
	return out
}

// Balance extracts the outstanding figure first and then the available one,
// so "Outstanding Bal INR 500" is not read as an available balance. The
// result's Balance is nil when neither figure is present.
func Balance(text string, groups []*catalog.RuleGroup) BalanceResult {
	var res BalanceResult
	bal := model.Balance{}

	if hit, ok := scan(text, groups, catalog.FieldOutstandingBalance, numeric(nil)); ok {
		bal.Outstanding = model.Some(hit.Value)
		res.Outstanding = hit
	}
	if hit, ok := scan(text, groups, catalog.FieldAvailableBalance, numeric(res.Spans())); ok {
		bal.Available = model.Some(hit.Value)
		res.Available = hit
	}

	if !bal.IsZero() {
		res.Balance = &bal
	}
	return res
}

// numeric accepts captures the resolver can render canonically and that do
// not overlap claimed ranges.
func numeric(claimed Spans) acceptFunc {
	return func(_ *catalog.RuleGroup, _ *catalog.Rule, c catalog.Capture) (Hit, bool) {
		if claimed.Overlaps(Span{Start: c.Start, End: c.End}) {
			return Hit{}, false
		}
		v, err := money.Canonical(c.Value)
		if err != nil {
			return Hit{}, false
		}
		return Hit{Value: v}, true
	}
}
