package extractor

import (
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

// Amount extracts the transaction amount and the polarity tagged on the
// rule that produced it. Captures inside claimed ranges, such as balance
// figures, are skipped.
func Amount(text string, groups []*catalog.RuleGroup, claimed Spans) (model.Optional[string], model.TxType, Hit) {
	hit, ok := scan(text, groups, catalog.FieldAmount, numeric(claimed))
	if !ok {
		return model.None[string](), model.TxUnknown, Hit{}
	}
	return model.Some(hit.Value), hit.Rule.Polarity(), hit
}
