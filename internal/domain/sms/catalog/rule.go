package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

// Field is the record field a Rule populates.
type Field int

const (
	FieldAccount Field = iota
	FieldAvailableBalance
	FieldOutstandingBalance
	FieldAmount
	FieldReference
	FieldMerchant

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldAccount:            "account",
	FieldAvailableBalance:   "balance.available",
	FieldOutstandingBalance: "balance.outstanding",
	FieldAmount:             "transaction.amount",
	FieldReference:          "transaction.reference_no",
	FieldMerchant:           "transaction.merchant",
}

// Capture group names a pattern uses to hand its value to the extractor.
const (
	GroupNumber   = "number"
	GroupName     = "name"
	GroupAmount   = "amount"
	GroupRef      = "ref"
	GroupMerchant = "merchant"
)

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Fields lists every field in extraction order.
func Fields() []Field {
	return []Field{FieldAccount, FieldAvailableBalance, FieldOutstandingBalance, FieldAmount, FieldReference, FieldMerchant}
}

func (f Field) valueGroup() string {
	switch f {
	case FieldAccount:
		return GroupNumber
	case FieldReference:
		return GroupRef
	case FieldMerchant:
		return GroupMerchant
	default:
		return GroupAmount
	}
}

// IsNumeric reports whether the field's captures go through the numeric resolver.
func (f Field) IsNumeric() bool {
	return f == FieldAvailableBalance || f == FieldOutstandingBalance || f == FieldAmount
}

// RuleSpec is the declarative form of a Rule.
type RuleSpec struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
	Pattern  string `yaml:"pattern"`

	// Account rules only.
	AccountType model.AccountType `yaml:"account_type,omitempty"`
	Label       string            `yaml:"label,omitempty"`

	// Amount rules only.
	Polarity model.TxType `yaml:"polarity,omitempty"`
}

// Rule is a compiled pattern bound to one field. Rules are immutable once built.
type Rule struct {
	name        string
	field       Field
	priority    int
	accountType model.AccountType
	label       string
	polarity    model.TxType

	re       *regexp.Regexp
	valueIdx int
	nameIdx  int
}

// Capture is one occurrence of a rule's pattern in a text. Start and End
// delimit the value capture; they are -1 when the value group did not take part.
type Capture struct {
	Value      string
	Name       string
	Start, End int
}

func compileRule(f Field, spec RuleSpec) (*Rule, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if spec.Priority < 0 {
		return nil, fmt.Errorf("negative priority %d", spec.Priority)
	}

	re, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern: %w", err)
	}

	r := &Rule{
		name:        spec.Name,
		field:       f,
		priority:    spec.Priority,
		accountType: spec.AccountType,
		label:       spec.Label,
		polarity:    spec.Polarity,
		re:          re,
		valueIdx:    re.SubexpIndex(f.valueGroup()),
		nameIdx:     -1,
	}

	switch f {
	case FieldAccount:
		if !spec.AccountType.Valid() {
			return nil, fmt.Errorf("account rule needs account_type CARD, WALLET or ACCOUNT, got %q", spec.AccountType)
		}
		r.nameIdx = re.SubexpIndex(GroupName)
		if r.valueIdx < 0 && r.nameIdx < 0 && spec.Label == "" {
			return nil, fmt.Errorf("account rule captures neither %q nor %q and has no label", GroupNumber, GroupName)
		}
	case FieldAmount:
		if !spec.Polarity.Valid() {
			return nil, fmt.Errorf("amount rule needs polarity debit or credit, got %q", spec.Polarity)
		}
	}

	if f != FieldAccount {
		if r.valueIdx < 0 {
			return nil, fmt.Errorf("pattern has no (?P<%s>...) group", f.valueGroup())
		}
		if spec.AccountType != model.AccountUnknown || spec.Label != "" {
			return nil, fmt.Errorf("account_type and label only apply to account rules")
		}
	}
	if f != FieldAmount && spec.Polarity != model.TxUnknown {
		return nil, fmt.Errorf("polarity only applies to amount rules")
	}

	return r, nil
}

func (r *Rule) Name() string                   { return r.name }
func (r *Rule) Field() Field                   { return r.field }
func (r *Rule) Priority() int                  { return r.priority }
func (r *Rule) AccountType() model.AccountType { return r.accountType }
func (r *Rule) Label() string                  { return r.label }
func (r *Rule) Polarity() model.TxType         { return r.polarity }
func (r *Rule) Pattern() string                { return r.re.String() }

// Captures returns every non-overlapping occurrence of the pattern in text,
// leftmost first.
func (r *Rule) Captures(text string) []Capture {
	locs := r.re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]Capture, 0, len(locs))
	for _, loc := range locs {
		c := Capture{Start: -1, End: -1}
		if r.valueIdx > 0 && loc[2*r.valueIdx] >= 0 {
			c.Start, c.End = loc[2*r.valueIdx], loc[2*r.valueIdx+1]
			c.Value = text[c.Start:c.End]
		}
		if r.nameIdx > 0 && loc[2*r.nameIdx] >= 0 {
			c.Name = text[loc[2*r.nameIdx]:loc[2*r.nameIdx+1]]
		}
		out = append(out, c)
	}
	return out
}
