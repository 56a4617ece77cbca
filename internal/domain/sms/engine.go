// Package sms turns bank, card and wallet notification messages into
// structured transaction records.
//
// Parsing is a fixed pipeline: normalize, screen out OTP and promotional
// messages, pick candidate rule groups, extract each field, classify. The
// engine holds no per-call state and is safe for concurrent use.
package sms

import (
	"fmt"
	"sync"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/catalog"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/classifier"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/dispatcher"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/extractor"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/normalizer"
)

// Engine parses messages against an immutable rule catalog.
type Engine struct {
	catalog    *catalog.Catalog
	dispatcher *dispatcher.Dispatcher
	screen     *classifier.Screen
}

// Option configures an Engine.
type Option func(*Engine)

// WithScreen replaces the built-in negative fingerprint screen.
func WithScreen(s *classifier.Screen) Option {
	return func(e *Engine) { e.screen = s }
}

// New creates an Engine over c.
func New(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:    c,
		dispatcher: dispatcher.New(c),
		screen:     classifier.DefaultScreen(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromFile creates an Engine over the built-in catalog plus the groups
// in rulesFile. An empty rulesFile means the built-in catalog alone.
func NewFromFile(rulesFile string, opts ...Option) (*Engine, error) {
	if rulesFile == "" {
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to compile built-in SMS rules: %w", err)
		}
		return New(c, opts...), nil
	}

	extra, err := catalog.LoadFile(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load SMS rules: %w", err)
	}
	c, err := catalog.WithExtra(extra...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile SMS rules: %w", err)
	}
	return New(c, opts...), nil
}

// Catalog returns the catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Parse returns the record for text. It never fails: unrecognized or
// malformed input yields absent fields and IsValidTransaction false.
func (e *Engine) Parse(text string) model.TransactionRecord {
	rec, _ := e.Explain(text)
	return rec
}

// FieldSource names the group and rule that produced a field.
type FieldSource struct {
	Group string `json:"group"`
	Rule  string `json:"rule"`
}

// Explanation describes how a record was produced.
type Explanation struct {
	Normalized string                 `json:"normalized"`
	Screen     classifier.Verdict     `json:"screen"`
	Candidates []string               `json:"candidates"`
	Fields     map[string]FieldSource `json:"fields"`
}

// Explain parses text and reports which rules produced each field.
func (e *Engine) Explain(text string) (rec model.TransactionRecord, exp Explanation) {
	defer func() {
		if recover() != nil {
			rec = model.Empty()
		}
	}()

	norm := normalizer.Normalize(text)
	exp = Explanation{Normalized: norm, Fields: map[string]FieldSource{}}

	exp.Screen = e.screen.Check(norm)
	if exp.Screen.Rejected {
		return model.Empty(), exp
	}

	groups := e.dispatcher.Candidates(norm)
	for _, g := range groups {
		exp.Candidates = append(exp.Candidates, g.Name())
	}

	record := func(f catalog.Field, h extractor.Hit) {
		if h.Rule != nil {
			exp.Fields[f.String()] = FieldSource{Group: h.Group, Rule: h.RuleName()}
		}
	}

	bal := extractor.Balance(norm, groups)
	record(catalog.FieldAvailableBalance, bal.Available)
	record(catalog.FieldOutstandingBalance, bal.Outstanding)
	claimed := bal.Spans()

	amount, polarity, amountHit := extractor.Amount(norm, groups, claimed)
	record(catalog.FieldAmount, amountHit)
	if amountHit.Rule != nil {
		claimed = append(claimed, amountHit.Span)
	}

	ref, refHit := extractor.Reference(norm, groups, claimed)
	record(catalog.FieldReference, refHit)
	if refHit.Rule != nil {
		claimed = append(claimed, refHit.Span)
	}

	merchant, merchantHit := extractor.Merchant(norm, groups)
	record(catalog.FieldMerchant, merchantHit)

	account, accountHit, _ := extractor.Account(norm, groups, claimed)
	record(catalog.FieldAccount, accountHit)

	txType, valid := classifier.Classify(amount, polarity)

	rec = model.TransactionRecord{
		Account: account,
		Balance: bal.Balance,
		Transaction: model.Transaction{
			Type:        txType,
			Amount:      amount,
			ReferenceNo: ref,
			Merchant:    merchant,
		},
		IsValidTransaction: valid,
	}
	return rec, exp
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(catalog.MustDefault())
})

// Default returns the process-wide engine over the built-in catalog.
// It panics if the built-in catalog does not compile.
func Default() *Engine {
	return defaultEngine()
}

// Parse parses text with the default engine.
func Parse(text string) model.TransactionRecord {
	return Default().Parse(text)
}
