// Package model holds the output shape of the SMS parsing engine.
package model

import (
	"bytes"
	"encoding/json"
)

// AccountType identifies the instrument a message refers to.
type AccountType string

const (
	AccountUnknown AccountType = ""
	AccountCard    AccountType = "CARD"
	AccountWallet  AccountType = "WALLET"
	AccountBank    AccountType = "ACCOUNT"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountCard, AccountWallet, AccountBank:
		return true
	}
	return false
}

// MarshalJSON renders the unknown type as null.
func (t AccountType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

func (t *AccountType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = AccountUnknown
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = AccountType(s)
	if !t.Valid() {
		*t = AccountUnknown
	}
	return nil
}

// TxType is the polarity of a money movement.
type TxType string

const (
	TxUnknown TxType = ""
	TxDebit   TxType = "debit"
	TxCredit  TxType = "credit"
)

func (t TxType) Valid() bool {
	return t == TxDebit || t == TxCredit
}

// MarshalJSON renders the unknown polarity as null.
func (t TxType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

func (t *TxType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = TxUnknown
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = TxType(s)
	if !t.Valid() {
		*t = TxUnknown
	}
	return nil
}

// Account describes the instrument the money moved through.
type Account struct {
	Type   AccountType      `json:"type"`
	Number Optional[string] `json:"number"`
	Name   Optional[string] `json:"name"`
}

// Balance is only present when the message carried balance information.
type Balance struct {
	Available   Optional[string] `json:"available"`
	Outstanding Optional[string] `json:"outstanding"`
}

// IsZero reports whether neither balance figure is present.
func (b Balance) IsZero() bool {
	return !b.Available.Present() && !b.Outstanding.Present()
}

type Transaction struct {
	Type        TxType           `json:"type"`
	Amount      Optional[string] `json:"amount"`
	ReferenceNo Optional[string] `json:"reference_no"`
	Merchant    Optional[string] `json:"merchant"`
}

// TransactionRecord is the result of parsing one message. Amounts and
// balances are canonical decimal strings with two fractional digits.
type TransactionRecord struct {
	Account            Account     `json:"account"`
	Balance            *Balance    `json:"balance"`
	Transaction        Transaction `json:"transaction"`
	IsValidTransaction bool        `json:"is_valid_transaction"`
}

// Empty returns the "not a transaction" record with every field absent.
func Empty() TransactionRecord {
	return TransactionRecord{}
}

// AccountLabel is a short human label for the account, e.g. "ACCOUNT 3423"
// or "WALLET paytm". It returns an empty string when nothing is known.
func (r TransactionRecord) AccountLabel() string {
	parts := make([]string, 0, 2)
	if r.Account.Type.Valid() {
		parts = append(parts, string(r.Account.Type))
	}
	if n, ok := r.Account.Number.Get(); ok {
		parts = append(parts, n)
	} else if n, ok := r.Account.Name.Get(); ok {
		parts = append(parts, n)
	}
	var buf bytes.Buffer
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(p)
	}
	return buf.String()
}
