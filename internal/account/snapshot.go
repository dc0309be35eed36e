// Package account models the server-reported account snapshot and maps the
// dashboard-data response onto it.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Defaults for fields the backend may omit.
const (
	DefaultBalance       = "0.00"
	DefaultAccountNumber = "Not set"
)

// Transaction types.
const (
	TypeSend    = "send"
	TypeReceive = "receive"
)

// Snapshot is the full server-reported account state for one fetch cycle.
type Snapshot struct {
	Balance        string
	AccountNumber  string
	HasFingerprint bool
	FullName       string
	Contacts       []Contact
	Transactions   []Transaction
}

// BalanceAmount parses the balance text.
func (s Snapshot) BalanceAmount() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance %q: %w", s.Balance, err)
	}
	return d, nil
}

// Contact is a favourite recipient. Display only.
type Contact struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}

// Transaction is one entry of the recent history. Display only.
type Transaction struct {
	Title  string          `json:"title"`
	Time   string          `json:"time"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

// Direction of a transaction as presented to the user.
type Direction int

const (
	Credit Direction = iota
	Debit
)

// Direction is decided by the sign of the amount alone; the declared type
// does not influence it.
func (t Transaction) Direction() Direction {
	if t.Amount.IsNegative() {
		return Debit
	}
	return Credit
}

// AmountText renders the signed amount, e.g. "+₦200.00" or "-₦150.00".
func (t Transaction) AmountText(symbol string) string {
	sign := "+"
	if t.Direction() == Debit {
		sign = "-"
	}
	return sign + symbol + t.Amount.Abs().StringFixed(2)
}

// Incoming reports whether the declared type is a receipt. It only selects
// the icon.
func (t Transaction) Incoming() bool {
	return t.Type == TypeReceive
}
