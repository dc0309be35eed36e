// Package accounts stores the sandbox backend's customers: credentials,
// balance, fingerprint flag and the display lists the dashboard returns.
package accounts

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zamanipay/zamanipay/internal/account"
)

var (
	// ErrNotFound is returned when no account has the email.
	ErrNotFound = errors.New("User not found")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("Email already registered")
	// ErrInvalidCredentials hides whether the email or the PIN was wrong.
	ErrInvalidCredentials = errors.New("Invalid email or PIN")
)

// Account is one sandbox customer.
type Account struct {
	ID             string
	Email          string
	FullName       string
	PhoneNumber    string
	PINHash        []byte
	AccountNumber  string
	Balance        decimal.Decimal
	HasFingerprint bool
	Contacts       []account.Contact
	Transactions   []account.Transaction
	CreatedAt      time.Time
}

// Snapshot is the dashboard-data payload for the account.
type Snapshot struct {
	Balance        string                `json:"balance"`
	AccountNumber  string                `json:"account_number"`
	HasFingerprint bool                  `json:"has_fingerprint"`
	FullName       string                `json:"full_name"`
	Contacts       []account.Contact     `json:"contacts"`
	Transactions   []account.Transaction `json:"transactions"`
}

// Snapshot renders the account the way the dashboard endpoint returns it.
func (a Account) Snapshot() Snapshot {
	s := Snapshot{
		Balance:        a.Balance.StringFixed(2),
		AccountNumber:  a.AccountNumber,
		HasFingerprint: a.HasFingerprint,
		FullName:       a.FullName,
		Contacts:       a.Contacts,
		Transactions:   a.Transactions,
	}
	if s.Contacts == nil {
		s.Contacts = []account.Contact{}
	}
	if s.Transactions == nil {
		s.Transactions = []account.Transaction{}
	}
	return s
}

// SignupInput is the registration form as posted by the client.
type SignupInput struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	PIN         string `json:"pin" validate:"len=5,numeric"`
	ConfirmPIN  string `json:"confirm_pin"`
}
