package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zamanipay/zamanipay/internal/api"
)

// Doer is the part of api.Client the fetcher needs.
type Doer interface {
	Do(ctx context.Context, ep api.Endpoint, payload, data any) (api.Envelope, error)
}

type dashboardRequest struct {
	Email string `json:"email"`
}

type wireSnapshot struct {
	Balance        textValue     `json:"balance"`
	AccountNumber  textValue     `json:"account_number"`
	HasFingerprint Flag          `json:"has_fingerprint"`
	FullName       string        `json:"full_name"`
	Contacts       []Contact     `json:"contacts"`
	Transactions   []Transaction `json:"transactions"`
}

// Fetch loads the snapshot for email from the dashboard-data endpoint and
// fills defaults for every optional field the backend left out.
func Fetch(ctx context.Context, client Doer, email string) (Snapshot, error) {
	var wire wireSnapshot
	if _, err := client.Do(ctx, api.DashboardData, dashboardRequest{Email: email}, &wire); err != nil {
		return Snapshot{}, err
	}
	snap, err := wire.snapshot()
	if err != nil {
		return Snapshot{}, &api.DecodeError{Endpoint: api.DashboardData.Path, Err: err}
	}
	return snap, nil
}

func (w wireSnapshot) snapshot() (Snapshot, error) {
	snap := Snapshot{
		Balance:        string(w.Balance),
		AccountNumber:  string(w.AccountNumber),
		HasFingerprint: bool(w.HasFingerprint),
		FullName:       w.FullName,
		Contacts:       w.Contacts,
		Transactions:   w.Transactions,
	}
	if snap.Balance == "" {
		snap.Balance = DefaultBalance
	}
	if _, err := decimal.NewFromString(snap.Balance); err != nil {
		return Snapshot{}, fmt.Errorf("balance %q is not a decimal", snap.Balance)
	}
	if snap.AccountNumber == "" {
		snap.AccountNumber = DefaultAccountNumber
	}
	if snap.Contacts == nil {
		snap.Contacts = []Contact{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []Transaction{}
	}
	return snap, nil
}

// textValue accepts a JSON string or number and keeps its literal text.
type textValue string

func (v *textValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = textValue(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*v = textValue(n.String())
	}
	return nil
}

// Flag is a boolean that also accepts 0/1 and their string forms, as PHP
// backends emit all of them.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(raw) {
	case "", "null":
		*f = false
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid boolean %s", b)
	}
	*f = Flag(parsed)
	return nil
}
