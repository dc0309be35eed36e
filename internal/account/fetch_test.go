package account

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamanipay/zamanipay/internal/api"
)

// stubDoer answers every request with the given data document.
type stubDoer struct {
	data    string
	err     error
	payload any
	calls   int
}

func (s *stubDoer) Do(_ context.Context, ep api.Endpoint, payload, data any) (api.Envelope, error) {
	s.calls++
	s.payload = payload
	if s.err != nil {
		return api.Envelope{}, s.err
	}
	if data != nil && api.HasData(json.RawMessage(s.data)) {
		if err := json.Unmarshal([]byte(s.data), data); err != nil {
			return api.Envelope{}, &api.DecodeError{Endpoint: ep.Path, Err: err}
		}
	}
	return api.Envelope{Success: true}, nil
}

func TestFetchFillsDefaults(t *testing.T) {
	cases := map[string]string{
		"empty data":      `{}`,
		"nulls":           `{"balance":null,"account_number":null,"contacts":null,"transactions":null}`,
		"empty text":      `{"balance":"","account_number":""}`,
		"no data":         ``,
		"php empty array": `[]`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			snap, err := Fetch(context.Background(), &stubDoer{data: data}, "ada@zamanipay.test")
			require.NoError(t, err)

			assert.Equal(t, "0.00", snap.Balance)
			assert.Equal(t, "Not set", snap.AccountNumber)
			assert.False(t, snap.HasFingerprint)
			assert.NotNil(t, snap.Contacts)
			assert.Empty(t, snap.Contacts)
			assert.NotNil(t, snap.Transactions)
			assert.Empty(t, snap.Transactions)
		})
	}
}

func TestFetchMapsFullSnapshot(t *testing.T) {
	doer := &stubDoer{data: `{
		"balance": "950000.00",
		"account_number": 9061512740,
		"has_fingerprint": "1",
		"full_name": "Ada Obi",
		"contacts": [{"name":"Oji","avatar":"👤","color":"#ff6b9d"}],
		"transactions": [
			{"title":"Receive from Oji","time":"Today, 07:23 AM","amount":"200","type":"receive"},
			{"title":"Send to Rizal","time":"Yesterday, 05:23 PM","amount":-150,"type":"send"}
		]
	}`}

	snap, err := Fetch(context.Background(), doer, "ada@zamanipay.test")
	require.NoError(t, err)

	assert.Equal(t, dashboardRequest{Email: "ada@zamanipay.test"}, doer.payload)
	assert.Equal(t, "950000.00", snap.Balance)
	assert.Equal(t, "9061512740", snap.AccountNumber)
	assert.True(t, snap.HasFingerprint)
	assert.Equal(t, "Ada Obi", snap.FullName)
	require.Len(t, snap.Contacts, 1)
	assert.Equal(t, "Oji", snap.Contacts[0].Name)
	require.Len(t, snap.Transactions, 2)
	assert.True(t, snap.Transactions[1].Amount.Equal(decimal.NewFromInt(-150)))

	bal, err := snap.BalanceAmount()
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(950000)))
}

func TestFetchRejectsNonDecimalBalance(t *testing.T) {
	_, err := Fetch(context.Background(), &stubDoer{data: `{"balance":"lots"}`}, "a@b.co")
	require.ErrorIs(t, err, api.ErrDecode)
}

func TestFetchPassesThroughFailures(t *testing.T) {
	_, err := Fetch(context.Background(), &stubDoer{err: &api.StatusError{Code: 500}}, "a@b.co")
	require.ErrorIs(t, err, api.ErrStatus)
}

func TestFlag(t *testing.T) {
	cases := map[string]bool{
		`true`: true, `false`: false, `1`: true, `0`: false,
		`"1"`: true, `"0"`: false, `"true"`: true, `null`: false, `""`: false,
	}
	for in, want := range cases {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, bool(f), in)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"yes please"`), &f))
}

func TestTransactionPresentationFollowsSign(t *testing.T) {
	// A "send" entry with a positive amount still reads as a credit.
	mislabelled := Transaction{Type: TypeSend, Amount: decimal.NewFromInt(200)}
	assert.Equal(t, Credit, mislabelled.Direction())
	assert.Equal(t, "+₦200.00", mislabelled.AmountText("₦"))
	assert.False(t, mislabelled.Incoming())

	debit := Transaction{Type: TypeReceive, Amount: decimal.RequireFromString("-150.5")}
	assert.Equal(t, Debit, debit.Direction())
	assert.Equal(t, "-₦150.50", debit.AmountText("₦"))
	assert.True(t, debit.Incoming())
}
