package dashboard

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/screen"
	"github.com/zamanipay/zamanipay/internal/screen/screentest"
	"github.com/zamanipay/zamanipay/internal/view"
)

const (
	email       = "ada@zamanipay.test"
	newAccount  = `{"success":true,"data":{"balance":"950000.00","account_number":"9061512740","has_fingerprint":false,"contacts":[],"transactions":[]}}`
	withPrint   = `{"success":true,"data":{"balance":"10.00","account_number":"1","has_fingerprint":true}}`
	fullAccount = `{"success":true,"data":{
		"balance":"1200.50","account_number":"9061512740","has_fingerprint":true,"full_name":"Ada Obi",
		"contacts":[{"name":"Oji","avatar":"👤","color":"#ff6b9d"}],
		"transactions":[{"title":"Send to Rizal","time":"Yesterday","amount":"-150","type":"send"}]
	}}`
)

func params() identity.Params { return identity.Params{Email: email, FullName: "Ada"} }

func TestNewAccountScenario(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, newAccount)
	s := New(h.Deps)

	st, err := s.Mount(context.Background(), params())
	require.NoError(t, err)
	require.Equal(t, view.Ready, st.Status)

	m := s.Model()
	assert.Equal(t, "₦950000.00", m.BalanceText)
	assert.Equal(t, "9061512740", m.AccountNumber)
	assert.Equal(t, NoContacts, m.ContactsPlaceholder)
	assert.Equal(t, NoTransactions, m.TransactionsPlaceholder)
	assert.Equal(t, "Ada", m.Name)
	assert.True(t, s.PromptVisible())
	assert.Equal(t, 1, s.PromptCount())

	calls := h.Backend.Calls(api.DashboardData)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email":"ada@zamanipay.test"}`, calls[0].Body)
}

func TestPromptNeverRaisedWhenFingerprintOn(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, withPrint)
	s := New(h.Deps)

	_, err := s.Mount(context.Background(), params())
	require.NoError(t, err)
	_, err = s.Retry(context.Background())
	require.NoError(t, err)

	assert.False(t, s.PromptVisible())
	assert.Zero(t, s.PromptCount())
}

func TestPromptOncePerFetch(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, newAccount)
	s := New(h.Deps)

	_, _ = s.Mount(context.Background(), params())
	assert.Equal(t, 1, s.PromptCount())

	s.DismissPrompt()
	assert.False(t, s.PromptVisible())
	assert.Equal(t, 1, s.PromptCount(), "dismissing does not re-raise")
}

func TestServerErrorThenRetry(t *testing.T) {
	h := screentest.New(t)
	h.Backend.
		Reply(api.DashboardData, http.StatusInternalServerError, `oops`).
		Reply(api.DashboardData, http.StatusOK, newAccount)
	s := New(h.Deps)

	st, err := s.Mount(context.Background(), params())
	require.NoError(t, err)
	assert.Equal(t, view.Failed, st.Status)
	assert.Equal(t, "Failed to fetch data: HTTP error: 500, Response: oops", st.Message)
	assert.True(t, st.CanRetry())
	assert.Zero(t, s.PromptCount(), "a failed fetch raises no prompt")

	st, err = s.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, view.Ready, st.Status)

	calls := h.Backend.Calls(api.DashboardData)
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].Body, calls[1].Body)
}

func TestMountWithoutIdentity(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Deps)

	st, err := s.Mount(context.Background(), identity.Params{})
	require.NoError(t, err)
	assert.Equal(t, view.Failed, st.Status)
	assert.Equal(t, view.MsgNotLoggedIn, st.Message)
	assert.Zero(t, h.Backend.Total())

	m := s.Model()
	assert.Equal(t, "₦0.00", m.BalanceText)
	assert.Equal(t, "Not set", m.AccountNumber)
}

func TestEnableFingerprintFromPrompt(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, newAccount)
	h.Backend.Reply(api.Fingerprint, http.StatusOK, `{"success":true,"message":"Fingerprint enabled","data":{"has_fingerprint":true}}`)
	s := New(h.Deps)
	_, _ = s.Mount(context.Background(), params())

	require.NoError(t, s.EnableFingerprint(context.Background()))
	assert.False(t, s.PromptVisible())
	assert.True(t, s.State().Data.HasFingerprint)
	assert.Equal(t, 1, h.Biometrics.Challenges)
}

func TestEnableFingerprintFailureKeepsFlag(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, newAccount)
	h.Backend.Reply(api.Fingerprint, http.StatusOK, `{"success":false,"message":"Try later"}`)
	s := New(h.Deps)
	_, _ = s.Mount(context.Background(), params())

	require.Error(t, s.EnableFingerprint(context.Background()))
	assert.False(t, s.State().Data.HasFingerprint)
	assert.Equal(t, "Try later", h.LastAlert(t).Message)
}

func TestRenderTransactions(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, fullAccount)
	s := New(h.Deps)
	_, _ = s.Mount(context.Background(), params())

	m := s.Model()
	assert.Equal(t, "Ada Obi", m.Name)
	assert.Empty(t, m.ContactsPlaceholder)
	assert.Empty(t, m.TransactionsPlaceholder)
	require.Len(t, m.Transactions, 1)
	assert.Equal(t, "-₦150.00", m.Transactions[0].Amount)
	assert.False(t, m.Transactions[0].Credit)
}

func TestCopyAccountAndNavigate(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusOK, newAccount)
	s := New(h.Deps)
	_, _ = s.Mount(context.Background(), params())

	assert.Equal(t, "9061512740", s.CopyAccount(context.Background()))
	assert.Equal(t, "Account number copied to clipboard", h.LastAlert(t).Message)

	r := s.Navigate(nav.Pay)
	assert.Equal(t, nav.Pay, r.Screen)
	assert.Equal(t, email, r.Params.Email)
	assert.False(t, r.Replace)
}

func TestEnableFingerprintBeforeLoad(t *testing.T) {
	h := screentest.New(t)
	h.Backend.Reply(api.DashboardData, http.StatusInternalServerError, `oops`)
	s := New(h.Deps)
	_, _ = s.Mount(context.Background(), params())

	require.ErrorIs(t, s.EnableFingerprint(context.Background()), screen.ErrNotLoaded)
	assert.Empty(t, h.Backend.Calls(api.Fingerprint))
}
