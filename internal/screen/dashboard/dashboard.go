// Package dashboard is the home screen: balance, account number, favourite
// contacts, recent transactions and the fingerprint opt-in prompt.
package dashboard

import (
	"context"
	"sync"

	"github.com/zamanipay/zamanipay/internal/account"
	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/screen"
	"github.com/zamanipay/zamanipay/internal/view"
)

// Placeholders shown for empty lists.
const (
	NoContacts     = "No favorite contacts yet"
	NoTransactions = "No recent transactions"
)

const (
	msgCopied   = "Account number copied to clipboard"
	titleCopied = "Copied"
)

// Screen is the dashboard view-model.
type Screen struct {
	deps screen.Deps
	view *view.View[account.Snapshot]

	mu            sync.Mutex
	promptVisible bool
	promptCount   int
	toggling      bool
}

// New builds the dashboard over deps.
func New(deps screen.Deps) *Screen {
	s := &Screen{deps: deps.WithDefaults()}
	s.view = screen.WatchedSnapshotView(s.deps, s.raisePrompt)
	return s
}

// raisePrompt shows the opt-in once per fetch that reports fingerprint off.
func (s *Screen) raisePrompt(snap account.Snapshot) {
	if snap.HasFingerprint {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptVisible = true
	s.promptCount++
}

// Mount resolves the identity and loads the snapshot.
func (s *Screen) Mount(ctx context.Context, params identity.Params) (view.State[account.Snapshot], error) {
	return s.view.Mount(ctx, params)
}

// Retry repeats the last fetch.
func (s *Screen) Retry(ctx context.Context) (view.State[account.Snapshot], error) {
	return s.view.Retry(ctx)
}

// State returns the current view state.
func (s *Screen) State() view.State[account.Snapshot] { return s.view.State() }

// Subscribe forwards to the underlying view.
func (s *Screen) Subscribe(fn func(view.State[account.Snapshot])) func() {
	return s.view.Subscribe(fn)
}

// PromptVisible reports whether the fingerprint opt-in prompt is showing.
func (s *Screen) PromptVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptVisible
}

// PromptCount is how many times the prompt has been raised.
func (s *Screen) PromptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promptCount
}

// DismissPrompt hides the prompt ("Not now").
func (s *Screen) DismissPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptVisible = false
}

// EnableFingerprint accepts the prompt. The prompt closes whatever the
// outcome; the shown flag only changes on the server's acknowledgement.
func (s *Screen) EnableFingerprint(ctx context.Context) error {
	id, ok := s.view.Identity()
	if !ok {
		return identity.ErrNotLoggedIn
	}
	if !s.view.State().HasData {
		return screen.ErrNotLoaded
	}

	s.mu.Lock()
	if s.toggling {
		s.mu.Unlock()
		return screen.ErrBusy
	}
	s.toggling = true
	s.promptVisible = false
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.toggling = false
		s.mu.Unlock()
	}()

	on, err := screen.SetFingerprint(ctx, s.deps, id.Email, true)
	if err != nil {
		return err
	}
	s.view.Update(func(snap account.Snapshot) account.Snapshot {
		snap.HasFingerprint = on
		return snap
	})
	return nil
}

// CopyAccount confirms the account number was copied.
func (s *Screen) CopyAccount(ctx context.Context) string {
	number := s.Model().AccountNumber
	s.deps.Notify(ctx, alert.Alert{Title: titleCopied, Message: msgCopied})
	return number
}

// Navigate returns the route for a bottom-tab press, carrying the resolved
// identity along.
func (s *Screen) Navigate(to nav.Screen) *nav.Route {
	id, _ := s.view.Identity()
	return nav.To(to, id.Params())
}

// Model is the rendered content of the dashboard.
type Model struct {
	Name          string
	BalanceText   string
	AccountNumber string

	Contacts            []account.Contact
	ContactsPlaceholder string

	Transactions            []Row
	TransactionsPlaceholder string
}

// Row is one rendered transaction.
type Row struct {
	Title    string
	Time     string
	Amount   string
	Credit   bool
	Incoming bool
}

// Model renders the current state. Before the first successful fetch it
// shows the snapshot defaults.
func (s *Screen) Model() Model {
	st := s.view.State()
	snap := st.Data
	if !st.HasData {
		snap = account.Snapshot{Balance: account.DefaultBalance, AccountNumber: account.DefaultAccountNumber}
	}
	id, _ := s.view.Identity()
	return Render(snap, id, s.deps.Currency)
}

// Render builds a Model from a snapshot.
func Render(snap account.Snapshot, id identity.Identity, currency string) Model {
	m := Model{
		Name:          snap.FullName,
		BalanceText:   currency + snap.Balance,
		AccountNumber: snap.AccountNumber,
		Contacts:      snap.Contacts,
	}
	if m.Name == "" {
		m.Name = id.DisplayName
	}
	if len(snap.Contacts) == 0 {
		m.ContactsPlaceholder = NoContacts
	}
	if len(snap.Transactions) == 0 {
		m.TransactionsPlaceholder = NoTransactions
	}
	for _, tx := range snap.Transactions {
		m.Transactions = append(m.Transactions, Row{
			Title:    tx.Title,
			Time:     tx.Time,
			Amount:   tx.AmountText(currency),
			Credit:   tx.Direction() == account.Credit,
			Incoming: tx.Incoming(),
		})
	}
	return m
}
