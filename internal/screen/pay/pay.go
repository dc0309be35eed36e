// Package pay is the payment form. It checks the amount against the last
// fetched balance; settlement happens elsewhere.
package pay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/zamanipay/zamanipay/internal/account"
	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/screen"
	"github.com/zamanipay/zamanipay/internal/view"
)

// Validation failures. None of them reaches the network.
var (
	ErrMissingFields       = &screen.ValidationError{Message: "Please enter recipient and amount"}
	ErrInvalidAmount       = &screen.ValidationError{Message: "Please enter a valid amount"}
	ErrInsufficientBalance = &screen.ValidationError{Message: "Insufficient balance"}
)

// Form is what the user typed.
type Form struct {
	Recipient string `validate:"required"`
	Amount    string `validate:"required"`
}

// Screen is the pay view-model.
type Screen struct {
	deps screen.Deps
	view *view.View[account.Snapshot]

	mu        sync.Mutex
	form      Form
	inlineErr string
}

// New builds the pay screen over deps.
func New(deps screen.Deps) *Screen {
	deps = deps.WithDefaults()
	return &Screen{deps: deps, view: screen.SnapshotView(deps)}
}

// Mount resolves the identity and loads the balance.
func (s *Screen) Mount(ctx context.Context, params identity.Params) (view.State[account.Snapshot], error) {
	return s.view.Mount(ctx, params)
}

// Retry repeats the last fetch.
func (s *Screen) Retry(ctx context.Context) (view.State[account.Snapshot], error) {
	return s.view.Retry(ctx)
}

// State returns the current view state.
func (s *Screen) State() view.State[account.Snapshot] { return s.view.State() }

// SetRecipient updates the recipient field.
func (s *Screen) SetRecipient(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Recipient = v
	s.inlineErr = ""
}

// SetAmount updates the amount field.
func (s *Screen) SetAmount(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Amount = v
	s.inlineErr = ""
}

// Form returns the current field values.
func (s *Screen) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// InlineError is the message under the form, empty when valid.
func (s *Screen) InlineError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inlineErr
}

// Balance is the last fetched balance, or zero before any fetch.
func (s *Screen) Balance() decimal.Decimal {
	st := s.view.State()
	if !st.HasData {
		return decimal.Zero
	}
	bal, err := st.Data.BalanceAmount()
	if err != nil {
		return decimal.Zero
	}
	return bal
}

// BalanceText renders the available balance.
func (s *Screen) BalanceText() string {
	st := s.view.State()
	if !st.HasData {
		return s.deps.Currency + account.DefaultBalance
	}
	return s.deps.Currency + st.Data.Balance
}

// Submit validates the form against the balance and confirms the payment.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	form := Form{Recipient: strings.TrimSpace(s.form.Recipient), Amount: strings.TrimSpace(s.form.Amount)}
	s.mu.Unlock()

	amount, err := s.validate(form)
	if err != nil {
		var verr *screen.ValidationError
		if errors.As(err, &verr) {
			s.mu.Lock()
			s.inlineErr = verr.Message
			s.mu.Unlock()
			s.deps.Notify(ctx, alert.Errorf("%s", verr.Message))
		}
		return err
	}

	s.deps.Logger.Info("payment confirmed", slog.String("recipient", form.Recipient), slog.String("amount", amount.String()))
	s.deps.Notify(ctx, alert.Success(fmt.Sprintf("Payment of %s%s to %s sent!", s.deps.Currency, form.Amount, form.Recipient)))
	return nil
}

func (s *Screen) validate(form Form) (decimal.Decimal, error) {
	if !screen.Struct(form) {
		return decimal.Zero, ErrMissingFields
	}
	amount, err := decimal.NewFromString(form.Amount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.GreaterThan(s.Balance()) {
		return decimal.Zero, ErrInsufficientBalance
	}
	return amount, nil
}

// Navigate returns the route for a bottom-tab press.
func (s *Screen) Navigate(to nav.Screen) *nav.Route {
	id, _ := s.view.Identity()
	return nav.To(to, id.Params())
}
