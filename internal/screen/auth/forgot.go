package auth

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/screen"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type forgotRequest struct {
	Email string `json:"email"`
}

// ForgotPassword requests a recovery email.
type ForgotPassword struct {
	submitter

	Email string

	sent bool
}

// NewForgotPassword builds an empty recovery form.
func NewForgotPassword(deps screen.Deps) *ForgotPassword {
	return &ForgotPassword{submitter: submitter{deps: deps.WithDefaults()}}
}

// EmailSent reports whether the confirmation state is showing.
func (f *ForgotPassword) EmailSent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

// Submit validates the address and asks the backend to send the email.
func (f *ForgotPassword) Submit(ctx context.Context) error {
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return f.reject(ctx, ErrEmailRequired)
	}
	if !emailPattern.MatchString(email) {
		return f.reject(ctx, ErrEmailInvalid)
	}
	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	if _, err := f.deps.Client.Do(ctx, api.ForgotPassword, forgotRequest{Email: email}, nil); err != nil {
		f.deps.Logger.Warn("password recovery failed", slog.String("email", email), slog.Any("error", err))
		return f.fail(ctx, err)
	}

	f.mu.Lock()
	f.sent = true
	f.mu.Unlock()
	return nil
}

// Resend leaves the confirmation state and submits again.
func (f *ForgotPassword) Resend(ctx context.Context) error {
	f.mu.Lock()
	f.sent = false
	f.mu.Unlock()
	return f.Submit(ctx)
}

// BackToLogin returns the sign-in route.
func (f *ForgotPassword) BackToLogin() *nav.Route {
	return nav.To(nav.Login, identity.Params{})
}
