package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/pinpad"
	"github.com/zamanipay/zamanipay/internal/screen"
)

const msgLoginSuccess = "Login successful!"

type loginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

// loginData accepts user_id as a JSON string or number.
type loginData struct {
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	UserID   json.RawMessage `json:"user_id"`
}

func (d loginData) toIdentity(fallbackEmail string) identity.Identity {
	id := identity.Identity{
		Email:       d.Email,
		DisplayName: d.FullName,
		UserID:      strings.Trim(string(bytes.TrimSpace(d.UserID)), `"`),
	}
	if id.UserID == "null" {
		id.UserID = ""
	}
	if id.Email == "" {
		id.Email = fallbackEmail
	}
	return id
}

// Login is the sign-in screen.
type Login struct {
	submitter

	Email   string
	PIN     pinpad.Buffer
	ShowPIN bool
}

// NewLogin builds an empty login form.
func NewLogin(deps screen.Deps) *Login {
	return &Login{submitter: submitter{deps: deps.WithDefaults()}}
}

// DisplayPIN is the PIN as the cells show it, masked unless ShowPIN is set.
func (l *Login) DisplayPIN() string {
	if l.ShowPIN {
		return l.PIN.String()
	}
	return l.PIN.Masked()
}

// Submit signs in. The identity returned by the server is cached and the
// route leads to the dashboard with it.
func (l *Login) Submit(ctx context.Context) (*nav.Route, error) {
	email := strings.TrimSpace(l.Email)
	if email == "" || !l.PIN.Complete() {
		return nil, l.reject(ctx, ErrMissingFields)
	}
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()

	var data loginData
	if _, err := l.deps.Client.Do(ctx, api.Login, loginRequest{Email: email, PIN: l.PIN.String()}, &data); err != nil {
		l.deps.Logger.Warn("login failed", slog.String("email", email), slog.Any("error", err))
		return nil, l.fail(ctx, err)
	}
	id := data.toIdentity(email)

	if l.deps.Store != nil {
		if err := l.deps.Store.Save(ctx, id); err != nil {
			l.deps.Logger.Error("cache identity", slog.Any("error", err))
			l.deps.Notify(ctx, alert.Errorf("Failed to save user data: %v", err))
			return nil, fmt.Errorf("cache identity: %w", err)
		}
	}

	l.deps.Logger.Info("login succeeded", slog.String("email", id.Email), slog.String("user_id", id.UserID))
	l.deps.Notify(ctx, alert.Success(msgLoginSuccess))
	l.PIN.Reset()
	return nav.To(nav.Dashboard, id.Params()), nil
}
