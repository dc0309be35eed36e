package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/pinpad"
	"github.com/zamanipay/zamanipay/internal/screen"
)

// SignupForm holds the text fields of the sign-up form.
type SignupForm struct {
	FullName    string `validate:"required"`
	Email       string `validate:"required"`
	PhoneNumber string `validate:"required"`
}

type signupRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	PIN         string `json:"pin"`
	ConfirmPIN  string `json:"confirm_pin"`
}

// Signup is the registration screen.
type Signup struct {
	submitter

	Form       SignupForm
	PIN        pinpad.Buffer
	ConfirmPIN pinpad.Buffer
	AgreeTerms bool
}

// NewSignup builds an empty sign-up form.
func NewSignup(deps screen.Deps) *Signup {
	return &Signup{submitter: submitter{deps: deps.WithDefaults()}}
}

// Validate checks the form in order and returns the first failure.
func (s *Signup) Validate() *screen.ValidationError {
	form := SignupForm{
		FullName:    strings.TrimSpace(s.Form.FullName),
		Email:       strings.TrimSpace(s.Form.Email),
		PhoneNumber: strings.TrimSpace(s.Form.PhoneNumber),
	}
	switch {
	case !screen.Struct(form):
		return ErrMissingFields
	case !s.PIN.Complete():
		return ErrPINLength
	case s.PIN.String() != s.ConfirmPIN.String():
		return ErrPINMismatch
	case !s.AgreeTerms:
		return ErrTermsRequired
	}
	return nil
}

// Submit registers the account. On success the server's message is shown
// and the route leads to login; the new identity is not cached.
func (s *Signup) Submit(ctx context.Context) (*nav.Route, error) {
	if verr := s.Validate(); verr != nil {
		return nil, s.reject(ctx, verr)
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	req := signupRequest{
		FullName:    strings.TrimSpace(s.Form.FullName),
		Email:       strings.TrimSpace(s.Form.Email),
		PhoneNumber: strings.TrimSpace(s.Form.PhoneNumber),
		PIN:         s.PIN.String(),
		ConfirmPIN:  s.ConfirmPIN.String(),
	}
	env, err := s.deps.Client.Do(ctx, api.Signup, req, nil)
	if err != nil {
		s.deps.Logger.Warn("signup failed", slog.String("email", req.Email), slog.Any("error", err))
		return nil, s.fail(ctx, err)
	}

	s.deps.Logger.Info("signup succeeded", slog.String("email", req.Email))
	s.deps.Notify(ctx, alert.Success(env.Message))
	return nav.To(nav.Login, identity.Params{}), nil
}
