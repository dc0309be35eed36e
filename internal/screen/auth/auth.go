// Package auth holds the credential screens: sign-up, login and password
// recovery.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/screen"
)

// Validation failures shared by the credential forms.
var (
	ErrMissingFields = &screen.ValidationError{Message: "Please fill in all fields"}
	ErrPINLength     = &screen.ValidationError{Message: "Please enter a 5-digit PIN"}
	ErrPINMismatch   = &screen.ValidationError{Message: "PINs do not match"}
	ErrTermsRequired = &screen.ValidationError{Message: "Please agree to the terms and conditions"}
	ErrEmailRequired = &screen.ValidationError{Message: "Please enter your email address"}
	ErrEmailInvalid  = &screen.ValidationError{Message: "Please enter a valid email address"}
)

const networkPrefix = "Network error: "

// submitter serialises submissions of one form and reports failures.
type submitter struct {
	deps screen.Deps

	mu      sync.Mutex
	running bool
}

func (s *submitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return screen.ErrBusy
	}
	s.running = true
	return nil
}

func (s *submitter) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Loading reports whether a submission is in flight.
func (s *submitter) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// reject alerts a validation failure and returns it.
func (s *submitter) reject(ctx context.Context, err *screen.ValidationError) error {
	s.deps.Notify(ctx, alert.Errorf("%s", err.Message))
	return err
}

// fail alerts a request failure. Server rejections show the server's message
// verbatim; everything else is reported as a network error.
func (s *submitter) fail(ctx context.Context, err error) error {
	switch {
	case screen.IsRejected(err):
		s.deps.Notify(ctx, alert.Errorf("%s", api.ServerMessage(err, "Request failed")))
	case errors.Is(err, api.ErrTransport):
		s.deps.Notify(ctx, alert.Errorf("%v", err))
	default:
		s.deps.Notify(ctx, alert.Errorf("%s%v", networkPrefix, err))
	}
	return err
}
