// Package profile is the settings screen: personal details, the fingerprint
// switch and logout.
package profile

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zamanipay/zamanipay/internal/account"
	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/nav"
	"github.com/zamanipay/zamanipay/internal/screen"
	"github.com/zamanipay/zamanipay/internal/view"
)

const (
	fetchPrefix     = "Failed to fetch profile data: "
	rejectedMessage = "Failed to load profile data"

	msgLoggedOut     = "Logged out successfully"
	msgLogoutFailed  = "Failed to log out: "
	msgCopied        = "Account number copied to clipboard"
	msgUpdateProfile = "Update profile feature coming soon"
)

// Screen is the profile view-model.
type Screen struct {
	deps screen.Deps
	view *view.View[account.Snapshot]

	mu       sync.Mutex
	toggling bool
}

// New builds the profile screen over deps.
func New(deps screen.Deps) *Screen {
	deps = deps.WithDefaults()
	return &Screen{
		deps: deps,
		view: screen.SnapshotView(deps, view.WithMessages(fetchPrefix, rejectedMessage)),
	}
}

// Mount resolves the identity and loads the profile.
func (s *Screen) Mount(ctx context.Context, params identity.Params) (view.State[account.Snapshot], error) {
	return s.view.Mount(ctx, params)
}

// Retry repeats the last fetch.
func (s *Screen) Retry(ctx context.Context) (view.State[account.Snapshot], error) {
	return s.view.Retry(ctx)
}

// State returns the current view state.
func (s *Screen) State() view.State[account.Snapshot] { return s.view.State() }

// Details is what the profile card shows.
type Details struct {
	FullName       string
	Email          string
	AccountNumber  string
	HasFingerprint bool
}

// Details renders the current state.
func (s *Screen) Details() Details {
	id, _ := s.view.Identity()
	d := Details{FullName: id.DisplayName, Email: id.Email, AccountNumber: account.DefaultAccountNumber}
	if st := s.view.State(); st.HasData {
		d.AccountNumber = st.Data.AccountNumber
		d.HasFingerprint = st.Data.HasFingerprint
		if st.Data.FullName != "" {
			d.FullName = st.Data.FullName
		}
	}
	return d
}

// Toggling reports whether a fingerprint change is in flight.
func (s *Screen) Toggling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggling
}

// ToggleFingerprint flips the switch. The switch follows the server's
// acknowledgement; a toggle while another is in flight is ignored.
func (s *Screen) ToggleFingerprint(ctx context.Context) error {
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
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.toggling = false
		s.mu.Unlock()
	}()

	enable := !s.Details().HasFingerprint
	on, err := screen.SetFingerprint(ctx, s.deps, id.Email, enable)
	if err != nil {
		return err
	}
	s.view.Update(func(snap account.Snapshot) account.Snapshot {
		snap.HasFingerprint = on
		return snap
	})
	return nil
}

// Logout clears the cached identity and replaces the stack with login.
func (s *Screen) Logout(ctx context.Context) (*nav.Route, error) {
	if s.deps.Store != nil {
		if err := s.deps.Store.Clear(ctx); err != nil {
			s.deps.Logger.Error("clear identity", slog.Any("error", err))
			s.deps.Notify(ctx, alert.Errorf("%s%v", msgLogoutFailed, err))
			return nil, err
		}
	}
	s.deps.Logger.Info("logged out")
	s.deps.Notify(ctx, alert.Success(msgLoggedOut))
	return nav.ReplaceWith(nav.Login), nil
}

// CopyAccount confirms the account number was copied.
func (s *Screen) CopyAccount(ctx context.Context) string {
	s.deps.Notify(ctx, alert.Alert{Title: "Copied", Message: msgCopied})
	return s.Details().AccountNumber
}

// UpdateProfile is not available yet.
func (s *Screen) UpdateProfile(ctx context.Context) {
	s.deps.Notify(ctx, alert.Alert{Title: "Feature", Message: msgUpdateProfile})
}

// ChangePIN routes to PIN recovery.
func (s *Screen) ChangePIN() *nav.Route {
	return nav.To(nav.ForgotPassword, identity.Params{})
}

// Navigate returns the route for a bottom-tab press.
func (s *Screen) Navigate(to nav.Screen) *nav.Route {
	id, _ := s.view.Identity()
	return nav.To(to, id.Params())
}
