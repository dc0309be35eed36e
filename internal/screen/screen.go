// Package screen holds what the individual screens share: dependencies, the
// account-snapshot view and the fingerprint toggle.
package screen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/zamanipay/zamanipay/internal/account"
	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/biometric"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/view"
)

// DefaultCurrency prefixes amounts when Deps.Currency is empty.
const DefaultCurrency = "₦"

// Deps are the collaborators every screen draws from.
type Deps struct {
	Client     account.Doer
	Store      identity.Store
	Alerts     alert.Notifier
	Biometrics biometric.Authenticator
	Logger     *slog.Logger
	Currency   string
}

// WithDefaults fills optional dependencies.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Alerts == nil {
		d.Alerts = alert.NewLoggerNotifier(d.Logger)
	}
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	return d
}

// Notify delivers an alert and logs delivery failures.
func (d Deps) Notify(ctx context.Context, a alert.Alert) {
	if d.Alerts == nil {
		return
	}
	if err := d.Alerts.Notify(ctx, a); err != nil && d.Logger != nil {
		d.Logger.Warn("deliver alert", slog.String("title", a.Title), slog.Any("error", err))
	}
}

// SnapshotView builds the dashboard-data view shared by dashboard, pay and
// profile.
func SnapshotView(d Deps, opts ...view.Option) *view.View[account.Snapshot] {
	return WatchedSnapshotView(d, nil, opts...)
}

// WatchedSnapshotView is SnapshotView with onLoad called after every
// successful fetch, before the view settles in ready.
func WatchedSnapshotView(d Deps, onLoad func(account.Snapshot), opts ...view.Option) *view.View[account.Snapshot] {
	fetch := func(ctx context.Context, id identity.Identity) (account.Snapshot, error) {
		snap, err := account.Fetch(ctx, d.Client, id.Email)
		if err == nil && onLoad != nil {
			onLoad(snap)
		}
		return snap, err
	}
	return view.New(d.Store, fetch, append([]view.Option{view.WithLogger(d.Logger)}, opts...)...)
}

// ValidationError is a client-side check that failed before any request.
// Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrBusy rejects a submit while the previous one is still running.
var ErrBusy = errors.New("submission already in progress")

// ErrNotLoaded rejects a fingerprint change before the account snapshot has
// loaded, since the current setting is unknown.
var ErrNotLoaded = errors.New("account data not loaded")

var validate = validator.New()

// Struct runs tag validation on a form and reports whether it passed.
func Struct(form any) bool {
	return validate.Struct(form) == nil
}

// IsRejected reports whether err is a server-side rejection.
func IsRejected(err error) bool {
	return errors.Is(err, api.ErrRejected)
}
