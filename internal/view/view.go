package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/identity"
)

// User-facing messages.
const (
	MsgNotLoggedIn       = "No email provided. Please log in again."
	msgIdentityLoadError = "Failed to load user data: "
	defaultFetchPrefix   = "Failed to fetch data: "
	defaultRejected      = "Failed to load data"
)

// ErrBusy is returned when a load is requested while one is in flight.
var ErrBusy = errors.New("fetch already in flight")

// Fetcher loads the remote data for an identity.
type Fetcher[T any] func(ctx context.Context, id identity.Identity) (T, error)

// Option customises a View.
type Option func(*options)

type options struct {
	fetchPrefix string
	rejected    string
	logger      *slog.Logger
}

// WithMessages sets the prefix used for transport/decode failures and the
// fallback used when the server rejects without a message.
func WithMessages(fetchPrefix, rejected string) Option {
	return func(o *options) {
		o.fetchPrefix = fetchPrefix
		o.rejected = rejected
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// View is one screen's remote data, identity and load lifecycle.
type View[T any] struct {
	store identity.Store
	fetch Fetcher[T]
	opts  options

	mu       sync.Mutex
	state    State[T]
	ident    identity.Identity
	resolved bool
	inFlight bool
	subs     map[int]func(State[T])
	nextSub  int
}

// New builds a view in the loading state.
func New[T any](store identity.Store, fetch Fetcher[T], opts ...Option) *View[T] {
	o := options{fetchPrefix: defaultFetchPrefix, rejected: defaultRejected, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &View[T]{
		store: store,
		fetch: fetch,
		opts:  o,
		state: State[T]{Status: Loading},
		subs:  make(map[int]func(State[T])),
	}
}

// Mount resolves the identity from params or the cache and loads the data.
// Without an identity no fetch is attempted.
func (v *View[T]) Mount(ctx context.Context, params identity.Params) (State[T], error) {
	id, err := identity.Resolve(ctx, params, v.store)
	if err != nil {
		msg := MsgNotLoggedIn
		if !errors.Is(err, identity.ErrNotLoggedIn) {
			msg = msgIdentityLoadError + err.Error()
		}
		v.opts.logger.Info("identity unavailable", slog.Any("error", err))

		v.mu.Lock()
		if v.inFlight {
			v.mu.Unlock()
			return v.State(), ErrBusy
		}
		v.resolved = false
		v.ident = identity.Identity{}
		st := v.apply(IdentityMissing[T](err, msg))
		v.mu.Unlock()
		v.notify(st)
		return st, nil
	}

	v.mu.Lock()
	if v.inFlight {
		v.mu.Unlock()
		return v.State(), ErrBusy
	}
	if v.ident.Email != id.Email {
		v.apply(IdentityChanged[T]())
	}
	v.ident = id
	v.resolved = true
	v.mu.Unlock()

	return v.load(ctx)
}

// Retry re-enters loading and repeats the last request. When no identity
// was resolved it settles straight back into the error state.
func (v *View[T]) Retry(ctx context.Context) (State[T], error) {
	v.mu.Lock()
	if !v.resolved && !v.inFlight {
		st := v.apply(IdentityMissing[T](identity.ErrNotLoggedIn, MsgNotLoggedIn))
		v.mu.Unlock()
		v.notify(st)
		return st, nil
	}
	v.mu.Unlock()
	return v.load(ctx)
}

// State returns the current state.
func (v *View[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Identity returns the resolved identity, if any.
func (v *View[T]) Identity() (identity.Identity, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ident, v.resolved
}

// Update applies fn to the loaded data. It is a no-op before the first
// successful fetch.
func (v *View[T]) Update(fn func(T) T) State[T] {
	v.mu.Lock()
	if !v.state.HasData {
		st := v.state
		v.mu.Unlock()
		return st
	}
	v.state.Data = fn(v.state.Data)
	st := v.state
	v.mu.Unlock()
	v.notify(st)
	return st
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (v *View[T]) Subscribe(fn func(State[T])) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}

func (v *View[T]) load(ctx context.Context) (State[T], error) {
	v.mu.Lock()
	if v.inFlight {
		v.mu.Unlock()
		return v.State(), ErrBusy
	}
	v.inFlight = true
	id := v.ident
	st := v.apply(FetchStarted[T]())
	v.mu.Unlock()
	v.notify(st)

	data, err := v.fetch(ctx, id)

	v.mu.Lock()
	v.inFlight = false
	if err != nil {
		v.opts.logger.Warn("screen fetch failed", slog.String("email", id.Email), slog.Any("error", err))
		st = v.apply(FetchFailed[T](err, v.failureMessage(err)))
	} else {
		st = v.apply(FetchSucceeded(data))
	}
	v.mu.Unlock()
	v.notify(st)
	return st, nil
}

func (v *View[T]) failureMessage(err error) string {
	if errors.Is(err, api.ErrRejected) {
		return api.ServerMessage(err, v.opts.rejected)
	}
	return v.opts.fetchPrefix + err.Error()
}

// apply must be called with mu held.
func (v *View[T]) apply(e Event[T]) State[T] {
	v.state = Reduce(v.state, e)
	return v.state
}

func (v *View[T]) notify(st State[T]) {
	v.mu.Lock()
	subs := make([]func(State[T]), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}
