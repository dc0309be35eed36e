// Package view implements the session-bound remote view shared by every
// authenticated screen: resolve identity, fetch, then settle in ready or
// error. Retries are user initiated only.
package view

// Status of a remote view.
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// State is what a screen renders. Data holds the last successful fetch for
// the current identity and survives later failures for that identity.
type State[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Message string
	Err     error
}

// CanRetry reports whether the retry affordance is shown.
func (s State[T]) CanRetry() bool {
	return s.Status == Failed
}

// Event drives Reduce.
type Event[T any] struct {
	kind    eventKind
	data    T
	err     error
	message string
}

type eventKind int

const (
	fetchStarted eventKind = iota
	fetchSucceeded
	fetchFailed
	identityMissing
	identityChanged
)

// FetchStarted enters loading.
func FetchStarted[T any]() Event[T] { return Event[T]{kind: fetchStarted} }

// FetchSucceeded replaces the data and enters ready.
func FetchSucceeded[T any](data T) Event[T] { return Event[T]{kind: fetchSucceeded, data: data} }

// FetchFailed enters error, keeping the data.
func FetchFailed[T any](err error, message string) Event[T] {
	return Event[T]{kind: fetchFailed, err: err, message: message}
}

// IdentityMissing enters error without a fetch having been attempted. Any
// data is dropped since it belongs to no one now.
func IdentityMissing[T any](err error, message string) Event[T] {
	return Event[T]{kind: identityMissing, err: err, message: message}
}

// IdentityChanged drops the data of the previous identity. Status is kept.
func IdentityChanged[T any]() Event[T] { return Event[T]{kind: identityChanged} }

// Reduce computes the next state. It is pure.
func Reduce[T any](s State[T], e Event[T]) State[T] {
	switch e.kind {
	case fetchStarted:
		s.Status = Loading
		s.Message = ""
		s.Err = nil
	case fetchSucceeded:
		s.Status = Ready
		s.Data = e.data
		s.HasData = true
		s.Message = ""
		s.Err = nil
	case fetchFailed:
		s.Status = Failed
		s.Message = e.message
		s.Err = e.err
	case identityMissing:
		var zero T
		s.Status = Failed
		s.Data = zero
		s.HasData = false
		s.Message = e.message
		s.Err = e.err
	case identityChanged:
		var zero T
		s.Data = zero
		s.HasData = false
	}
	return s
}
