// Package screentest provides a scripted backend for screen tests.
package screentest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zamanipay/zamanipay/internal/alert"
	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/biometric"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/logging"
	"github.com/zamanipay/zamanipay/internal/screen"
)

// Call is one request the backend received.
type Call struct {
	Endpoint       string
	Body           string
	IdempotencyKey string
}

type reply struct {
	status int
	body   string
}

// Backend answers each endpoint from a queue of replies. The last reply of
// a queue repeats.
type Backend struct {
	URL string

	mu      sync.Mutex
	replies map[string][]reply
	calls   []Call
}

// NewBackend starts a backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{replies: make(map[string][]reply)}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	b.URL = srv.URL + "/zamanipay/backend"
	return b
}

// Reply queues a response for endpoint.
func (b *Backend) Reply(ep api.Endpoint, status int, body string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[ep.Path] = append(b.replies[ep.Path], reply{status: status, body: body})
	return b
}

// Calls returns the requests received for endpoint.
func (b *Backend) Calls(ep api.Endpoint) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if c.Endpoint == ep.Path {
			out = append(out, c)
		}
	}
	return out
}

// Total is the number of requests received on any endpoint.
func (b *Backend) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	ep := path.Base(r.URL.Path)

	b.mu.Lock()
	b.calls = append(b.calls, Call{Endpoint: ep, Body: string(raw), IdempotencyKey: r.Header.Get("Idempotency-Key")})
	queue := b.replies[ep]
	rep := reply{status: http.StatusNotFound, body: `{"success":false,"message":"no reply scripted"}`}
	if len(queue) > 0 {
		rep = queue[0]
		if len(queue) > 1 {
			b.replies[ep] = queue[1:]
		}
	}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

// Harness bundles the dependencies a screen test inspects.
type Harness struct {
	Backend    *Backend
	Store      identity.Store
	Alerts     *alert.Recorder
	Biometrics *biometric.Static
	Deps       screen.Deps
}

// New wires screen dependencies against a fresh backend, a memory identity
// store and a biometric sensor that is present, enrolled and approving.
func New(t *testing.T) *Harness {
	t.Helper()
	b := NewBackend(t)
	client, err := api.New(b.URL, api.WithLogger(logging.Discard()))
	require.NoError(t, err)

	h := &Harness{
		Backend:    b,
		Store:      identity.NewMemoryStore(),
		Alerts:     &alert.Recorder{},
		Biometrics: &biometric.Static{Hardware: true, Enrolled: true, Approve: true},
	}
	h.Deps = screen.Deps{
		Client:     client,
		Store:      h.Store,
		Alerts:     h.Alerts,
		Biometrics: h.Biometrics,
		Logger:     logging.Discard(),
	}
	return h
}

// LastAlert fails the test when no alert was raised.
func (h *Harness) LastAlert(t *testing.T) alert.Alert {
	t.Helper()
	a, ok := h.Alerts.Last()
	require.True(t, ok, "expected an alert")
	return a
}
