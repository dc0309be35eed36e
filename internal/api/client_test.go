package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamanipay/zamanipay/internal/logging"
)

type recorded struct {
	path    string
	headers http.Header
	body    string
}

func newBackend(t *testing.T, status int, body string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{path: r.URL.Path, headers: r.Header.Clone(), body: string(raw)})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/zamanipay/backend", WithLogger(logging.Discard()))
	require.NoError(t, err)
	return client, &calls
}

func TestDoSuccessDecodesData(t *testing.T) {
	client, calls := newBackend(t, http.StatusOK, `{"success":true,"message":"ok","data":{"balance":"12.50"}}`)

	var data struct {
		Balance string `json:"balance"`
	}
	env, err := client.Do(context.Background(), DashboardData, map[string]string{"email": "ada@zamanipay.test"}, &data)
	require.NoError(t, err)

	assert.True(t, env.Success)
	assert.Equal(t, "12.50", data.Balance)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/zamanipay/backend/get_dashboard_data.php", call.path)
	assert.Equal(t, "application/json", call.headers.Get("Content-Type"))
	assert.NotEmpty(t, call.headers.Get(requestIDHeader))
	assert.Empty(t, call.headers.Get(idempotencyKeyHeader), "reads carry no idempotency key")
	assert.JSONEq(t, `{"email":"ada@zamanipay.test"}`, call.body)
}

func TestDoMutationCarriesIdempotencyKey(t *testing.T) {
	client, calls := newBackend(t, http.StatusOK, `{"success":true,"message":"done"}`)

	_, err := client.Do(context.Background(), Fingerprint, map[string]any{"email": "a@b.co", "enable": true}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, (*calls)[0].headers.Get(idempotencyKeyHeader))
}

func TestDoFailureClasses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		class  error
		text   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", class: ErrStatus, text: "HTTP error: 500, Response: boom"},
		{name: "not found", status: http.StatusNotFound, body: "", class: ErrStatus},
		{name: "html body", status: http.StatusOK, body: "<br /><b>Warning</b>", class: ErrDecode},
		{name: "bad data", status: http.StatusOK, body: `{"success":true,"data":"nope"}`, class: ErrDecode},
		{name: "rejected", status: http.StatusOK, body: `{"success":false,"message":"User not found"}`, class: ErrRejected, text: "User not found"},
		{name: "missing success", status: http.StatusOK, body: `{"data":{}}`, class: ErrRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newBackend(t, tc.status, tc.body)
			var out struct {
				Balance string `json:"balance"`
			}
			_, err := client.Do(context.Background(), DashboardData, map[string]string{"email": "x@y.zz"}, &out)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.class)
			for _, other := range []error{ErrTransport, ErrStatus, ErrDecode, ErrRejected} {
				if other != tc.class {
					assert.NotErrorIs(t, err, other)
				}
			}
			if tc.text != "" {
				assert.Equal(t, tc.text, err.Error())
			}
		})
	}
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := New(srv.URL, WithLogger(logging.Discard()))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Login, map[string]string{}, nil)
	require.ErrorIs(t, err, ErrTransport)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "login.php", te.Endpoint)
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "Email already registered", ServerMessage(&RejectedError{Message: "Email already registered"}, "fallback"))
	assert.Equal(t, "fallback", ServerMessage(&RejectedError{}, "fallback"))
	assert.Equal(t, "fallback", ServerMessage(&StatusError{Code: 502}, "fallback"))
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
}

func TestEnvelopeNullData(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `{"success":true,"message":"ok","data":null}`)
	var out map[string]json.RawMessage
	_, err := client.Do(context.Background(), ForgotPassword, map[string]string{"email": "a@b.co"}, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEnvelopeEmptyPHPData(t *testing.T) {
	for _, data := range []string{`[]`, `{}`, `[ ]`} {
		client, _ := newBackend(t, http.StatusOK, `{"success":true,"message":"ok","data":`+data+`}`)
		var out struct {
			Balance string `json:"balance"`
		}
		_, err := client.Do(context.Background(), DashboardData, map[string]string{"email": "a@b.co"}, &out)
		require.NoError(t, err, data)
		assert.Empty(t, out.Balance)
	}
}

func TestHasData(t *testing.T) {
	cases := map[string]bool{
		``:                false,
		`null`:            false,
		`[]`:              false,
		` { } `:           false,
		`{"balance":"1"}`: true,
		`[1]`:             true,
		`"x"`:             true,
		`0`:               true,
	}
	for raw, want := range cases {
		assert.Equal(t, want, HasData(json.RawMessage(raw)), raw)
	}
}

func TestCustomHTTPClientAndIDs(t *testing.T) {
	var headers []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Clone())
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	t.Cleanup(srv.Close)

	n := 0
	client, err := New(srv.URL,
		WithHTTPClient(srv.Client()),
		WithIDGenerator(func() string {
			n++
			return "id-" + strconv.Itoa(n)
		}),
		WithLogger(logging.Discard()),
	)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), Signup, map[string]string{"email": "a@b.co"}, nil)
	require.NoError(t, err)

	require.Len(t, headers, 1)
	assert.Equal(t, "id-1", headers[0].Get(requestIDHeader))
	assert.Equal(t, "id-2", headers[0].Get(idempotencyKeyHeader))
}
