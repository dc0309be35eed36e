package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamanipay/zamanipay/internal/api"
	"github.com/zamanipay/zamanipay/internal/identity"
	"github.com/zamanipay/zamanipay/internal/logging"
)

type scriptedFetcher struct {
	results []result
	seen    []identity.Identity
}

type result struct {
	data string
	err  error
}

func (f *scriptedFetcher) fetch(_ context.Context, id identity.Identity) (string, error) {
	f.seen = append(f.seen, id)
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.data, r.err
}

func newView(store identity.Store, f *scriptedFetcher) *View[string] {
	return New[string](store, f.fetch, WithLogger(logging.Discard()))
}

func TestReduce(t *testing.T) {
	s := State[int]{}
	assert.Equal(t, Loading, s.Status)

	s = Reduce(s, FetchSucceeded(7))
	assert.Equal(t, Ready, s.Status)
	assert.Equal(t, 7, s.Data)
	assert.True(t, s.HasData)

	boom := errors.New("boom")
	s = Reduce(s, FetchFailed[int](boom, "Failed"))
	assert.Equal(t, Failed, s.Status)
	assert.Equal(t, 7, s.Data, "failure keeps prior data")
	assert.Equal(t, "Failed", s.Message)
	assert.True(t, s.CanRetry())

	s = Reduce(s, FetchStarted[int]())
	assert.Equal(t, Loading, s.Status)
	assert.Empty(t, s.Message)
	assert.NoError(t, s.Err)

	s = Reduce(s, FetchSucceeded(9))
	assert.Equal(t, 9, s.Data, "success fully replaces data")

	s = Reduce(s, IdentityChanged[int]())
	assert.Equal(t, Ready, s.Status)
	assert.Zero(t, s.Data)
	assert.False(t, s.HasData)

	s = Reduce(Reduce(s, FetchSucceeded(3)), IdentityMissing[int](boom, MsgNotLoggedIn))
	assert.Equal(t, Failed, s.Status)
	assert.False(t, s.HasData, "no identity, no data")
}

func TestSwitchingIdentityDropsPreviousData(t *testing.T) {
	f := &scriptedFetcher{results: []result{
		{data: "rich"},
		{err: &api.StatusError{Code: 500, Body: "oops"}},
	}}
	v := newView(nil, f)
	ctx := context.Background()

	st, _ := v.Mount(ctx, identity.Params{Email: "rich@zamanipay.test"})
	require.Equal(t, "rich", st.Data)

	st, _ = v.Mount(ctx, identity.Params{Email: "poor@zamanipay.test"})
	assert.Equal(t, Failed, st.Status)
	assert.False(t, st.HasData)
	assert.Empty(t, st.Data)
}

func TestRemountSameIdentityKeepsData(t *testing.T) {
	f := &scriptedFetcher{results: []result{
		{data: "first"},
		{err: &api.StatusError{Code: 500, Body: "oops"}},
	}}
	v := newView(nil, f)
	ctx := context.Background()

	_, _ = v.Mount(ctx, identity.Params{Email: "ada@zamanipay.test"})
	st, _ := v.Mount(ctx, identity.Params{Email: "ada@zamanipay.test"})
	assert.Equal(t, Failed, st.Status)
	assert.True(t, st.HasData)
	assert.Equal(t, "first", st.Data)
}

func TestLosingIdentityDropsData(t *testing.T) {
	v := newView(identity.NewMemoryStore(), &scriptedFetcher{results: []result{{data: "a"}}})
	ctx := context.Background()

	_, _ = v.Mount(ctx, identity.Params{Email: "a@b.co"})
	st, err := v.Mount(ctx, identity.Params{})
	require.NoError(t, err)
	assert.Equal(t, MsgNotLoggedIn, st.Message)
	assert.False(t, st.HasData)
}

func TestMountWithoutIdentityNeverFetches(t *testing.T) {
	f := &scriptedFetcher{results: []result{{data: "x"}}}
	v := newView(identity.NewMemoryStore(), f)

	st, err := v.Mount(context.Background(), identity.Params{})
	require.NoError(t, err)
	assert.Equal(t, Failed, st.Status)
	assert.Equal(t, MsgNotLoggedIn, st.Message)
	assert.ErrorIs(t, st.Err, identity.ErrNotLoggedIn)

	st, err = v.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Failed, st.Status)
	assert.Empty(t, f.seen)
}

func TestMountUsesCachedIdentity(t *testing.T) {
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), identity.Identity{Email: "ada@zamanipay.test", DisplayName: "Ada"}))

	f := &scriptedFetcher{results: []result{{data: "snapshot"}}}
	v := newView(store, f)

	st, err := v.Mount(context.Background(), identity.Params{})
	require.NoError(t, err)
	assert.Equal(t, Ready, st.Status)
	assert.Equal(t, "snapshot", st.Data)
	require.Len(t, f.seen, 1)
	assert.Equal(t, "ada@zamanipay.test", f.seen[0].Email)

	id, ok := v.Identity()
	assert.True(t, ok)
	assert.Equal(t, "Ada", id.DisplayName)
}

func TestFailureThenRetryRepeatsRequest(t *testing.T) {
	f := &scriptedFetcher{results: []result{
		{data: "first"},
		{err: &api.StatusError{Code: 500, Body: "oops"}},
		{data: "third"},
	}}
	v := newView(nil, f)
	ctx := context.Background()

	st, _ := v.Mount(ctx, identity.Params{Email: "ada@zamanipay.test"})
	assert.Equal(t, "first", st.Data)

	st, _ = v.Retry(ctx)
	assert.Equal(t, Failed, st.Status)
	assert.Equal(t, "first", st.Data, "prior state untouched on failure")
	assert.Equal(t, "Failed to fetch data: HTTP error: 500, Response: oops", st.Message)

	st, _ = v.Retry(ctx)
	assert.Equal(t, Ready, st.Status)
	assert.Equal(t, "third", st.Data)

	require.Len(t, f.seen, 3)
	assert.Equal(t, f.seen[0], f.seen[1])
	assert.Equal(t, f.seen[1], f.seen[2])
}

func TestRejectedMessageIsVerbatim(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"server message": {err: &api.RejectedError{Message: "User not found"}, want: "User not found"},
		"no message":     {err: &api.RejectedError{}, want: "Failed to load data"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := newView(nil, &scriptedFetcher{results: []result{{err: tc.err}}})
			st, _ := v.Mount(context.Background(), identity.Params{Email: "a@b.co"})
			assert.Equal(t, tc.want, st.Message)
		})
	}
}

func TestSecondLoadWhileInFlightIsBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	v := New[string](nil, func(ctx context.Context, _ identity.Identity) (string, error) {
		calls++
		close(started)
		<-release
		return "done", nil
	}, WithLogger(logging.Discard()))

	done := make(chan State[string])
	go func() {
		st, _ := v.Mount(context.Background(), identity.Params{Email: "a@b.co"})
		done <- st
	}()
	<-started

	_, err := v.Retry(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	st := <-done
	assert.Equal(t, Ready, st.Status)
	assert.Equal(t, 1, calls)
}

func TestSubscribeAndUpdate(t *testing.T) {
	v := newView(nil, &scriptedFetcher{results: []result{{data: "a"}}})

	var statuses []Status
	unsubscribe := v.Subscribe(func(s State[string]) { statuses = append(statuses, s.Status) })

	assert.False(t, v.Update(func(s string) string { return s + "!" }).HasData, "update before load is a no-op")

	_, _ = v.Mount(context.Background(), identity.Params{Email: "a@b.co"})
	st := v.Update(func(s string) string { return s + "!" })
	assert.Equal(t, "a!", st.Data)

	unsubscribe()
	_, _ = v.Retry(context.Background())

	assert.Equal(t, []Status{Loading, Ready, Ready}, statuses)
}
