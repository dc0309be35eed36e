package identity

import (
	"context"
	"errors"
	"fmt"
)

// DefaultDisplayName is shown when neither navigation nor the cache carries a name.
const DefaultDisplayName = "User"

// Params are the identity fields a screen may receive through navigation.
type Params struct {
	Email    string
	FullName string
	UserID   string
}

// Params converts the identity into navigation parameters.
func (i Identity) Params() Params {
	return Params{Email: i.Email, FullName: i.DisplayName, UserID: i.UserID}
}

// Resolve returns the identity from navigation params when they carry an
// email, otherwise the cached record. It never retries the cache read.
func Resolve(ctx context.Context, params Params, store Store) (Identity, error) {
	if params.Email != "" {
		return withDefaults(Identity{Email: params.Email, DisplayName: params.FullName, UserID: params.UserID}), nil
	}
	if store == nil {
		return Identity{}, ErrNotLoggedIn
	}

	cached, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			return Identity{}, ErrNotLoggedIn
		}
		return Identity{}, fmt.Errorf("load cached identity: %w", err)
	}
	if cached.Validate() != nil {
		return Identity{}, ErrNotLoggedIn
	}
	return withDefaults(cached), nil
}

func withDefaults(id Identity) Identity {
	if id.DisplayName == "" {
		id.DisplayName = DefaultDisplayName
	}
	return id
}
