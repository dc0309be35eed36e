// Package identity caches the signed-in user's identity on the device and
// resolves it for screens that were opened without navigation parameters.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StorageKey is the well-known key the identity record lives under.
const StorageKey = "userData"

var (
	// ErrNotLoggedIn is returned when no identity record is stored.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrMissingEmail rejects records that cannot authenticate any request.
	ErrMissingEmail = errors.New("identity email is required")
)

// Identity is the minimal record identifying the logged-in user.
type Identity struct {
	Email       string `json:"email"`
	DisplayName string `json:"full_name"`
	UserID      string `json:"user_id"`
}

// Validate reports whether the identity can be used for authenticated requests.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}

// Store persists a single Identity. Implementations must make Save an atomic
// replace so Load never observes a partial record.
type Store interface {
	Load(ctx context.Context) (Identity, error)
	Save(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}

func encode(id Identity) ([]byte, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(id)
}

func decode(data []byte) (Identity, error) {
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return id, nil
}
