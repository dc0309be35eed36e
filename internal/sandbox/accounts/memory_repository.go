package accounts

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryRepository builds an in-memory account store.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[string]Account)}
}

func (r *memoryRepository) Create(_ context.Context, acct Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[acct.Email]; exists {
		return ErrEmailTaken
	}
	r.accounts[acct.Email] = acct
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (r *memoryRepository) SetFingerprint(_ context.Context, email string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[email]
	if !ok {
		return ErrNotFound
	}
	acct.HasFingerprint = enabled
	r.accounts[email] = acct
	return nil
}
