package memory

import (
	"context"
	"sync"

	domainuser "smartrent/internal/domain/user"
)

// UserRepository keeps accounts in memory, indexed by id and email.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return account, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepository) Save(ctx context.Context, account *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[account.Email]; ok && existingID != account.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	r.byID[account.ID] = account
	r.byEmail[account.Email] = account.ID
	return nil
}
