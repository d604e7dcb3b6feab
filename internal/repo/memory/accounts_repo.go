package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jobdeck/jobdeck/internal/domain/account"
	"github.com/jobdeck/jobdeck/internal/repo/postgres"
)

type AccountsRepo struct {
	mu      sync.RWMutex
	byID    map[string]account.Account
	byEmail map[string]string
}

func NewAccountsRepo() *AccountsRepo {
	return &AccountsRepo{
		byID:    make(map[string]account.Account),
		byEmail: make(map[string]string),
	}
}

func (r *AccountsRepo) Create(ctx context.Context, email, passwordHash, fullName, role string) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return account.Account{}, postgres.ErrEmailTaken
	}

	now := time.Now().UTC()

	a := account.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID

	return a, nil
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]

	if !ok {
		return account.Account{}, account.ErrNotFound
	}

	return r.byID[id], nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]

	if !ok {
		return account.Account{}, account.ErrNotFound
	}

	return a, nil
}
