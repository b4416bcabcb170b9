package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It is used when no
// database is configured and by tests.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]Account
	byEmail map[string]uuid.UUID
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) CreateLocalAccount(_ context.Context, in NewLocalAccount, now time.Time) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[in.Email]; taken {
		return Account{}, ErrAccountExists
	}

	hash := in.PasswordHash
	account := Account{
		ID:           uuid.New(),
		Email:        in.Email,
		Name:         clonePtr(in.Name),
		Provider:     providerLocal,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[account.ID] = account
	m.byEmail[account.Email] = account.ID
	return cloneAccount(account), nil
}

func (m *MemoryRepository) GetLocalAccountByEmail(_ context.Context, email string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	account := m.byID[id]
	if account.Provider != providerLocal {
		return Account{}, ErrNotFound
	}
	return cloneAccount(account), nil
}

func (m *MemoryRepository) RecordLogin(_ context.Context, accountID uuid.UUID, now time.Time) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[accountID]
	if !ok {
		return Account{}, ErrNotFound
	}
	account.LastLoginAt = &now
	account.UpdatedAt = now
	m.byID[accountID] = account
	return cloneAccount(account), nil
}

func (m *MemoryRepository) UpsertFederatedAccount(_ context.Context, in FederatedLogin, now time.Time) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.byID {
		if other.ProviderSubject != nil && *other.ProviderSubject == in.Subject && other.Email != in.Email {
			return Account{}, ErrAccountExists
		}
	}

	subject := in.Subject
	if id, ok := m.byEmail[in.Email]; ok {
		account := m.byID[id]
		if nonBlank(in.Name) {
			account.Name = clonePtr(in.Name)
		}
		if nonBlank(in.Picture) {
			account.Picture = clonePtr(in.Picture)
		}
		account.Provider = providerGoogle
		account.ProviderSubject = &subject
		account.LastLoginAt = &now
		account.UpdatedAt = now
		m.byID[id] = account
		return cloneAccount(account), nil
	}

	account := Account{
		ID:              uuid.New(),
		Email:           in.Email,
		Name:            clonePtr(in.Name),
		Provider:        providerGoogle,
		ProviderSubject: &subject,
		Picture:         clonePtr(in.Picture),
		CreatedAt:       now,
		UpdatedAt:       now,
		LastLoginAt:     &now,
	}
	m.byID[account.ID] = account
	m.byEmail[account.Email] = account.ID
	return cloneAccount(account), nil
}

func (m *MemoryRepository) GetAccountByID(_ context.Context, accountID uuid.UUID) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.byID[accountID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return cloneAccount(account), nil
}

func nonBlank(s *string) bool {
	return s != nil && *s != ""
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAccount(a Account) Account {
	a.Name = clonePtr(a.Name)
	a.Picture = clonePtr(a.Picture)
	a.ProviderSubject = clonePtr(a.ProviderSubject)
	a.PasswordHash = clonePtr(a.PasswordHash)
	a.LastLoginAt = clonePtr(a.LastLoginAt)
	return a
}
