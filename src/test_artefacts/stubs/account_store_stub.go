package stubs

import (
	"context"
	"fmt"
	"sync"

	"accountgraph/src/domain"
	"accountgraph/src/domain/entities"
)

// AccountStoreStub é o account store em memória dos testes do engine:
// implementa o contrato de lookup sem banco.
type AccountStoreStub struct {
	mu       sync.RWMutex
	accounts map[int64]entities.Account
}

func NewAccountStoreStub() *AccountStoreStub {
	return &AccountStoreStub{accounts: make(map[int64]entities.Account)}
}

func (s *AccountStoreStub) Add(account entities.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = account
}

func (s *AccountStoreStub) Remove(accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.accounts, accountID)
}

func (s *AccountStoreStub) Exists(ctx context.Context, accountID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts[accountID]
	return ok, nil
}

func (s *AccountStoreStub) GetByID(ctx context.Context, accountID int64) (*entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("AccountStoreStub.GetByID - id %d: %w", accountID, domain.ErrAccountNotFound)
	}

	return &account, nil
}

func (s *AccountStoreStub) GetByIDs(ctx context.Context, accountIDs []int64) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Account, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		if account, ok := s.accounts[accountID]; ok {
			result = append(result, account)
		}
	}

	return result, nil
}
