package daostore

import (
	"context"
	"fmt"
	"sync"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

// MemoryStore is an in-memory Store. DAOs and policies are held in their encoded
// form, so every read returns a fresh copy.
type MemoryStore struct {
	mu       sync.RWMutex
	limits   dao.Limits
	daos     map[dao.ID][]byte
	policies map[dao.ID][]byte
	tokens   map[dao.TokenID]dao.GovernanceToken
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(limits dao.Limits) *MemoryStore {
	return &MemoryStore{
		limits:   limits,
		daos:     make(map[dao.ID][]byte),
		policies: make(map[dao.ID][]byte),
		tokens:   make(map[dao.TokenID]dao.GovernanceToken),
	}
}

func (s *MemoryStore) CreateDao(_ context.Context, d *dao.Dao, p *dao.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.daos[d.ID]; exists {
		return fmt.Errorf("dao %d: %w", d.ID, ErrDaoExists)
	}
	s.daos[d.ID] = dao.EncodeDao(d)
	s.policies[d.ID] = dao.EncodePolicy(p)
	return nil
}

func (s *MemoryStore) GetDao(_ context.Context, id dao.ID) (*dao.Dao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, exists := s.daos[id]
	if !exists {
		return nil, ErrDaoNotFound
	}
	return dao.DecodeDao(id, raw, s.limits)
}

func (s *MemoryStore) DaoExists(_ context.Context, id dao.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.daos[id]
	return exists, nil
}

func (s *MemoryStore) GetPolicy(_ context.Context, id dao.ID) (*dao.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, exists := s.policies[id]
	if !exists {
		return nil, ErrPolicyNotFound
	}
	return dao.DecodePolicy(raw)
}

func (s *MemoryStore) CountDaos(_ context.Context) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint32(len(s.daos)), nil
}

func (s *MemoryStore) NextDaoID(_ context.Context) (dao.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var next uint64
	for id := range s.daos {
		if uint64(id)+1 > next {
			next = uint64(id) + 1
		}
	}
	if next > uint64(^uint32(0)) {
		return 0, fmt.Errorf("dao id space exhausted")
	}
	return dao.ID(next), nil
}

func (s *MemoryStore) DeleteDao(_ context.Context, id dao.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.daos[id]; !exists {
		return ErrDaoNotFound
	}
	delete(s.daos, id)
	delete(s.policies, id)
	return nil
}

func (s *MemoryStore) CreateToken(_ context.Context, t *dao.GovernanceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[t.TokenID]; exists {
		return fmt.Errorf("token %d: %w", t.TokenID, ErrTokenExists)
	}
	s.tokens[t.TokenID] = copyToken(t)
	return nil
}

func (s *MemoryStore) GetToken(_ context.Context, id dao.TokenID) (*dao.GovernanceToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tokens[id]
	if !exists {
		return nil, ErrTokenNotFound
	}
	c := copyToken(&t)
	return &c, nil
}

func (s *MemoryStore) TokenExists(_ context.Context, id dao.TokenID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.tokens[id]
	return exists, nil
}

func (s *MemoryStore) DeleteToken(_ context.Context, id dao.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[id]; !exists {
		return ErrTokenNotFound
	}
	delete(s.tokens, id)
	return nil
}

func copyToken(t *dao.GovernanceToken) dao.GovernanceToken {
	c := *t
	c.Metadata.Name = append([]byte{}, t.Metadata.Name...)
	c.Metadata.Symbol = append([]byte{}, t.Metadata.Symbol...)
	return c
}
