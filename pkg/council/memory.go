package council

import (
	"context"
	"slices"
	"sync"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	members map[dao.ID][]dao.AccountID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory council store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{members: make(map[dao.ID][]dao.AccountID)}
}

func (s *MemoryStore) Members(_ context.Context, daoID dao.ID) ([]dao.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]dao.AccountID{}, s.members[daoID]...), nil
}

func (s *MemoryStore) ReplaceMembers(_ context.Context, daoID dao.ID, members []dao.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(members) == 0 {
		delete(s.members, daoID)
		return nil
	}
	s.members[daoID] = slices.Clone(members)
	return nil
}
