package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/chainsafe/dao-governance/pkg/council"
	"github.com/chainsafe/dao-governance/pkg/dao"
	"github.com/chainsafe/dao-governance/pkg/daostore"
)

var founder = dao.AccountID{0xf0, 0x0d}

// councilFunc adapts a function to dao.CouncilProvider.
type councilFunc func(ctx context.Context, daoID dao.ID, members []dao.AccountID) error

func (f councilFunc) InitializeMembers(ctx context.Context, daoID dao.ID, members []dao.AccountID) error {
	return f(ctx, daoID, members)
}

// nextIDStore overrides id allocation of the wrapped store.
type nextIDStore struct {
	daostore.Store
	next func(ctx context.Context) (dao.ID, error)
}

func (s *nextIDStore) NextDaoID(ctx context.Context) (dao.ID, error) {
	return s.next(ctx)
}

type fixture struct {
	store   *daostore.MemoryStore
	members *council.MemoryStore
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	opts := DefaultOptions()
	f := &fixture{
		store:   daostore.NewMemoryStore(opts.Limits),
		members: council.NewMemoryStore(),
	}
	f.svc = NewService(f.store, council.NewProvider(f.members, zap.NewNop()), opts, zap.NewNop())
	return f
}

func payloadJSON(name, token string) string {
	return fmt.Sprintf(`{
		"name": %q,
		"purpose": "Build",
		"metadata": "",
		%s,
		"policy": {"proposal_bond": 100, "proposal_bond_min": "1000", "proposal_period": 86400000}
	}`, name, token)
}

func existingTokenJSON(id uint32) string {
	return fmt.Sprintf(`"token_id": %d`, id)
}

func newTokenJSON(id uint32) string {
	return fmt.Sprintf(`"token": {
		"token_id": %d,
		"metadata": {"name": "Acme Gov", "symbol": "ACME", "decimals": 12},
		"min_balance": "1500000000000"
	}`, id)
}

func decodePayload(t *testing.T, raw string) *dao.Payload {
	t.Helper()
	p, err := dao.DecodePayload([]byte(raw))
	if err != nil {
		t.Fatalf("DecodePayload() failed: %v", err)
	}
	return p
}

func longName() string {
	return strings.Repeat("a", 100)
}
