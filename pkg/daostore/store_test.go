package daostore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/dao-governance/pkg/dao"
	"github.com/chainsafe/dao-governance/pkg/scalar"
)

var testFounder = dao.AccountID{0xaa, 0xbb}

func newTestDao(t *testing.T, id dao.ID, name string) (*dao.Dao, *dao.Policy) {
	t.Helper()

	cfg, err := dao.NewConfig([]byte(name), []byte("Build"), []byte{}, dao.DefaultLimits())
	require.NoError(t, err)

	bondMax := scalar.NewU128(5000)
	policy := &dao.Policy{
		ProposalBond:    100,
		ProposalBondMin: scalar.NewU128(1000),
		ProposalBondMax: &bondMax,
		ProposalPeriod:  86_400_000,
		PrimeAccount:    testFounder,
		ApproveOrigin:   dao.Ratio{Num: 1, Den: 2},
		RejectOrigin:    dao.Ratio{Num: 2, Den: 3},
	}
	return dao.New(dao.DefaultPalletID, id, testFounder, 7, cfg), policy
}

// runStoreSuite exercises the behaviour every Store implementation shares.
func runStoreSuite(t *testing.T, ctx context.Context, s Store) {
	t.Run("empty", func(t *testing.T) {
		n, err := s.CountDaos(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		next, err := s.NextDaoID(ctx)
		require.NoError(t, err)
		assert.Equal(t, dao.ID(0), next)

		_, err = s.GetDao(ctx, 0)
		assert.ErrorIs(t, err, ErrDaoNotFound)
		_, err = s.GetPolicy(ctx, 0)
		assert.ErrorIs(t, err, ErrPolicyNotFound)
	})

	t.Run("create and read", func(t *testing.T) {
		d, p := newTestDao(t, 0, "Acme")
		require.NoError(t, s.CreateDao(ctx, d, p))

		got, err := s.GetDao(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
		assert.Equal(t, d.Founder, got.Founder)
		assert.Equal(t, d.AccountID, got.AccountID)
		assert.Equal(t, d.TokenID, got.TokenID)
		assert.True(t, d.Config.Equal(got.Config))

		gotPolicy, err := s.GetPolicy(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, dao.EncodePolicy(p), dao.EncodePolicy(gotPolicy))

		exists, err := s.DaoExists(ctx, 0)
		require.NoError(t, err)
		assert.True(t, exists)

		n, err := s.CountDaos(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), n)

		next, err := s.NextDaoID(ctx)
		require.NoError(t, err)
		assert.Equal(t, dao.ID(1), next)
	})

	t.Run("duplicate id", func(t *testing.T) {
		d, p := newTestDao(t, 0, "Other")
		err := s.CreateDao(ctx, d, p)
		assert.ErrorIs(t, err, ErrDaoExists)

		got, err := s.GetDao(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Config.Name.String())
	})

	t.Run("delete removes policy", func(t *testing.T) {
		d, p := newTestDao(t, 1, "Second")
		require.NoError(t, s.CreateDao(ctx, d, p))
		require.NoError(t, s.DeleteDao(ctx, 1))

		exists, err := s.DaoExists(ctx, 1)
		require.NoError(t, err)
		assert.False(t, exists)
		_, err = s.GetPolicy(ctx, 1)
		assert.ErrorIs(t, err, ErrPolicyNotFound)

		assert.ErrorIs(t, s.DeleteDao(ctx, 1), ErrDaoNotFound)
	})

	t.Run("tokens", func(t *testing.T) {
		tok := &dao.GovernanceToken{
			TokenID:    11,
			Metadata:   dao.TokenMetadata{Name: []byte("Acme Gov"), Symbol: []byte("ACME"), Decimals: 12},
			MinBalance: scalar.MaxU128,
		}
		exists, err := s.TokenExists(ctx, 11)
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, s.CreateToken(ctx, tok))
		err = s.CreateToken(ctx, tok)
		if !errors.Is(err, ErrTokenExists) {
			t.Fatalf("expected ErrTokenExists, got %v", err)
		}

		got, err := s.GetToken(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, tok.Metadata.Name, got.Metadata.Name)
		assert.Equal(t, tok.Metadata.Symbol, got.Metadata.Symbol)
		assert.Equal(t, tok.Metadata.Decimals, got.Metadata.Decimals)
		assert.Equal(t, scalar.MaxU128, got.MinBalance)

		_, err = s.GetToken(ctx, 12)
		assert.ErrorIs(t, err, ErrTokenNotFound)

		require.NoError(t, s.DeleteToken(ctx, 11))
		exists, err = s.TokenExists(ctx, 11)
		require.NoError(t, err)
		assert.False(t, exists)
		assert.ErrorIs(t, s.DeleteToken(ctx, 11), ErrTokenNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, context.Background(), NewMemoryStore(dao.DefaultLimits()))
}

func TestMemoryStore_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(dao.DefaultLimits())

	tok := &dao.GovernanceToken{TokenID: 1, Metadata: dao.TokenMetadata{Name: []byte("a"), Symbol: []byte("b")}}
	require.NoError(t, s.CreateToken(ctx, tok))
	tok.Metadata.Name[0] = 'z'

	got, err := s.GetToken(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got.Metadata.Name)

	got.Metadata.Symbol[0] = 'z'
	again, err := s.GetToken(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), again.Metadata.Symbol)

	d, p := newTestDao(t, 3, "Acme")
	require.NoError(t, s.CreateDao(ctx, d, p))
	*p.ProposalBondMax = scalar.NewU128(1)
	gotPolicy, err := s.GetPolicy(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, scalar.NewU128(5000), *gotPolicy.ProposalBondMax)
}

func TestMemoryStore_NextDaoIDFollowsHighest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(dao.DefaultLimits())

	d, p := newTestDao(t, 41, "Acme")
	require.NoError(t, s.CreateDao(ctx, d, p))

	next, err := s.NextDaoID(ctx)
	require.NoError(t, err)
	assert.Equal(t, dao.ID(42), next)
}

func TestMemoryStore_DecodeUsesLimits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(dao.DefaultLimits())
	d, p := newTestDao(t, 0, "Acme Corporation")
	require.NoError(t, s.CreateDao(ctx, d, p))

	// tighter limits reject stored data that no longer fits
	s.limits = dao.Limits{MaxStringLength: 4, MaxMetadataLength: 4}
	_, err := s.GetDao(ctx, 0)
	assert.ErrorIs(t, err, dao.ErrTooLong)
}
