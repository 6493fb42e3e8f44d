package service

import (
	"context"
	"errors"

	"github.com/chainsafe/dao-governance/pkg/dao"
	"github.com/chainsafe/dao-governance/pkg/daostore"
)

var _ dao.DaoProvider = (*Provider)(nil)

// Provider exposes stored DAOs to other modules through dao.DaoProvider.
type Provider struct {
	store  daostore.DaoStore
	pallet dao.PalletID
}

// NewProvider creates a DaoProvider reading from store. pallet must match the one
// DAOs were created with.
func NewProvider(store daostore.DaoStore, pallet dao.PalletID) *Provider {
	return &Provider{store: store, pallet: pallet}
}

func (p *Provider) Exists(ctx context.Context, id dao.ID) (bool, error) {
	return p.store.DaoExists(ctx, id)
}

func (p *Provider) AccountID(id dao.ID) dao.AccountID {
	return dao.DeriveAccountID(p.pallet, id)
}

func (p *Provider) Policy(ctx context.Context, id dao.ID) (*dao.Policy, error) {
	policy, err := p.store.GetPolicy(ctx, id)
	if errors.Is(err, daostore.ErrPolicyNotFound) {
		return nil, nil
	}
	return policy, err
}

func (p *Provider) Count(ctx context.Context) (uint32, error) {
	return p.store.CountDaos(ctx)
}
