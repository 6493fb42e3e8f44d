package daostore

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/dao-governance/pkg/dao"
	"github.com/chainsafe/dao-governance/pkg/scalar"
)

// DaoModel maps to the 'daos' table. The bounded fields are kept as columns for
// querying; Encoded is the canonical encoding and is what reads decode.
type DaoModel struct {
	bun.BaseModel `bun:"table:daos,alias:d"`
	ID            int64     `bun:"id,pk"`
	Founder       string    `bun:"founder,notnull,type:varchar(66)"`
	AccountID     string    `bun:"account_id,unique,notnull,type:varchar(66)"`
	TokenID       int64     `bun:"token_id,notnull"`
	Name          []byte    `bun:"name,notnull,type:bytea"`
	Purpose       []byte    `bun:"purpose,notnull,type:bytea"`
	Metadata      []byte    `bun:"metadata,notnull,type:bytea"`
	Encoded       []byte    `bun:"encoded,notnull,type:bytea"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// PolicyModel maps to the 'dao_policies' table.
type PolicyModel struct {
	bun.BaseModel   `bun:"table:dao_policies,alias:p"`
	DaoID           int64     `bun:"dao_id,pk"`
	ProposalBond    int64     `bun:"proposal_bond,notnull"`
	ProposalBondMin string    `bun:"proposal_bond_min,notnull,type:numeric(39,0)"`
	ProposalBondMax *string   `bun:"proposal_bond_max,type:numeric(39,0)"`
	ProposalPeriod  int64     `bun:"proposal_period,notnull"`
	PrimeAccount    string    `bun:"prime_account,notnull,type:varchar(66)"`
	ApproveNum      int64     `bun:"approve_num,notnull"`
	ApproveDen      int64     `bun:"approve_den,notnull"`
	RejectNum       int64     `bun:"reject_num,notnull"`
	RejectDen       int64     `bun:"reject_den,notnull"`
	Encoded         []byte    `bun:"encoded,notnull,type:bytea"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// TokenModel maps to the 'governance_tokens' table.
type TokenModel struct {
	bun.BaseModel `bun:"table:governance_tokens,alias:gt"`
	TokenID       int64     `bun:"token_id,pk"`
	Name          []byte    `bun:"name,notnull,type:bytea"`
	Symbol        []byte    `bun:"symbol,notnull,type:bytea"`
	Decimals      int16     `bun:"decimals,notnull"`
	MinBalance    string    `bun:"min_balance,notnull,type:numeric(39,0)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toDaoModel(d *dao.Dao) *DaoModel {
	return &DaoModel{
		ID:        int64(d.ID),
		Founder:   d.Founder.String(),
		AccountID: d.AccountID.String(),
		TokenID:   int64(d.TokenID),
		Name:      d.Config.Name.Bytes(),
		Purpose:   d.Config.Purpose.Bytes(),
		Metadata:  d.Config.Metadata.Bytes(),
		Encoded:   dao.EncodeDao(d),
	}
}

func toDao(m *DaoModel, limits dao.Limits) (*dao.Dao, error) {
	d, err := dao.DecodeDao(dao.ID(m.ID), m.Encoded, limits)
	if err != nil {
		return nil, fmt.Errorf("dao %d: %w", m.ID, err)
	}
	return d, nil
}

func toPolicyModel(id dao.ID, p *dao.Policy) *PolicyModel {
	m := &PolicyModel{
		DaoID:           int64(id),
		ProposalBond:    int64(p.ProposalBond),
		ProposalBondMin: p.ProposalBondMin.String(),
		ProposalPeriod:  int64(p.ProposalPeriod),
		PrimeAccount:    p.PrimeAccount.String(),
		ApproveNum:      int64(p.ApproveOrigin.Num),
		ApproveDen:      int64(p.ApproveOrigin.Den),
		RejectNum:       int64(p.RejectOrigin.Num),
		RejectDen:       int64(p.RejectOrigin.Den),
		Encoded:         dao.EncodePolicy(p),
	}
	if p.ProposalBondMax != nil {
		s := p.ProposalBondMax.String()
		m.ProposalBondMax = &s
	}
	return m
}

func toPolicy(m *PolicyModel) (*dao.Policy, error) {
	p, err := dao.DecodePolicy(m.Encoded)
	if err != nil {
		return nil, fmt.Errorf("policy of dao %d: %w", m.DaoID, err)
	}
	return p, nil
}

func toTokenModel(t *dao.GovernanceToken) *TokenModel {
	return &TokenModel{
		TokenID:    int64(t.TokenID),
		Name:       append([]byte{}, t.Metadata.Name...),
		Symbol:     append([]byte{}, t.Metadata.Symbol...),
		Decimals:   int16(t.Metadata.Decimals),
		MinBalance: t.MinBalance.String(),
	}
}

func toToken(m *TokenModel) (*dao.GovernanceToken, error) {
	minBalance, err := scalar.StringToU128(m.MinBalance)
	if err != nil {
		return nil, fmt.Errorf("token %d min_balance: %w", m.TokenID, err)
	}
	return &dao.GovernanceToken{
		TokenID: dao.TokenID(m.TokenID),
		Metadata: dao.TokenMetadata{
			Name:     m.Name,
			Symbol:   m.Symbol,
			Decimals: uint8(m.Decimals),
		},
		MinBalance: minBalance,
	}, nil
}
