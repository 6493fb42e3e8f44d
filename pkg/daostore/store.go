package daostore

import (
	"context"
	"errors"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

var (
	// ErrDaoNotFound is returned when no DAO is stored under the requested id.
	ErrDaoNotFound = errors.New("dao not found")
	// ErrDaoExists is returned when a DAO id is already taken.
	ErrDaoExists = errors.New("dao already exists")
	// ErrPolicyNotFound is returned when a DAO has no stored policy.
	ErrPolicyNotFound = errors.New("policy not found")
	// ErrTokenNotFound is returned when a governance token lookup finds nothing.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenExists is returned when minting a token id that is already registered.
	ErrTokenExists = errors.New("token already exists")
)

// Store persists DAOs, their policies, and governance tokens.
type Store interface {
	DaoStore
	TokenStore
}

// DaoStore holds the DAO aggregate and its policy, both keyed by DAO id.
type DaoStore interface {
	// CreateDao stores d and p atomically.
	CreateDao(ctx context.Context, d *dao.Dao, p *dao.Policy) error
	GetDao(ctx context.Context, id dao.ID) (*dao.Dao, error)
	DaoExists(ctx context.Context, id dao.ID) (bool, error)
	GetPolicy(ctx context.Context, id dao.ID) (*dao.Policy, error)
	CountDaos(ctx context.Context) (uint32, error)
	// NextDaoID returns the id the next created DAO should use.
	NextDaoID(ctx context.Context) (dao.ID, error)
	// DeleteDao removes a DAO together with its policy.
	DeleteDao(ctx context.Context, id dao.ID) error
}

// TokenStore holds governance tokens minted alongside DAOs.
type TokenStore interface {
	CreateToken(ctx context.Context, t *dao.GovernanceToken) error
	GetToken(ctx context.Context, id dao.TokenID) (*dao.GovernanceToken, error)
	TokenExists(ctx context.Context, id dao.TokenID) (bool, error)
	// DeleteToken removes a token minted by a creation that was later abandoned.
	DeleteToken(ctx context.Context, id dao.TokenID) error
}
