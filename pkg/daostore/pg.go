package daostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

const pgUniqueViolation = "23505"

var _ Store = (*pgStore)(nil)

type pgStore struct {
	db     *bun.DB
	limits dao.Limits
}

// NewStore creates a new postgres implementation of the DAO store.
// limits are re-applied when decoding stored configs.
func NewStore(db *bun.DB, limits dao.Limits) *pgStore {
	return &pgStore{db: db, limits: limits}
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation
}

func (s *pgStore) CreateDao(ctx context.Context, d *dao.Dao, p *dao.Policy) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(toDaoModel(d)).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("dao %d: %w", d.ID, ErrDaoExists)
			}
			return fmt.Errorf("failed to create dao: %w", err)
		}
		if _, err := tx.NewInsert().Model(toPolicyModel(d.ID, p)).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create policy: %w", err)
		}
		return nil
	})
}

func (s *pgStore) GetDao(ctx context.Context, id dao.ID) (*dao.Dao, error) {
	m := new(DaoModel)
	err := s.db.NewSelect().
		Model(m).
		Where("id = ?", int64(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDaoNotFound
		}
		return nil, fmt.Errorf("failed to get dao: %w", err)
	}
	return toDao(m, s.limits)
}

func (s *pgStore) DaoExists(ctx context.Context, id dao.ID) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*DaoModel)(nil)).
		Where("id = ?", int64(id)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check dao exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) GetPolicy(ctx context.Context, id dao.ID) (*dao.Policy, error) {
	m := new(PolicyModel)
	err := s.db.NewSelect().
		Model(m).
		Where("dao_id = ?", int64(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return toPolicy(m)
}

func (s *pgStore) CountDaos(ctx context.Context) (uint32, error) {
	n, err := s.db.NewSelect().
		Model((*DaoModel)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count daos: %w", err)
	}
	return uint32(n), nil
}

func (s *pgStore) NextDaoID(ctx context.Context) (dao.ID, error) {
	var next int64
	err := s.db.NewSelect().
		Model((*DaoModel)(nil)).
		ColumnExpr("COALESCE(MAX(id) + 1, 0)").
		Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next dao id: %w", err)
	}
	if next > int64(^uint32(0)) {
		return 0, fmt.Errorf("dao id space exhausted")
	}
	return dao.ID(next), nil
}

func (s *pgStore) DeleteDao(ctx context.Context, id dao.ID) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PolicyModel)(nil)).
			Where("dao_id = ?", int64(id)).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete policy: %w", err)
		}
		res, err := tx.NewDelete().
			Model((*DaoModel)(nil)).
			Where("id = ?", int64(id)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete dao: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrDaoNotFound
		}
		return nil
	})
}

func (s *pgStore) CreateToken(ctx context.Context, t *dao.GovernanceToken) error {
	_, err := s.db.NewInsert().
		Model(toTokenModel(t)).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("token %d: %w", t.TokenID, ErrTokenExists)
		}
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (s *pgStore) GetToken(ctx context.Context, id dao.TokenID) (*dao.GovernanceToken, error) {
	m := new(TokenModel)
	err := s.db.NewSelect().
		Model(m).
		Where("token_id = ?", int64(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return toToken(m)
}

func (s *pgStore) TokenExists(ctx context.Context, id dao.TokenID) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*TokenModel)(nil)).
		Where("token_id = ?", int64(id)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check token exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) DeleteToken(ctx context.Context, id dao.TokenID) error {
	res, err := s.db.NewDelete().
		Model((*TokenModel)(nil)).
		Where("token_id = ?", int64(id)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
