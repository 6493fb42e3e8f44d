package council

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

var _ Store = (*pgStore)(nil)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the council store.
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) Members(ctx context.Context, daoID dao.ID) ([]dao.AccountID, error) {
	var rows []MemberModel
	err := s.db.NewSelect().
		Model(&rows).
		Where("dao_id = ?", int64(daoID)).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list council members: %w", err)
	}

	members := make([]dao.AccountID, 0, len(rows))
	for i := range rows {
		account, err := dao.ParseAccountID(rows[i].Account)
		if err != nil {
			return nil, fmt.Errorf("council member of dao %d: %w", daoID, err)
		}
		members = append(members, account)
	}
	return members, nil
}

func (s *pgStore) ReplaceMembers(ctx context.Context, daoID dao.ID, members []dao.AccountID) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*MemberModel)(nil)).
			Where("dao_id = ?", int64(daoID)).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear council members: %w", err)
		}
		if len(members) == 0 {
			return nil
		}

		rows := make([]MemberModel, len(members))
		for i, m := range members {
			rows[i] = MemberModel{DaoID: int64(daoID), Account: m.String(), Position: i}
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert council members: %w", err)
		}
		return nil
	})
}
