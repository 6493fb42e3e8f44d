package daodb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/chainsafe/dao-governance/pkg/daostore"
	mghelper "github.com/chainsafe/dao-governance/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if err := mghelper.CreateSchema(ctx, db, &daostore.PolicyModel{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &daostore.PolicyModel{}, "prime_account")
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &daostore.PolicyModel{})
	})
}
