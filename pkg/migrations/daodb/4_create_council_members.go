package daodb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/chainsafe/dao-governance/pkg/council"
	mghelper "github.com/chainsafe/dao-governance/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if err := mghelper.CreateSchema(ctx, db, &council.MemberModel{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &council.MemberModel{}, "account")
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &council.MemberModel{})
	})
}
