// Package council keeps the membership set of every DAO and initialises it on
// behalf of the DAO module through dao.CouncilProvider.
package council

import (
	"context"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

// Store persists council membership keyed by DAO id.
type Store interface {
	// Members returns the members of daoID in stored order, or an empty slice.
	Members(ctx context.Context, daoID dao.ID) ([]dao.AccountID, error)
	// ReplaceMembers atomically swaps the member set of daoID.
	ReplaceMembers(ctx context.Context, daoID dao.ID, members []dao.AccountID) error
}
