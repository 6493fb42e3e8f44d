package council

import (
	"time"

	"github.com/uptrace/bun"
)

// MemberModel maps to the 'council_members' table.
type MemberModel struct {
	bun.BaseModel `bun:"table:council_members,alias:cm"`
	DaoID         int64     `bun:"dao_id,pk"`
	Account       string    `bun:"account,pk,type:varchar(66)"`
	Position      int       `bun:"position,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}
