package auth

import (
	"context"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

type contextKey string

// ContextKeyAccount is the context key for the authenticated account.
const ContextKeyAccount contextKey = "account"

// WithAccount adds the authenticated account to the context
func WithAccount(ctx context.Context, account dao.AccountID) context.Context {
	return context.WithValue(ctx, ContextKeyAccount, account)
}

// AccountFromContext retrieves the authenticated account from the context
func AccountFromContext(ctx context.Context) (dao.AccountID, bool) {
	account, ok := ctx.Value(ContextKeyAccount).(dao.AccountID)
	return account, ok
}
