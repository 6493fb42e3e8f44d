package dao

import "context"

// DaoProvider gives other modules read access to DAOs without depending on the
// module that stores them.
type DaoProvider interface {
	// Exists reports whether a DAO with id has been created.
	Exists(ctx context.Context, id ID) (bool, error)
	// AccountID returns the DAO's derived account. It is defined for any id,
	// whether or not the DAO exists.
	AccountID(id ID) AccountID
	// Policy returns the DAO's policy, or nil when none is stored.
	Policy(ctx context.Context, id ID) (*Policy, error)
	// Count returns the number of DAOs created.
	Count(ctx context.Context) (uint32, error)
}

// CouncilProvider initialises the membership set of a newly created DAO.
type CouncilProvider interface {
	// InitializeMembers sets the members of daoID. Calling it again with the same set,
	// in any order, leaves membership unchanged.
	InitializeMembers(ctx context.Context, daoID ID, members []AccountID) error
}
