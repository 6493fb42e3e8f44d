package dao

// ID identifies a DAO.
type ID uint32

// TokenID identifies a governance token (ledger asset).
type TokenID uint32

// Dao is the durable aggregate stored for every created DAO.
// Founder is the creating account and may differ from current administrators.
// AccountID is derived from ID and stable for the DAO's lifetime.
type Dao struct {
	ID        ID
	Founder   AccountID
	AccountID AccountID
	TokenID   TokenID
	Config    Config
}

// New builds a Dao, deriving its account from pallet and id.
func New(pallet PalletID, id ID, founder AccountID, tokenID TokenID, cfg Config) *Dao {
	return &Dao{
		ID:        id,
		Founder:   founder,
		AccountID: DeriveAccountID(pallet, id),
		TokenID:   tokenID,
		Config:    cfg,
	}
}
