package dao

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/blake2b"
)

// AccountIDLength is the byte length of a ledger account identifier.
const AccountIDLength = 32

// accountPrefix tags module-owned accounts so they cannot collide with key-derived ones.
var accountPrefix = []byte("modl")

// AccountID identifies a ledger account.
type AccountID [AccountIDLength]byte

// PalletID is the 8-byte tag of the module that owns derived DAO accounts.
type PalletID [8]byte

// DefaultPalletID is used when configuration does not override it.
var DefaultPalletID = PalletID{'d', 'a', 'o', '/', 'g', 'o', 'v', '1'}

// ParsePalletID converts an ASCII tag of exactly 8 bytes.
func ParsePalletID(s string) (PalletID, error) {
	var p PalletID
	if len(s) != len(p) {
		return p, fmt.Errorf("pallet id must be %d bytes, got %d", len(p), len(s))
	}
	copy(p[:], s)
	return p, nil
}

// DeriveAccountID returns the account controlled by DAO id.
// The derivation is blake2b-256("modl" || pallet || u32le(id)), so it is defined for ids
// that do not exist yet and never changes for the lifetime of a DAO.
func DeriveAccountID(pallet PalletID, id ID) AccountID {
	buf := make([]byte, 0, len(accountPrefix)+len(pallet)+4)
	buf = append(buf, accountPrefix...)
	buf = append(buf, pallet[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(id))
	return blake2b.Sum256(buf)
}

// ParseAccountID parses a 0x-prefixed hex account identifier.
func ParseAccountID(s string) (AccountID, error) {
	var a AccountID
	raw, err := hexutil.Decode(s)
	if err != nil {
		return a, fmt.Errorf("invalid account id: %w", err)
	}
	if len(raw) != AccountIDLength {
		return a, fmt.Errorf("invalid account id: expected %d bytes, got %d", AccountIDLength, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// Bytes returns a copy of the raw account bytes.
func (a AccountID) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// IsZero reports whether a is the all-zero account.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

func (a AccountID) String() string {
	return hexutil.Encode(a[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccountID) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
