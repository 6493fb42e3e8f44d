package dao

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chainsafe/dao-governance/pkg/scalar"
)

// The encoding is SCALE-compatible: little-endian fixed-width integers, compact length
// prefixes for byte vectors, a 0/1 tag byte for optional values, raw 32-byte accounts.
// Decoders reject non-canonical prefixes and trailing bytes so that every logical value
// has exactly one encoding.

// ErrCorruptEncoding is returned when stored bytes cannot be decoded.
var ErrCorruptEncoding = errors.New("corrupt encoding")

// DaoMaxEncodedLen is the worst-case encoded size of a Dao under l.
func (l Limits) DaoMaxEncodedLen() int {
	return 2*AccountIDLength + 4 + l.ConfigMaxEncodedLen()
}

// EncodeConfig returns the canonical encoding of c.
func EncodeConfig(c Config) []byte {
	e := make(encoder, 0, c.Name.Len()+c.Purpose.Len()+c.Metadata.Len()+6)
	e = e.appendConfig(c)
	return e
}

// DecodeConfig decodes b, re-checking every field against limits.
func DecodeConfig(b []byte, limits Limits) (Config, error) {
	d := decoder{buf: b}
	c, err := d.config(limits)
	if err != nil {
		return Config{}, err
	}
	if err := d.finish(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// EncodePolicy returns the canonical encoding of p.
func EncodePolicy(p *Policy) []byte {
	e := make(encoder, 0, PolicyMaxEncodedLen)
	e = e.appendU32(uint32(p.ProposalBond))
	e = e.appendU128(p.ProposalBondMin)
	if p.ProposalBondMax == nil {
		e = append(e, 0)
	} else {
		e = append(e, 1)
		e = e.appendU128(*p.ProposalBondMax)
	}
	e = e.appendU32(p.ProposalPeriod)
	e = append(e, p.PrimeAccount[:]...)
	e = e.appendU32(p.ApproveOrigin.Num).appendU32(p.ApproveOrigin.Den)
	e = e.appendU32(p.RejectOrigin.Num).appendU32(p.RejectOrigin.Den)
	return e
}

// DecodePolicy decodes and validates a stored policy.
func DecodePolicy(b []byte) (*Policy, error) {
	d := decoder{buf: b}
	p := &Policy{}

	bond, err := d.u32()
	if err != nil {
		return nil, err
	}
	p.ProposalBond = Permill(bond)
	if p.ProposalBondMin, err = d.u128(); err != nil {
		return nil, err
	}
	hasMax, err := d.option()
	if err != nil {
		return nil, err
	}
	if hasMax {
		m, err := d.u128()
		if err != nil {
			return nil, err
		}
		p.ProposalBondMax = &m
	}
	if p.ProposalPeriod, err = d.u32(); err != nil {
		return nil, err
	}
	if p.PrimeAccount, err = d.account(); err != nil {
		return nil, err
	}
	if p.ApproveOrigin, err = d.ratio(); err != nil {
		return nil, err
	}
	if p.RejectOrigin, err = d.ratio(); err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptEncoding, err)
	}
	return p, nil
}

// EncodeDao returns the canonical encoding of d. The DAO id is the storage key and is
// not part of the encoding.
func EncodeDao(d *Dao) []byte {
	e := make(encoder, 0, 2*AccountIDLength+4+d.Config.Name.Len()+d.Config.Purpose.Len()+d.Config.Metadata.Len()+6)
	e = append(e, d.Founder[:]...)
	e = append(e, d.AccountID[:]...)
	e = e.appendU32(uint32(d.TokenID))
	e = e.appendConfig(d.Config)
	return e
}

// DecodeDao decodes the aggregate stored under id.
func DecodeDao(id ID, b []byte, limits Limits) (*Dao, error) {
	d := decoder{buf: b}
	out := &Dao{ID: id}

	var err error
	if out.Founder, err = d.account(); err != nil {
		return nil, err
	}
	if out.AccountID, err = d.account(); err != nil {
		return nil, err
	}
	tokenID, err := d.u32()
	if err != nil {
		return nil, err
	}
	out.TokenID = TokenID(tokenID)
	if out.Config, err = d.config(limits); err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return out, nil
}

type encoder []byte

func (e encoder) appendU32(v uint32) encoder {
	return binary.LittleEndian.AppendUint32(e, v)
}

func (e encoder) appendU128(v scalar.U128) encoder {
	var b [16]byte
	v.PutLE(b[:])
	return append(e, b[:]...)
}

func (e encoder) appendCompact(v uint64) encoder {
	switch {
	case v < 1<<6:
		return append(e, byte(v<<2))
	case v < 1<<14:
		return binary.LittleEndian.AppendUint16(e, uint16(v<<2|0b01))
	case v < 1<<30:
		return binary.LittleEndian.AppendUint32(e, uint32(v<<2|0b10))
	}
	n := (bitsLen(v) + 7) / 8
	e = append(e, byte((n-4)<<2|0b11))
	for i := 0; i < n; i++ {
		e = append(e, byte(v>>(8*i)))
	}
	return e
}

func (e encoder) appendVec(v BoundedVec) encoder {
	e = e.appendCompact(uint64(v.Len()))
	return append(e, v.data...)
}

func (e encoder) appendConfig(c Config) encoder {
	return e.appendVec(c.Name).appendVec(c.Purpose).appendVec(c.Metadata)
}

// compactLen returns the number of bytes appendCompact writes for v.
func compactLen(v uint64) int {
	switch {
	case v < 1<<6:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<30:
		return 4
	}
	return 1 + (bitsLen(v)+7)/8
}

func bitsLen(v uint64) int {
	n := 0
	for ; v != 0; v >>= 1 {
		n++
	}
	return n
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || len(d.buf)-d.off < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrCorruptEncoding, n, d.off, len(d.buf)-d.off)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) finish() error {
	if d.off != len(d.buf) {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorruptEncoding, len(d.buf)-d.off)
	}
	return nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u128() (scalar.U128, error) {
	b, err := d.take(16)
	if err != nil {
		return scalar.U128{}, err
	}
	return scalar.U128FromLE(b), nil
}

func (d *decoder) option() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: invalid option tag %#x", ErrCorruptEncoding, b[0])
}

func (d *decoder) account() (AccountID, error) {
	var a AccountID
	b, err := d.take(AccountIDLength)
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

func (d *decoder) ratio() (Ratio, error) {
	num, err := d.u32()
	if err != nil {
		return Ratio{}, err
	}
	den, err := d.u32()
	if err != nil {
		return Ratio{}, err
	}
	return Ratio{Num: num, Den: den}, nil
}

func (d *decoder) compact() (uint64, error) {
	first, err := d.take(1)
	if err != nil {
		return 0, err
	}
	var v uint64
	switch first[0] & 0b11 {
	case 0b00:
		return uint64(first[0] >> 2), nil
	case 0b01:
		rest, err := d.take(1)
		if err != nil {
			return 0, err
		}
		v = uint64(binary.LittleEndian.Uint16([]byte{first[0], rest[0]}) >> 2)
		if v < 1<<6 {
			return 0, fmt.Errorf("%w: non-canonical compact length", ErrCorruptEncoding)
		}
	case 0b10:
		rest, err := d.take(3)
		if err != nil {
			return 0, err
		}
		v = uint64(binary.LittleEndian.Uint32([]byte{first[0], rest[0], rest[1], rest[2]}) >> 2)
		if v < 1<<14 {
			return 0, fmt.Errorf("%w: non-canonical compact length", ErrCorruptEncoding)
		}
	default:
		n := int(first[0]>>2) + 4
		if n > 8 {
			return 0, fmt.Errorf("%w: compact length wider than 64 bits", ErrCorruptEncoding)
		}
		rest, err := d.take(n)
		if err != nil {
			return 0, err
		}
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(rest[i])
		}
		if v < 1<<30 || rest[n-1] == 0 {
			return 0, fmt.Errorf("%w: non-canonical compact length", ErrCorruptEncoding)
		}
	}
	return v, nil
}

func (d *decoder) vec(field string, bound int) (BoundedVec, error) {
	n, err := d.compact()
	if err != nil {
		return BoundedVec{}, err
	}
	if n > uint64(bound) {
		return BoundedVec{}, TooLong(field, int(min(n, 1<<31)), bound)
	}
	b, err := d.take(int(n))
	if err != nil {
		return BoundedVec{}, err
	}
	return NewBoundedVec(field, b, bound)
}

func (d *decoder) config(limits Limits) (Config, error) {
	name, err := d.vec(FieldName, limits.MaxStringLength)
	if err != nil {
		return Config{}, err
	}
	purpose, err := d.vec(FieldPurpose, limits.MaxStringLength)
	if err != nil {
		return Config{}, err
	}
	metadata, err := d.vec(FieldMetadata, limits.MaxMetadataLength)
	if err != nil {
		return Config{}, err
	}
	return Config{Name: name, Purpose: purpose, Metadata: metadata}, nil
}
