package scalar

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// U128 is an unsigned 128-bit integer.
type U128 struct {
	Hi uint64
	Lo uint64
}

// MaxU128 is 2^128-1.
var MaxU128 = U128{Hi: ^uint64(0), Lo: ^uint64(0)}

// NewU128 returns a U128 holding v.
func NewU128(v uint64) U128 {
	return U128{Lo: v}
}

func (u U128) wide() *uint256.Int {
	return &uint256.Int{u.Lo, u.Hi, 0, 0}
}

// IsZero reports whether u == 0.
func (u U128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Cmp returns -1, 0 or +1 depending on whether u is less than, equal to or greater than v.
func (u U128) Cmp(v U128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

// MulDiv returns floor(u * num / den) computed in 256-bit precision.
// The result saturates at MaxU128. den must not be zero.
func (u U128) MulDiv(num, den uint64) U128 {
	if den == 0 {
		panic("scalar: MulDiv by zero")
	}
	z := new(uint256.Int).Mul(u.wide(), uint256.NewInt(num))
	z.Div(z, uint256.NewInt(den))
	if z.BitLen() > 128 {
		return MaxU128
	}
	return U128{Lo: z[0], Hi: z[1]}
}

// Big returns u as a big.Int.
func (u U128) Big() *big.Int {
	return u.wide().ToBig()
}

// String returns the decimal representation of u.
func (u U128) String() string {
	return u.wide().Dec()
}

// PutLE writes u into the first 16 bytes of dst in little-endian order.
func (u U128) PutLE(dst []byte) {
	binary.LittleEndian.PutUint64(dst[0:8], u.Lo)
	binary.LittleEndian.PutUint64(dst[8:16], u.Hi)
}

// U128FromLE reads a little-endian U128 from the first 16 bytes of src.
func U128FromLE(src []byte) U128 {
	return U128{
		Lo: binary.LittleEndian.Uint64(src[0:8]),
		Hi: binary.LittleEndian.Uint64(src[8:16]),
	}
}

// MarshalJSON renders u as a quoted decimal string.
func (u U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON integer literal.
func (u *U128) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("u128 cannot be null")
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	v, err := StringToU128(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *U128) UnmarshalText(text []byte) error {
	v, err := StringToU128(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
