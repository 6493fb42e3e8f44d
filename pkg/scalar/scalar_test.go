package scalar

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const maxU128Decimal = "340282366920938463463374607431768211455"

func TestStringToU128(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    U128
		wantErr bool
	}{
		{name: "zero", input: "0", want: U128{}},
		{name: "small", input: "1000", want: NewU128(1000)},
		{name: "leading zeros", input: "0007", want: NewU128(7)},
		{name: "max uint64", input: "18446744073709551615", want: NewU128(^uint64(0))},
		{name: "first carry", input: "18446744073709551616", want: U128{Hi: 1}},
		{name: "max u128", input: maxU128Decimal, want: MaxU128},
		{name: "max u128 padded", input: "000" + maxU128Decimal, want: MaxU128},
		{name: "empty", input: "", wantErr: true},
		{name: "overflow by one", input: "340282366920938463463374607431768211456", wantErr: true},
		{name: "overflow long", input: strings.Repeat("9", 60), wantErr: true},
		{name: "plus sign", input: "+5", wantErr: true},
		{name: "minus sign", input: "-5", wantErr: true},
		{name: "whitespace", input: " 5", wantErr: true},
		{name: "decimal point", input: "1.0", wantErr: true},
		{name: "hex", input: "0x10", wantErr: true},
		{name: "unicode digit", input: "١٢", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringToU128(tt.input)
			if tt.wantErr {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.input, perr.Input)
				assert.True(t, got.IsZero(), "failed parse must not yield a partial value")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringToBytes(t *testing.T) {
	assert.Equal(t, []byte("Acme"), StringToBytes("Acme"))
	assert.Equal(t, []byte("héllo"), StringToBytes("héllo"))
	assert.Empty(t, StringToBytes(""))
}

func TestStringToU128_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := U128{
			Hi: rapid.Uint64().Draw(t, "hi"),
			Lo: rapid.Uint64().Draw(t, "lo"),
		}

		s := v.String()
		if s != v.Big().String() {
			t.Fatalf("decimal rendering mismatch: %s vs %s", s, v.Big().String())
		}

		parsed, err := StringToU128(s)
		if err != nil {
			t.Fatalf("StringToU128(%q) failed: %v", s, err)
		}
		if parsed != v {
			t.Fatalf("round trip mismatch: got %v want %v", parsed, v)
		}
	})
}

func TestStringToU128_NonDigitProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[0-9]{0,10}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[0-9]{0,10}`).Draw(t, "suffix")
		bad := rapid.Rune().Filter(func(r rune) bool {
			return r < '0' || r > '9'
		}).Draw(t, "bad")

		input := prefix + string(bad) + suffix
		got, err := StringToU128(input)

		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected ParseError for %q, got %v", input, err)
		}
		if !got.IsZero() {
			t.Fatalf("expected zero value on failure, got %v", got)
		}
	})
}

func TestU128_Cmp(t *testing.T) {
	assert.Equal(t, 0, NewU128(5).Cmp(NewU128(5)))
	assert.Equal(t, -1, NewU128(4).Cmp(NewU128(5)))
	assert.Equal(t, 1, U128{Hi: 1}.Cmp(NewU128(^uint64(0))))
	assert.Equal(t, -1, U128{Hi: 1, Lo: 0}.Cmp(U128{Hi: 1, Lo: 1}))
}

func TestU128_MulDiv(t *testing.T) {
	assert.Equal(t, NewU128(10), NewU128(1000).MulDiv(1, 100))
	assert.Equal(t, NewU128(3), NewU128(10).MulDiv(1, 3))
	assert.Equal(t, MaxU128, MaxU128.MulDiv(2, 1))

	want := new(big.Int).Mul(MaxU128.Big(), big.NewInt(999_999))
	want.Div(want, big.NewInt(1_000_000))
	assert.Equal(t, want.String(), MaxU128.MulDiv(999_999, 1_000_000).String())
}

func TestU128_LittleEndian(t *testing.T) {
	v := U128{Hi: 0x0102030405060708, Lo: 0x1112131415161718}
	buf := make([]byte, 16)
	v.PutLE(buf)

	assert.Equal(t, byte(0x18), buf[0])
	assert.Equal(t, byte(0x01), buf[15])
	assert.Equal(t, v, U128FromLE(buf))
}

func TestU128_JSON(t *testing.T) {
	var v struct {
		Quoted U128 `json:"quoted"`
		Bare   U128 `json:"bare"`
	}
	err := json.Unmarshal([]byte(`{"quoted":"`+maxU128Decimal+`","bare":1000}`), &v)
	require.NoError(t, err)
	assert.Equal(t, MaxU128, v.Quoted)
	assert.Equal(t, NewU128(1000), v.Bare)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quoted":"`+maxU128Decimal+`","bare":"1000"}`, string(out))

	for _, bad := range []string{`{"bare":-1}`, `{"bare":1.5}`, `{"bare":"abc"}`, `{"bare":null}`} {
		var w struct {
			Bare U128 `json:"bare"`
		}
		assert.Error(t, json.Unmarshal([]byte(bad), &w), bad)
	}

	var perr *ParseError
	var w struct {
		Bare U128 `json:"bare"`
	}
	assert.ErrorAs(t, json.Unmarshal([]byte(`{"bare":"12x"}`), &w), &perr)
}
