package dao

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/chainsafe/dao-governance/pkg/scalar"
)

func TestCompactEncoding(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{63, []byte{0xfc}},
		{64, []byte{0x01, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{1<<30 - 1, []byte{0xfe, 0xff, 0xff, 0xff}},
		{1 << 30, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
	}
	for _, tt := range tests {
		got := encoder(nil).appendCompact(tt.value)
		assert.Equal(t, tt.want, []byte(got), "value %d", tt.value)
		assert.Equal(t, len(tt.want), compactLen(tt.value), "len of %d", tt.value)

		d := decoder{buf: got}
		v, err := d.compact()
		require.NoError(t, err)
		assert.Equal(t, tt.value, v)
		require.NoError(t, d.finish())
	}
}

func TestCompactEncoding_RejectsNonCanonical(t *testing.T) {
	for _, raw := range [][]byte{
		{0x01, 0x00},
		{0x02, 0x01, 0x00, 0x00},
		{0x03, 0xff, 0xff, 0xff, 0x00},
		{0x07, 0x00, 0x00, 0x00, 0x40, 0x00},
	} {
		d := decoder{buf: raw}
		_, err := d.compact()
		assert.ErrorIs(t, err, ErrCorruptEncoding, "input %x", raw)
	}
}

func TestEncodeConfig_Layout(t *testing.T) {
	cfg, err := NewConfig([]byte("Acme"), []byte("Build"), nil, DefaultLimits())
	require.NoError(t, err)

	want := []byte{0x10, 'A', 'c', 'm', 'e', 0x14, 'B', 'u', 'i', 'l', 'd', 0x00}
	assert.Equal(t, want, EncodeConfig(cfg))
}

func TestDecodeConfig_RejectsOversize(t *testing.T) {
	cfg, err := NewConfig(make([]byte, 10), nil, nil, DefaultLimits())
	require.NoError(t, err)
	raw := EncodeConfig(cfg)

	_, err = DecodeConfig(raw, Limits{MaxStringLength: 5, MaxMetadataLength: 5})
	require.ErrorIs(t, err, &ValidationError{Kind: KindTooLong, Field: FieldName})
}

func TestDecodeConfig_RejectsTrailingAndShort(t *testing.T) {
	cfg, err := NewConfig([]byte("Acme"), []byte("Build"), []byte("x"), DefaultLimits())
	require.NoError(t, err)
	raw := EncodeConfig(cfg)

	_, err = DecodeConfig(append(raw, 0x00), DefaultLimits())
	require.ErrorIs(t, err, ErrCorruptEncoding)

	_, err = DecodeConfig(raw[:len(raw)-1], DefaultLimits())
	require.ErrorIs(t, err, ErrCorruptEncoding)
}

func TestEncodePolicy_Layout(t *testing.T) {
	bondMax := scalar.NewU128(2)
	p := &Policy{
		ProposalBond:    1,
		ProposalBondMin: scalar.NewU128(1),
		ProposalBondMax: &bondMax,
		ProposalPeriod:  3,
		ApproveOrigin:   Ratio{Num: 1, Den: 2},
		RejectOrigin:    Ratio{Num: 3, Den: 4},
	}
	raw := EncodePolicy(p)
	require.Len(t, raw, PolicyMaxEncodedLen)

	assert.Equal(t, []byte{1, 0, 0, 0}, raw[:4])
	assert.Equal(t, byte(1), raw[4])
	assert.Equal(t, byte(1), raw[20], "option tag")
	assert.Equal(t, byte(2), raw[21])
	assert.Equal(t, []byte{3, 0, 0, 0}, raw[37:41])
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0}, raw[73:])

	p.ProposalBondMax = nil
	assert.Len(t, EncodePolicy(p), PolicyMaxEncodedLen-16)
}

func TestDecodePolicy_Rejects(t *testing.T) {
	valid := &Policy{ProposalPeriod: 1, ApproveOrigin: Ratio{1, 2}, RejectOrigin: Ratio{1, 2}}
	raw := EncodePolicy(valid)

	badTag := append([]byte{}, raw...)
	badTag[20] = 2
	_, err := DecodePolicy(badTag)
	assert.ErrorIs(t, err, ErrCorruptEncoding)

	_, err = DecodePolicy(append(raw, 0))
	assert.ErrorIs(t, err, ErrCorruptEncoding)

	invalid := valid.Clone()
	invalid.ApproveOrigin = Ratio{Num: 1, Den: 0}
	_, err = DecodePolicy(EncodePolicy(invalid))
	assert.ErrorIs(t, err, ErrCorruptEncoding)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestEncodeDao_RoundTrip(t *testing.T) {
	cfg, err := NewConfig([]byte("Acme"), []byte("Build"), []byte("{}"), DefaultLimits())
	require.NoError(t, err)
	d := New(DefaultPalletID, 4, testFounder, 7, cfg)

	raw := EncodeDao(d)
	got, err := DecodeDao(4, raw, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Founder, got.Founder)
	assert.Equal(t, d.AccountID, got.AccountID)
	assert.Equal(t, d.TokenID, got.TokenID)
	assert.True(t, d.Config.Equal(got.Config))
	assert.Equal(t, raw, EncodeDao(got))
}

func genU128(t *rapid.T, label string) scalar.U128 {
	return scalar.U128{
		Hi: rapid.Uint64().Draw(t, label+"_hi"),
		Lo: rapid.Uint64().Draw(t, label+"_lo"),
	}
}

func genAccount(t *rapid.T, label string) AccountID {
	var a AccountID
	copy(a[:], rapid.SliceOfN(rapid.Byte(), AccountIDLength, AccountIDLength).Draw(t, label))
	return a
}

func genRatio(t *rapid.T, label string) Ratio {
	den := rapid.Uint32Range(1, 1<<31).Draw(t, label+"_den")
	num := rapid.Uint32Range(0, den).Draw(t, label+"_num")
	return Ratio{Num: num, Den: den}
}

func genConfig(t *rapid.T, limits Limits) Config {
	name := rapid.SliceOfN(rapid.Byte(), 0, limits.MaxStringLength).Draw(t, "name")
	purpose := rapid.SliceOfN(rapid.Byte(), 0, limits.MaxStringLength).Draw(t, "purpose")
	metadata := rapid.SliceOfN(rapid.Byte(), 0, limits.MaxMetadataLength).Draw(t, "metadata")
	cfg, err := NewConfig(name, purpose, metadata, limits)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func genPolicy(t *rapid.T) *Policy {
	p := &Policy{
		ProposalBond:    Permill(rapid.Uint32Range(0, PermillDenominator).Draw(t, "bond")),
		ProposalBondMin: genU128(t, "bond_min"),
		ProposalPeriod:  rapid.Uint32Range(1, ^uint32(0)).Draw(t, "period"),
		PrimeAccount:    genAccount(t, "prime"),
		ApproveOrigin:   genRatio(t, "approve"),
		RejectOrigin:    genRatio(t, "reject"),
	}
	if rapid.Bool().Draw(t, "has_max") {
		m := genU128(t, "bond_max")
		if m.Cmp(p.ProposalBondMin) < 0 {
			m = p.ProposalBondMin
		}
		p.ProposalBondMax = &m
	}
	return p
}

func TestConfigCodec_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limits := Limits{
			MaxStringLength:   rapid.IntRange(1, 100).Draw(t, "l1"),
			MaxMetadataLength: rapid.IntRange(0, 20_000).Draw(t, "l2"),
		}
		cfg := genConfig(t, limits)

		raw := EncodeConfig(cfg)
		if len(raw) > limits.ConfigMaxEncodedLen() {
			t.Fatalf("encoded %d bytes, max %d", len(raw), limits.ConfigMaxEncodedLen())
		}
		got, err := DecodeConfig(raw, limits)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !got.Equal(cfg) {
			t.Fatalf("round trip mismatch")
		}
	})
}

func TestPolicyCodec_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := genPolicy(t)

		raw := EncodePolicy(p)
		if len(raw) > PolicyMaxEncodedLen {
			t.Fatalf("encoded %d bytes, max %d", len(raw), PolicyMaxEncodedLen)
		}
		got, err := DecodePolicy(raw)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(EncodePolicy(got)) != string(raw) {
			t.Fatalf("re-encoding differs")
		}
		if got.ProposalBondMin != p.ProposalBondMin || got.PrimeAccount != p.PrimeAccount {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, p)
		}
	})
}

func TestDaoCodec_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limits := DefaultLimits()
		id := ID(rapid.Uint32().Draw(t, "id"))
		d := New(DefaultPalletID, id, genAccount(t, "founder"), TokenID(rapid.Uint32().Draw(t, "token")), genConfig(t, limits))

		raw := EncodeDao(d)
		if len(raw) > limits.DaoMaxEncodedLen() {
			t.Fatalf("encoded %d bytes, max %d", len(raw), limits.DaoMaxEncodedLen())
		}
		got, err := DecodeDao(id, raw, limits)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Founder != d.Founder || got.AccountID != d.AccountID || got.TokenID != d.TokenID || !got.Config.Equal(d.Config) {
			t.Fatalf("round trip mismatch")
		}
	})
}

func TestDecodeDao_Truncated(t *testing.T) {
	cfg, err := NewConfig([]byte("Acme"), nil, nil, DefaultLimits())
	require.NoError(t, err)
	raw := EncodeDao(New(DefaultPalletID, 1, testFounder, 2, cfg))

	for i := 0; i < len(raw); i++ {
		_, err := DecodeDao(1, raw[:i], DefaultLimits())
		if !errors.Is(err, ErrCorruptEncoding) {
			t.Fatalf("prefix of %d bytes: expected ErrCorruptEncoding, got %v", i, err)
		}
	}
}
