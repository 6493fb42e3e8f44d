package dao

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/chainsafe/dao-governance/pkg/scalar"
)

// ErrMalformedPayload is returned when the raw payload is not well-formed JSON of the
// expected shape or is not valid UTF-8.
var ErrMalformedPayload = errors.New("malformed payload")

// TokenMetadata describes a governance token as submitted by the caller.
type TokenMetadata struct {
	Name     []byte `validate:"min=1"`
	Symbol   []byte `validate:"min=1"`
	Decimals uint8
}

// GovernanceToken is a token to be minted together with the DAO.
type GovernanceToken struct {
	TokenID    TokenID
	Metadata   TokenMetadata
	MinBalance scalar.U128
}

// PolicyPayload is the untrusted form of a DAO policy.
// ProposalBondMax and the origins are optional and filled from defaults when absent.
type PolicyPayload struct {
	ProposalBond    uint32 `validate:"lte=1000000"`
	ProposalBondMin scalar.U128
	ProposalBondMax *scalar.U128
	// ProposalPeriod is in milliseconds.
	ProposalPeriod uint32 `validate:"gt=0"`
	ApproveOrigin  *Ratio
	RejectOrigin   *Ratio
}

// TokenSource selects how the DAO obtains its governance token.
// It is either NewToken or ExistingToken.
type TokenSource interface {
	TokenID() TokenID
	isTokenSource()
}

// NewToken mints Token as the DAO's governance token.
type NewToken struct {
	Token GovernanceToken
}

// TokenID implements TokenSource.
func (t NewToken) TokenID() TokenID { return t.Token.TokenID }

func (NewToken) isTokenSource() {}

// ExistingToken reuses an already registered token.
type ExistingToken struct {
	ID TokenID
}

// TokenID implements TokenSource.
func (t ExistingToken) TokenID() TokenID { return t.ID }

func (ExistingToken) isTokenSource() {}

// Payload is an untrusted DAO creation request. Its byte fields are unbounded
// until ValidatePayload turns them into a Config.
type Payload struct {
	Name     []byte
	Purpose  []byte
	Metadata []byte
	Token    TokenSource
	Policy   PolicyPayload
}

// Decode-side shapes use pointers so an absent field can be told apart from a zero one.
type tokenMetadataJSON struct {
	Name     *string `json:"name" validate:"required"`
	Symbol   *string `json:"symbol" validate:"required"`
	Decimals *uint8  `json:"decimals" validate:"required"`
}

type governanceTokenJSON struct {
	TokenID    *uint32            `json:"token_id" validate:"required"`
	Metadata   *tokenMetadataJSON `json:"metadata" validate:"required"`
	MinBalance *string            `json:"min_balance" validate:"required"`
}

type policyPayloadJSON struct {
	ProposalBond    *uint32      `json:"proposal_bond" validate:"required"`
	ProposalBondMin *scalar.U128 `json:"proposal_bond_min" validate:"required"`
	ProposalBondMax *scalar.U128 `json:"proposal_bond_max,omitempty"`
	ProposalPeriod  *uint32      `json:"proposal_period" validate:"required"`
	ApproveOrigin   *Ratio       `json:"approve_origin,omitempty"`
	RejectOrigin    *Ratio       `json:"reject_origin,omitempty"`
}

type payloadJSON struct {
	Name     *string              `json:"name" validate:"required"`
	Purpose  *string              `json:"purpose" validate:"required"`
	Metadata *string              `json:"metadata" validate:"required"`
	Token    *governanceTokenJSON `json:"token,omitempty"`
	TokenID  *uint32              `json:"token_id,omitempty"`
	Policy   *policyPayloadJSON   `json:"policy"`
}

var presence = newPresenceValidator()

func newPresenceValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodePayload reads a JSON creation request. Every field other than the optional
// policy bounds and origins must be present; an absent one is ErrMalformedPayload.
// Numeric strings go through scalar.StringToU128, so a malformed min_balance yields
// a *scalar.ParseError.
func DecodePayload(raw []byte) (*Payload, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrMalformedPayload)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var in payloadJSON
	if err := dec.Decode(&in); err != nil {
		var perr *scalar.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("policy: %w", perr)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrMalformedPayload)
	}
	if in.Policy == nil {
		return nil, InvalidPolicy("policy", "missing")
	}
	if err := checkPresence(&in); err != nil {
		return nil, err
	}
	return in.toPayload()
}

func checkPresence(in *payloadJSON) error {
	err := presence.Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	// Namespace is "payloadJSON.policy.proposal_bond"; drop the root type.
	_, field, _ := strings.Cut(verrs[0].Namespace(), ".")
	return fmt.Errorf("%w: missing field %q", ErrMalformedPayload, field)
}

func (in *payloadJSON) toPayload() (*Payload, error) {
	p := &Payload{
		Name:     scalar.StringToBytes(*in.Name),
		Purpose:  scalar.StringToBytes(*in.Purpose),
		Metadata: scalar.StringToBytes(*in.Metadata),
	}

	switch {
	case in.Token != nil && in.TokenID != nil:
		return nil, &ValidationError{Kind: KindConflictingToken}
	case in.Token != nil:
		minBalance, err := scalar.StringToU128(*in.Token.MinBalance)
		if err != nil {
			return nil, fmt.Errorf("token.min_balance: %w", err)
		}
		md := in.Token.Metadata
		p.Token = NewToken{Token: GovernanceToken{
			TokenID: TokenID(*in.Token.TokenID),
			Metadata: TokenMetadata{
				Name:     scalar.StringToBytes(*md.Name),
				Symbol:   scalar.StringToBytes(*md.Symbol),
				Decimals: *md.Decimals,
			},
			MinBalance: minBalance,
		}}
	case in.TokenID != nil:
		p.Token = ExistingToken{ID: TokenID(*in.TokenID)}
	}

	p.Policy = PolicyPayload{
		ProposalBond:    *in.Policy.ProposalBond,
		ProposalBondMin: *in.Policy.ProposalBondMin,
		ProposalBondMax: in.Policy.ProposalBondMax,
		ProposalPeriod:  *in.Policy.ProposalPeriod,
		ApproveOrigin:   in.Policy.ApproveOrigin,
		RejectOrigin:    in.Policy.RejectOrigin,
	}
	return p, nil
}

// MarshalJSON renders r as a [num, den] pair.
func (r Ratio) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{r.Num, r.Den})
}

// UnmarshalJSON reads a [num, den] pair. Any other element count is rejected.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var pair []uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("ratio must be a [numerator, denominator] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("ratio must be a [numerator, denominator] pair, got %d elements", len(pair))
	}
	r.Num, r.Den = pair[0], pair[1]
	return nil
}
