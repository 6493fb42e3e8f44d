package dao

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldNames maps struct namespaces reported by the validator onto payload field names.
var fieldNames = map[string]string{
	"GovernanceToken.Metadata.Name":   "token.metadata.name",
	"GovernanceToken.Metadata.Symbol": "token.metadata.symbol",
	"PolicyPayload.ProposalBond":      FieldProposalBond,
	"PolicyPayload.ProposalPeriod":    FieldProposalPeriod,
}

// ValidatePayload converts an untrusted payload into a storable Config and Policy.
// Either both are returned or an error is, there is no partial result.
// prime becomes the policy's prime account; omitted origins come from defaults.
func ValidatePayload(p *Payload, prime AccountID, limits Limits, defaults PolicyDefaults) (Config, *Policy, error) {
	if p == nil {
		return Config{}, nil, fmt.Errorf("%w: nil payload", ErrMalformedPayload)
	}

	cfg, err := NewConfig(p.Name, p.Purpose, p.Metadata, limits)
	if err != nil {
		return Config{}, nil, err
	}

	if err := validateTokenSource(p.Token); err != nil {
		return Config{}, nil, err
	}

	policy, err := toPolicy(&p.Policy, prime, defaults)
	if err != nil {
		return Config{}, nil, err
	}

	return cfg, policy, nil
}

func validateTokenSource(src TokenSource) error {
	switch t := src.(type) {
	case nil:
		return &ValidationError{Kind: KindMissingToken}
	case NewToken:
		if err := validate.Struct(t.Token); err != nil {
			return mapValidatorError(err, KindInvalidToken)
		}
	case ExistingToken:
	default:
		return fmt.Errorf("unsupported token source %T", src)
	}
	return nil
}

func toPolicy(pp *PolicyPayload, prime AccountID, defaults PolicyDefaults) (*Policy, error) {
	if err := validate.Struct(pp); err != nil {
		return nil, mapValidatorError(err, KindInvalidPolicy)
	}

	policy := &Policy{
		ProposalBond:    Permill(pp.ProposalBond),
		ProposalBondMin: pp.ProposalBondMin,
		ProposalPeriod:  pp.ProposalPeriod,
		PrimeAccount:    prime,
		ApproveOrigin:   defaults.ApproveOrigin,
		RejectOrigin:    defaults.RejectOrigin,
	}
	if pp.ProposalBondMax != nil {
		m := *pp.ProposalBondMax
		policy.ProposalBondMax = &m
	}
	if pp.ApproveOrigin != nil {
		policy.ApproveOrigin = *pp.ApproveOrigin
	}
	if pp.RejectOrigin != nil {
		policy.RejectOrigin = *pp.RejectOrigin
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

func mapValidatorError(err error, kind ValidationKind) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field, ok := fieldNames[fe.StructNamespace()]
	if !ok {
		field = fe.Field()
	}
	return &ValidationError{
		Kind:   kind,
		Field:  field,
		Detail: fmt.Sprintf("failed %q constraint", fe.Tag()),
	}
}
