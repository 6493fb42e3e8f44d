package dao

import (
	"fmt"

	"github.com/chainsafe/dao-governance/pkg/scalar"
)

// PermillDenominator is the implicit denominator of a Permill.
const PermillDenominator = 1_000_000

// Permill is a fraction in parts per million.
type Permill uint32

// Valid reports whether p is within [0, 1].
func (p Permill) Valid() bool {
	return p <= PermillDenominator
}

// Of returns floor(value * p / 1_000_000).
func (p Permill) Of(value scalar.U128) scalar.U128 {
	return value.MulDiv(uint64(p), PermillDenominator)
}

func (p Permill) String() string {
	return fmt.Sprintf("%d/%d", uint32(p), PermillDenominator)
}

// Ratio is a threshold of council members, Num out of Den.
type Ratio struct {
	Num uint32
	Den uint32
}

// Validate requires a non-zero denominator and a ratio no greater than one.
func (r Ratio) Validate() error {
	if r.Den == 0 {
		return fmt.Errorf("denominator must be non-zero")
	}
	if r.Num > r.Den {
		return fmt.Errorf("numerator %d exceeds denominator %d", r.Num, r.Den)
	}
	return nil
}

// Reached reports whether ayes out of total members meets the threshold,
// i.e. ayes/total >= Num/Den. An empty council never reaches a threshold.
func (r Ratio) Reached(ayes, total uint32) bool {
	if total == 0 || r.Den == 0 {
		return false
	}
	return uint64(ayes)*uint64(r.Den) >= uint64(r.Num)*uint64(total)
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Policy field names reported in validation errors.
const (
	FieldProposalBond    = "proposal_bond"
	FieldProposalBondMax = "proposal_bond_max"
	FieldProposalPeriod  = "proposal_period"
	FieldApproveOrigin   = "approve_origin"
	FieldRejectOrigin    = "reject_origin"
)

// PolicyMaxEncodedLen is the worst-case encoded size of a Policy.
const PolicyMaxEncodedLen = 4 + 16 + (1 + 16) + 4 + AccountIDLength + 8 + 8

// Policy holds the bonding and approval rules of a DAO.
// It is stored under the DAO id rather than inside the Dao aggregate.
type Policy struct {
	// ProposalBond is the fraction of a proposal's value bonded to place it.
	// Accepted proposals get the bond back, rejected ones do not.
	ProposalBond Permill
	// ProposalBondMin is the minimum bond for any proposal.
	ProposalBondMin scalar.U128
	// ProposalBondMax caps the bond when set; it is never below ProposalBondMin.
	ProposalBondMax *scalar.U128
	// ProposalPeriod is the voting period in milliseconds.
	ProposalPeriod uint32
	PrimeAccount   AccountID
	ApproveOrigin  Ratio
	RejectOrigin   Ratio
}

// Validate checks the cross-field policy rules.
func (p *Policy) Validate() error {
	if !p.ProposalBond.Valid() {
		return InvalidPolicy(FieldProposalBond, fmt.Sprintf("%d exceeds %d parts per million", p.ProposalBond, PermillDenominator))
	}
	if p.ProposalPeriod == 0 {
		return InvalidPolicy(FieldProposalPeriod, "must be greater than zero")
	}
	if p.ProposalBondMax != nil && p.ProposalBondMax.Cmp(p.ProposalBondMin) < 0 {
		return InvalidPolicy(FieldProposalBondMax, fmt.Sprintf("%s is below proposal_bond_min %s", p.ProposalBondMax, p.ProposalBondMin))
	}
	if err := p.ApproveOrigin.Validate(); err != nil {
		return InvalidPolicy(FieldApproveOrigin, err.Error())
	}
	if err := p.RejectOrigin.Validate(); err != nil {
		return InvalidPolicy(FieldRejectOrigin, err.Error())
	}
	return nil
}

// RequiredBond returns the bond for a proposal of the given value:
// ProposalBond of value, raised to ProposalBondMin and capped at ProposalBondMax.
func (p *Policy) RequiredBond(value scalar.U128) scalar.U128 {
	bond := p.ProposalBond.Of(value)
	if bond.Cmp(p.ProposalBondMin) < 0 {
		bond = p.ProposalBondMin
	}
	if p.ProposalBondMax != nil && bond.Cmp(*p.ProposalBondMax) > 0 {
		bond = *p.ProposalBondMax
	}
	return bond
}

// Clone returns a deep copy.
func (p *Policy) Clone() *Policy {
	c := *p
	if p.ProposalBondMax != nil {
		m := *p.ProposalBondMax
		c.ProposalBondMax = &m
	}
	return &c
}

// PolicyDefaults fills the policy fields that a payload may omit.
type PolicyDefaults struct {
	ApproveOrigin Ratio
	RejectOrigin  Ratio
}

// DefaultPolicyDefaults requires a simple majority for both origins.
func DefaultPolicyDefaults() PolicyDefaults {
	return PolicyDefaults{
		ApproveOrigin: Ratio{Num: 1, Den: 2},
		RejectOrigin:  Ratio{Num: 1, Den: 2},
	}
}
