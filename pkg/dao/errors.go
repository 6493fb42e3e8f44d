package dao

import (
	"errors"
	"fmt"
)

// ValidationKind classifies why a payload was rejected.
type ValidationKind int

const (
	// KindTooLong means a bounded field exceeds its configured maximum.
	KindTooLong ValidationKind = iota + 1
	// KindMissingToken means the payload names neither a new nor an existing token.
	KindMissingToken
	// KindConflictingToken means the payload names both a new and an existing token.
	KindConflictingToken
	// KindInvalidToken means the metadata of a token to be minted is incomplete.
	KindInvalidToken
	// KindInvalidPolicy means the policy fields are inconsistent.
	KindInvalidPolicy
)

func (k ValidationKind) String() string {
	switch k {
	case KindTooLong:
		return "TooLong"
	case KindMissingToken:
		return "MissingToken"
	case KindConflictingToken:
		return "ConflictingToken"
	case KindInvalidToken:
		return "InvalidToken"
	case KindInvalidPolicy:
		return "InvalidPolicy"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is matching against a *ValidationError of the same kind.
var (
	ErrTooLong          = errors.New("field too long")
	ErrMissingToken     = errors.New("missing token")
	ErrConflictingToken = errors.New("both token and token_id provided")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidPolicy    = errors.New("invalid policy")
)

// ValidationError is a structured rejection of an untrusted payload.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.sentinel().Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return msg
}

// Is matches the kind sentinel so callers can use errors.Is(err, dao.ErrTooLong).
func (e *ValidationError) Is(target error) bool {
	if t, ok := target.(*ValidationError); ok {
		return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
	}
	return target == e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case KindTooLong:
		return ErrTooLong
	case KindMissingToken:
		return ErrMissingToken
	case KindConflictingToken:
		return ErrConflictingToken
	case KindInvalidToken:
		return ErrInvalidToken
	default:
		return ErrInvalidPolicy
	}
}

// TooLong returns a KindTooLong rejection for field.
func TooLong(field string, length, maxLen int) *ValidationError {
	return &ValidationError{
		Kind:   KindTooLong,
		Field:  field,
		Detail: fmt.Sprintf("length %d exceeds maximum %d", length, maxLen),
	}
}

// InvalidPolicy returns a KindInvalidPolicy rejection for field.
func InvalidPolicy(field, detail string) *ValidationError {
	return &ValidationError{Kind: KindInvalidPolicy, Field: field, Detail: detail}
}
