package dao

import "fmt"

// Default bounds used when the surrounding system does not configure its own.
const (
	DefaultMaxStringLength   = 64
	DefaultMaxMetadataLength = 256
)

// Field names reported in validation errors.
const (
	FieldName     = "name"
	FieldPurpose  = "purpose"
	FieldMetadata = "metadata"
)

// Limits are the configured maxima for bounded DAO fields.
type Limits struct {
	// MaxStringLength bounds name and purpose.
	MaxStringLength int
	// MaxMetadataLength bounds metadata.
	MaxMetadataLength int
}

// DefaultLimits returns the default bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxStringLength:   DefaultMaxStringLength,
		MaxMetadataLength: DefaultMaxMetadataLength,
	}
}

// Validate checks the limits themselves are usable.
func (l Limits) Validate() error {
	if l.MaxStringLength <= 0 {
		return fmt.Errorf("max string length must be positive, got %d", l.MaxStringLength)
	}
	if l.MaxMetadataLength < 0 {
		return fmt.Errorf("max metadata length must not be negative, got %d", l.MaxMetadataLength)
	}
	return nil
}

// ConfigMaxEncodedLen is the worst-case encoded size of a Config under l.
func (l Limits) ConfigMaxEncodedLen() int {
	return 2*boundedMaxEncodedLen(l.MaxStringLength) + boundedMaxEncodedLen(l.MaxMetadataLength)
}

// Config is the bounded, storable configuration of a DAO.
type Config struct {
	// Name of the DAO.
	Name BoundedVec
	// Purpose of the DAO.
	Purpose BoundedVec
	// Metadata is free-form data for off-ledger consumers.
	Metadata BoundedVec
}

// NewConfig bounds the raw fields. The first field over its limit is reported, in
// name, purpose, metadata order.
func NewConfig(name, purpose, metadata []byte, limits Limits) (Config, error) {
	n, err := NewBoundedVec(FieldName, name, limits.MaxStringLength)
	if err != nil {
		return Config{}, err
	}
	p, err := NewBoundedVec(FieldPurpose, purpose, limits.MaxStringLength)
	if err != nil {
		return Config{}, err
	}
	m, err := NewBoundedVec(FieldMetadata, metadata, limits.MaxMetadataLength)
	if err != nil {
		return Config{}, err
	}
	return Config{Name: n, Purpose: p, Metadata: m}, nil
}

// Equal compares field contents.
func (c Config) Equal(o Config) bool {
	return c.Name.Equal(o.Name) && c.Purpose.Equal(o.Purpose) && c.Metadata.Equal(o.Metadata)
}
