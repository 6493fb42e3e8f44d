package dao

// BoundedVec is a byte sequence whose length is capped at construction time.
// The cap travels with the value so encoders and storage can size it statically.
type BoundedVec struct {
	data  []byte
	bound int
}

// NewBoundedVec copies b into a BoundedVec, rejecting it when len(b) > bound.
// Oversized input is never truncated.
func NewBoundedVec(field string, b []byte, bound int) (BoundedVec, error) {
	if len(b) > bound {
		return BoundedVec{}, TooLong(field, len(b), bound)
	}
	return BoundedVec{data: append([]byte{}, b...), bound: bound}, nil
}

// Bytes returns a copy of the contents.
func (v BoundedVec) Bytes() []byte {
	return append([]byte{}, v.data...)
}

// String returns the contents as a string.
func (v BoundedVec) String() string {
	return string(v.data)
}

// Len returns the number of stored bytes.
func (v BoundedVec) Len() int {
	return len(v.data)
}

// Bound returns the declared maximum length.
func (v BoundedVec) Bound() int {
	return v.bound
}

// Equal compares contents; bounds are configuration and do not take part.
func (v BoundedVec) Equal(o BoundedVec) bool {
	return string(v.data) == string(o.data)
}

// MaxEncodedLen is the worst-case encoded size: compact length prefix plus bound bytes.
func (v BoundedVec) MaxEncodedLen() int {
	return boundedMaxEncodedLen(v.bound)
}

func boundedMaxEncodedLen(bound int) int {
	return compactLen(uint64(bound)) + bound
}
