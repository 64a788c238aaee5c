package idgen

import "github.com/google/uuid"

// NewFunc produces identifiers; override in tests for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Sortable returns an identifier prefixed with a zero padded sequence so that
// lexical order follows creation order.
func Sortable(seq uint64) string {
	return pad(seq) + "-" + New()
}

func pad(seq uint64) string {
	const width = 20
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte('0' + seq%10)
		seq /= 10
	}
	return string(buf)
}
