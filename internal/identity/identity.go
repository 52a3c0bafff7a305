// Package identity provides the identifier source used for report anchors and
// for DataSet and DataSetReport identities.
//
// Production code uses random UUIDs; tests use Sequence so that anchors and
// rendered pages are predictable.
package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator produces identifiers. Identifiers must be usable inside HTML id
// attributes: letters, digits, '-' and '_' only.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Default returns the generator used when none is injected.
func Default() Generator {
	return UUID{}
}

// Sequence generates "<prefix>1", "<prefix>2", ... in order.
// It is not safe for concurrent use.
type Sequence struct {
	prefix string
	next   int
}

// NewSequence returns a Sequence with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.next++
	return fmt.Sprintf("%s%d", s.prefix, s.next)
}

// Fixed always returns the same identifier.
type Fixed string

// NewID returns the fixed identifier.
func (f Fixed) NewID() string {
	return string(f)
}

// Anchor joins an anchor prefix and an identifier, e.g.
// Anchor("warnings", "3f2a") -> "warnings_3f2a".
func Anchor(prefix, id string) string {
	return prefix + "_" + sanitize(id)
}

// sanitize replaces characters that are not safe in fragment identifiers.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}
