package actors

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AddressPrefix is the fixed namespace every actor address starts with
const AddressPrefix = "actor://"

// Address identifies one actor within a Node. Treat it as opaque.
type Address string

// Valid reports whether the address carries the actor namespace prefix
func (a Address) Valid() bool {
	return strings.HasPrefix(string(a), AddressPrefix) && len(a) > len(AddressPrefix)
}

func (a Address) String() string {
	return string(a)
}

// AddressGenerator produces the identifier part of new addresses. The node
// trusts it to never repeat itself.
type AddressGenerator interface {
	Next() string
}

// GeneratorFunc adapts a plain function to an AddressGenerator
type GeneratorFunc func() string

// Next calls f
func (f GeneratorFunc) Next() string {
	return f()
}

// UUIDGenerator yields random (v4) UUIDs. It is the default generator.
type UUIDGenerator struct{}

// Next returns a new random UUID string
func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// NanoIDGenerator yields url-safe nano ids of the given size (21 when zero)
type NanoIDGenerator struct {
	Size int
}

// Next returns a new nano id
func (g NanoIDGenerator) Next() string {
	if g.Size <= 0 {
		return gonanoid.Must()
	}
	return gonanoid.Must(g.Size)
}

// SequenceGenerator yields "<prefix>-1", "<prefix>-2", ... and is meant for
// reproducible tests.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Uint64
}

// Next returns the next identifier in the sequence
func (g *SequenceGenerator) Next() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "actor"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n.Add(1))
}

func newAddress(gen AddressGenerator) Address {
	return Address(AddressPrefix + gen.Next())
}
