package actors

import (
	"fmt"
	"sync"
)

// Status is the scheduling phase of an actor
type Status int

const (
	// Idle means the mailbox is empty and no tick is scheduled
	Idle Status = iota
	// Waiting means messages are queued and a tick is scheduled but has not run
	Waiting
	// Processing means a tick is executing the handler for one message
	Processing
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Processing:
		return "processing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// actorRecord is owned by the registry. Only the scheduler mutates it.
type actorRecord struct {
	address Address
	handler rawHandler
	mailbox mailbox
	state   any
	status  Status
	// emitMtx is held from a status transition until its events are emitted.
	// Taken before the node mutex.
	emitMtx sync.Mutex
}

// registry maps addresses to actor records. It is not safe for concurrent
// use; the node mutex guards it.
type registry struct {
	actors map[Address]*actorRecord
}

func newRegistry(initialCapacity int) *registry {
	return &registry{actors: make(map[Address]*actorRecord, initialCapacity)}
}

// register creates an Idle record with an empty mailbox. A duplicate address
// means the generator repeated itself, which the node cannot recover from.
func (r *registry) register(addr Address, state any, handler rawHandler) *actorRecord {
	if _, exists := r.actors[addr]; exists {
		panic(fmt.Sprintf("actors: address generator produced duplicate address %s", addr))
	}
	rec := &actorRecord{
		address: addr,
		handler: handler,
		state:   state,
		status:  Idle,
	}
	r.actors[addr] = rec
	return rec
}

// lookup returns the record for addr
func (r *registry) lookup(addr Address) (*actorRecord, bool) {
	rec, exists := r.actors[addr]
	return rec, exists
}

// mutateState replaces the state and returns the previous one
func (r *registry) mutateState(rec *actorRecord, state any) (previous any) {
	previous = rec.state
	rec.state = state
	return previous
}

// setStatus transitions the record and reports whether the status changed
func (r *registry) setStatus(rec *actorRecord, status Status) (previous Status, changed bool) {
	previous = rec.status
	rec.status = status
	return previous, previous != status
}

// len returns the number of registered actors
func (r *registry) len() int {
	return len(r.actors)
}
