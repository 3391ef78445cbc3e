package actors

import (
	"context"

	"github.com/google/uuid"
)

// envelope wraps the actual message sent to the actor together with the
// sender's span context and the optional reply correlation
type envelope struct {
	ctx     context.Context
	token   string
	message any
	reply   *replySlot
}

func newEnvelope(ctx context.Context, msg any) *envelope {
	return &envelope{
		ctx:     ctx,
		token:   uuid.NewString(),
		message: msg,
	}
}

// mailbox is an unbounded FIFO of pending envelopes. It is not safe for
// concurrent use; the node mutex guards it.
type mailbox struct {
	items []*envelope
	head  int
}

// push appends an envelope at the back
func (m *mailbox) push(env *envelope) {
	m.items = append(m.items, env)
}

// pop removes the envelope at the front, or returns nil when empty
func (m *mailbox) pop() *envelope {
	if m.head >= len(m.items) {
		return nil
	}
	env := m.items[m.head]
	m.items[m.head] = nil
	m.head++
	// reclaim the backing array once drained, or when the dead prefix dominates
	if m.head == len(m.items) {
		m.items = m.items[:0]
		m.head = 0
	} else if m.head > 64 && m.head*2 > len(m.items) {
		n := copy(m.items, m.items[m.head:])
		for i := n; i < len(m.items); i++ {
			m.items[i] = nil
		}
		m.items = m.items[:n]
		m.head = 0
	}
	return env
}

// len returns the number of pending envelopes
func (m *mailbox) len() int {
	return len(m.items) - m.head
}
