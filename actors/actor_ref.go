package actors

import "context"

// Handle is bound to one actor and sends it messages of its protocol M
type Handle[M any] struct {
	node    *Node
	address Address
}

// Address returns the address of the actor
func (h *Handle[M]) Address() Address {
	return h.address
}

// Send sends a message to the actor's mailbox
func (h *Handle[M]) Send(msg M) {
	h.node.SendContext(context.Background(), h.address, msg, nil)
}

// SendWithReply sends a message to the actor's mailbox and registers fn for
// the reply
func (h *Handle[M]) SendWithReply(msg M, fn ReplyFunc) {
	h.node.SendContext(context.Background(), h.address, msg, fn)
}

// SendContext is SendWithReply carrying the tracing span of ctx
func (h *Handle[M]) SendContext(ctx context.Context, msg M, fn ReplyFunc) {
	h.node.SendContext(ctx, h.address, msg, fn)
}
