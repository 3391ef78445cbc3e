package actors

import (
	"context"
)

// Context is handed to a handler for the duration of one message
type Context struct {
	ctx   context.Context
	self  Address
	token string
	node  *Node
	reply *replySlot
}

// Self returns the address of the receiving actor
func (c *Context) Self() Address {
	return c.self
}

// Context returns the tick's context. It carries the tracing span and is
// cancelled when the node shuts down.
func (c *Context) Context() context.Context {
	return c.ctx
}

// CanRespond reports whether the sender registered a reply callback that has
// not fired yet
func (c *Context) CanRespond() bool {
	if c.reply == nil {
		return false
	}
	c.reply.mtx.Lock()
	defer c.reply.mtx.Unlock()
	return c.reply.fn != nil
}

// RespondWith answers the message being handled. Only the first call delivers
// and returns true. Calls without a registered callback, repeated calls and
// calls after the handler completed are no-ops returning false.
func (c *Context) RespondWith(reply any) bool {
	if c.reply.respond(reply) {
		return true
	}
	c.node.log.WithField("address", c.self).WithField("token", c.token).
		Debug("[context] reply ignored, no reply callback armed")
	return false
}

// Send delivers msg to the actor at addr
func (c *Context) Send(addr Address, msg any) {
	c.node.SendContext(c.ctx, addr, msg, nil)
}

// SendWithReply delivers msg to the actor at addr and registers fn for its reply
func (c *Context) SendWithReply(addr Address, msg any, fn ReplyFunc) {
	c.node.SendContext(c.ctx, addr, msg, fn)
}
