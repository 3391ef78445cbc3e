package actors

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const componentName = "actornode"

// Node owns the actor registry and the dispatcher. Actors live as long as the
// node; there is no way to remove one.
type Node struct {
	mtx        sync.Mutex
	registry   *registry
	dispatcher *dispatcher
	events     eventBus
	replies    correlator

	generator       AddressGenerator
	initialCapacity int
	log             *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a Node that is not dispatching yet; call Start
func New(opts ...NodeOpt) *Node {
	// create the node
	node := &Node{
		generator:       UUIDGenerator{},
		initialCapacity: 100,
		log:             logrus.StandardLogger().WithField("component", componentName),
	}
	// set the custom options to override the default values
	for _, opt := range opts {
		opt(node)
	}
	node.registry = newRegistry(node.initialCapacity)
	node.dispatcher = newDispatcher(node.log)
	node.ctx, node.cancel = context.WithCancel(context.Background())
	return node
}

// Start the dispatch loop. Messages sent before Start wait in their mailboxes.
func (n *Node) Start() {
	n.dispatcher.start()
}

// Shutdown stops dispatching and cancels the context seen by handlers.
// Queued messages and late async results are abandoned. A node cannot be
// started again.
func (n *Node) Shutdown() {
	n.cancel()
	n.dispatcher.shutdown()
	n.log.Debug("[node] shut down")
}

// AwaitIdle blocks until every mailbox is drained and no asynchronous handler
// is outstanding, or ctx is done
func (n *Node) AwaitIdle(ctx context.Context) error {
	return n.dispatcher.awaitIdle(ctx)
}

// Send delivers msg to the actor at addr. Delivery is best-effort: a message
// for an unknown address is dropped and reported to OnDropped listeners.
func (n *Node) Send(addr Address, msg any) {
	n.SendContext(context.Background(), addr, msg, nil)
}

// SendWithReply is Send with a callback for the receiver's reply. The
// callback fires at most once.
func (n *Node) SendWithReply(addr Address, msg any, fn ReplyFunc) {
	n.SendContext(context.Background(), addr, msg, fn)
}

// SendContext is SendWithReply carrying the tracing span of ctx to the
// receiver. fn may be nil.
func (n *Node) SendContext(ctx context.Context, addr Address, msg any, fn ReplyFunc) {
	// get the observability span
	spanCtx, span := getSpanContext(ctx, "Node.Send", addr)
	defer span.End()
	if !addr.Valid() {
		n.drop(addr, msg, reasonInvalidAddress)
		return
	}
	// wrap the message and bind the reply callback to it
	env := newEnvelope(spanCtx, msg)
	n.replies.register(env, fn)
	rec, exists := n.lookup(addr)
	if !exists {
		n.drop(addr, msg, reasonUnknownAddress)
		return
	}
	// transitions of one actor and their events must not interleave
	rec.emitMtx.Lock()
	defer rec.emitMtx.Unlock()
	// acquire a lock
	n.mtx.Lock()
	rec.mailbox.push(env)
	// an actor already Waiting or Processing gets picked up again by its own tick
	scheduled := false
	if rec.status == Idle {
		n.registry.setStatus(rec, Waiting)
		scheduled = true
	}
	n.mtx.Unlock()

	n.events.messageSent(MessageSentEvent{Address: addr, Message: msg, Token: env.token, WithReply: fn != nil})
	if scheduled {
		n.events.statusChanged(StatusChangedEvent{Address: addr, Previous: Idle, Current: Waiting})
		n.dispatcher.schedule(func() { n.tick(addr) })
	}
}

func (n *Node) lookup(addr Address) (*actorRecord, bool) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.registry.lookup(addr)
}

// Status returns the scheduling phase of the actor at addr
func (n *Node) Status(addr Address) (Status, bool) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	rec, exists := n.registry.lookup(addr)
	if !exists {
		return Idle, false
	}
	return rec.status, true
}

// State returns the current state of the actor at addr
func (n *Node) State(addr Address) (any, bool) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	rec, exists := n.registry.lookup(addr)
	if !exists {
		return nil, false
	}
	return rec.state, true
}

// Len returns the number of actors registered on the node
func (n *Node) Len() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return n.registry.len()
}

func (n *Node) spawn(ctx context.Context, handler rawHandler, state any) Address {
	addr := newAddress(n.generator)
	// get the observability span
	_, span := getSpanContext(ctx, "Node.Spawn", addr)
	defer span.End()

	n.mtx.Lock()
	n.registry.register(addr, state, handler)
	n.mtx.Unlock()

	n.log.WithField("address", addr).Debug("[node] actor spawned")
	n.events.spawned(SpawnedEvent{Address: addr, State: state, Status: Idle})
	return addr
}

// tick processes the message at the head of one actor's mailbox
func (n *Node) tick(addr Address) {
	rec, exists := n.lookup(addr)
	if !exists {
		n.drop(addr, nil, reasonUnknownAddress)
		return
	}
	rec.emitMtx.Lock()
	n.mtx.Lock()
	env := rec.mailbox.pop()
	if env == nil {
		previous, changed := n.registry.setStatus(rec, Idle)
		n.mtx.Unlock()
		if changed {
			n.events.statusChanged(StatusChangedEvent{Address: addr, Previous: previous, Current: Idle})
		}
		rec.emitMtx.Unlock()
		return
	}
	state := rec.state
	handler := rec.handler
	previous, _ := n.registry.setStatus(rec, Processing)
	n.mtx.Unlock()
	n.events.statusChanged(StatusChangedEvent{Address: addr, Previous: previous, Current: Processing})
	rec.emitMtx.Unlock()

	reply := n.replies.takeAndClear(env)
	// the handler span is a child of the sender's span, cancelled with the node
	tickCtx := trace.ContextWithSpanContext(n.ctx, trace.SpanContextFromContext(env.ctx))
	spanCtx, span := getSpanContext(tickCtx, "Actor.Tick", addr)
	hctx := &Context{
		ctx:   spanCtx,
		self:  addr,
		token: env.token,
		node:  n,
		reply: reply,
	}

	res, await := invoke(handler, hctx, state, env.message)
	if await == nil {
		span.End()
		n.complete(rec, env, reply, res)
		return
	}
	// the actor stays Processing while its result is pending
	n.dispatcher.hold()
	go func() {
		defer n.dispatcher.release()
		res, ok := await(n.ctx.Done())
		span.End()
		if !ok || n.ctx.Err() != nil {
			reply.close()
			return
		}
		n.dispatcher.schedule(func() { n.complete(rec, env, reply, res) })
	}()
}

// complete applies a handler outcome and moves the actor on
func (n *Node) complete(rec *actorRecord, env *envelope, reply *replySlot, res outcome) {
	reply.close()
	if res.err != nil {
		n.log.WithError(res.err).
			WithField("address", rec.address).
			WithField("token", env.token).
			WithField("message_type", fmt.Sprintf("%T", env.message)).
			Error("[node] handler failed, message dropped")
		n.events.handlerFailed(HandlerFailedEvent{Address: rec.address, Message: env.message, Token: env.token, Err: res.err})
	}

	rec.emitMtx.Lock()
	defer rec.emitMtx.Unlock()
	n.mtx.Lock()
	var previousState any
	stateChanged := false
	// identity, not equality: the same reference means no change
	if res.err == nil && res.state != rec.state {
		previousState = n.registry.mutateState(rec, res.state)
		stateChanged = true
	}
	next := Idle
	if rec.mailbox.len() > 0 {
		next = Waiting
	}
	previousStatus, _ := n.registry.setStatus(rec, next)
	currentState := rec.state
	n.mtx.Unlock()

	if stateChanged {
		n.events.stateChanged(StateChangedEvent{Address: rec.address, Previous: previousState, Current: currentState})
	}
	n.events.statusChanged(StatusChangedEvent{Address: rec.address, Previous: previousStatus, Current: next})
	if next == Waiting {
		addr := rec.address
		n.dispatcher.schedule(func() { n.tick(addr) })
	}
}

func (n *Node) drop(addr Address, msg any, reason string) {
	n.log.WithField("address", addr).WithField("reason", reason).Warn("[node] message dropped")
	n.events.dropped(DroppedEvent{Address: addr, Message: msg, Reason: reason})
}
