package actors

import (
	"context"
)

// Spawn is a utility function that registers a new actor on the node and
// returns its Handle, so you can send it messages. The actor starts Idle with
// an empty mailbox.
func Spawn[S, M any](ctx context.Context, node *Node, handler Handler[S, M], initialState *S) *Handle[M] {
	addr := node.spawn(ctx, eraseHandler(handler), initialState)
	return &Handle[M]{node: node, address: addr}
}

// SpawnAsync is Spawn for handlers whose result arrives asynchronously
func SpawnAsync[S, M any](ctx context.Context, node *Node, handler AsyncHandler[S, M], initialState *S) *Handle[M] {
	addr := node.spawn(ctx, eraseAsyncHandler(handler), initialState)
	return &Handle[M]{node: node, address: addr}
}

// StateOf returns the current state of the actor at addr, typed
func StateOf[S any](node *Node, addr Address) (*S, bool) {
	value, exists := node.State(addr)
	if !exists {
		return nil, false
	}
	state, ok := value.(*S)
	return state, ok
}
