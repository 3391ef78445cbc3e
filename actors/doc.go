// Package actors implements a single-node, cooperative actor runtime.
//
// A Node owns a registry of actors. Each actor has a FIFO mailbox, an opaque
// state and a handler that turns (state, message) into the next state. All
// ticks run on one dispatcher goroutine: an actor handles one message per
// tick, never more than one at a time, and yields back to the dispatcher
// between messages so other actors interleave.
//
//	node := actors.New()
//	node.Start()
//	defer node.Shutdown()
//	counter := actors.Spawn(ctx, node, handleCounter, &Counter{})
//	counter.Send(Increment{})
//
// Sends never block and never fail. Undeliverable messages and failing
// handlers are reported through Listener hooks and the node's logger.
package actors
