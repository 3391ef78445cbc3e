package actors

import (
	"runtime/debug"

	"github.com/pkg/errors"
)

// Handler computes the next state of an actor from its current state and an
// incoming message. Returning the very same pointer leaves the state
// untouched; any other pointer replaces it. An error drops the message and
// keeps the state.
type Handler[S, M any] func(ctx *Context, state *S, msg M) (*S, error)

// AsyncHandler is a Handler whose result arrives later. The actor stays
// Processing until the pending result delivers.
type AsyncHandler[S, M any] func(ctx *Context, state *S, msg M) Pending[S]

// Result is the outcome of an asynchronous handler call
type Result[S any] struct {
	State *S
	Err   error
}

// Pending delivers exactly one Result
type Pending[S any] <-chan Result[S]

// Go runs fn on its own goroutine and returns its pending result. A panic in
// fn becomes an error wrapping ErrHandlerPanic.
func Go[S any](fn func() (*S, error)) Pending[S] {
	ch := make(chan Result[S], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- Result[S]{Err: panicError(r)}
			}
		}()
		state, err := fn()
		ch <- Result[S]{State: state, Err: err}
	}()
	return ch
}

// Done returns an already completed pending result
func Done[S any](state *S, err error) Pending[S] {
	ch := make(chan Result[S], 1)
	ch <- Result[S]{State: state, Err: err}
	return ch
}

// outcome is the untyped result of one handler call
type outcome struct {
	state any
	err   error
}

// awaitFunc blocks until a pending handler result arrives or done closes.
// It reports false when done closed first.
type awaitFunc func(done <-chan struct{}) (outcome, bool)

// rawHandler is the type-erased handler stored in the registry. It returns a
// completed outcome, or an awaitFunc when the result comes later.
type rawHandler func(ctx *Context, state any, msg any) (outcome, awaitFunc)

func eraseHandler[S, M any](h Handler[S, M]) rawHandler {
	return func(ctx *Context, state any, msg any) (outcome, awaitFunc) {
		m, ok := msg.(M)
		if !ok {
			return outcome{err: unexpectedMessage(msg)}, nil
		}
		s, _ := state.(*S)
		next, err := h(ctx, s, m)
		return outcome{state: next, err: err}, nil
	}
}

func eraseAsyncHandler[S, M any](h AsyncHandler[S, M]) rawHandler {
	return func(ctx *Context, state any, msg any) (outcome, awaitFunc) {
		m, ok := msg.(M)
		if !ok {
			return outcome{err: unexpectedMessage(msg)}, nil
		}
		s, _ := state.(*S)
		pending := h(ctx, s, m)
		if pending == nil {
			return outcome{err: errors.Wrap(ErrPendingClosed, "handler returned a nil pending result")}, nil
		}
		// fast path for results that are already there
		select {
		case res, ok := <-pending:
			return fromResult(res, ok), nil
		default:
		}
		return outcome{}, func(done <-chan struct{}) (outcome, bool) {
			select {
			case res, ok := <-pending:
				return fromResult(res, ok), true
			case <-done:
				return outcome{}, false
			}
		}
	}
}

func fromResult[S any](res Result[S], ok bool) outcome {
	if !ok {
		return outcome{err: ErrPendingClosed}
	}
	return outcome{state: res.State, err: res.Err}
}

// invoke calls the handler and turns a panic into a failed outcome
func invoke(h rawHandler, ctx *Context, state any, msg any) (res outcome, await awaitFunc) {
	defer func() {
		if r := recover(); r != nil {
			res, await = outcome{err: panicError(r)}, nil
		}
	}()
	return h(ctx, state, msg)
}

func panicError(r any) error {
	return errors.Wrapf(ErrHandlerPanic, "recovered %v\n%s", r, debug.Stack())
}

func unexpectedMessage(msg any) error {
	return errors.Wrapf(ErrUnexpectedMessage, "%T", msg)
}
