package actors

import "github.com/pkg/errors"

var (
	// ErrHandlerPanic is the cause of a handler failure raised by a panic
	ErrHandlerPanic = errors.New("actor handler panicked")
	// ErrUnexpectedMessage is the cause of a handler failure raised by a
	// message the actor's protocol does not include
	ErrUnexpectedMessage = errors.New("unexpected message type")
	// ErrPendingClosed is the cause of a handler failure raised by a pending
	// result closed without a value
	ErrPendingClosed = errors.New("pending result closed without a value")
)

// reasons reported by DroppedEvent
const (
	reasonInvalidAddress = "invalid address"
	reasonUnknownAddress = "unknown address"
)
