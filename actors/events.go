package actors

// SpawnedEvent is emitted once an actor is registered
type SpawnedEvent struct {
	Address Address
	State   any
	Status  Status
}

// StateChangedEvent is emitted when a handler returns a different state reference
type StateChangedEvent struct {
	Address  Address
	Previous any
	Current  any
}

// StatusChangedEvent is emitted on every status transition
type StatusChangedEvent struct {
	Address  Address
	Previous Status
	Current  Status
}

// MessageSentEvent is emitted once a message has been appended to a mailbox
type MessageSentEvent struct {
	Address   Address
	Message   any
	Token     string
	WithReply bool
}

// HandlerFailedEvent is emitted when a handler returns an error, panics or its
// pending result fails. The message is considered dropped.
type HandlerFailedEvent struct {
	Address Address
	Message any
	Token   string
	Err     error
}

// DroppedEvent is emitted when a message cannot be delivered
type DroppedEvent struct {
	Address Address
	Message any
	Reason  string
}

// Listener is a set of optional lifecycle hooks. Nil hooks are skipped.
// Hooks run synchronously on the goroutine where the fact became true, so a
// listener shared by several goroutines must be safe for concurrent use.
// Status and message events of one actor are emitted in transition order; a
// hook must not send to the actor whose event it is handling.
type Listener struct {
	OnSpawned       func(SpawnedEvent)
	OnStateChanged  func(StateChangedEvent)
	OnStatusChanged func(StatusChangedEvent)
	OnMessageSent   func(MessageSentEvent)
	OnHandlerFailed func(HandlerFailedEvent)
	OnDropped       func(DroppedEvent)
}

// eventBus fans events out to every listener, in registration order
type eventBus struct {
	listeners []Listener
}

func (b *eventBus) add(l Listener) {
	b.listeners = append(b.listeners, l)
}

func (b *eventBus) spawned(e SpawnedEvent) {
	for _, l := range b.listeners {
		if l.OnSpawned != nil {
			l.OnSpawned(e)
		}
	}
}

func (b *eventBus) stateChanged(e StateChangedEvent) {
	for _, l := range b.listeners {
		if l.OnStateChanged != nil {
			l.OnStateChanged(e)
		}
	}
}

func (b *eventBus) statusChanged(e StatusChangedEvent) {
	for _, l := range b.listeners {
		if l.OnStatusChanged != nil {
			l.OnStatusChanged(e)
		}
	}
}

func (b *eventBus) messageSent(e MessageSentEvent) {
	for _, l := range b.listeners {
		if l.OnMessageSent != nil {
			l.OnMessageSent(e)
		}
	}
}

func (b *eventBus) handlerFailed(e HandlerFailedEvent) {
	for _, l := range b.listeners {
		if l.OnHandlerFailed != nil {
			l.OnHandlerFailed(e)
		}
	}
}

func (b *eventBus) dropped(e DroppedEvent) {
	for _, l := range b.listeners {
		if l.OnDropped != nil {
			l.OnDropped(e)
		}
	}
}
