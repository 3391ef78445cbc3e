package actors

import "sync"

// ReplyFunc receives the answer to one specific message
type ReplyFunc func(reply any)

// replySlot holds the reply callback of one message. The callback fires at
// most once; after close it never fires.
type replySlot struct {
	mtx sync.Mutex
	fn  ReplyFunc
}

// respond invokes the callback if it is still armed and disarms it
func (s *replySlot) respond(reply any) bool {
	if s == nil {
		return false
	}
	s.mtx.Lock()
	fn := s.fn
	s.fn = nil
	s.mtx.Unlock()
	if fn == nil {
		return false
	}
	fn(reply)
	return true
}

// close disarms the callback without invoking it
func (s *replySlot) close() {
	if s == nil {
		return
	}
	s.mtx.Lock()
	s.fn = nil
	s.mtx.Unlock()
}

// correlator binds reply callbacks to message instances. The binding lives on
// the envelope, so an envelope that is never dequeued releases its callback
// together with itself.
type correlator struct{}

// register attaches fn to env. A nil fn registers nothing.
func (correlator) register(env *envelope, fn ReplyFunc) {
	if fn == nil {
		return
	}
	env.reply = &replySlot{fn: fn}
}

// takeAndClear detaches the reply slot from env. It returns nil when no callback
// was registered.
func (correlator) takeAndClear(env *envelope) *replySlot {
	slot := env.reply
	env.reply = nil
	return slot
}
