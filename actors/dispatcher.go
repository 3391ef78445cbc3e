package actors

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

type task func()

// dispatcher is the single logical thread of the node. It drains a FIFO task
// queue on one goroutine; every actor tick and every async completion is a task.
type dispatcher struct {
	mtx         sync.Mutex
	queue       []task
	wake        chan struct{}
	outstanding int
	idle        chan struct{}

	isReceiving bool
	stopped     bool
	stop        chan struct{}
	done        chan struct{}

	log *logrus.Entry
}

func newDispatcher(log *logrus.Entry) *dispatcher {
	idle := make(chan struct{})
	close(idle)
	return &dispatcher{
		wake: make(chan struct{}, 1),
		idle: idle,
		stop: make(chan struct{}),
		done: make(chan struct{}),
		log:  log,
	}
}

// schedule appends t at the back of the queue. It never blocks. Tasks
// scheduled after shutdown are discarded.
func (x *dispatcher) schedule(t task) {
	x.mtx.Lock()
	if x.stopped {
		x.mtx.Unlock()
		return
	}
	x.queue = append(x.queue, t)
	x.acquireLocked()
	x.mtx.Unlock()
	select {
	case x.wake <- struct{}{}:
	default:
	}
}

// hold marks one unit of outstanding work that is not a queued task, such
// as a pending async handler result
func (x *dispatcher) hold() {
	x.mtx.Lock()
	x.acquireLocked()
	x.mtx.Unlock()
}

// release ends one unit of outstanding work
func (x *dispatcher) release() {
	x.mtx.Lock()
	x.outstanding--
	if x.outstanding == 0 {
		close(x.idle)
	}
	x.mtx.Unlock()
}

func (x *dispatcher) acquireLocked() {
	if x.outstanding == 0 {
		x.idle = make(chan struct{})
	}
	x.outstanding++
}

// start runs the dispatch loop on its own goroutine, or no-op if running
// or shut down
func (x *dispatcher) start() {
	x.mtx.Lock()
	defer x.mtx.Unlock()
	if x.isReceiving || x.stopped {
		return
	}
	x.isReceiving = true
	go x.loop()
}

// shutdown stops the loop after the task currently running. Queued tasks
// are abandoned and no longer count as outstanding. It is final.
func (x *dispatcher) shutdown() {
	x.mtx.Lock()
	if x.stopped {
		x.mtx.Unlock()
		return
	}
	x.stopped = true
	running := x.isReceiving
	x.isReceiving = false
	x.mtx.Unlock()
	if running {
		close(x.stop)
		<-x.done
	}

	x.mtx.Lock()
	abandoned := len(x.queue)
	x.queue = nil
	x.outstanding -= abandoned
	if abandoned > 0 && x.outstanding == 0 {
		close(x.idle)
	}
	x.mtx.Unlock()
}

// awaitIdle blocks until no task is queued or running and nothing is held
func (x *dispatcher) awaitIdle(ctx context.Context) error {
	x.mtx.Lock()
	idle := x.idle
	x.mtx.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (x *dispatcher) next() (task, bool) {
	x.mtx.Lock()
	defer x.mtx.Unlock()
	if len(x.queue) == 0 {
		return nil, false
	}
	t := x.queue[0]
	x.queue[0] = nil
	x.queue = x.queue[1:]
	return t, true
}

// loop runs tasks one at a time until the stop signal
func (x *dispatcher) loop() {
	defer close(x.done)
	for {
		select {
		case <-x.stop:
			return
		default:
		}
		t, ok := x.next()
		if !ok {
			select {
			case <-x.stop:
				return
			case <-x.wake:
			}
			continue
		}
		x.run(t)
	}
}

func (x *dispatcher) run(t task) {
	defer x.release()
	defer func() {
		if r := recover(); r != nil {
			// tasks recover handler panics themselves; reaching here means a
			// listener panicked
			x.log.WithField("recovered", r).WithField("stack", string(debug.Stack())).
				Error("[dispatcher] scheduled task panicked")
		}
	}()
	t()
}
