// Package dispatch provides the dispatch-context capability: a way to
// marshal notification callbacks onto one designated goroutine, standing
// in for the host application's main thread. Listeners therefore never
// need their own synchronization.
package dispatch

import (
	"context"
	"sync"
)

// Serial runs dispatched functions one at a time, in submission order, on
// a single goroutine. It implements repostate.Dispatcher.
type Serial struct {
	mu      sync.Mutex
	queue   chan func()
	done    chan struct{}
	running bool
}

// NewSerial creates a serial dispatcher. Start must be called before
// dispatched functions execute.
func NewSerial() *Serial {
	return &Serial{
		queue: make(chan func(), 64),
	}
}

// Start begins executing dispatched functions.
func (d *Serial) Start(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}
	d.done = make(chan struct{})
	d.running = true

	go d.loop(d.done)
	return nil
}

// Stop drains nothing: queued functions not yet executed are dropped.
func (d *Serial) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	close(d.done)
	d.running = false
	return nil
}

// Dispatch enqueues fn for execution on the dispatch goroutine. It never
// blocks the caller beyond queue backpressure. When the dispatcher is not
// running, fn is dropped and will never execute; a caller waiting for fn
// to run must also watch its own cancellation signal.
func (d *Serial) Dispatch(fn func()) {
	d.mu.Lock()
	running := d.running
	done := d.done
	d.mu.Unlock()

	if !running {
		return
	}

	select {
	case d.queue <- fn:
	case <-done:
	}
}

func (d *Serial) loop(done chan struct{}) {
	for {
		// Checked separately so a close of done wins over queued work.
		select {
		case <-done:
			return
		default:
		}

		select {
		case <-done:
			return
		case fn := <-d.queue:
			fn()
		}
	}
}

// Immediate executes dispatched functions synchronously on the calling
// goroutine. It exists for tests and single-threaded hosts.
type Immediate struct{}

// Dispatch runs fn before returning.
func (Immediate) Dispatch(fn func()) { fn() }
