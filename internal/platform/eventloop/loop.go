// Package eventloop serializes UI events, timer ticks and collaborator
// completions onto one goroutine.
package eventloop

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("event loop: closed")

// Loop runs posted closures one at a time, in the order they were posted.
// Closures must not call Call on the same loop; use Post instead.
type Loop struct {
	events chan func()
	done   chan struct{}
	once   sync.Once
}

func New(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		events: make(chan func(), buffer),
		done:   make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return
		case <-l.done:
			return
		case fn := <-l.events:
			fn()
		}
	}
}

// Post enqueues fn without waiting for it to run.
// It reports false when the loop is closed and fn was dropped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !l.Post(func() { result <- fn() }) {
		return ErrClosed
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// fn may have completed right before the loop closed.
		select {
		case err := <-result:
			return err
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop. Pending events are dropped. Safe to call twice.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed once the loop has been closed.
func (l *Loop) Done() <-chan struct{} { return l.done }
