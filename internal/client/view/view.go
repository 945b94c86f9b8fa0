// Package view ties asynchronous work to the lifetime of a screen.
//
// A Scope owns a cancellable context. Results of tasks started with Go are
// applied only while the scope is open, so a closed screen never sees late
// writes. Busy guards one action against re-entry.
package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrBusy is returned when an action is started while it is in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrClosed is returned by Go after Close.
	ErrClosed = errors.New("view closed")
)

type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Context() context.Context { return s.ctx }

// Go runs task in a goroutine and then calls apply with its result, unless
// the scope was closed in the meantime. apply runs under the scope lock, so
// it never overlaps Close; apply must not start tasks on the same scope.
func (s *Scope) Go(task func(ctx context.Context) error, apply func(err error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		err := task(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || apply == nil {
			return
		}
		apply(err)
	}()
	return nil
}

// Cancel aborts in-flight tasks without closing the scope's bookkeeping.
func (s *Scope) Cancel() {
	s.cancel()
}

// Close cancels in-flight tasks and waits for them. Pending apply callbacks
// are dropped. Close is idempotent.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Busy is a per-action in-flight flag. The zero value is ready to use.
type Busy struct {
	flag atomic.Bool
}

// Do runs fn unless another Do on the same Busy is running.
func (b *Busy) Do(fn func() error) error {
	if !b.flag.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer b.flag.Store(false)
	return fn()
}

func (b *Busy) Active() bool {
	return b.flag.Load()
}
