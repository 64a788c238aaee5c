// Package promise models a call result that is either available immediately
// or bound later, once a deferred call completes.
package promise

import (
	"context"
	"sync"
)

// Future is a write-once result slot. Completion handlers registered with
// Then run exactly once, after the future is resolved.
type Future[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    T
	err      error
	handlers []func(T, error)
}

// NewFuture creates an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve binds the result; it returns false if the future was already resolved.
func (f *Future[T]) Resolve(value T, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.value, f.err = value, err
	handlers := f.handlers
	f.handlers = nil
	close(f.done)
	f.mu.Unlock()
	for _, handler := range handlers {
		handler(value, err)
	}
	return true
}

// Then registers a completion handler; it runs immediately when already resolved.
func (f *Future[T]) Then(handler func(T, error)) {
	f.mu.Lock()
	if !f.resolved {
		f.handlers = append(f.handlers, handler)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()
	handler(value, err)
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until resolution or ctx cancellation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Value is either Immediate(T) or Pending(*Future[T]).
type Value[T any] struct {
	value  T
	future *Future[T]
}

// Immediate wraps an already known value.
func Immediate[T any](value T) Value[T] {
	return Value[T]{value: value}
}

// Pending wraps a value bound by a future.
func Pending[T any](future *Future[T]) Value[T] {
	return Value[T]{future: future}
}

// IsPending reports whether the value waits on a future.
func (v Value[T]) IsPending() bool { return v.future != nil }

// Future returns the underlying future, nil for immediate values.
func (v Value[T]) Future() *Future[T] { return v.future }

// Await returns the immediate value or waits for the future.
func (v Value[T]) Await(ctx context.Context) (T, error) {
	if v.future == nil {
		return v.value, nil
	}
	return v.future.Wait(ctx)
}

// Then calls handler with the resolved result without blocking the caller.
func (v Value[T]) Then(handler func(T, error)) {
	if v.future == nil {
		handler(v.value, nil)
		return
	}
	v.future.Then(handler)
}
