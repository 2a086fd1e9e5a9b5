package core

import (
	"context"
	"fmt"
)

// Resolved is the outcome of delivering an interaction to a container.
// Delegates run lazily, on the first read of the result, and at most once.
type Resolved struct {
	mock   *MockIdentity
	event  Event
	effect Effect

	evaluated bool
	value     any
	err       error
}

// Await reads the result, running a delegate on its own goroutine so that ctx can
// abandon it. It is how results of async mocks are meant to be read.
func (r *Resolved) Await(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("awaiting %s: %w", r.describe(), err)
	}

	if r.evaluated {
		return r.value, r.err
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		r.evaluate()
	}()

	select {
	case <-done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("awaiting %s: %w", r.describe(), ctx.Err())
	}
}

// Err returns the error the call raised, if any.
func (r *Resolved) Err() error {
	r.evaluate()

	return r.err
}

// Must returns the value, panicking if the call raised an error.
func (r *Resolved) Must() any {
	value, err := r.Result()
	if err != nil {
		panic(err)
	}

	return value
}

// Result returns the value and the error.
func (r *Resolved) Result() (any, error) {
	r.evaluate()

	return r.value, r.err
}

// Scope returns the scoped resource the call produced, nil unless it was stubbed with ThenEnter.
func (r *Resolved) Scope() *Scope {
	scope, _ := r.Value().(*Scope)

	return scope
}

// Value returns the value the call produced; nil if the call raised or was not stubbed.
func (r *Resolved) Value() any {
	r.evaluate()

	return r.value
}

func (r *Resolved) describe() string {
	if r.mock == nil {
		return "unknown mock"
	}

	return FormatEvent(r.mock.Name, r.event)
}

func (r *Resolved) evaluate() {
	if r.evaluated {
		return
	}

	r.evaluated = true

	switch effect := r.effect.(type) {
	case Return:
		r.value = effect.Value
	case Raise:
		r.err = effect.Err
	case EnterContext:
		r.value = &Scope{value: effect.Value}
	case Delegate:
		call, _ := r.event.(CallEvent)
		r.value, r.err = effect.Fn(call.Args, call.Kwargs)
	}
}

// As converts a resolved value to T, giving T's zero value for nil or a value of another type.
func As[T any](value any) T {
	out, _ := value.(T)

	return out
}

// At converts element i of a multi-value result, stubbed as a []any, to T.
// Missing elements give T's zero value.
func At[T any](value any, i int) T {
	values, _ := value.([]any)
	if i < 0 || i >= len(values) {
		var zero T

		return zero
	}

	return As[T](values[i])
}

// Spread converts typed variadic arguments for a call taking ...any.
func Spread[T any](values []T) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}

// Scope is a fake scoped resource produced by a ThenEnter stub.
type Scope struct {
	value   any
	entered bool
}

// Enter acquires the resource and returns its value.
func (s *Scope) Enter() any {
	s.entered = true

	return s.value
}

// Entered reports whether the resource is currently held.
func (s *Scope) Entered() bool {
	return s.entered
}

// Exit releases the resource.
func (s *Scope) Exit() {
	s.entered = false
}

// With holds the resource for the duration of fn, releasing it even if fn panics.
func (s *Scope) With(fn func(value any) error) error {
	value := s.Enter()
	defer s.Exit()

	return fn(value)
}
