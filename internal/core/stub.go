package core

import "errors"

// StubBuilder attaches an effect to a when rehearsal. A nil builder ignores every call.
type StubBuilder struct {
	container *Container
	rehearsal *EventEntry
	once      bool
	times     *int
}

// Rehearsal returns the entry the builder stubs.
func (b *StubBuilder) Rehearsal() *EventEntry {
	if b == nil {
		return nil
	}

	return b.rehearsal
}

// ThenCall makes matching calls produce whatever fn returns for their arguments.
func (b *StubBuilder) ThenCall(fn DelegateFunc) {
	if b == nil {
		return
	}

	b.add(Delegate{Fn: fn}, b.once, b.bound())
}

// ThenEnter makes matching calls produce a scoped resource that yields value when entered.
func (b *StubBuilder) ThenEnter(value any) {
	if b == nil {
		return
	}

	b.add(EnterContext{Value: value}, b.once, b.bound())
}

// ThenRaise makes matching calls fail with err.
func (b *StubBuilder) ThenRaise(err error) {
	if b == nil {
		return
	}

	if err == nil {
		err = errors.New("rehearse: ThenRaise called with a nil error")
	}

	b.add(Raise{Err: err}, b.once, b.bound())
}

// ThenReturn makes matching calls produce values in order, repeating the last one.
// With no values, matching calls produce nil.
//
// The values are stored newest-first-wins: the last value as a repeating behavior,
// then each earlier value as a once behavior, so calls consume them in declared order.
// A Times(n) bound covers the whole sequence.
func (b *StubBuilder) ThenReturn(values ...any) {
	if b == nil {
		return
	}

	if len(values) == 0 {
		values = []any{nil}
	}

	leading := values[:len(values)-1]
	terminalTimes := 0

	if b.times != nil {
		leading = leading[:min(len(leading), max(*b.times, 0))]
		terminalTimes = *b.times - len(leading)
	}

	if b.times == nil || terminalTimes > 0 {
		b.add(Return{Value: values[len(values)-1]}, b.once, terminalTimes)
	}

	for i := len(leading) - 1; i >= 0; i-- {
		b.add(Return{Value: leading[i]}, true, 0)
	}
}

func (b *StubBuilder) add(effect Effect, once bool, times int) {
	if b.times != nil && *b.times <= 0 {
		return
	}

	b.container.addBehavior(&Behavior{
		Rehearsal:    b.rehearsal,
		Effect:       effect,
		ConsumeOnUse: once,
		Times:        times,
	})
}

// bound returns the Times bound, zero when there is none.
func (b *StubBuilder) bound() int {
	if b.times == nil {
		return 0
	}

	return max(*b.times, 0)
}
