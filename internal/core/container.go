package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrUnknownMock is returned when an interaction names a mock the container did not create.
var ErrUnknownMock = errors.New("unknown mock")

// Container owns every mock identity, the event log and the behavior store for one test.
// It is not safe for concurrent use; use one container per test.
type Container struct {
	log       *EventLog
	behaviors *BehaviorStore
	binder    Binder
	logger    *slog.Logger
	strict    bool

	mocks   map[uuid.UUID]*MockIdentity
	entered map[*MockIdentity]bool
	usage   map[*Behavior]int

	pending  []Warning
	reported []Warning
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// NewContainer creates an empty container.
func NewContainer(opts ...ContainerOption) *Container {
	container := &Container{
		log:       NewEventLog(),
		behaviors: NewBehaviorStore(),
		binder:    SignatureBinder{},
		logger:    slog.New(slog.DiscardHandler),
		mocks:     map[uuid.UUID]*MockIdentity{},
		entered:   map[*MockIdentity]bool{},
		usage:     map[*Behavior]int{},
	}

	for _, opt := range opts {
		opt(container)
	}

	return container
}

// WithBinder replaces the default SignatureBinder.
func WithBinder(binder Binder) ContainerOption {
	return func(c *Container) {
		c.binder = binder
	}
}

// WithLogger sends debug traces of deliveries, stubbings and verifications to logger.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithStrictWarnings makes test integrations fail the test, rather than log, when
// warnings are found at reset.
func WithStrictWarnings() ContainerOption {
	return func(c *Container) {
		c.strict = true
	}
}

// Behaviors returns the configured behaviors, oldest first.
func (c *Container) Behaviors() []*Behavior {
	return c.behaviors.All()
}

// CreateMock registers a new root mock.
func (c *Container) CreateMock(name string, opts ...MockOption) *Mock {
	return c.newMock(name, nil, opts...)
}

// DeliverCall records an interaction with a mock and resolves the behavior it triggers.
// Calls to mocks with no matching behavior resolve to a nil value and no error.
func (c *Container) DeliverCall(mock *MockIdentity, event Event) *Resolved {
	if mock == nil || c.mocks[mock.ID] != mock {
		return &Resolved{err: fmt.Errorf("%w: %v", ErrUnknownMock, mock), evaluated: true}
	}

	if call, ok := event.(CallEvent); ok {
		event = c.bind(mock, call)
	}

	entry := &EventEntry{
		Mock:  mock,
		Event: event,
		State: EntryState{Entered: c.isEntered(mock)},
	}
	c.log.Push(entry)

	behavior, res := c.behaviors.Resolve(entry, c.usable)
	if behavior == nil {
		c.logger.Debug("rehearse: no behavior", "call", FormatEntry(entry))

		return &Resolved{mock: mock, event: event, evaluated: true}
	}

	c.usage[behavior]++
	entry.resolution = res

	c.logger.Debug("rehearse: resolved", "call", FormatEntry(entry), "stub", FormatEntry(behavior.Rehearsal))

	return &Resolved{mock: mock, event: event, effect: behavior.Effect}
}

// Enter marks a mock as entered as a scoped resource.
func (c *Container) Enter(mock *MockIdentity) {
	c.setEntered(mock, true)
}

// Exit marks a mock as no longer entered.
func (c *Container) Exit(mock *MockIdentity) {
	c.setEntered(mock, false)
}

// Log returns every recorded entry, in order.
func (c *Container) Log() []*EventEntry {
	return c.log.All()
}

// Reset runs the warning checker over the full log, then clears the log, the behaviors
// and all per-mock state. It returns the warnings found since the previous reset.
// Mocks stay usable afterwards.
func (c *Container) Reset() []Warning {
	warnings := append(c.pending, CheckWarnings(c.log.All())...)

	c.log.Clear()
	c.behaviors.Clear()
	clear(c.entered)
	clear(c.usage)
	c.pending = nil
	c.reported = append(c.reported, warnings...)

	c.logger.Debug("rehearse: reset", "warnings", len(warnings))

	return warnings
}

// Strict reports whether warnings should fail the test.
func (c *Container) Strict() bool {
	return c.strict
}

// Verify reinterprets the last count interactions as verify rehearsals and checks them
// against the history. One rehearsal is counted, several form an ordered sequence.
func (c *Container) Verify(count int, opts ...Option) error {
	steps := make([]int, count)
	for i := range steps {
		steps[i] = 1
	}

	return c.VerifySteps(steps, opts...)
}

// VerifyNoMoreInteractions fails if any interaction with the given mocks is not matched
// by a verify rehearsal.
func (c *Container) VerifyNoMoreInteractions(mocks ...*Mock) error {
	return UnverifiedCalls(c.log.CallsToVerify(identities(mocks)...), c.log.All())
}

// VerifySteps is Verify where each rehearsal must match stepTimes[i] consecutive calls.
func (c *Container) VerifySteps(stepTimes []int, opts ...Option) error {
	cfg := newRehearsalConfig(opts)

	rehearsals, err := c.log.ConsumeVerifyRehearsals(len(stepTimes), cfg.ignoreExtraArgs, cfg.entered)
	if err != nil {
		return err
	}

	for i := len(rehearsals) - 1; i >= 0; i-- {
		c.undo(rehearsals[i])
	}

	steps := make([]VerifyStep, len(rehearsals))
	seen := map[*MockIdentity]bool{}

	var mocks []*MockIdentity

	for i, rehearsal := range rehearsals {
		steps[i] = VerifyStep{Rehearsal: rehearsal, Times: max(stepTimes[i], 1)}

		if !seen[rehearsal.Mock] {
			seen[rehearsal.Mock] = true
			mocks = append(mocks, rehearsal.Mock)
		}
	}

	times := cfg.times
	if times == nil && cfg.once {
		one := 1
		times = &one
	}

	err = VerifyHistory(steps, c.log.CallsToVerify(mocks...), times)

	c.logger.Debug("rehearse: verify", "rehearsals", len(steps), "ok", err == nil)

	return err
}

// VerifyZeroInteractions fails if the given mocks were interacted with at all.
func (c *Container) VerifyZeroInteractions(mocks ...*Mock) error {
	calls := c.log.CallsToVerify(identities(mocks)...)
	if len(calls) > 0 {
		return &UnverifiedInteractionsError{Calls: calls}
	}

	return nil
}

// Warnings returns every warning reported by Reset so far, plus any pending ones.
func (c *Container) Warnings() []Warning {
	out := append([]Warning(nil), c.reported...)

	return append(out, c.pending...)
}

// When reinterprets the last interaction as a when rehearsal and returns a builder
// for the behavior it triggers.
func (c *Container) When(opts ...Option) (*StubBuilder, error) {
	cfg := newRehearsalConfig(opts)

	rehearsal, err := c.log.ConsumeWhenRehearsal(cfg.ignoreExtraArgs, cfg.entered)
	if err != nil {
		return nil, err
	}

	c.undo(rehearsal)

	return &StubBuilder{container: c, rehearsal: rehearsal, once: cfg.once, times: cfg.times}, nil
}

func (c *Container) addBehavior(behavior *Behavior) {
	c.behaviors.Add(behavior)
	c.logger.Debug("rehearse: stubbed", "rehearsal", FormatEntry(behavior.Rehearsal), "effect", fmt.Sprintf("%T", behavior.Effect))
}

// bracket changes a mock's entered state as a side effect of the interaction just
// recorded, so that the change is reverted if that interaction becomes a rehearsal.
func (c *Container) bracket(mock *MockIdentity, entered bool) {
	was := c.entered[mock]

	if last, ok := c.log.Last(); ok && last.Kind == EntryPlain {
		last.revert = func() { c.setEntered(mock, was) }
	}

	c.setEntered(mock, entered)
}

func (c *Container) bind(mock *MockIdentity, call CallEvent) CallEvent {
	args, kwargs, err := c.binder.Bind(call.Args, call.Kwargs, mock.Signature)
	if err != nil {
		c.pending = append(c.pending, BindWarning{Mock: mock, Err: err})

		return call
	}

	return CallEvent{Args: args, Kwargs: kwargs}
}

// isEntered reports whether the mock or any of its ancestors is entered.
func (c *Container) isEntered(mock *MockIdentity) bool {
	for node := mock; node != nil; node = node.Parent {
		if c.entered[node] {
			return true
		}
	}

	return false
}

func (c *Container) newMock(name string, parent *MockIdentity, opts ...MockOption) *Mock {
	cfg := mockConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	id := NewMockIdentity(name, cfg.async, cfg.signature)
	id.Parent = parent
	c.mocks[id.ID] = id

	return &Mock{container: c, id: id, children: map[string]*Mock{}}
}

// undo gives back whatever recording a now-rehearsal entry spent or changed.
func (c *Container) undo(entry *EventEntry) {
	if entry.revert != nil {
		entry.revert()
		entry.revert = nil
	}

	res := entry.resolution
	if res == nil {
		return
	}

	c.behaviors.restore(res)

	if c.usage[res.behavior] > 0 {
		c.usage[res.behavior]--
	}

	entry.resolution = nil
}

func (c *Container) setEntered(mock *MockIdentity, entered bool) {
	if entered {
		c.entered[mock] = true
	} else {
		delete(c.entered, mock)
	}
}

func (c *Container) usable(behavior *Behavior) bool {
	return behavior.Times <= 0 || c.usage[behavior] < behavior.Times
}

func identities(mocks []*Mock) []*MockIdentity {
	out := make([]*MockIdentity, 0, len(mocks))
	for _, mock := range mocks {
		out = append(out, mock.id)
	}

	return out
}
