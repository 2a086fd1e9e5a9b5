package core

// Names of the child mocks that record scoped-resource bracketing.
const (
	enterMethod = "Enter"
	exitMethod  = "Exit"
)

// Mock is an explicit mock node. Every interaction is delivered to its container,
// recorded in the event log and resolved against the stubbed behaviors.
// Methods are modeled as lazily created child mocks.
type Mock struct {
	container *Container
	id        *MockIdentity
	children  map[string]*Mock
}

// Call records a call with positional arguments.
func (m *Mock) Call(args ...any) *Resolved {
	return m.container.DeliverCall(m.id, CallEvent{Args: args})
}

// CallKw records a call with positional and keyword arguments.
func (m *Mock) CallKw(args []any, kwargs map[string]any) *Resolved {
	return m.container.DeliverCall(m.id, CallEvent{Args: args, Kwargs: kwargs})
}

// Child returns the mock for a named attribute or method, creating it on first use.
// Options only apply when the child is created.
func (m *Mock) Child(name string, opts ...MockOption) *Mock {
	if child, ok := m.children[name]; ok {
		return child
	}

	child := m.container.newMock(m.id.Name+"."+name, m.id, opts...)
	m.children[name] = child

	return child
}

// Delete records deletion of a property.
func (m *Mock) Delete(property string) *Resolved {
	return m.container.DeliverCall(m.id, AttributeEvent{Property: property, Kind: AccessDelete})
}

// Enter records acquisition of the mock as a scoped resource and marks it entered.
// The acquisition is a call to the mock's Enter child, so it can be stubbed and verified;
// used as a rehearsal, it leaves the entered state as it was.
func (m *Mock) Enter() *Resolved {
	res := m.Child(enterMethod).Call()
	m.container.bracket(m.id, true)

	return res
}

// Exit records release of the mock and clears its entered state.
func (m *Mock) Exit() *Resolved {
	res := m.Child(exitMethod).Call()
	m.container.bracket(m.id, false)

	return res
}

// Get records a property read.
func (m *Mock) Get(property string) *Resolved {
	return m.container.DeliverCall(m.id, AttributeEvent{Property: property, Kind: AccessGet})
}

// Identity returns the mock's identity.
func (m *Mock) Identity() *MockIdentity {
	return m.id
}

// Name returns the mock's human-readable name.
func (m *Mock) Name() string {
	return m.id.Name
}

// Set records a property write.
func (m *Mock) Set(property string, value any) *Resolved {
	return m.container.DeliverCall(m.id, AttributeEvent{Property: property, Kind: AccessSet, Value: value})
}

// With enters the mock, runs fn with the entered value and exits, even if fn panics.
// fn does not run if entering raised an error.
func (m *Mock) With(fn func(value any) error) (err error) {
	value, err := m.Enter().Result()
	if err != nil {
		return err
	}

	defer func() {
		if exitErr := m.Exit().Err(); err == nil {
			err = exitErr
		}
	}()

	return fn(value)
}
