// Package core provides the internal implementation of rehearse's event log,
// behavior store, matching and verification engines.
package core

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// AccessKind is the kind of an attribute access.
type AccessKind int

// Attribute access kinds.
const (
	AccessGet AccessKind = iota
	AccessSet
	AccessDelete
)

func (k AccessKind) String() string {
	switch k {
	case AccessGet:
		return "get"
	case AccessSet:
		return "set"
	case AccessDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// AttributeEvent records a property read, write or delete on a mock.
type AttributeEvent struct {
	Property string
	Kind     AccessKind
	Value    any
}

func (AttributeEvent) isEvent() {}

// CallEvent records a call made to a mock.
type CallEvent struct {
	Args   []any
	Kwargs map[string]any
}

func (CallEvent) isEvent() {}

// EntryKind classifies an entry in the event log.
type EntryKind int

// Entry kinds. A plain entry is an actual interaction; rehearsals are entries
// reclassified by When or Verify.
const (
	EntryPlain EntryKind = iota
	EntryWhenRehearsal
	EntryVerifyRehearsal
)

func (k EntryKind) String() string {
	switch k {
	case EntryPlain:
		return "call"
	case EntryWhenRehearsal:
		return "when-rehearsal"
	case EntryVerifyRehearsal:
		return "verify-rehearsal"
	default:
		return "unknown"
	}
}

// EntryState is the ambient state of the owning mock when an interaction happened.
type EntryState struct {
	Entered bool
}

// Event is either a CallEvent or an AttributeEvent.
type Event interface {
	isEvent()
}

// EventEntry is one interaction in the event log.
type EventEntry struct {
	Mock  *MockIdentity
	Event Event
	State EntryState

	// Kind, IgnoreExtraArgs and Entered are only changed by rehearsal consumption.
	Kind            EntryKind
	IgnoreExtraArgs bool
	Entered         *bool

	resolution *resolution
	revert     func()
}

// IsRehearsal reports whether the entry was reclassified as a when or verify rehearsal.
func (e *EventEntry) IsRehearsal() bool {
	return e.Kind != EntryPlain
}

// MatchOptions returns the options a rehearsal entry matches with.
func (e *EventEntry) MatchOptions() MatchOptions {
	return MatchOptions{IgnoreExtraArgs: e.IgnoreExtraArgs, IsEntered: e.Entered}
}

// String renders the entry as the call expression that produced it.
func (e *EventEntry) String() string {
	return FormatEntry(e)
}

// MockIdentity identifies a mock. It is immutable once created.
type MockIdentity struct {
	ID        uuid.UUID
	Name      string
	Async     bool
	Signature *Signature

	// Parent is the mock this one was discovered on, nil for root mocks.
	Parent *MockIdentity
}

// NewMockIdentity creates an identity with a fresh random ID.
func NewMockIdentity(name string, async bool, sig *Signature) *MockIdentity {
	return &MockIdentity{
		ID:        uuid.New(),
		Name:      name,
		Async:     async,
		Signature: sig,
	}
}

// EventsEqual reports whether two events are structurally equal: same kind and
// same field values. Positional args compare pairwise by value (matchers in b
// get to decide), keyword args compare as an order-irrelevant mapping.
func EventsEqual(actual, expected Event) bool {
	switch exp := expected.(type) {
	case CallEvent:
		act, ok := actual.(CallEvent)
		if !ok {
			return false
		}

		if len(act.Args) != len(exp.Args) || len(act.Kwargs) != len(exp.Kwargs) {
			return false
		}

		return argsMatch(act.Args, exp.Args) && kwargsMatch(act.Kwargs, exp.Kwargs)
	case AttributeEvent:
		act, ok := actual.(AttributeEvent)
		if !ok {
			return false
		}

		return act.Property == exp.Property && act.Kind == exp.Kind && ValuesMatch(act.Value, exp.Value)
	default:
		return false
	}
}

// kwargNames returns the keyword names of a call in sorted order.
func kwargNames(kwargs map[string]any) []string {
	return slices.Sorted(maps.Keys(kwargs))
}
