package core

import (
	"errors"
	"fmt"
)

// ErrMissingRehearsal is returned when When or Verify finds no plain interaction to reinterpret.
var ErrMissingRehearsal = errors.New("missing rehearsal")

// MissingRehearsalError explains why rehearsal consumption failed.
type MissingRehearsalError struct {
	Reason string
}

func (e *MissingRehearsalError) Error() string {
	return fmt.Sprintf(
		"%s: %s; rehearsals must be a call or attribute access on a mock, "+
			"written directly inside When/Verify (did you forget to await an async rehearsal?)",
		ErrMissingRehearsal, e.Reason,
	)
}

func (e *MissingRehearsalError) Unwrap() error {
	return ErrMissingRehearsal
}

// EventLog is the ordered record of every interaction with every mock in a container.
// It is append-only apart from rehearsal reclassification and Clear.
type EventLog struct {
	entries []*EventEntry
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// All returns every entry, in order.
func (l *EventLog) All() []*EventEntry {
	out := make([]*EventEntry, len(l.entries))
	copy(out, l.entries)

	return out
}

// CallsToVerify returns every plain entry belonging to one of the given mocks, in order.
func (l *EventLog) CallsToVerify(mocks ...*MockIdentity) []*EventEntry {
	wanted := make(map[*MockIdentity]bool, len(mocks))
	for _, m := range mocks {
		wanted[m] = true
	}

	var out []*EventEntry

	for _, entry := range l.entries {
		if entry.Kind == EntryPlain && wanted[entry.Mock] {
			out = append(out, entry)
		}
	}

	return out
}

// Clear drops every entry.
func (l *EventLog) Clear() {
	l.entries = nil
}

// ConsumeVerifyRehearsals reclassifies the last count entries as verify rehearsals,
// preserving their order. Nothing is changed unless all of them are plain entries.
func (l *EventLog) ConsumeVerifyRehearsals(count int, ignoreExtraArgs bool, entered *bool) ([]*EventEntry, error) {
	if count <= 0 {
		return nil, &MissingRehearsalError{Reason: fmt.Sprintf("verify needs at least one rehearsal, got %d", count)}
	}

	if count > len(l.entries) {
		return nil, &MissingRehearsalError{
			Reason: fmt.Sprintf("expected %d rehearsal(s) but only %d interaction(s) were recorded", count, len(l.entries)),
		}
	}

	tail := l.entries[len(l.entries)-count:]

	for i, entry := range tail {
		if entry.IsRehearsal() {
			return nil, &MissingRehearsalError{
				Reason: fmt.Sprintf("rehearsal %d of %d (%s) was already used as a %s", i+1, count, entry, entry.Kind),
			}
		}
	}

	out := make([]*EventEntry, count)

	for i, entry := range tail {
		entry.Kind = EntryVerifyRehearsal
		entry.IgnoreExtraArgs = ignoreExtraArgs
		entry.Entered = entered
		out[i] = entry
	}

	return out, nil
}

// ConsumeWhenRehearsal reclassifies the last entry as a when rehearsal.
func (l *EventLog) ConsumeWhenRehearsal(ignoreExtraArgs bool, entered *bool) (*EventEntry, error) {
	last, ok := l.Last()
	if !ok {
		return nil, &MissingRehearsalError{Reason: "no interaction has been recorded"}
	}

	if last.IsRehearsal() {
		return nil, &MissingRehearsalError{
			Reason: fmt.Sprintf("the last interaction (%s) was already used as a %s", last, last.Kind),
		}
	}

	last.Kind = EntryWhenRehearsal
	last.IgnoreExtraArgs = ignoreExtraArgs
	last.Entered = entered

	return last, nil
}

// Last returns the most recent entry.
func (l *EventLog) Last() (*EventEntry, bool) {
	if len(l.entries) == 0 {
		return nil, false
	}

	return l.entries[len(l.entries)-1], true
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Push appends an entry.
func (l *EventLog) Push(entry *EventEntry) {
	l.entries = append(l.entries, entry)
}
