package core

import (
	"fmt"
	"reflect"
	"strings"
)

// BindWarning reports call arguments that could not be bound to the mock's signature
// and were recorded unbound.
type BindWarning struct {
	Mock *MockIdentity
	Err  error
}

func (w BindWarning) String() string {
	return fmt.Sprintf("could not bind arguments for %s, recording them as given: %v", w.Mock.Name, w.Err)
}

// MiscalledStubWarning reports calls to a stubbed mock that matched none of its stubs.
type MiscalledStubWarning struct {
	Mock       *MockIdentity
	Rehearsals []*EventEntry
	Calls      []*EventEntry
}

func (w MiscalledStubWarning) String() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s has stubbed behaviors, but was called in a way that matched none of them.\nStubs:", w.Mock.Name)

	for _, rehearsal := range w.Rehearsals {
		builder.WriteString("\n\t")
		builder.WriteString(FormatEntry(rehearsal))
	}

	builder.WriteString("\nCalls:")

	for _, call := range w.Calls {
		builder.WriteString("\n\t")
		builder.WriteString(FormatEntry(call))
	}

	return builder.String()
}

// RedundantVerifyWarning reports a verify rehearsal identical to a when rehearsal.
type RedundantVerifyWarning struct {
	Rehearsal *EventEntry
}

func (w RedundantVerifyWarning) String() string {
	return fmt.Sprintf(
		"the same rehearsal was used for both When and Verify: %s\n"+
			"verifying a stubbed call is redundant; the stub already shows the call happened",
		FormatEntry(w.Rehearsal),
	)
}

// Warning is a non-fatal misuse diagnostic collected at reset.
type Warning interface {
	String() string
}

// CheckWarnings scans a full log for miscalled stubs and redundant verifications.
// It only reads the entries.
func CheckWarnings(entries []*EventEntry) []Warning {
	warnings := miscalledStubs(entries)

	return append(warnings, redundantVerifies(entries)...)
}

// excusedByVerify reports whether a later verify rehearsal accounts for call.
func excusedByVerify(call *EventEntry, later []*EventEntry) bool {
	for _, entry := range later {
		if entry.Kind == EntryVerifyRehearsal && EntryMatches(call, entry) {
			return true
		}
	}

	return false
}

// groupByMock splits entries by mock, keeping first-appearance order of the mocks.
func groupByMock(entries []*EventEntry) [][]*EventEntry {
	index := map[*MockIdentity]int{}

	var groups [][]*EventEntry

	for _, entry := range entries {
		i, ok := index[entry.Mock]
		if !ok {
			i = len(groups)
			index[entry.Mock] = i
			groups = append(groups, nil)
		}

		groups[i] = append(groups[i], entry)
	}

	return groups
}

func isCall(entry *EventEntry) bool {
	_, ok := entry.Event.(CallEvent)

	return ok
}

func miscalledStubs(entries []*EventEntry) []Warning {
	var warnings []Warning

	for _, group := range groupByMock(entries) {
		var (
			rehearsals []*EventEntry
			unmatched  []*EventEntry
		)

		flush := func() {
			if len(unmatched) > 0 {
				warnings = append(warnings, MiscalledStubWarning{
					Mock:       unmatched[0].Mock,
					Rehearsals: append([]*EventEntry(nil), rehearsals...),
					Calls:      unmatched,
				})
				unmatched = nil
			}
		}

		for i, entry := range group {
			if !isCall(entry) {
				continue
			}

			switch entry.Kind {
			case EntryWhenRehearsal:
				flush()

				rehearsals = append(rehearsals, entry)
			case EntryPlain:
				if len(rehearsals) == 0 || matchesAny(entry, rehearsals) || excusedByVerify(entry, group[i+1:]) {
					continue
				}

				unmatched = append(unmatched, entry)
			case EntryVerifyRehearsal:
			}
		}

		flush()
	}

	return warnings
}

func matchesAny(call *EventEntry, rehearsals []*EventEntry) bool {
	for _, rehearsal := range rehearsals {
		if EntryMatches(call, rehearsal) {
			return true
		}
	}

	return false
}

func redundantVerifies(entries []*EventEntry) []Warning {
	var warnings []Warning

	for _, verify := range entries {
		if verify.Kind != EntryVerifyRehearsal {
			continue
		}

		for _, when := range entries {
			if when.Kind == EntryWhenRehearsal && sameRehearsal(when, verify) {
				warnings = append(warnings, RedundantVerifyWarning{Rehearsal: verify})

				break
			}
		}
	}

	return warnings
}

// sameRehearsal compares two rehearsals by value, including their match options.
func sameRehearsal(a, b *EventEntry) bool {
	if a.Mock != b.Mock || a.IgnoreExtraArgs != b.IgnoreExtraArgs {
		return false
	}

	if (a.Entered == nil) != (b.Entered == nil) || a.Entered != nil && *a.Entered != *b.Entered {
		return false
	}

	return eventsIdentical(a.Event, b.Event)
}

// eventsIdentical compares events literally: matchers are compared as values, not applied.
func eventsIdentical(a, b Event) bool {
	callA, aIsCall := a.(CallEvent)
	callB, bIsCall := b.(CallEvent)

	if !aIsCall || !bIsCall {
		return reflect.DeepEqual(a, b)
	}

	if len(callA.Kwargs) == 0 && len(callB.Kwargs) == 0 {
		return len(callA.Args) == len(callB.Args) && (len(callA.Args) == 0 || reflect.DeepEqual(callA.Args, callB.Args))
	}

	return reflect.DeepEqual(callA.Args, callB.Args) && reflect.DeepEqual(callA.Kwargs, callB.Kwargs)
}
