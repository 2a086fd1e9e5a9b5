package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// ErrVerify is wrapped by every verification failure.
var ErrVerify = errors.New("verification failed")

// UnverifiedInteractionsError reports plain interactions that no verify rehearsal accounts for.
type UnverifiedInteractionsError struct {
	Calls []*EventEntry
}

func (e *UnverifiedInteractionsError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s: found %d unverified interaction(s):", ErrVerify, len(e.Calls))

	for _, call := range e.Calls {
		builder.WriteString("\n\t")
		builder.WriteString(FormatEntry(call))
	}

	return builder.String()
}

func (e *UnverifiedInteractionsError) Unwrap() error {
	return ErrVerify
}

// VerifyError reports expected interactions that did not happen as specified.
type VerifyError struct {
	Steps []VerifyStep
	Calls []*EventEntry
	Times *int
}

func (e *VerifyError) Error() string {
	var builder strings.Builder

	builder.WriteString(ErrVerify.Error())
	builder.WriteString(": expected ")

	switch {
	case len(e.Steps) > 1:
		builder.WriteString("the sequence")
	case e.Times != nil:
		fmt.Fprintf(&builder, "exactly %d call(s) matching", *e.Times)
	default:
		builder.WriteString("at least one call matching")
	}

	expected := make([]string, 0, len(e.Steps))

	for _, step := range e.Steps {
		line := FormatEntry(step.Rehearsal)
		if step.Times > 1 {
			line += fmt.Sprintf(" (x%d)", step.Times)
		}

		expected = append(expected, line)
		builder.WriteString("\n\t")
		builder.WriteString(line)
	}

	if len(e.Steps) > 1 && e.Times != nil {
		fmt.Fprintf(&builder, "\nto occur exactly %d time(s)", *e.Times)
	}

	if len(e.Calls) == 0 {
		builder.WriteString("\nbut the mock(s) were never called")

		return builder.String()
	}

	actual := make([]string, 0, len(e.Calls))
	for _, call := range e.Calls {
		actual = append(actual, FormatEntry(call))
	}

	fmt.Fprintf(&builder, "\nfound %d call(s):", len(actual))

	for _, line := range actual {
		builder.WriteString("\n\t")
		builder.WriteString(line)
	}

	diff := textdiff.Unified("expected", "actual", joinLines(expected), joinLines(actual))
	if diff != "" {
		builder.WriteString("\n")
		builder.WriteString(diff)
	}

	return builder.String()
}

func (e *VerifyError) Unwrap() error {
	return ErrVerify
}

// VerifyStep is one expected interaction within a verification, repeated Times times in a row.
type VerifyStep struct {
	Rehearsal *EventEntry
	Times     int
}

// VerifyHistory checks steps against the chronological calls of the steps' mocks.
// A single step of one call is counted across the whole history; anything longer
// is treated as an ordered sequence.
func VerifyHistory(steps []VerifyStep, calls []*EventEntry, times *int) error {
	if len(steps) == 1 && steps[0].Times <= 1 {
		return VerifySingle(steps[0].Rehearsal, calls, times)
	}

	return VerifySequence(steps, calls, times)
}

// UnverifiedCalls fails if any plain call in calls is matched by none of the
// verify rehearsals in entries.
func UnverifiedCalls(calls, entries []*EventEntry) error {
	var unverified []*EventEntry

	for _, call := range calls {
		verified := false

		for _, entry := range entries {
			if entry.Kind == EntryVerifyRehearsal && EntryMatches(call, entry) {
				verified = true

				break
			}
		}

		if !verified {
			unverified = append(unverified, call)
		}
	}

	if len(unverified) > 0 {
		return &UnverifiedInteractionsError{Calls: unverified}
	}

	return nil
}

// VerifySequence checks that the steps happened in order.
//
// Without times, some contiguous window of calls must match the steps pairwise.
// With times, exactly that many disjoint such windows must be found, scanning left to right.
func VerifySequence(steps []VerifyStep, calls []*EventEntry, times *int) error {
	rehearsals := expandSteps(steps)
	starts := windowStarts(rehearsals, calls)

	var ok bool

	if times == nil {
		ok = len(starts) > 0
		starts = starts[:min(len(starts), 1)]
	} else {
		ok = len(starts) == *times
	}

	if !ok {
		return &VerifyError{Steps: steps, Calls: calls, Times: times}
	}

	for _, start := range starts {
		for offset, rehearsal := range rehearsals {
			captureArgs(calls[start+offset], rehearsal)
		}
	}

	return nil
}

// VerifySingle counts the calls matching rehearsal: exactly times of them if times is set,
// otherwise at least one.
func VerifySingle(rehearsal *EventEntry, calls []*EventEntry, times *int) error {
	var matched []*EventEntry

	for _, call := range calls {
		if EntryMatches(call, rehearsal) {
			matched = append(matched, call)
		}
	}

	count := len(matched)
	if times == nil && count > 0 || times != nil && count == *times {
		for _, call := range matched {
			captureArgs(call, rehearsal)
		}

		return nil
	}

	return &VerifyError{
		Steps: []VerifyStep{{Rehearsal: rehearsal, Times: 1}},
		Calls: calls,
		Times: times,
	}
}

// windowStarts scans the calls for contiguous windows matching rehearsals, taking each
// match greedily and resuming after it, and returns where each window starts.
func windowStarts(rehearsals []*EventEntry, calls []*EventEntry) []int {
	if len(rehearsals) == 0 {
		return nil
	}

	var starts []int

	for start := 0; start+len(rehearsals) <= len(calls); {
		if !windowMatchesAt(rehearsals, calls, start) {
			start++

			continue
		}

		starts = append(starts, start)
		start += len(rehearsals)
	}

	return starts
}

func expandSteps(steps []VerifyStep) []*EventEntry {
	var out []*EventEntry

	for _, step := range steps {
		for range max(step.Times, 1) {
			out = append(out, step.Rehearsal)
		}
	}

	return out
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

func windowMatchesAt(rehearsals []*EventEntry, calls []*EventEntry, start int) bool {
	for offset, rehearsal := range rehearsals {
		if !EntryMatches(calls[start+offset], rehearsal) {
			return false
		}
	}

	return true
}
