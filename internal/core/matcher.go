package core

import (
	"reflect"
)

// Matcher is a placeholder argument value that decides equality itself.
// The method set matches gomega's GomegaMatcher, so gomega matchers qualify.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// Capturer is a matcher that records the values it stood in for. Capture is called
// only for calls that matched as a whole, once verification has succeeded.
type Capturer interface {
	Capture(actual any)
}

// ValuesMatch reports whether actual equals expected. A Matcher decides for itself,
// and a Match error counts as a mismatch; anything else is compared with reflect.DeepEqual.
func ValuesMatch(actual, expected any) bool {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)

		return err == nil && success
	}

	return reflect.DeepEqual(actual, expected)
}

func argsMatch(actual, expected []any) bool {
	for i, exp := range expected {
		if i >= len(actual) || !ValuesMatch(actual[i], exp) {
			return false
		}
	}

	return true
}

func kwargsMatch(actual, expected map[string]any) bool {
	for name, exp := range expected {
		act, ok := actual[name]
		if !ok || !ValuesMatch(act, exp) {
			return false
		}
	}

	return true
}

// captureArgs hands every Capturer among the rehearsal's args the actual value it matched.
func captureArgs(actual, rehearsal *EventEntry) {
	act, ok := actual.Event.(CallEvent)
	if !ok {
		return
	}

	exp, ok := rehearsal.Event.(CallEvent)
	if !ok {
		return
	}

	for i, arg := range exp.Args {
		if captor, ok := arg.(Capturer); ok && i < len(act.Args) {
			captor.Capture(act.Args[i])
		}
	}

	for name, arg := range exp.Kwargs {
		if captor, ok := arg.(Capturer); ok {
			if value, found := act.Kwargs[name]; found {
				captor.Capture(value)
			}
		}
	}
}
