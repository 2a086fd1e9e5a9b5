// Package match provides argument matchers for rehearse's When and Verify rehearsals.
// A matcher passed in place of an argument decides for itself whether the actual
// argument is equal. This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/rehearse/match"
//	)
//
//	rehearse.When(t, store.Put(Pattern(`^user-\d+$`), BeAny)).ThenReturn(nil)
//	rehearse.Verify(t, counter.Add(BeNumerically(">", 0)))
package match

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// Captor is a matcher that matches any value of type T. When a verification it took
// part in succeeds, it remembers the values it matched, in order.
type Captor[T any] struct {
	values []T
}

// Capture returns a Captor for values of type T.
//
//	captor := Capture[string]()
//	rehearse.Verify(t, logger.Log(captor))
//	g.Expect(captor.Value()).To(ContainSubstring("done"))
func Capture[T any]() *Captor[T] {
	return &Captor[T]{}
}

// FailureMessage describes a value of the wrong type.
func (c *Captor[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %T to capture, got %T", *new(T), actual)
}

// Capture records actual if it is a T.
func (c *Captor[T]) Capture(actual any) {
	if val, ok := actual.(T); ok {
		c.values = append(c.values, val)
	}
}

// Match reports whether actual is a T. It records nothing.
func (c *Captor[T]) Match(actual any) (bool, error) {
	_, ok := actual.(T)

	return ok, nil
}

// NegatedFailureMessage describes an unexpected capture.
func (c *Captor[T]) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v not to be a capturable %T", actual, *new(T))
}

// String describes the matcher in failure output.
func (c *Captor[T]) String() string {
	return fmt.Sprintf("Capture[%T]()", *new(T))
}

// Value returns the most recently captured value.
func (c *Captor[T]) Value() T {
	if len(c.values) == 0 {
		var zero T

		return zero
	}

	return c.values[len(c.values)-1]
}

// Values returns every captured value, oldest first.
func (c *Captor[T]) Values() []T {
	return append([]T(nil), c.values...)
}

// InstanceOf returns a matcher for values whose dynamic type is, or implements, typ.
func InstanceOf(typ reflect.Type) Matcher {
	return typeMatcher{typ: typ}
}

// IsA returns a matcher for values of type T. If T is an interface, values
// implementing it match.
func IsA[T any]() Matcher {
	return typeMatcher{typ: reflect.TypeFor[T]()}
}

// Not returns a matcher for values that do not match expected. Expected may itself be a matcher.
func Not(expected any) Matcher {
	return notMatcher{expected: expected}
}

// Pattern returns a matcher for strings (or Stringers) matching the regular expression.
// It panics if expr does not compile, like regexp.MustCompile.
func Pattern(expr string) Matcher {
	return patternMatcher{re: regexp.MustCompile(expr)}
}

// Predicate returns a matcher for values of type T that fn accepts.
func Predicate[T any](fn func(T) bool) Matcher {
	return Satisfy(func(val T) error {
		if !fn(val) {
			return errPredicateFalse
		}

		return nil
	})
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	rehearse.Verify(t, calc.Add(Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	})))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported variables.
var errPredicateFalse = errors.New("predicate returned false")

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %v not to match BeAny, which matches everything", actual)
}

func (anyMatcher) String() string {
	return "BeAny"
}

type notMatcher struct {
	expected any
}

func (m notMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v not to match %v", actual, m.expected)
}

func (m notMatcher) Match(actual any) (bool, error) {
	if inner, ok := m.expected.(Matcher); ok {
		success, err := inner.Match(actual)
		if err != nil {
			return false, err
		}

		return !success, nil
	}

	return !reflect.DeepEqual(actual, m.expected), nil
}

func (m notMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v to match %v", actual, m.expected)
}

func (m notMatcher) String() string {
	return fmt.Sprintf("Not(%#v)", m.expected)
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v to match pattern %q", actual, m.re)
}

func (m patternMatcher) Match(actual any) (bool, error) {
	switch val := actual.(type) {
	case string:
		return m.re.MatchString(val), nil
	case fmt.Stringer:
		return m.re.MatchString(val.String()), nil
	default:
		return false, nil
	}
}

func (m patternMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v not to match pattern %q", actual, m.re)
}

func (m patternMatcher) String() string {
	return fmt.Sprintf("Pattern(%q)", m.re)
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfyMatcher[T]) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("value %v unexpectedly satisfies predicate", actual)
}

func (m *satisfyMatcher[T]) String() string {
	return fmt.Sprintf("Satisfy[%T]", *new(T))
}

type typeMatcher struct {
	typ reflect.Type
}

func (m typeMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %v, got %T", m.typ, actual)
}

func (m typeMatcher) Match(actual any) (bool, error) {
	if actual == nil {
		return false, nil
	}

	actualType := reflect.TypeOf(actual)
	if m.typ.Kind() == reflect.Interface {
		return actualType.Implements(m.typ), nil
	}

	return actualType == m.typ, nil
}

func (m typeMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v not to be of type %v", actual, m.typ)
}

func (m typeMatcher) String() string {
	return fmt.Sprintf("IsA(%v)", m.typ)
}
