// Package rehearse provides test doubles for Go: mocks that record every interaction,
// stubs configured by rehearsing the call they should answer, and verification of
// the calls that happened.
//
//	c := rehearse.For(t)
//	greeter := c.CreateMock("greeter")
//	rehearse.When(t, greeter.Call("ann")).ThenReturn("hello, ann")
//	_ = greeter.Call("ann").Value() // "hello, ann"
//	rehearse.Verify(t, greeter.Call("ann"))
//
// This is the public API entry point. Implementation lives in internal/core.
package rehearse

import (
	"github.com/toejough/rehearse/internal/core"
)

// Types re-exported from internal/core.

// AccessKind is the kind of an attribute access.
type AccessKind = core.AccessKind

// Attribute access kinds.
const (
	AccessGet    = core.AccessGet
	AccessSet    = core.AccessSet
	AccessDelete = core.AccessDelete
)

// AttributeEvent records a property read, write or delete on a mock.
type AttributeEvent = core.AttributeEvent

// Behavior binds a when rehearsal to the effect a matching call produces.
type Behavior = core.Behavior

// Binder normalizes call arguments against a signature.
type Binder = core.Binder

// BindWarning reports call arguments recorded unbound.
type BindWarning = core.BindWarning

// CallEvent records a call made to a mock.
type CallEvent = core.CallEvent

// Container owns the mocks, event log and behaviors of one test.
type Container = core.Container

// ContainerOption configures a Container.
type ContainerOption = core.ContainerOption

// DelegateFunc is the signature of a ThenCall callback.
type DelegateFunc = core.DelegateFunc

// Event is either a CallEvent or an AttributeEvent.
type Event = core.Event

// EventEntry is one interaction in the event log.
type EventEntry = core.EventEntry

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// MiscalledStubWarning reports calls to a stubbed mock that matched none of its stubs.
type MiscalledStubWarning = core.MiscalledStubWarning

// MissingRehearsalError explains why a When or Verify found nothing to reinterpret.
type MissingRehearsalError = core.MissingRehearsalError

// Mock is an explicit mock node.
type Mock = core.Mock

// MockIdentity identifies a mock.
type MockIdentity = core.MockIdentity

// MockOption configures a mock at creation.
type MockOption = core.MockOption

// Option configures a When or Verify rehearsal.
type Option = core.Option

// Param is one declared parameter.
type Param = core.Param

// ParamKind describes how a parameter may be passed.
type ParamKind = core.ParamKind

// Parameter kinds.
const (
	ParamPositionalOrKeyword = core.ParamPositionalOrKeyword
	ParamPositional          = core.ParamPositional
	ParamKeywordOnly         = core.ParamKeywordOnly
	ParamVarPositional       = core.ParamVarPositional
	ParamVarKeyword          = core.ParamVarKeyword
)

// RedundantVerifyWarning reports a verify rehearsal identical to a when rehearsal.
type RedundantVerifyWarning = core.RedundantVerifyWarning

// Resolved is the outcome of an interaction with a mock.
type Resolved = core.Resolved

// Scope is a fake scoped resource produced by a ThenEnter stub.
type Scope = core.Scope

// Sequence is a set of rehearsals verified in order.
type Sequence = core.Sequence

// Signature is the declared parameter list of a mocked callable.
type Signature = core.Signature

// SignatureBinder is the default Binder.
type SignatureBinder = core.SignatureBinder

// StepMarker is a rehearsal expected several times in a row.
type StepMarker = core.StepMarker

// StubBuilder attaches an effect to a when rehearsal.
type StubBuilder = core.StubBuilder

// TestReporter is the minimal interface rehearse needs from test frameworks.
type TestReporter = core.TestReporter

// UnverifiedInteractionsError reports interactions no verify rehearsal accounts for.
type UnverifiedInteractionsError = core.UnverifiedInteractionsError

// VerifyError reports expected interactions that did not happen as specified.
type VerifyError = core.VerifyError

// Warning is a non-fatal misuse diagnostic collected at reset.
type Warning = core.Warning

// Errors re-exported from internal/core.
var (
	ErrBind             = core.ErrBind
	ErrMissingRehearsal = core.ErrMissingRehearsal
	ErrUnknownMock      = core.ErrUnknownMock
	ErrVerify           = core.ErrVerify
)

// Functions re-exported from internal/core.

// As converts a resolved value to T, giving T's zero value for nil or a value of another type.
func As[T any](value any) T {
	return core.As[T](value)
}

// At converts element i of a multi-value result, stubbed as a []any, to T.
func At[T any](value any, i int) T {
	return core.At[T](value, i)
}

// Entered restricts matching to interactions made while the mock was (or was not) entered.
func Entered(entered bool) Option {
	return core.Entered(entered)
}

// IgnoreExtraArgs matches calls on their leading args and named keywords only.
func IgnoreExtraArgs() Option {
	return core.IgnoreExtraArgs()
}

// InOrder groups rehearsal calls for Verify, which checks they happened in this order.
func InOrder(rehearsals ...any) Sequence {
	return core.InOrder(rehearsals...)
}

// NewContainer creates a standalone container, not tied to a test.
func NewContainer(opts ...ContainerOption) *Container {
	return core.NewContainer(opts...)
}

// NewMock creates a mock in t's container.
func NewMock(t TestReporter, name string, opts ...MockOption) *Mock {
	return core.NewMock(t, name, opts...)
}

// Once makes a stub fire a single time. For Verify it means Times(1).
func Once() Option {
	return core.Once()
}

// Spread converts typed variadic arguments for a call taking ...any.
func Spread[T any](values []T) []any {
	return core.Spread(values)
}

// Step marks a rehearsal call as expected times times in a row.
func Step(rehearsal any, times int) StepMarker {
	return core.Step(rehearsal, times)
}

// Times bounds how often a stub fires, or sets the exact count Verify requires.
func Times(n int) Option {
	return core.Times(n)
}

// Verify checks that the rehearsal call (or InOrder sequence) happened.
func Verify(t TestReporter, rehearsal any, opts ...Option) {
	t.Helper()
	core.Verify(t, rehearsal, opts...)
}

// VerifyNoMoreInteractions fails the test if any interaction with the mocks was not verified.
func VerifyNoMoreInteractions(t TestReporter, mocks ...*Mock) {
	t.Helper()
	core.VerifyNoMoreInteractions(t, mocks...)
}

// VerifyZeroInteractions fails the test if the mocks were interacted with at all.
func VerifyZeroInteractions(t TestReporter, mocks ...*Mock) {
	t.Helper()
	core.VerifyZeroInteractions(t, mocks...)
}

// When stubs the rehearsal call.
func When(t TestReporter, rehearsal any, opts ...Option) *StubBuilder {
	t.Helper()

	return core.When(t, rehearsal, opts...)
}

// WithAsync marks a mock as asynchronous.
func WithAsync() MockOption {
	return core.WithAsync()
}

// WithBinder replaces the default SignatureBinder.
func WithBinder(binder Binder) ContainerOption {
	return core.WithBinder(binder)
}

// WithSignature declares the parameters used to bind call arguments.
func WithSignature(sig Signature) MockOption {
	return core.WithSignature(sig)
}

// WithStrictWarnings makes warnings found at cleanup fail the test.
func WithStrictWarnings() ContainerOption {
	return core.WithStrictWarnings()
}
