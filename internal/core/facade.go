package core

// Sequence is a set of rehearsals verified as an ordered sequence. Build one with InOrder.
type Sequence struct {
	steps []int
}

// StepMarker is a rehearsal that must match Times consecutive calls. Build one with Step.
type StepMarker struct {
	times int
}

// InOrder groups rehearsal calls for Verify, which then checks they happened in this order.
// Items may be plain rehearsal calls or Step markers.
func InOrder(rehearsals ...any) Sequence {
	steps := make([]int, len(rehearsals))

	for i, rehearsal := range rehearsals {
		steps[i] = stepTimes(rehearsal)
	}

	return Sequence{steps: steps}
}

// NewMock creates a mock in t's container.
func NewMock(t TestReporter, name string, opts ...MockOption) *Mock {
	return For(t).CreateMock(name, opts...)
}

// Reset resets t's container immediately and reports its warnings through t.
func Reset(t TestReporter) {
	t.Helper()

	container := For(t)
	ReportWarnings(t, container.Reset(), container.Strict())
}

// Step marks a rehearsal call as expected times times in a row.
func Step(_ any, times int) StepMarker {
	return StepMarker{times: times}
}

// Verify checks that the rehearsal call happened; a Sequence checks its calls happened in order.
// Failures are reported through t.Fatalf.
//
//	rehearse.Verify(t, greeter.Greet("ann"), rehearse.Times(2))
//	rehearse.Verify(t, rehearse.InOrder(db.Open(), db.Close()))
func Verify(t TestReporter, rehearsal any, opts ...Option) {
	t.Helper()

	steps := []int{stepTimes(rehearsal)}
	if seq, ok := rehearsal.(Sequence); ok {
		steps = seq.steps
	}

	if err := For(t).VerifySteps(steps, opts...); err != nil {
		t.Fatalf("%v", err)
	}
}

// VerifyNoMoreInteractions fails the test if any interaction with the mocks was not verified.
func VerifyNoMoreInteractions(t TestReporter, mocks ...*Mock) {
	t.Helper()

	if err := For(t).VerifyNoMoreInteractions(mocks...); err != nil {
		t.Fatalf("%v", err)
	}
}

// VerifyZeroInteractions fails the test if the mocks were interacted with at all.
func VerifyZeroInteractions(t TestReporter, mocks ...*Mock) {
	t.Helper()

	if err := For(t).VerifyZeroInteractions(mocks...); err != nil {
		t.Fatalf("%v", err)
	}
}

// When stubs the rehearsal call. The call is reinterpreted, not counted as an interaction.
// Failures are reported through t.Fatalf, after which the returned builder is inert.
//
//	rehearse.When(t, greeter.Greet("ann")).ThenReturn("hello, ann")
func When(t TestReporter, _ any, opts ...Option) *StubBuilder {
	t.Helper()

	builder, err := For(t).When(opts...)
	if err != nil {
		t.Fatalf("%v", err)

		return nil
	}

	return builder
}

func stepTimes(rehearsal any) int {
	if marker, ok := rehearsal.(StepMarker); ok {
		return max(marker.times, 1)
	}

	return 1
}
