package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/toejough/rehearse/internal/core"
	"pgregory.net/rapid"
)

func TestContainer_LastStubbingWins(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	stub(g, c, m.Call("r")).ThenReturn("a")
	stub(g, c, m.Call("r")).ThenReturn("b")

	g.Expect(m.Call("r").Value()).To(Equal("b"))
}

func TestContainer_MultiValueStubOrdering(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	stub(g, c, m.Call("r")).ThenReturn("x", "y", "z")

	g.Expect(m.Call("r").Value()).To(Equal("x"))
	g.Expect(m.Call("r").Value()).To(Equal("y"))
	g.Expect(m.Call("r").Value()).To(Equal("z"))
	g.Expect(m.Call("r").Value()).To(Equal("z"), "the terminal value repeats")
}

func TestContainer_MultiValueStubOrdering_Rapid(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.Int(), 1, 6).Draw(rt, "values")
		extra := rapid.IntRange(0, 3).Draw(rt, "extra")

		c := core.NewContainer()
		m := c.CreateMock("m")
		_ = m.Call()

		builder, err := c.When()
		if err != nil {
			rt.Fatalf("when: %v", err)
		}

		builder.ThenReturn(toAny(values)...)

		for i := range len(values) + extra {
			want := values[min(i, len(values)-1)]
			if got := m.Call().Value(); got != want {
				rt.Fatalf("call %d: expected %d, got %v", i, want, got)
			}
		}
	})
}

func TestContainer_NeutralDefault(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	value, err := m.Call(1).Result()

	g.Expect(value).To(BeNil())
	g.Expect(err).NotTo(HaveOccurred())
}

func TestContainer_ThenRaise(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")
	boom := errors.New("boom")

	stub(g, c, m.Call()).ThenRaise(boom)

	value, err := m.Call().Result()
	g.Expect(value).To(BeNil())
	g.Expect(err).To(MatchError(boom))
	g.Expect(func() { m.Call().Must() }).To(PanicWith(boom))
}

func TestContainer_ThenCallRunsLazilyAndNotForRehearsals(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")
	calls := 0

	stub(g, c, m.Call("x")).ThenCall(func(args []any, _ map[string]any) (any, error) {
		calls++

		return len(args), nil
	})

	// Re-stubbing the same call must not run the delegate.
	stub(g, c, m.Call("x")).ThenReturn(7)
	g.Expect(calls).To(BeZero())
	g.Expect(m.Call("x").Value()).To(Equal(7))
}

func TestContainer_ThenCallReceivesArgs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("add")

	_ = m.Call(1, 2)

	builder, err := c.When(core.IgnoreExtraArgs())
	g.Expect(err).NotTo(HaveOccurred())

	builder.ThenCall(func(args []any, _ map[string]any) (any, error) {
		sum := 0
		for _, arg := range args {
			sum += arg.(int)
		}

		return sum, nil
	})

	g.Expect(m.Call(1, 2, 3).Value()).To(Equal(6))
}

func TestContainer_ThenEnter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	open := c.CreateMock("open")

	stub(g, c, open.Call("file")).ThenEnter("handle")

	scope := open.Call("file").Scope()
	g.Expect(scope).NotTo(BeNil())

	var seen any

	err := scope.With(func(value any) error {
		seen = value
		g.Expect(scope.Entered()).To(BeTrue())

		return nil
	})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(seen).To(Equal("handle"))
	g.Expect(scope.Entered()).To(BeFalse())
}

func TestContainer_OnceAndTimes(t *testing.T) {
	t.Parallel()

	t.Run("once", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		c := core.NewContainer()
		m := c.CreateMock("m")

		stub(g, c, m.Call()).ThenReturn("always")
		stub(g, c, m.Call(), core.Once()).ThenReturn("first")

		g.Expect(m.Call().Value()).To(Equal("first"))
		g.Expect(m.Call().Value()).To(Equal("always"))
	})

	t.Run("times", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		c := core.NewContainer()
		m := c.CreateMock("m")

		stub(g, c, m.Call(), core.Times(2)).ThenReturn("limited")

		g.Expect(m.Call().Value()).To(Equal("limited"))
		g.Expect(m.Call().Value()).To(Equal("limited"))
		g.Expect(m.Call().Value()).To(BeNil())
	})

	t.Run("times covers a multi-value sequence", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		c := core.NewContainer()
		m := c.CreateMock("m")

		stub(g, c, m.Call(), core.Times(4)).ThenReturn(1, 2)

		g.Expect([]any{m.Call().Value(), m.Call().Value(), m.Call().Value(), m.Call().Value(), m.Call().Value()}).
			To(HaveExactElements(1, 2, 2, 2, nil))
	})

	t.Run("rehearsing does not spend a once stub", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		c := core.NewContainer()
		m := c.CreateMock("m")

		stub(g, c, m.Call()).ThenReturn("first", "second")
		stub(g, c, m.Call(), core.Once()).ThenReturn("override")
		g.Expect(c.Behaviors()).To(HaveLen(3))

		g.Expect(m.Call().Value()).To(Equal("override"))
		g.Expect(c.Behaviors()).To(HaveLen(2))

		_ = m.Call()
		g.Expect(c.Verify(1)).To(Succeed())
		g.Expect(c.Behaviors()).To(HaveLen(2), "the verify rehearsal gave back what it spent")

		g.Expect(m.Call().Value()).To(Equal("first"))
		g.Expect(m.Call().Value()).To(Equal("second"))
	})
}

func TestContainer_MissingRehearsal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	_, err := c.When()
	g.Expect(err).To(MatchError(core.ErrMissingRehearsal), "no preceding interaction")

	_ = m.Call()
	_, err = c.When()
	g.Expect(err).NotTo(HaveOccurred())

	_, err = c.When()
	g.Expect(err).To(MatchError(core.ErrMissingRehearsal), "twice without an intervening call")

	g.Expect(c.Verify(1)).To(MatchError(core.ErrMissingRehearsal))
}

func TestContainer_VerifyExactCount(t *testing.T) {
	t.Parallel()

	for _, calls := range []int{1, 2, 3} {
		c := core.NewContainer()
		m := c.CreateMock("m")

		for range calls {
			_ = m.Call("r")
		}

		_ = m.Call("r")
		err := c.Verify(1, core.Times(2))

		if calls == 2 {
			NewWithT(t).Expect(err).NotTo(HaveOccurred())
		} else {
			NewWithT(t).Expect(err).To(MatchError(core.ErrVerify), "%d calls", calls)
		}
	}
}

func TestContainer_VerifyAtLeastOnce(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	_ = m.Call("r")
	g.Expect(c.Verify(1)).To(MatchError(core.ErrVerify), "the rehearsal itself does not count")

	_ = m.Call("r")
	_ = m.Call("r")
	_ = m.Call("r")
	g.Expect(c.Verify(1)).To(Succeed())
}

func TestContainer_VerifySequenceOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	a := c.CreateMock("a")
	b := c.CreateMock("b")

	_ = a.Call(1)
	_ = b.Call(1)
	_ = a.Call(2)

	_, _ = a.Call(1), a.Call(2)
	g.Expect(c.Verify(2)).To(Succeed())

	_, _ = a.Call(2), a.Call(1)
	err := c.Verify(2)
	g.Expect(err).To(MatchError(core.ErrVerify))

	var verifyErr *core.VerifyError
	g.Expect(errors.As(err, &verifyErr)).To(BeTrue())
	g.Expect(verifyErr.Steps).To(HaveLen(2))
	g.Expect(verifyErr.Calls).To(HaveLen(2))
	g.Expect(verifyErr.Error()).To(ContainSubstring("a(2)"))
}

func TestContainer_VerifySequenceAcrossMocks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	open := c.CreateMock("open")
	closer := c.CreateMock("close")
	other := c.CreateMock("other")

	_ = open.Call()
	_ = other.Call()
	_ = closer.Call()

	_, _ = open.Call(), closer.Call()
	g.Expect(c.Verify(2)).To(Succeed())

	_, _ = closer.Call(), open.Call()
	g.Expect(c.Verify(2)).To(MatchError(core.ErrVerify))
}

func TestContainer_VerifySequenceTimes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	for range 2 {
		_ = m.Call("open")
		_ = m.Call("read")
		_ = m.Call("read")
		_ = m.Call("close")
	}

	_, _, _ = m.Call("open"), m.Call("read"), m.Call("close")
	g.Expect(c.VerifySteps([]int{1, 2, 1}, core.Times(2))).To(Succeed())

	_, _, _ = m.Call("open"), m.Call("read"), m.Call("close")
	g.Expect(c.VerifySteps([]int{1, 2, 1}, core.Times(3))).To(MatchError(core.ErrVerify))

	_, _, _ = m.Call("open"), m.Call("read"), m.Call("close")
	g.Expect(c.VerifySteps([]int{1, 1, 1})).To(MatchError(core.ErrVerify), "a sequence without times must be contiguous")
}

func TestContainer_AttributeStubAndVerify(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	cfg := c.CreateMock("config")

	stub(g, c, cfg.Get("port")).ThenReturn(8080)

	g.Expect(cfg.Get("port").Value()).To(Equal(8080))
	g.Expect(cfg.Get("host").Value()).To(BeNil())

	_ = cfg.Set("port", 9090)
	_ = cfg.Delete("host")

	_ = cfg.Set("port", 9090)
	g.Expect(c.Verify(1)).To(Succeed())

	_ = cfg.Delete("host")
	g.Expect(c.Verify(1, core.Times(1))).To(Succeed())
}

func TestContainer_EnteredState(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	lock := c.CreateMock("lock")
	read := lock.Child("Read")

	stub(g, c, read.Call(), core.Entered(true)).ThenReturn("locked read")

	g.Expect(read.Call().Value()).To(BeNil())

	err := lock.With(func(any) error {
		g.Expect(read.Call().Value()).To(Equal("locked read"))

		return nil
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(read.Call().Value()).To(BeNil())

	_ = read.Call()
	g.Expect(c.Verify(1, core.Entered(true), core.Times(1))).To(Succeed())
}

func TestContainer_EnterRehearsalKeepsState(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	lock := c.CreateMock("lock")

	stub(g, c, lock.Enter()).ThenReturn("token")

	read := lock.Child("Read")
	_ = read.Call()

	g.Expect(c.Log()[len(c.Log())-1].State.Entered).To(BeFalse())
	g.Expect(lock.Enter().Value()).To(Equal("token"))
}

func TestContainer_WithExitsOnPanic(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	lock := c.CreateMock("lock")

	g.Expect(func() {
		_ = lock.With(func(any) error { panic("body failed") })
	}).To(PanicWith("body failed"))

	_ = lock.Child("Read").Call()
	g.Expect(c.Log()[len(c.Log())-1].State.Entered).To(BeFalse())

	_ = lock.Child("Exit").Call()
	g.Expect(c.Verify(1, core.Times(1))).To(Succeed())
}

func TestContainer_ResetRoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	stub(g, c, m.Call()).ThenReturn("stubbed")
	g.Expect(m.Call().Value()).To(Equal("stubbed"))

	c.Reset()

	g.Expect(c.Log()).To(BeEmpty())
	g.Expect(c.Behaviors()).To(BeEmpty())
	g.Expect(m.Call().Value()).To(BeNil())
}

func TestContainer_ResetReportsWarnings(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")

	stub(g, c, m.Call("r")).ThenReturn(1)
	_ = m.Call("r")
	_ = m.Call("r")
	g.Expect(c.Verify(1)).To(Succeed())

	warnings := c.Reset()

	g.Expect(warnings).To(HaveLen(1))
	g.Expect(warnings[0]).To(BeAssignableToTypeOf(core.RedundantVerifyWarning{}))
	g.Expect(c.Warnings()).To(Equal(warnings))
	g.Expect(c.Reset()).To(BeEmpty())
}

func TestContainer_UnknownMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	stranger := core.NewMockIdentity("stranger", false, nil)

	g.Expect(c.DeliverCall(stranger, core.CallEvent{}).Err()).To(MatchError(core.ErrUnknownMock))
	g.Expect(c.Log()).To(BeEmpty())
}

func TestContainer_ChildMocks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	svc := c.CreateMock("svc")

	g.Expect(svc.Child("Get")).To(BeIdenticalTo(svc.Child("Get")))
	g.Expect(svc.Child("Get").Name()).To(Equal("svc.Get"))
	g.Expect(svc.Child("Get").Identity().Parent).To(BeIdenticalTo(svc.Identity()))

	stub(g, c, svc.Child("Get").Call(1)).ThenReturn("one")
	g.Expect(svc.Child("Put").Call(1).Value()).To(BeNil())
	g.Expect(svc.Child("Get").Call(1).Value()).To(Equal("one"))
}

func TestContainer_SignatureBinding(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	greet := c.CreateMock("greet", core.WithSignature(core.Signature{Params: []core.Param{
		{Name: "name", Kind: core.ParamPositionalOrKeyword},
		{Name: "loud", Kind: core.ParamKeywordOnly},
	}}))

	stub(g, c, greet.CallKw(nil, map[string]any{"name": "ann"})).ThenReturn("hi ann")

	g.Expect(greet.Call("ann").Value()).To(Equal("hi ann"))

	_ = greet.CallKw([]any{"ann"}, map[string]any{"bogus": 1})
	warnings := c.Reset()

	g.Expect(warnings).To(ContainElement(BeAssignableToTypeOf(core.BindWarning{})))
}

func TestContainer_AsyncAwait(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	fetch := c.CreateMock("fetch", core.WithAsync())
	release := make(chan struct{})

	stub(g, c, fetch.Call("slow")).ThenCall(func([]any, map[string]any) (any, error) {
		<-release

		return "late", nil
	})
	stub(g, c, fetch.Call("fast")).ThenReturn("now")

	value, err := fetch.Call("fast").Await(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(value).To(Equal("now"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = fetch.Call("slow").Await(ctx)
	g.Expect(err).To(MatchError(context.DeadlineExceeded))

	close(release)
}

func TestContainer_VerifyNoMoreAndZeroInteractions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	c := core.NewContainer()
	m := c.CreateMock("m")
	idle := c.CreateMock("idle")

	_ = m.Call(1)
	_ = m.Call(2)

	_ = m.Call(1)
	g.Expect(c.Verify(1)).To(Succeed())

	err := c.VerifyNoMoreInteractions(m)
	g.Expect(err).To(MatchError(core.ErrVerify))

	var unverified *core.UnverifiedInteractionsError
	g.Expect(errors.As(err, &unverified)).To(BeTrue())
	g.Expect(unverified.Calls).To(HaveLen(1))

	_ = m.Call(2)
	g.Expect(c.Verify(1)).To(Succeed())
	g.Expect(c.VerifyNoMoreInteractions(m)).To(Succeed())

	g.Expect(c.VerifyZeroInteractions(idle)).To(Succeed())
	g.Expect(c.VerifyZeroInteractions(m)).To(MatchError(core.ErrVerify))
}

// stub turns the interaction just made into a when rehearsal.
func stub(g Gomega, c *core.Container, _ any, opts ...core.Option) *core.StubBuilder {
	builder, err := c.When(opts...)
	g.Expect(err).NotTo(HaveOccurred())

	return builder
}
