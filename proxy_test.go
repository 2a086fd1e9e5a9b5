package rehearse_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/rehearse"
	"github.com/toejough/rehearse/match"
)

//go:generate impgen Greeter

type Greeter interface {
	Greet(name string, punctuation ...string) (string, error)
	Lookup(ctx context.Context, id int) (Profile, bool, error)
	Forget(name string)
}

type Profile struct {
	Name string
}

func TestProxy_ReturnsStubbedValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	greeter := NewGreeterMock(rehearse.For(t))

	rehearse.When(t, greeter.On().Greet("ann", "!")).ThenReturn("hello, ann!")
	rehearse.When(t, greeter.On().Greet("bob")).ThenRaise(errors.New("who?"))

	g.Expect(greeter.Greet("ann", "!")).To(Equal("hello, ann!"))

	_, err := greeter.Greet("bob")
	g.Expect(err).To(MatchError("who?"))

	rehearse.Verify(t, greeter.On().Greet(match.BeAny), rehearse.IgnoreExtraArgs(), rehearse.Times(2))
}

func TestProxy_AsyncMethodsAwaitContext(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	greeter := NewGreeterMock(rehearse.For(t))

	positive := match.Predicate(func(id int) bool { return id > 0 })
	rehearse.When(t, greeter.On().Lookup(context.Background(), positive)).ThenReturn([]any{Profile{Name: "ann"}, true})

	profile, found, err := greeter.Lookup(context.Background(), 7)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(found).To(BeTrue())
	g.Expect(profile.Name).To(Equal("ann"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = greeter.Lookup(ctx, 7)
	g.Expect(err).To(MatchError(context.Canceled))
}

func TestProxy_VoidMethodsPanicOnRaise(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	greeter := NewGreeterMock(rehearse.For(t))
	boom := errors.New("boom")

	rehearse.When(t, greeter.On().Forget("ann")).ThenRaise(boom)

	g.Expect(func() { greeter.Forget("ann") }).To(PanicWith(boom))
	g.Expect(func() { greeter.Forget("bob") }).NotTo(Panic())

	rehearse.Verify(t, greeter.On().Forget("bob"), rehearse.Once())
}
