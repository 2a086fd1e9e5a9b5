package astutil_test

import (
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	. "github.com/onsi/gomega"
	astutil "github.com/toejough/rehearse/impgen/run/0_util"
)

func TestPrinter_Expr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr      string
		qualifier string
		want      string
	}{
		{expr: "int", want: "int"},
		{expr: "*Item", qualifier: "store", want: "*store.Item"},
		{expr: "map[string][]Item", qualifier: "store", want: "map[string][]store.Item"},
		{expr: "<-chan time.Time", qualifier: "store", want: "<-chan time.Time"},
		{expr: "chan<- error", want: "chan<- error"},
		{expr: "func(int, string) (bool, error)", want: "func(int, string) (bool, error)"},
		{expr: "[4]byte", want: "[4]byte"},
		{expr: "Page[Item]", qualifier: "s", want: "s.Page[s.Item]"},
		{expr: "interface{ Len() int }", want: "interface{ Len() int }"},
		{expr: "struct{ A, B int }", want: "struct{ A, B int }"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			printer := &astutil.Printer{Qualifier: tt.qualifier}

			g.Expect(printer.Expr(parseType(t, tt.expr))).To(Equal(tt.want))
		})
	}
}

func TestPrinter_CollectsPackages(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	printer := &astutil.Printer{}
	_ = printer.Expr(parseType(t, "map[time.Duration]io.Reader"))

	g.Expect(printer.Packages).To(HaveKey("time"))
	g.Expect(printer.Packages).To(HaveKey("io"))
}

func TestResults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(astutil.Results(nil)).To(BeEmpty())
	g.Expect(astutil.Results([]string{"int"})).To(Equal(" int"))
	g.Expect(astutil.Results([]string{"int", "error"})).To(Equal(" (int, error)"))
}

func parseType(t *testing.T, expr string) dst.Expr {
	t.Helper()

	file, err := decorator.Parse("package p\n\nvar _ " + expr + "\n")
	if err != nil {
		t.Fatalf("failed to parse %q: %v", expr, err)
	}

	return file.Decls[0].(*dst.GenDecl).Specs[0].(*dst.ValueSpec).Type
}
