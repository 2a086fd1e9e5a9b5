// Package astutil renders DST type expressions back to Go source.
package astutil

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/dst"
)

// Printer renders type expressions. Qualifier, if set, is applied to every bare
// exported identifier, so types declared in another package can be prefixed with its name.
type Printer struct {
	Qualifier string
	// Packages collects the package names referenced by selector expressions.
	Packages map[string]bool
}

// FieldTypes renders a field list into one type string per declared name.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
func (p *Printer) FieldTypes(fields *dst.FieldList) []string {
	if fields == nil {
		return nil
	}

	var parts []string

	for _, f := range fields.List {
		typeStr := p.Expr(f.Type)

		for range max(len(f.Names), 1) {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// Expr renders a dst.Expr as Go code.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func (p *Printer) Expr(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return p.ident(typedExpr.Name)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		if pkg, ok := typedExpr.X.(*dst.Ident); ok {
			p.usePackage(pkg.Name)

			return pkg.Name + "." + typedExpr.Sel.Name
		}

		return p.Expr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + p.Expr(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + p.Expr(typedExpr.Len) + "]" + p.Expr(typedExpr.Elt)
		}

		return "[]" + p.Expr(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + p.Expr(typedExpr.Key) + "]" + p.Expr(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + p.Expr(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + p.Expr(typedExpr.Value)
		default:
			return "chan " + p.Expr(typedExpr.Value)
		}
	case *dst.InterfaceType:
		if typedExpr.Methods == nil || len(typedExpr.Methods.List) == 0 {
			return "interface{}"
		}

		methods := make([]string, 0, len(typedExpr.Methods.List))
		for _, method := range typedExpr.Methods.List {
			if funcType, ok := method.Type.(*dst.FuncType); ok && len(method.Names) > 0 {
				methods = append(methods, method.Names[0].Name+p.signature(funcType))
			} else {
				methods = append(methods, p.Expr(method.Type))
			}
		}

		return "interface{ " + strings.Join(methods, "; ") + " }"
	case *dst.StructType:
		return p.structType(typedExpr)
	case *dst.FuncType:
		return "func" + p.signature(typedExpr)
	case *dst.Ellipsis:
		return "..." + p.Expr(typedExpr.Elt)
	case *dst.IndexExpr:
		return p.Expr(typedExpr.X) + "[" + p.Expr(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = p.Expr(idx)
		}

		return p.Expr(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + p.Expr(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Results formats a rendered result list as it appears after a parameter list.
func Results(types []string) string {
	switch len(types) {
	case 0:
		return ""
	case 1:
		return " " + types[0]
	default:
		return " (" + strings.Join(types, ", ") + ")"
	}
}

func (p *Printer) ident(name string) string {
	if p.Qualifier == "" || !token.IsExported(name) {
		return name
	}

	return p.Qualifier + "." + name
}

func (p *Printer) signature(funcType *dst.FuncType) string {
	return "(" + strings.Join(p.FieldTypes(funcType.Params), ", ") + ")" + Results(p.FieldTypes(funcType.Results))
}

func (p *Printer) structType(structType *dst.StructType) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			nameStrs := make([]string, len(field.Names))
			for i, name := range field.Names {
				nameStrs[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(nameStrs, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(p.Expr(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" ")
			fieldStr.WriteString(field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}

func (p *Printer) usePackage(name string) {
	if p.Packages == nil {
		p.Packages = map[string]bool{}
	}

	p.Packages[name] = true
}
