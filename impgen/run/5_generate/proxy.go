// Package generate renders typed proxy mocks for interfaces.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/rehearse/impgen/run/0_util"
	detect "github.com/toejough/rehearse/impgen/run/3_detect"
)

// RehearseImportPath is the import path of the package generated code depends on.
const RehearseImportPath = "github.com/toejough/rehearse"

// Exported variables.
var (
	ErrMethodCollision = errors.New("method name collides with a generated method")
	ErrUnknownPackage  = errors.New("type refers to a package the interface's file does not import")
)

// Options describe where the proxy goes and what it is called.
type Options struct {
	// PkgName is the package the generated file belongs to.
	PkgName string
	// MockName is the name of the generated proxy type.
	MockName string
	// Qualifier is the package name the interface is referred to by, empty when the
	// interface is declared in the output package.
	Qualifier string
	// ImportPath is the interface's package, imported when Qualifier is set.
	ImportPath string
}

// Proxy renders the source of a proxy implementing iface.
func Proxy(iface detect.Interface, opts Options) (string, error) {
	methods, err := detect.Methods(iface)
	if err != nil {
		return "", err
	}

	printer := &astutil.Printer{Qualifier: opts.Qualifier}
	data := fileData{
		PkgName:  opts.PkgName,
		MockName: opts.MockName,
		Label:    iface.Name,
		IfaceRef: iface.Name,
	}

	if opts.Qualifier != "" {
		data.IfaceRef = opts.Qualifier + "." + iface.Name
	}

	for _, method := range methods {
		if method.Name == accessorName {
			return "", fmt.Errorf("%w: %s.%s", ErrMethodCollision, iface.Name, method.Name)
		}

		data.Methods = append(data.Methods, buildMethod(method, printer))
	}

	data.Imports, err = imports(iface, opts, printer.Packages)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = proxyTemplate.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", opts.MockName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format %s: %w", opts.MockName, err)
	}

	return string(formatted), nil
}

// unexported constants.
const (
	accessorName = "On"
	contextType  = "context.Context"
)

// reservedNames are identifiers generated bodies declare or use.
//
//nolint:gochecknoglobals // Constant lookup table
var reservedNames = map[string]bool{
	"arg": true, "args": true, "c": true, "err": true, "m": true, "res": true, "value": true, "rehearse": true,
}

type fileData struct {
	PkgName  string
	MockName string
	Label    string
	IfaceRef string
	Imports  []importData
	Methods  []methodData
}

type importData struct {
	Alias string
	Path  string
}

type methodData struct {
	Name       string
	Params     string
	CallParams string
	Results    string
	ProxyBody  string
	CallBody   string
}

type param struct {
	name     string
	label    string
	typ      string
	variadic bool
}

func buildMethod(method detect.Method, printer *astutil.Printer) methodData {
	params := buildParams(method.Type.Params, printer)
	results := printer.FieldTypes(method.Type.Results)

	var ctx string

	recorded := params
	if len(params) > 0 && params[0].typ == contextType {
		ctx = params[0].name
		recorded = params[1:]
	}

	paramList := make([]string, len(params))
	callParamList := make([]string, len(params))

	for i, p := range params {
		switch {
		case p.variadic:
			paramList[i] = p.name + " ..." + p.typ
			callParamList[i] = p.name + " ...any"
		case i == 0 && ctx != "":
			paramList[i] = p.name + " " + p.typ
			callParamList[i] = paramList[i]
		default:
			paramList[i] = p.name + " " + p.typ
			callParamList[i] = p.name + " any"
		}
	}

	return methodData{
		Name:       method.Name,
		Params:     strings.Join(paramList, ", "),
		CallParams: strings.Join(callParamList, ", "),
		Results:    astutil.Results(results),
		ProxyBody:  proxyBody(method.Name, params, results, ctx),
		CallBody:   callBody(method.Name, recorded, ctx != ""),
	}
}

// buildParams names every parameter, renaming blanks and names the bodies need.
// Rehearsal methods take the same names typed as any, so matchers can stand in for values.
func buildParams(fields *dst.FieldList, printer *astutil.Printer) []param {
	if fields == nil {
		return nil
	}

	var params []param

	for _, field := range fields.List {
		variadic := false
		typeExpr := field.Type

		if ellipsis, ok := typeExpr.(*dst.Ellipsis); ok {
			variadic = true
			typeExpr = ellipsis.Elt
		}

		typ := printer.Expr(typeExpr)
		names := field.Names

		if len(names) == 0 {
			names = []*dst.Ident{dst.NewIdent("_")}
		}

		for _, ident := range names {
			index := len(params)
			label := ident.Name

			if label == "_" {
				label = "arg" + strconv.Itoa(index)
			}

			name := label
			if reservedNames[name] || printer.Packages[name] {
				name += "Arg"
			}

			params = append(params, param{name: name, label: label, typ: typ, variadic: variadic})
		}
	}

	return params
}

func callBody(name string, recorded []param, async bool) string {
	var (
		body    strings.Builder
		options []string
		args    = make([]string, 0, len(recorded))
		sig     = make([]string, 0, len(recorded))
		spread  *param
	)

	for i, p := range recorded {
		if p.variadic {
			spread = &recorded[i]
			sig = append(sig, fmt.Sprintf("{Name: %q, Kind: rehearse.ParamVarPositional}", p.label))

			continue
		}

		args = append(args, p.name)
		sig = append(sig, fmt.Sprintf("{Name: %q}", p.label))
	}

	if len(sig) > 0 {
		options = append(options, "rehearse.WithSignature(rehearse.Signature{Params: []rehearse.Param{"+strings.Join(sig, ", ")+"}})")
	}

	if async {
		options = append(options, "rehearse.WithAsync()")
	}

	child := "c.mock.Child(" + strconv.Quote(name)
	for _, option := range options {
		child += ", " + option
	}

	child += ")"

	if spread == nil {
		fmt.Fprintf(&body, "\treturn %s.Call(%s)\n", child, strings.Join(args, ", "))

		return body.String()
	}

	if len(args) == 0 {
		fmt.Fprintf(&body, "\treturn %s.Call(%s...)\n", child, spread.name)

		return body.String()
	}

	fmt.Fprintf(&body, "\targs := append([]any{%s}, %s...)\n\n", strings.Join(args, ", "), spread.name)
	fmt.Fprintf(&body, "\treturn %s.Call(args...)\n", child)

	return body.String()
}

func imports(iface detect.Interface, opts Options, packages map[string]bool) ([]importData, error) {
	byPath := map[string]importData{RehearseImportPath: {Path: RehearseImportPath}}

	if opts.Qualifier != "" {
		alias := ""
		if path.Base(opts.ImportPath) != opts.Qualifier {
			alias = opts.Qualifier
		}

		byPath[opts.ImportPath] = importData{Alias: alias, Path: opts.ImportPath}
	}

	for name := range packages {
		found := false

		for _, imp := range iface.Imports {
			if detect.ImportName(imp) != name {
				continue
			}

			importPath, _ := strconv.Unquote(imp.Path.Value)
			alias := ""

			if imp.Name != nil {
				alias = imp.Name.Name
			}

			byPath[importPath] = importData{Alias: alias, Path: importPath}
			found = true

			break
		}

		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, name)
		}
	}

	out := make([]importData, 0, len(byPath))
	for _, imp := range byPath {
		out = append(out, imp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out, nil
}

func proxyBody(name string, params []param, results []string, ctx string) string {
	var body strings.Builder

	args := make([]string, len(params))
	for i, p := range params {
		args[i] = p.name
		if p.variadic {
			args[i] = "rehearse.Spread(" + p.name + ")..."
		}
	}

	values := results
	hasErr := len(results) > 0 && results[len(results)-1] == "error"

	if hasErr {
		values = results[:len(results)-1]
	}

	valueVar := "value"
	if len(values) == 0 {
		valueVar = "_"
	}

	fmt.Fprintf(&body, "\tres := m.On().%s(%s)\n", name, strings.Join(args, ", "))

	if ctx != "" {
		fmt.Fprintf(&body, "\t%s, err := res.Await(%s)\n", valueVar, ctx)
	} else {
		fmt.Fprintf(&body, "\t%s, err := res.Result()\n", valueVar)
	}

	if !hasErr {
		body.WriteString("\tif err != nil {\n\t\tpanic(err)\n\t}\n")
	}

	returns := make([]string, 0, len(results))

	for i, typ := range values {
		if len(values) == 1 {
			returns = append(returns, fmt.Sprintf("rehearse.As[%s](value)", typ))
		} else {
			returns = append(returns, fmt.Sprintf("rehearse.At[%s](value, %d)", typ, i))
		}
	}

	if hasErr {
		returns = append(returns, "err")
	}

	if len(returns) > 0 {
		fmt.Fprintf(&body, "\n\treturn %s\n", strings.Join(returns, ", "))
	}

	return body.String()
}
