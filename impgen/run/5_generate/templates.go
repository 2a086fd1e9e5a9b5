package generate

import (
	"text/template"
)

// proxyTemplate renders a whole proxy file. Method bodies are prepared by the caller.
//
//nolint:gochecknoglobals // Parsed once; templates are constants
var proxyTemplate = template.Must(template.New("proxy").Parse(`// Code generated by impgen. DO NOT EDIT.

package {{.PkgName}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.MockName}} implements {{.IfaceRef}} on a rehearse mock. Each method is recorded
// as a call to a child mock named after the method.
type {{.MockName}} struct {
	*rehearse.Mock
}

// {{.MockName}}Calls makes the same calls as {{.MockName}}, but returns them unconverted,
// for use as When and Verify rehearsals.
type {{.MockName}}Calls struct {
	mock *rehearse.Mock
}

// New{{.MockName}} creates a {{.MockName}} in c.
func New{{.MockName}}(c *rehearse.Container) *{{.MockName}} {
	return &{{.MockName}}{Mock: c.CreateMock({{printf "%q" .Label}})}
}

var _ {{.IfaceRef}} = (*{{.MockName}})(nil)

// On returns the rehearsal form of the mock's methods.
//
//	rehearse.When(t, mock.On().Get("key")).ThenReturn("value")
func (m *{{.MockName}}) On() {{.MockName}}Calls {
	return {{.MockName}}Calls{mock: m.Mock}
}
{{range .Methods}}
func (m *{{$.MockName}}) {{.Name}}({{.Params}}){{.Results}} {
{{.ProxyBody}}}

func (c {{$.MockName}}Calls) {{.Name}}({{.CallParams}}) *rehearse.Resolved {
{{.CallBody}}}
{{end}}`))
