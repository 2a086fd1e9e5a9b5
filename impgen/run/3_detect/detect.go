// Package detect finds the interface to mock and the package that declares it.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"strconv"
	"strings"

	"github.com/dave/dst"
)

// Detection errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrNotIface    = errors.New("not an interface")
	ErrUnsupported = errors.New("unsupported")
)

// Interface is an interface declaration, with the context needed to render its types.
type Interface struct {
	Name    string
	PkgName string
	Type    *dst.InterfaceType
	// Imports are those of the file declaring the interface.
	Imports []*dst.ImportSpec
	// Files are all the files of the declaring package, for resolving embedded interfaces.
	Files []*dst.File
}

// Method is one method of an interface, embedded interfaces flattened.
type Method struct {
	Name string
	Type *dst.FuncType
}

// PackageLoader defines an interface for loading Go packages.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
}

// FindImportPath returns the import path that pkgName refers to in any of files.
func FindImportPath(files []*dst.File, pkgName string) (string, error) {
	for _, file := range files {
		for _, imp := range file.Imports {
			importPath, _ := strconv.Unquote(imp.Path.Value)
			if ImportName(imp) == pkgName {
				return importPath, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no import named %q", ErrNotFound, pkgName)
}

// FindInterface returns the interface type named name declared in files.
func FindInterface(files []*dst.File, name string) (Interface, error) {
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name.Name != name {
					continue
				}

				iface, ok := typeSpec.Type.(*dst.InterfaceType)
				if !ok {
					return Interface{}, fmt.Errorf("%w: %s is a %T", ErrNotIface, name, typeSpec.Type)
				}

				if typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0 {
					return Interface{}, fmt.Errorf("%w: %s has type parameters", ErrUnsupported, name)
				}

				return Interface{
					Name:    name,
					PkgName: file.Name.Name,
					Type:    iface,
					Imports: file.Imports,
					Files:   files,
				}, nil
			}
		}
	}

	return Interface{}, fmt.Errorf("%w: interface %s", ErrNotFound, name)
}

// ImportName returns the name an import is referred to by in code.
func ImportName(imp *dst.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}

	importPath, _ := strconv.Unquote(imp.Path.Value)
	name := path.Base(importPath)

	// gopkg.in/yaml.v3 style paths
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}

	return name
}

// Methods lists the interface's methods, in declaration order, with embedded
// interfaces from the same package expanded in place.
func Methods(iface Interface) ([]Method, error) {
	return collectMethods(iface, iface.Type, map[string]bool{iface.Name: true})
}

// SplitQualified splits "pkg.Name" into its package and local parts. An unqualified
// name has an empty package.
func SplitQualified(name string) (pkg, local string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}

	return "", name
}

func collectMethods(iface Interface, typ *dst.InterfaceType, visited map[string]bool) ([]Method, error) {
	if typ.Methods == nil {
		return nil, nil
	}

	var methods []Method

	for _, field := range typ.Methods.List {
		if funcType, ok := field.Type.(*dst.FuncType); ok {
			for _, name := range field.Names {
				methods = append(methods, Method{Name: name.Name, Type: funcType})
			}

			continue
		}

		ident, ok := field.Type.(*dst.Ident)
		if !ok {
			return nil, fmt.Errorf("%w: embedded %T in %s", ErrUnsupported, field.Type, iface.Name)
		}

		if visited[ident.Name] {
			continue
		}

		if ident.Name == "error" {
			visited[ident.Name] = true
			methods = append(methods, Method{Name: "Error", Type: errorMethod()})

			continue
		}

		visited[ident.Name] = true

		embedded, err := FindInterface(iface.Files, ident.Name)
		if err != nil {
			return nil, fmt.Errorf("embedded in %s: %w", iface.Name, err)
		}

		more, err := collectMethods(iface, embedded.Type, visited)
		if err != nil {
			return nil, err
		}

		methods = append(methods, more...)
	}

	return methods, nil
}

func errorMethod() *dst.FuncType {
	return &dst.FuncType{
		Params:  &dst.FieldList{},
		Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("string")}}},
	}
}
