// Package load parses the Go files of a package into DST, without type checking.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// ErrNoGoFiles is returned when a package directory holds nothing parseable.
var ErrNoGoFiles = errors.New("no go files")

// PackageDST loads a package by import path and returns its DST files and FileSet.
// The current directory (".") is loaded with its test files, so interfaces declared
// in tests can be mocked; other packages are loaded without them.
func PackageDST(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := packageDir(importPath)
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	includeTests := importPath == "."
	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	var files []*dst.File

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		file, err := dec.ParseFile(filepath.Join(dir, name), nil, 0)
		if err != nil {
			// Skip files with parse errors
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: in %s", ErrNoGoFiles, dir)
	}

	return files, fset, nil
}

// ResolveLocalPackagePath returns the absolute path of a subdirectory of the working
// directory named importPath, if it holds Go files. This lets a local package shadow
// a standard library package of the same name (e.g., a local "time").
// Anything else is returned unchanged.
func ResolveLocalPackagePath(importPath string) string {
	if importPath == "." || strings.Contains(importPath, "/") {
		return importPath
	}

	wd, err := os.Getwd()
	if err != nil {
		return importPath
	}

	localDir := filepath.Join(wd, importPath)

	matches, err := filepath.Glob(filepath.Join(localDir, "*.go"))
	if err != nil || len(matches) == 0 {
		return importPath
	}

	return localDir
}

func packageDir(importPath string) (string, error) {
	if importPath == "." {
		dir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}

		return dir, nil
	}

	if resolved := ResolveLocalPackagePath(importPath); resolved != importPath {
		return resolved, nil
	}

	srcDir, _ := os.Getwd()

	pkg, err := build.Import(importPath, srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}
