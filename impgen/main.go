// impgen generates typed proxies for Go interfaces, backed by rehearse mocks.
// To use it, install it with `go install github.com/toejough/rehearse/impgen@latest`
// and in your test files, add a `//go:generate impgen <interface>` comment. The proxy is named
// <interface>Mock unless a `--name <mockname>` flag says otherwise, and is written to
// generated_<mockname>.go (or _test.go from a test file) in the package holding the comment.
package main

import (
	"fmt"
	"go/token"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/rehearse/impgen/run"
	load "github.com/toejough/rehearse/impgen/run/2_load"
)

// main is the entry point of the impgen tool.
func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements PackageLoader with direct DST parsing.
type realPackageLoader struct{}

// Load loads a package by import path and returns its DST files and FileSet.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	files, fset, err := load.PackageDST(importPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, fset, nil
}
