// Package run implements the impgen tool in a testable way.
package run

import (
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	detect "github.com/toejough/rehearse/impgen/run/3_detect"
	generate "github.com/toejough/rehearse/impgen/run/5_generate"
	output "github.com/toejough/rehearse/impgen/run/6_output"
)

// FileSystem interface for writing generated files.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader loads the DST files of a package by import path.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
}

// Run executes the impgen tool logic. It takes command-line arguments, an environment variable getter,
// a FileSystem for writing, a PackageLoader for reading packages and a writer for progress messages.
// On success, it writes a proxy implementing the named interface on a rehearse mock, into the package
// whose //go:generate comment invoked it.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	pkgName := getEnv("GOPACKAGE")
	qualifier, localName := detect.SplitQualified(parsed.Interface)

	localFiles, _, err := pkgLoader.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load the current package: %w", err)
	}

	files := localFiles
	importPath := ""

	if qualifier != "" {
		importPath, err = detect.FindImportPath(localFiles, qualifier)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", parsed.Interface, err)
		}

		files, _, err = pkgLoader.Load(importPath)
		if err != nil {
			return fmt.Errorf("failed to load package %q: %w", importPath, err)
		}
	}

	iface, err := detect.FindInterface(files, localName)
	if err != nil {
		return err
	}

	mockName := parsed.Name
	if mockName == "" {
		mockName = localName + "Mock"
	}

	code, err := generate.Proxy(iface, generate.Options{
		PkgName:    pkgName,
		MockName:   mockName,
		Qualifier:  qualifier,
		ImportPath: importPath,
	})
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", mockName, err)
	}

	return output.Write(code, output.Filename(mockName, pkgName, getEnv("GOFILE")), fileSys, out)
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional,required" help:"interface to mock (e.g. Store or storage.Store)"`
	Name      string `arg:"--name"              help:"name for the generated proxy (defaults to <Interface>Mock)"`
}

// Description is shown in --help.
func (cliArgs) Description() string {
	return "impgen generates a typed proxy for an interface, backed by a rehearse mock."
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "impgen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}
