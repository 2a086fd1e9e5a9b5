// Package output writes generated proxies to disk.
package output

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/toejough/go-reorder"
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Filename returns the file a proxy named mockName is written to. Proxies generated
// from a test package, or from a _test.go file, go into a _test.go file.
func Filename(mockName, pkgName, goFile string) string {
	base := "generated_" + strings.TrimSuffix(mockName, ".go")

	if strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go") {
		return base + "_test.go"
	}

	return base + ".go"
}

// Write reorders the declarations of code and writes it to filename.
// A failed reorder is reported to out and the code written as is.
func Write(code, filename string, fileWriter Writer, out io.Writer) error {
	const generatedFilePermissions = 0o600

	reordered, err := reorderSource(code)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = code
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

// reorderSource runs reorder.Source on code that parses. The reorderer does not survive
// unparsable input.
func reorderSource(code string) (string, error) {
	_, err := parser.ParseFile(token.NewFileSet(), "", code, parser.SkipObjectResolution)
	if err != nil {
		return "", fmt.Errorf("failed to parse: %w", err)
	}

	reordered, err := reorder.Source(code)
	if err != nil {
		return "", fmt.Errorf("failed to reorder: %w", err)
	}

	return reordered, nil
}
