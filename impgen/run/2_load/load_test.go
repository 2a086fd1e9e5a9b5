//nolint:paralleltest // Tests use t.Chdir which is incompatible with t.Parallel
package load_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	load "github.com/toejough/rehearse/impgen/run/2_load"
)

func TestPackageDST_IncludesTestFilesForCurrentDirectory(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a.go"), "package a\n\ntype A interface{ Do() }\n")
	writeFile(t, filepath.Join(dir, "a_test.go"), "package a\n\ntype B interface{ Do() }\n")
	t.Chdir(dir)

	files, fset, err := load.PackageDST(".")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fset).NotTo(BeNil())
	g.Expect(files).To(HaveLen(2))
}

func TestPackageDST_ExcludesTestFilesForOtherPackages(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	g.Expect(os.Mkdir(filepath.Join(dir, "extpkg"), 0o755)).To(Succeed())
	writeFile(t, filepath.Join(dir, "extpkg", "ext.go"), "package extpkg\n\nfunc ExtFunc() {}\n")
	writeFile(t, filepath.Join(dir, "extpkg", "ext_test.go"), "package extpkg\n\nimport \"testing\"\n\nfunc TestExtFunc(t *testing.T) {}\n")
	t.Chdir(dir)

	files, _, err := load.PackageDST("extpkg")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(files).To(HaveLen(1))
	g.Expect(files[0].Name.Name).To(Equal("extpkg"))
}

func TestPackageDST_SkipsUnparseableFiles(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "broken.go"), "package a\n\nfunc {\n")
	t.Chdir(dir)

	_, _, err := load.PackageDST(".")

	g.Expect(err).To(MatchError(load.ErrNoGoFiles))
}

func TestResolveLocalPackagePath(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()

	g.Expect(os.Mkdir(filepath.Join(dir, "time"), 0o755)).To(Succeed())
	writeFile(t, filepath.Join(dir, "time", "time.go"), "package time\n")
	t.Chdir(dir)

	g.Expect(load.ResolveLocalPackagePath("time")).To(HaveSuffix(string(filepath.Separator) + "time"))
	g.Expect(load.ResolveLocalPackagePath("strings")).To(Equal("strings"))
	g.Expect(load.ResolveLocalPackagePath("net/http")).To(Equal("net/http"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
