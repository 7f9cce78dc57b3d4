package interpreter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func fixtureDirs(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

func TestFixtures(t *testing.T) {
	dirs := fixtureDirs(t, filepath.Join("testdata", "fixtures"))
	if len(dirs) == 0 {
		t.Fatalf("no fixtures found")
	}
	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			if _, err := RunFixture(dir); err != nil {
				t.Fatalf("%v", err)
			}
		})
	}
}

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestFixtureManifestDefaults(t *testing.T) {
	dir := writeFixture(t, map[string]string{"main.mylang": "print(1);\n"})
	manifest, err := ReadFixtureManifest(dir)
	if err != nil {
		t.Fatalf("ReadFixtureManifest: %v", err)
	}
	if manifest.Entry != "main.mylang" {
		t.Fatalf("expected default entry, got %q", manifest.Entry)
	}
	if _, err := RunFixture(dir); err == nil || !strings.Contains(err.Error(), "stdout mismatch") {
		t.Fatalf("expected a stdout mismatch, got %v", err)
	}
}

func TestFixtureManifestRejectsUnknownFields(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"manifest.json": "{\n  // typo\n  \"expected\": {},\n}\n",
	})
	if _, err := ReadFixtureManifest(dir); err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected an unknown field error, got %v", err)
	}
}

func TestFixtureWithSetupStdinAndFaults(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"lib.mylang": `
generator<int> readInts(int n) {
    int x;
    for (int i = 0; i < n; i = i + 1) {
        read(x);
        yield x;
    }
}
`,
		"main.mylang": `
generator<int> g = readInts(3);
while (g.next()) {
    print(g.current);
}
`,
		"manifest.json": `{
  "setup": ["lib.mylang"],
  "stdin": "7 8",
  "faults": "report",
  "expect": {
    "stdout": ["7", "8"],
    "diagnostics": ["generator readInts faulted: runtime error at 5:9: read: unexpected end of input"],
  },
}
`,
	})
	result, err := RunFixture(dir)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %q", result.Diagnostics)
	}
}

func TestFixtureTypecheckExpectation(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"main.mylang": "generator<int> bad() {\n    yield true;\n}\n",
		"manifest.json": `{
  "expect": {"typecheckDiagnostics": ["generator bad yields bool, expected int"]},
}
`,
	})
	if _, err := RunFixture(dir); err != nil {
		t.Fatalf("%v", err)
	}
}
