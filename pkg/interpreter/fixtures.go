package interpreter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"mylang/interpreter-go/pkg/driver"
)

// FixtureManifest is the manifest.json of a fixture directory. Comments and
// trailing commas are allowed.
type FixtureManifest struct {
	Description string   `json:"description"`
	Entry       string   `json:"entry"`
	Setup       []string `json:"setup"`
	Stdin       string   `json:"stdin"`
	Faults      string   `json:"faults"`
	Expect      struct {
		Stdout               []string `json:"stdout"`
		Diagnostics          []string `json:"diagnostics"`
		Errors               []string `json:"errors"`
		TypecheckDiagnostics []string `json:"typecheckDiagnostics"`
	} `json:"expect"`
}

// FixtureResult is what a fixture run produced.
type FixtureResult struct {
	Dir         string
	Stdout      []string
	Diagnostics []string
	Err         error
}

// ReadFixtureManifest loads dir/manifest.json. A missing manifest yields the
// defaults: entry main.mylang and no output.
func ReadFixtureManifest(dir string) (FixtureManifest, error) {
	var manifest FixtureManifest
	path := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			manifest.Entry = "main.mylang"
			return manifest, nil
		}
		return manifest, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	standard, err := hujson.Standardize(data)
	if err != nil {
		return manifest, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(standard))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifest); err != nil {
		return manifest, fmt.Errorf("fixture: decode %s: %w", path, err)
	}
	if manifest.Entry == "" {
		manifest.Entry = "main.mylang"
	}
	return manifest, nil
}

// RunFixture executes a fixture directory and compares the outcome with its
// manifest. The returned error describes the first mismatch.
func RunFixture(dir string) (*FixtureResult, error) {
	manifest, err := ReadFixtureManifest(dir)
	if err != nil {
		return nil, err
	}
	policy, err := ParseFaultPolicy(manifest.Faults)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", dir, err)
	}

	program := &driver.Program{Root: dir}
	for _, rel := range append(append([]string{}, manifest.Setup...), manifest.Entry) {
		mod, err := driver.ParseFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", dir, err)
		}
		program.Modules = append(program.Modules, mod)
		program.Entry = mod
	}

	var stdout, diagnostics bytes.Buffer
	interp := NewWithConfig(Config{
		Stdout:      &stdout,
		Stdin:       strings.NewReader(manifest.Stdin),
		Diagnostics: &diagnostics,
		Faults:      policy,
	})
	runErr := interp.EvaluateProgram(program)
	result := &FixtureResult{
		Dir:         dir,
		Stdout:      splitLines(stdout.String()),
		Diagnostics: splitLines(diagnostics.String()),
		Err:         runErr,
	}
	return result, compareFixture(manifest, result)
}

func compareFixture(manifest FixtureManifest, result *FixtureResult) error {
	expect := manifest.Expect
	if len(expect.TypecheckDiagnostics) > 0 {
		var tcErr *TypecheckError
		if !errors.As(result.Err, &tcErr) {
			return fmt.Errorf("expected typecheck diagnostics %v, got error %v", expect.TypecheckDiagnostics, result.Err)
		}
		for _, want := range expect.TypecheckDiagnostics {
			if !containsDiagnostic(tcErr, want) {
				return fmt.Errorf("expected typecheck diagnostic %q, got %v", want, tcErr)
			}
		}
		return nil
	}
	if len(expect.Errors) > 0 {
		if result.Err == nil {
			return fmt.Errorf("expected evaluation error %v", expect.Errors)
		}
		for _, want := range expect.Errors {
			if !strings.Contains(result.Err.Error(), want) {
				return fmt.Errorf("expected error mentioning %q, got %v", want, result.Err)
			}
		}
	} else if result.Err != nil {
		return fmt.Errorf("evaluation error: %w", result.Err)
	}
	if !equalLines(expect.Stdout, result.Stdout) {
		return fmt.Errorf("stdout mismatch:\nexpected %q\ngot      %q", expect.Stdout, result.Stdout)
	}
	if !equalLines(expect.Diagnostics, result.Diagnostics) {
		return fmt.Errorf("diagnostics mismatch:\nexpected %q\ngot      %q", expect.Diagnostics, result.Diagnostics)
	}
	return nil
}

func containsDiagnostic(err *TypecheckError, want string) bool {
	for _, d := range err.Diagnostics {
		if strings.Contains(d.Message, want) {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}
