package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mylang/interpreter-go/pkg/driver"
	"mylang/interpreter-go/pkg/interpreter"
	"mylang/interpreter-go/pkg/typechecker"
)

var errManifestNotFound = errors.New("package.yml not found")

func (c *cli) runEntry(args []string) int {
	if len(args) > 1 {
		c.errorf("mylang run: unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	program, err := loadProgram(args)
	if err != nil {
		c.errorf("mylang run: %v\n", err)
		return 1
	}
	cfg, err := c.interpreterConfig(program.Manifest)
	if err != nil {
		c.errorf("mylang run: manifest runtime: %v\n", err)
		return 1
	}
	interp := interpreter.NewWithConfig(cfg)
	if err := interp.EvaluateProgram(program); err != nil {
		c.errorf("%v\n", err)
		return 1
	}
	return 0
}

func (c *cli) runCheck(args []string) int {
	if len(args) > 1 {
		c.errorf("mylang check: unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	program, err := loadProgram(args)
	if err != nil {
		c.errorf("mylang check: %v\n", err)
		return 1
	}
	checker := typechecker.New()
	failed := false
	for _, mod := range program.Modules {
		diags, err := checker.CheckProgram(mod.AST)
		if err != nil {
			c.errorf("%s: %v\n", displayPath(mod.Path), err)
			return 1
		}
		for _, diag := range diags {
			c.errorf("%s: %s\n", displayPath(mod.Path), diag.String())
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

// loadProgram resolves the single optional argument: a source file, a
// manifest target, or nothing for the manifest's default executable.
func loadProgram(args []string) (*driver.Program, error) {
	loader, err := driver.NewLoader(driver.LoaderOptions{})
	if err != nil {
		return nil, err
	}
	if len(args) == 1 && looksLikeSourceFile(args[0]) {
		return loader.LoadFile(args[0])
	}
	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, errManifestNotFound) {
			if len(args) == 1 {
				return nil, fmt.Errorf("%s is neither a source file nor a target (%v)", args[0], err)
			}
			return nil, fmt.Errorf("requires a manifest target or source file (%v)", err)
		}
		return nil, err
	}
	var target *driver.TargetSpec
	if len(args) == 1 {
		found, ok := manifest.FindTarget(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown target %q in %s", args[0], manifest.Path)
		}
		target = found
	} else if target, err = manifest.DefaultExecutableTarget(); err != nil {
		return nil, fmt.Errorf("manifest error: %w", err)
	}
	return loader.LoadTarget(manifest, target)
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errManifestNotFound
	}
	return driver.LoadManifest(path)
}

func looksLikeSourceFile(arg string) bool {
	if strings.HasSuffix(arg, driver.SourceExt) {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.Mode().IsRegular()
}

func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
