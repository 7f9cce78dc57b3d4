package main

import (
	"os"
	"path/filepath"
	"sort"

	"mylang/interpreter-go/pkg/interpreter"
)

const defaultFixtureRoot = "testdata/fixtures"

// runFixtures runs fixture directories. A directory holding manifest.json or
// main.mylang is one fixture; any other directory is searched one level deep.
func (c *cli) runFixtures(args []string) int {
	if len(args) == 0 {
		args = []string{defaultFixtureRoot}
	}
	var dirs []string
	for _, arg := range args {
		found, err := collectFixtureDirs(arg)
		if err != nil {
			c.errorf("mylang fixture: %v\n", err)
			return 1
		}
		dirs = append(dirs, found...)
	}
	if len(dirs) == 0 {
		c.errorf("mylang fixture: no fixtures found\n")
		return 1
	}
	failures := 0
	for _, dir := range dirs {
		if _, err := interpreter.RunFixture(dir); err != nil {
			failures++
			c.printf("FAIL %s: %v\n", dir, err)
			continue
		}
		c.printf("ok   %s\n", dir)
	}
	c.printf("%d passed, %d failed\n", len(dirs)-failures, failures)
	if failures > 0 {
		return 1
	}
	return 0
}

func collectFixtureDirs(root string) ([]string, error) {
	if isFixtureDir(root) {
		return []string{root}, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, entry := range entries {
		dir := filepath.Join(root, entry.Name())
		if entry.IsDir() && isFixtureDir(dir) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func isFixtureDir(dir string) bool {
	for _, name := range []string{"manifest.json", "main.mylang"} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
