package main

import (
	"errors"
	"io/fs"
	"strings"

	"mylang/interpreter-go/pkg/driver"
)

func (c *cli) runDeps(args []string) int {
	if len(args) == 0 {
		c.errorf("mylang deps expects install or update\n")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			c.errorf("mylang deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return c.installDeps(nil, false)
	case "update":
		return c.installDeps(args[1:], true)
	default:
		c.errorf("unknown deps command %q (expected install or update)\n", args[0])
		return 1
	}
}

func (c *cli) installDeps(names []string, update bool) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		c.errorf("mylang deps: %v\n", err)
		return 1
	}
	home, err := driver.DefaultHome()
	if err != nil {
		c.errorf("mylang deps: %v\n", err)
		return 1
	}
	lockPath := driver.LockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.errorf("mylang deps: %v\n", err)
			return 1
		}
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
	}
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(home)
	if update {
		installer.refreshAll = len(names) == 0
		installer.refresh = make(map[string]bool, len(names))
		for _, name := range names {
			installer.refresh[name] = true
		}
	}
	changed, logs, err := installer.Install(manifest, lock)
	for _, line := range logs {
		c.printf("%s\n", line)
	}
	if err != nil {
		c.errorf("mylang deps: %v\n", err)
		return 1
	}
	if !changed {
		c.printf("dependencies up to date\n")
		return 0
	}
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		c.errorf("mylang deps: %v\n", err)
		return 1
	}
	c.printf("wrote %s\n", displayPath(lockPath))
	return 0
}
