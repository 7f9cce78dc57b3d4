package main

import (
	"io"
	"os"
)

const cliToolVersion = "mylang 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return newCLI(os.Stdin, os.Stdout, os.Stderr).run(args)
}

// cli carries the process streams so commands can be exercised in tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  runtimeFlags
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (c *cli) run(args []string) int {
	if len(args) == 0 {
		c.printUsage()
		return 1
	}
	flags, remaining, err := parseRuntimeFlags(args)
	if err != nil {
		c.errorf("%v\n", err)
		return 1
	}
	c.flags = flags
	if len(remaining) == 0 {
		c.printUsage()
		return 1
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		c.printUsage()
		return 0
	case "--version", "-V", "version":
		c.printf("%s\n", cliToolVersion)
		return 0
	case "run":
		return c.runEntry(remaining[1:])
	case "check":
		return c.runCheck(remaining[1:])
	case "repl":
		return c.runRepl(remaining[1:])
	case "fixture":
		return c.runFixtures(remaining[1:])
	case "deps":
		return c.runDeps(remaining[1:])
	default:
		return c.runEntry(remaining)
	}
}
