package main

import (
	"fmt"
	"strings"

	"mylang/interpreter-go/pkg/driver"
	"mylang/interpreter-go/pkg/interpreter"
)

// runtimeFlags are the interpreter switches accepted before or after the
// subcommand. Unset values fall back to the manifest's runtime section.
type runtimeFlags struct {
	faults   string
	faultSet bool
	trace    bool
}

func parseRuntimeFlags(args []string) (runtimeFlags, []string, error) {
	var flags runtimeFlags
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--faults":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("--faults expects a value")
			}
			flags.faults = args[i+1]
			flags.faultSet = true
			i++
		case strings.HasPrefix(arg, "--faults="):
			flags.faults = strings.TrimPrefix(arg, "--faults=")
			flags.faultSet = true
		case arg == "--trace":
			flags.trace = true
		default:
			remaining = append(remaining, arg)
		}
	}
	if flags.faultSet {
		if _, err := interpreter.ParseFaultPolicy(flags.faults); err != nil {
			return flags, nil, fmt.Errorf("--faults: %w", err)
		}
	}
	return flags, remaining, nil
}

// interpreterConfig merges the flags over the manifest defaults.
func (c *cli) interpreterConfig(manifest *driver.Manifest) (interpreter.Config, error) {
	faults := ""
	trace := c.flags.trace
	if manifest != nil {
		faults = manifest.Runtime.Faults
		trace = trace || manifest.Runtime.Trace
	}
	if c.flags.faultSet {
		faults = c.flags.faults
	}
	policy, err := interpreter.ParseFaultPolicy(faults)
	if err != nil {
		return interpreter.Config{}, err
	}
	cfg := interpreter.Config{
		Stdout:      c.stdout,
		Stdin:       c.stdin,
		Diagnostics: c.stderr,
		Faults:      policy,
	}
	if trace {
		cfg.Trace = c.stderr
	}
	return cfg, nil
}
