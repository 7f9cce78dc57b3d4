package main

import "fmt"

func (c *cli) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.stdout, format, args...)
}

func (c *cli) errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.stderr, format, args...)
}

func (c *cli) printUsage() {
	c.errorf("Usage:\n")
	c.errorf("  mylang [--faults=report|abort] [--trace] run [target]\n")
	c.errorf("  mylang [--faults=report|abort] [--trace] run <file.mylang>\n")
	c.errorf("  mylang [--faults=report|abort] [--trace] <file.mylang>\n")
	c.errorf("  mylang check [target|file.mylang]\n")
	c.errorf("  mylang [--faults=report|abort] [--trace] repl\n")
	c.errorf("  mylang fixture [dir ...]\n")
	c.errorf("  mylang deps install\n")
	c.errorf("  mylang deps update [dependency ...]\n")
}
