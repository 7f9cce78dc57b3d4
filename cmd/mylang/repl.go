package main

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/term"

	"mylang/interpreter-go/pkg/driver"
	"mylang/interpreter-go/pkg/interpreter"
)

const (
	replPrompt       = "mylang> "
	replContinuation = "...     "
)

// runRepl evaluates input chunk by chunk against one interpreter, so
// definitions, globals and live generator handles carry over. A chunk ends
// at a line where every brace opened so far has been closed.
func (c *cli) runRepl(args []string) int {
	if len(args) > 0 {
		c.errorf("mylang repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	cfg, err := c.interpreterConfig(nil)
	if err != nil {
		c.errorf("mylang repl: %v\n", err)
		return 1
	}
	// Source lines and read() share the same stream.
	cfg.Stdin = strings.NewReader("")
	interp := interpreter.NewWithConfig(cfg)

	interactive := false
	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		interactive = true
		c.printf("%s\n", cliToolVersion)
	}

	scanner := bufio.NewScanner(c.stdin)
	var chunk strings.Builder
	depth := 0
	for {
		if interactive {
			if chunk.Len() == 0 {
				c.printf("%s", replPrompt)
			} else {
				c.printf("%s", replContinuation)
			}
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		chunk.WriteString(line)
		chunk.WriteByte('\n')
		depth += braceDelta(line)
		if depth > 0 {
			continue
		}
		if strings.TrimSpace(chunk.String()) != "" {
			c.evalChunk(interp, chunk.String())
		}
		chunk.Reset()
		depth = 0
	}
	if err := scanner.Err(); err != nil {
		c.errorf("mylang repl: %v\n", err)
		return 1
	}
	if strings.TrimSpace(chunk.String()) != "" {
		c.evalChunk(interp, chunk.String())
	}
	if interactive {
		c.printf("\n")
	}
	return 0
}

func (c *cli) evalChunk(interp *interpreter.Interpreter, source string) {
	mod, err := driver.ParseSource("<repl>", []byte(source))
	if err != nil {
		c.errorf("%v\n", err)
		return
	}
	if err := interp.EvaluateModule(mod.AST); err != nil {
		c.errorf("%v\n", err)
	}
}

// braceDelta counts braces outside string literals and line comments.
func braceDelta(line string) int {
	delta := 0
	inString := false
	escaped := false
	for idx := 0; idx < len(line); idx++ {
		ch := line[idx]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '/':
			if idx+1 < len(line) && line[idx+1] == '/' {
				return delta
			}
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}
