package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"litedb/internal/exec"
)

// Session drives one REPL loop: read a line, execute it, print the
// outcome, repeat. The line editor / history UI is an external concern
// the engine never implements; Session only ever consumes plain lines.
type Session struct {
	engine *Engine
	out    io.Writer
}

// NewSession wraps eng for interactive use, writing output to out.
func NewSession(eng *Engine, out io.Writer) *Session {
	return &Session{engine: eng, out: out}
}

// Run reads statements from in until EOF or an "exit"/"q" command. A
// statement error is reported and the loop keeps reading — the interactive
// REPL never aborts on a bad statement.
func (s *Session) Run(in io.Reader) error {
	return s.run(in, false)
}

// RunUntilError reads statements from in like Run, but stops at the first
// statement whose execution fails and returns that error, so a caller
// running a script can treat it as a fatal abort.
func (s *Session) RunUntilError(in io.Reader) error {
	return s.run(in, true)
}

func (s *Session) run(in io.Reader, haltOnError bool) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "q" {
			return nil
		}
		if err := s.exec(line); err != nil && haltOnError {
			return err
		}
	}
	return scanner.Err()
}

// exec runs one line of SQL and prints its outcome, returning the
// execution error (already reported to s.out) so a caller can decide
// whether to halt.
func (s *Session) exec(line string) error {
	results, err := s.engine.RunSQL(line)
	if err != nil {
		fmt.Fprintf(s.out, "[Error]  Failed to execute '%s': %v\n", line, err)
		return err
	}
	for _, res := range results {
		s.print(res)
	}
	return nil
}

func (s *Session) print(res *exec.Result) {
	for _, l := range res.Lines {
		fmt.Fprintln(s.out, l)
	}
	if res.Rows != nil {
		fmt.Fprint(s.out, exec.FormatRows(res.Columns, res.Rows))
	}
	for _, m := range res.Messages {
		fmt.Fprintln(s.out, m)
	}
}
