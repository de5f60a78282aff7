/*
Copyright (C) 2023  Carl-Philip Hänsch
Copyright (C) 2013  Pieter Kelchtermans (originally licensed unter WTFPL 2.0)

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package cli holds the rpal binary's four run modes: Repl, Serve, Watch
// and Run.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rpal-machine/rpal/cse"
	"github.com/rpal-machine/rpal/lexer"
	"github.com/rpal-machine/rpal/parser"
	"github.com/rpal-machine/rpal/replmatch"
	"github.com/rpal-machine/rpal/standardize"
)

const (
	newPrompt    = "\033[32m>\033[0m "
	contPrompt   = "\033[32m.\033[0m "
	resultPrompt = "\033[31m=\033[0m "
)

// Repl runs an interactive read-eval-print loop. Readline provides history,
// ^C/^D handling and a continuation prompt when a line looks unterminated
// (an unclosed paren, an unclosed string) — same shape as the teacher's
// scm.Repl, swapping Read/Eval/Serialize for this module's own pipeline.
func Repl(trace *cse.Tracefile) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       ".rpal-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	oldline := ""
	for {
		line, rerr := l.Readline()
		line = oldline + line
		switch {
		case rerr == readline.ErrInterrupt:
			if len(line) == 0 {
				return nil
			}
			oldline = ""
			l.SetPrompt(newPrompt)
			continue
		case rerr == io.EOF:
			return nil
		case rerr != nil:
			return rerr
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(trimmed, ":match "); ok {
			runMatchCommand(rest)
			oldline = ""
			l.SetPrompt(newPrompt)
			continue
		}

		result, evalErr := EvalLine(line, trace)
		if evalErr != nil {
			if looksUnterminated(evalErr) {
				oldline = line + "\n"
				l.SetPrompt(contPrompt)
				continue
			}
			fmt.Println("error:", evalErr)
			oldline = ""
			l.SetPrompt(newPrompt)
			continue
		}

		fmt.Print(resultPrompt)
		if result != nil {
			fmt.Println(cse.String(result))
		} else {
			fmt.Println()
		}
		oldline = ""
		l.SetPrompt(newPrompt)
	}
}

func runMatchCommand(rest string) {
	bindings, err := replmatch.Match(rest)
	if err != nil {
		fmt.Println("match error:", err)
		return
	}
	for name, value := range bindings {
		fmt.Printf("%s = %s\n", name, value)
	}
}

// EvalLine runs the full pipeline over one expression and returns its
// result, or the first syntax/machine error encountered.
func EvalLine(line string, trace *cse.Tracefile) (cse.Symbol, error) {
	tree, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	st := standardize.Standardize(tree)
	csMap := cse.Flatten(st)
	m := cse.NewMachine(csMap, cse.WithStdout(os.Stdout), cse.WithTrace(trace), cse.WithStepLimit(stepLimit()))
	if err := m.Run(); err != nil {
		return nil, err
	}
	result, _ := m.Result()
	return result, nil
}

// looksUnterminated reports whether err is the kind of syntax error that
// means "give me more input" rather than "this input is wrong" — an
// unexpected EOF from the parser, or an unterminated string from the lexer.
func looksUnterminated(err error) bool {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		return strings.Contains(se.Message, "EOF")
	}
	var le *lexer.SyntaxError
	if errors.As(err, &le) {
		return strings.Contains(le.Message, "unterminated")
	}
	return false
}
