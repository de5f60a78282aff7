/*
Copyright (C) 2023  Carl-Philip Hänsch

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

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rpal-machine/rpal/ast"
	"github.com/rpal-machine/rpal/cse"
	"github.com/rpal-machine/rpal/parser"
	"github.com/rpal-machine/rpal/standardize"
)

// RunOptions controls one-shot file execution.
type RunOptions struct {
	PrintAST bool
	PrintST  bool
	Trace    *cse.Tracefile
	Stdout   io.Writer
}

// Run reads, parses, standardizes and evaluates the program at path. When
// PrintAST is set, the parsed AST is dumped instead of evaluating. When
// PrintST is set, the control structures flattened from the standardized
// tree (one "delta-i = [...]" line per delta) are dumped instead of
// evaluating; the standardized tree itself is not printed.
func Run(path string, opts RunOptions) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := parser.Parse(string(src))
	if err != nil {
		return err
	}
	if opts.PrintAST {
		printAST(os.Stdout, tree, 0)
		return nil
	}

	st := standardize.Standardize(tree)
	csMap := cse.Flatten(st)
	if opts.PrintST {
		for i := 0; i < csMap.Len(); i++ {
			fmt.Fprintln(os.Stdout, csMap.Get(i))
		}
		return nil
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	m := cse.NewMachine(csMap, cse.WithStdout(stdout), cse.WithTrace(opts.Trace), cse.WithStepLimit(stepLimit()))
	if err := m.Run(); err != nil {
		return err
	}
	// A program whose last form yields a value rather than performing
	// Print-style side effects leaves that value on the stack top; render
	// and print it, same as myrpal.py always printing get_result().
	if result, ok := m.Result(); ok {
		fmt.Fprintln(stdout, cse.String(result))
	}
	return nil
}

func printAST(w io.Writer, n *ast.Node, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	if len(n.Children) == 0 {
		fmt.Fprintln(w, n.Label)
		return
	}
	fmt.Fprintln(w, n.Label)
	for _, c := range n.Children {
		printAST(w, c, depth+1)
	}
}
