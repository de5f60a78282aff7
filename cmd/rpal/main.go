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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dc0d/onexit"

	"github.com/rpal-machine/rpal/cli"
	"github.com/rpal-machine/rpal/cse"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "rpal: %s: internal error: %v\n", cse.InvalidControlSymbol, r)
			os.Exit(1)
		}
	}()
	astFlag := flag.Bool("ast", false, "print the parsed AST and exit")
	stFlag := flag.Bool("st", false, "print the standardized control structures and exit")
	traceDir := flag.String("trace", "", "directory to write a JSON step trace to (also RPAL_TRACEDIR)")
	serveAddr := flag.String("serve", "", "serve a websocket endpoint at this address (e.g. :8080), requires a file argument")
	watch := flag.Bool("watch", false, "re-run the file argument on every write")
	flag.Parse()

	trace, err := cli.OpenTrace(*traceDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rpal:", err)
		os.Exit(1)
	}
	if trace != nil {
		onexit.Register(func() { trace.Close() })
	}

	args := flag.Args()

	switch {
	case *serveAddr != "":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "rpal -serve <addr> requires exactly one file argument")
			os.Exit(1)
		}
		if err := cli.Serve(*serveAddr, args[0], trace); err != nil {
			fmt.Fprintln(os.Stderr, "rpal:", err)
			os.Exit(1)
		}

	case *watch:
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "rpal -watch requires exactly one file argument")
			os.Exit(1)
		}
		if err := cli.Watch(args[0], trace); err != nil {
			fmt.Fprintln(os.Stderr, "rpal:", err)
			os.Exit(1)
		}

	case len(args) == 0:
		onexit.Register(func() { os.Remove(".rpal-history.tmp") })
		if err := cli.Repl(trace); err != nil {
			fmt.Fprintln(os.Stderr, "rpal:", err)
			os.Exit(1)
		}

	default:
		err := cli.Run(args[0], cli.RunOptions{PrintAST: *astFlag, PrintST: *stFlag, Trace: trace})
		if err != nil {
			reportError(err)
			os.Exit(1)
		}
	}
}

// reportError prints the fault the way spec §6 asks for: a machine error's
// taxonomy tag, a syntax error's line/column, anything else as a bare
// message. Panics raised while running are caught by main's deferred
// recover, so no panic escapes main as a stack trace.
func reportError(err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "rpal: internal error: %v\n", r)
		}
	}()
	if me, ok := err.(*cse.MachineError); ok {
		fmt.Fprintf(os.Stderr, "rpal: %s: %s\n", me.Kind, me.Error())
		return
	}
	fmt.Fprintln(os.Stderr, "rpal:", err)
}
