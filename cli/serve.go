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
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rpal-machine/rpal/ast"
	"github.com/rpal-machine/rpal/cse"
	"github.com/rpal-machine/rpal/parser"
	"github.com/rpal-machine/rpal/standardize"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Serve loads path once and exposes a websocket endpoint at addr. When the
// loaded program is a top-level `let D in E`, D — its global definitions —
// is kept and rewoven into every frame's own `let D in <frame>` (see
// globalDefsOf/evalFrame), so a connection's frames see the loaded
// program's bindings. Every frame still gets its own fresh CSE machine
// (env arena, stack, control) — §5's "each connection gets its own CSE
// machine instance" isolation; only the parsed, read-only D subtree is
// shared. A uuid identifies each connection in the log lines; trace steps
// do not carry it.
func Serve(addr, path string, trace *cse.Tracefile) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tree, err := parser.Parse(string(src))
	if err != nil {
		return err
	}
	_ = standardize.Standardize(tree) // validates the loaded program parses and standardizes cleanly
	globalDefs := globalDefsOf(tree)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handleConnection(w, r, globalDefs, trace)
	})
	log.Printf("rpal serve: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// globalDefsOf returns the loaded program's top-level D subtree when it is
// a `let D in E` form, nil otherwise — a plain expression with no bindings
// leaves every frame to evaluate standalone, same as before.
func globalDefsOf(tree *ast.Node) *ast.Node {
	if tree.Kind == ast.Operator && tree.Label == "let" {
		return tree.Children[0]
	}
	return nil
}

func handleConnection(w http.ResponseWriter, r *http.Request, globalDefs *ast.Node, trace *cse.Tracefile) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("serve: upgrade failed:", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	log.Printf("serve[%s]: connected", sessionID)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("serve[%s]: disconnected: %v", sessionID, err)
			return
		}
		line := strings.TrimSpace(string(msg))
		if line == "" {
			continue
		}
		result, evalErr := evalFrame(line, globalDefs, trace)
		var out string
		if evalErr != nil {
			out = "error: " + evalErr.Error()
		} else if result != nil {
			out = cse.String(result)
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(out)); err != nil {
			log.Printf("serve[%s]: write failed: %v", sessionID, err)
			return
		}
	}
}

// evalFrame parses line as a standalone expression and, when the loaded
// program has global definitions, wraps it as `let <globalDefs> in <line>`
// before standardizing/flattening/running it on a fresh machine — the
// frame is evaluated "against the loaded program's global environment"
// without any machine state actually crossing between connections or
// frames.
func evalFrame(line string, globalDefs *ast.Node, trace *cse.Tracefile) (cse.Symbol, error) {
	tree, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	if globalDefs != nil {
		tree = ast.Op("let", globalDefs, tree)
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
