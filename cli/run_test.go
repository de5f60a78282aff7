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
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func runSrc(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.rpal")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write temp program: %v", err)
	}
	var out bytes.Buffer
	if err := Run(path, RunOptions{Stdout: &out}); err != nil {
		t.Fatalf("Run(%q) = %v", src, err)
	}
	return out.String()
}

// TestRunPrintsFinalStackTop checks that a program whose last form yields a
// value, rather than calling Print itself, still produces output — the CLI
// renders the stack top left behind by Run, same as myrpal.py's unconditional
// print(interpreter.get_result(switch)).
func TestRunPrintsFinalStackTop(t *testing.T) {
	got := runSrc(t, `let x = 5 in x`)
	want := "5\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

// TestRunDoesNotDoublePrint checks a program that already does its own
// Print does not get a second, redundant rendering: Print pushes no value,
// so the stack top is the initial EnvMarker, which Result reports as "no
// value".
func TestRunDoesNotDoublePrint(t *testing.T) {
	got := runSrc(t, `let x = 5 in Print(x)`)
	want := "5"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunTupleResult(t *testing.T) {
	got := runSrc(t, `let T = (1, 2, 3) in T`)
	want := "(1, 2, 3)\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
