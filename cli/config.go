/*
Copyright (C) 2024  Carl-Philip Hänsch

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
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rpal-machine/rpal/cse"
)

// stepLimit reads RPAL_STEP_LIMIT, the safety net that stops a runaway
// evaluation (an infinitely recursive `rec` with no base case) instead of
// hanging forever. 0 (unset or invalid) means unlimited.
func stepLimit() int {
	v := os.Getenv("RPAL_STEP_LIMIT")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// OpenTrace opens a fresh JSON trace file under dir, named by timestamp,
// following scm.SetTrace's MEMCP_TRACEDIR convention: a directory toggles
// tracing on, one file per run. An empty dir falls back to RPAL_TRACEDIR;
// returns nil, nil if both are empty (tracing off).
func OpenTrace(dir string) (*cse.Tracefile, error) {
	if dir == "" {
		dir = os.Getenv("RPAL_TRACEDIR")
	}
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("trace-%d.json", time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return cse.NewTracefile(f), nil
}
