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
package cse

import (
	"encoding/json"
	"io"
	"sync"
)

// Tracefile is an optional step-by-step JSON log of machine transitions,
// realizing spec §1's "optional log hooks" / §9's debug-hook allowance.
// Not part of the executable semantics: a Machine runs identically whether
// or not a Tracefile is attached.
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	m       sync.Mutex
}

func NewTracefile(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	return &Tracefile{file: file, isFirst: true}
}

func (t *Tracefile) Close() {
	t.file.Write([]byte("]"))
	t.file.Close()
}

type traceStep struct {
	Rule       string `json:"rule"`
	Delta      int    `json:"delta"`
	ControlLen int    `json:"control_len"`
	StackLen   int    `json:"stack_len"`
	Env        int    `json:"env"`
}

func (t *Tracefile) step(rule string, delta, controlLen, stackLen, env int) {
	if t == nil {
		return
	}
	t.m.Lock()
	defer t.m.Unlock()
	b, err := json.Marshal(traceStep{Rule: rule, Delta: delta, ControlLen: controlLen, StackLen: stackLen, Env: env})
	if err != nil {
		panic(err)
	}
	if !t.isFirst {
		t.file.Write([]byte(","))
	}
	t.isFirst = false
	t.file.Write(b)
	t.file.Write([]byte("\n"))
}
