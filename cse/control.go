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
package cse

import "fmt"

// ControlStruct is one numbered, linearized instruction sequence (a delta).
// Immutable once the flattener is done with it.
type ControlStruct struct {
	Index   int
	Symbols []Symbol
}

func (c *ControlStruct) addSymbol(s Symbol) { c.Symbols = append(c.Symbols, s) }

func (c *ControlStruct) String() string {
	return fmt.Sprintf("delta-%d = %v", c.Index, c.Symbols)
}

// ControlStructureMap maps delta_index -> ControlStruct. Dense, 0..N-1;
// delta 0 is the program entry.
type ControlStructureMap struct {
	byIndex map[int]*ControlStruct
}

func newControlStructureMap() *ControlStructureMap {
	return &ControlStructureMap{byIndex: make(map[int]*ControlStruct)}
}

func (m *ControlStructureMap) Get(index int) *ControlStruct { return m.byIndex[index] }

func (m *ControlStructureMap) Len() int { return len(m.byIndex) }

// addNew allocates a fresh control structure by linear probing upward from
// `from`, the fresh-index allocation rule in spec §4.1.
func (m *ControlStructureMap) addNew(from int) int {
	idx := from
	for {
		if _, exists := m.byIndex[idx]; !exists {
			break
		}
		idx++
	}
	m.byIndex[idx] = &ControlStruct{Index: idx}
	return idx
}

// Control is the evaluator's instruction register: a sequence consumed from
// the right. The rightmost element is the next one to execute.
type Control struct {
	items []Symbol
}

func NewControl(initial *ControlStruct) *Control {
	items := make([]Symbol, len(initial.Symbols))
	copy(items, initial.Symbols)
	return &Control{items: items}
}

func (c *Control) Empty() bool { return len(c.items) == 0 }

// PopRightmost removes and returns the last (rightmost) symbol.
func (c *Control) PopRightmost() (Symbol, bool) {
	if len(c.items) == 0 {
		return nil, false
	}
	last := c.items[len(c.items)-1]
	c.items = c.items[:len(c.items)-1]
	return last, true
}

// AppendFrom appends a control structure's symbols in order, so that the
// struct's last symbol becomes the new right end (the next to pop).
func (c *Control) AppendFrom(cs *ControlStruct) {
	c.items = append(c.items, cs.Symbols...)
}

func (c *Control) Append(s Symbol) { c.items = append(c.items, s) }

func (c *Control) Len() int { return len(c.items) }
