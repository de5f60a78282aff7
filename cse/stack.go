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

// Stack is the evaluator's value/marker register, a plain LIFO of symbols.
type Stack struct {
	items []Symbol
}

func (s *Stack) Push(sym Symbol) { s.items = append(s.items, sym) }

func (s *Stack) Pop() (Symbol, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, true
}

func (s *Stack) Peek() (Symbol, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack) Len() int { return len(s.items) }

// RemoveEnvMarker scans from the top for the first EnvMarker(index) and
// excises it, used by rule 5 to close the matching environment frame.
func (s *Stack) RemoveEnvMarker(index int) bool {
	for i := len(s.items) - 1; i >= 0; i-- {
		if m, ok := s.items[i].(EnvMarker); ok && m.Index == index {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}
