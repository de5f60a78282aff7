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

// Package replmatch implements the REPL's `:match` command: ad-hoc
// structural matching of a tuple pattern against a tuple literal, e.g.
// `:match (a,b,c) against (1,2,3)` binds a=1, b=2, c=3. The grammar is a
// static Go-level combinator graph built with github.com/launix-de/
// go-packrat/v2, the same combinator vocabulary scm/packrat.go wires up
// from a dynamic s-expression DSL — here there is no DSL, the grammar
// itself is fixed, so the combinators are composed directly in Go.
package replmatch

import (
	"fmt"

	packrat "github.com/launix-de/go-packrat/v2"
)

var (
	identParser   = packrat.NewRegexParser(`[a-zA-Z][a-zA-Z0-9_]*`, false, true)
	integerParser = packrat.NewRegexParser(`-?[0-9]+`, false, true)
	stringParser  = packrat.NewRegexParser(`'[^']*'`, false, true)
	commaParser   = packrat.NewAtomParser(",", false, true)
	lparenParser  = packrat.NewAtomParser("(", false, true)
	rparenParser  = packrat.NewAtomParser(")", false, true)
	againstParser = packrat.NewAtomParser("against", false, true)

	valueElemParser = packrat.NewOrParser(integerParser, stringParser, identParser)

	patternParser = packrat.NewAndParser(lparenParser, packrat.NewKleeneParser(identParser, commaParser), rparenParser)
	valueParser    = packrat.NewAndParser(lparenParser, packrat.NewKleeneParser(valueElemParser, commaParser), rparenParser)

	rootParser = packrat.NewAndParser(patternParser, againstParser, valueParser, packrat.NewEndParser(true))
)

// Match parses "(names...) against (values...)" and returns the resulting
// name->literal-text bindings, or an error if the line doesn't parse or the
// two tuples' arities differ.
func Match(line string) (map[string]string, error) {
	scanner := packrat.NewScanner(line, packrat.SkipWhitespaceAndCommentsRegex)
	node, err := packrat.Parse(rootParser, scanner)
	if err != nil {
		return nil, err
	}

	names := kleeneTexts(node.Children[0].Children[1])
	values := kleeneTexts(node.Children[2].Children[1])
	if len(names) != len(values) {
		return nil, fmt.Errorf("arity mismatch: pattern has %d name(s), value has %d element(s)", len(names), len(values))
	}

	bindings := make(map[string]string, len(names))
	for i, name := range names {
		bindings[name] = values[i]
	}
	return bindings, nil
}

// kleeneTexts reads a KleeneParser node's interleaved [item, sep, item,
// sep, ...] children and returns the matched text of every item.
func kleeneTexts(n *packrat.Node) []string {
	var out []string
	for i := 0; i < len(n.Children); i += 2 {
		out = append(out, n.Children[i].Matched)
	}
	return out
}
