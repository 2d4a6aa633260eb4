// Copyright 2022 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import (
	"strings"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// IsUnary returns whether the node is unary or not.
func IsUnary(node sql.Node) bool {
	return len(node.Children()) == 1
}

// NillaryWithChildren is a common WithChildren implementation for all nodes that have none.
func NillaryWithChildren(node sql.Node, children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(node, len(children), 0)
	}
	return node, nil
}

// UnaryNode is a node that has only one child.
type UnaryNode struct {
	Child sql.Node
}

// Children implements the Node interface.
func (n UnaryNode) Children() []sql.Node {
	return []sql.Node{n.Child}
}

// OutputSymbols implements the Node interface. Unary nodes that do not
// change the shape of their input produce the symbols of their child.
func (n UnaryNode) OutputSymbols() []sql.Symbol {
	return n.Child.OutputSymbols()
}

// SourceSymbols returns the union of the output symbols of the sources of
// n, in order of first appearance.
func SourceSymbols(n sql.Node) []sql.Symbol {
	seen := make(map[sql.Symbol]struct{})
	var symbols []sql.Symbol
	for _, c := range n.Children() {
		for _, s := range c.OutputSymbols() {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func symbolsString(symbols []sql.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
