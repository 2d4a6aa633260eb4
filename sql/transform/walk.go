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

package transform

import (
	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
)

// Inspect performs a pre-order traversal of the sql.Node tree;
// First, it does f(node) and if cont = true, then Inspect is recursively called on node's children.
func Inspect(node sql.Node, f func(sql.Node) bool) (cont bool) {
	if !f(node) {
		return false
	}

	for _, child := range node.Children() {
		if !Inspect(child, f) {
			return false
		}
	}
	return true
}

// InspectExpressions traverses the plan and calls expression.Inspect on any
// expression it finds.
func InspectExpressions(node sql.Node, f func(sql.Expression) bool) {
	Inspect(node, func(node sql.Node) bool {
		if n, ok := node.(sql.Expressioner); ok {
			for _, e := range n.Expressions() {
				expression.Inspect(e, f)
			}
		}
		return true
	})
}
