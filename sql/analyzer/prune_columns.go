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

package analyzer

import (
	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
	"github.com/dolthub/go-projection-pushdown/sql/transform"
)

type usedSymbols map[sql.Symbol]struct{}

func (us usedSymbols) addAll(e sql.Expression) {
	for _, s := range expression.ReferencedSymbols(e) {
		us[s] = struct{}{}
	}
}

func (us usedSymbols) has(s sql.Symbol) bool {
	_, ok := us[s]
	return ok
}

// pruneColumns removes the outputs of the projection or table scan under a
// Project that neither the Project nor a Filter or Limit in between uses.
// A projection left passing its child through unchanged is removed.
// Pushed down dereferences are computed next to identity outputs of their
// base, and those would keep any further pushdown of the same base from
// happening. The root projection itself is never pruned.
func pruneColumns(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	project, ok := n.(*plan.Project)
	if !ok {
		return n, transform.SameTree, nil
	}

	used := make(usedSymbols)
	for _, e := range project.Expressions() {
		used.addAll(e)
	}

	var between sql.Node
	target := project.Child
	switch c := project.Child.(type) {
	case *plan.Filter:
		used.addAll(c.Predicate)
		between, target = c, c.Child
	case *plan.Limit:
		between, target = c, c.Child
	}

	var pruned sql.Node
	switch t := target.(type) {
	case *plan.Project:
		b := plan.NewAssignmentsBuilder()
		for _, s := range t.Assignments.Symbols() {
			if used.has(s) {
				e, _ := t.Assignments.Get(s)
				b.Put(s, e)
			}
		}
		assignments := b.Build()
		if assignments.Len() == t.Assignments.Len() && !t.IsIdentity() {
			return n, transform.SameTree, nil
		}
		inner := t.WithAssignments(assignments)
		if inner.IsIdentity() {
			pruned = inner.Child
		} else {
			pruned = inner
		}
	case *plan.TableScan:
		var (
			symbols []sql.Symbol
			columns []sql.ColumnHandle
		)
		for i, s := range t.OutputSymbols() {
			if used.has(s) {
				symbols = append(symbols, s)
				columns = append(columns, t.Columns()[i])
			}
		}
		if len(symbols) == len(t.OutputSymbols()) {
			return n, transform.SameTree, nil
		}
		pruned = t.WithColumns(symbols, columns)
	default:
		return n, transform.SameTree, nil
	}

	child := pruned
	if between != nil {
		var err error
		child, err = between.WithChildren(pruned)
		if err != nil {
			return nil, transform.SameTree, err
		}
	}

	a.Log("pruned unused outputs of node %d", target.ID())
	node, err := project.WithChildren(child)
	if err != nil {
		return nil, transform.SameTree, err
	}
	return node, transform.NewTree, nil
}
