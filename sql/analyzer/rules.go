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

// DefaultRules to apply when analyzing a plan.
var DefaultRules = []Rule{
	{"push_dereferences_through_limit", pushDereferencesThroughLimit},
	{"push_dereferences_through_filter", pushDereferencesThroughFilter},
	{"prune_columns", pruneColumns},
	{"push_dereferences_into_table_scan", pushDereferencesIntoTableScan},
}

// pushDereferencesThroughLimit transforms
//
//	Project(a_x := a.x)
//	  Limit
//	    Source(a)
//
// into
//
//	Project(a_x)
//	  Limit
//	    Project(a, a_x := a.x)
//	      Source(a)
func pushDereferencesThroughLimit(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	project, ok := n.(*plan.Project)
	if !ok {
		return n, transform.SameTree, nil
	}
	limit, ok := project.Child.(*plan.Limit)
	if !ok {
		return n, transform.SameTree, nil
	}

	span, ctx := ctx.Span("push_dereferences_through_limit")
	defer span.Finish()

	m, err := ValidPushdownThroughProject(ctx, a, project, limit)
	if err != nil {
		return nil, transform.SameTree, err
	}
	if m.IsEmpty() {
		return n, transform.SameTree, nil
	}

	assignments, err := ReplaceAssignments(project.Assignments, m)
	if err != nil {
		return nil, transform.SameTree, err
	}

	source := CreateProjectionIfNeeded(limit.Child, DereferenceAssignments(m), a.IDs)
	newLimit, err := limit.WithChildren(source)
	if err != nil {
		return nil, transform.SameTree, err
	}

	a.Log("pushed %d dereferences through limit %d", m.Len(), limit.ID())
	PushedDereferencesCounter.With("rule", "push_dereferences_through_limit").Add(float64(m.Len()))
	return plan.NewProject(project.ID(), newLimit, assignments), transform.NewTree, nil
}

// pushDereferencesThroughFilter transforms
//
//	Project(a_y := a.y)
//	  Filter(a.x > 5)
//	    Source(a)
//
// into
//
//	Project(a_y)
//	  Filter(a_x > 5)
//	    Project(a, a_x := a.x, a_y := a.y)
//	      Source(a)
func pushDereferencesThroughFilter(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	project, ok := n.(*plan.Project)
	if !ok {
		return n, transform.SameTree, nil
	}
	filter, ok := project.Child.(*plan.Filter)
	if !ok {
		return n, transform.SameTree, nil
	}

	span, ctx := ctx.Span("push_dereferences_through_filter")
	defer span.Finish()

	exprs := append(project.Assignments.Expressions(), filter.Predicate)
	all, err := ValidDereferences(ctx, a, exprs, a.DedupeOverlap)
	if err != nil {
		return nil, transform.SameTree, err
	}
	m, err := RestrictToVisible(all, filter)
	if err != nil {
		return nil, transform.SameTree, err
	}
	if m.IsEmpty() {
		return n, transform.SameTree, nil
	}

	predicate, err := ReplaceDereferences(filter.Predicate, m)
	if err != nil {
		return nil, transform.SameTree, err
	}
	assignments, err := ReplaceAssignments(project.Assignments, m)
	if err != nil {
		return nil, transform.SameTree, err
	}

	source := CreateProjectionIfNeeded(filter.Child, DereferenceAssignments(m), a.IDs)
	newFilter := plan.NewFilter(filter.ID(), predicate, source)

	a.Log("pushed %d dereferences through filter %d", m.Len(), filter.ID())
	PushedDereferencesCounter.With("rule", "push_dereferences_through_filter").Add(float64(m.Len()))
	return plan.NewProject(project.ID(), newFilter, assignments), transform.NewTree, nil
}

// pushDereferencesIntoTableScan makes a table scan read the dereferenced
// fields of its columns directly. Every dereference rooted in a scan output
// becomes a new scan output bound to the projected column.
func pushDereferencesIntoTableScan(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	project, ok := n.(*plan.Project)
	if !ok {
		return n, transform.SameTree, nil
	}
	scan, ok := project.Child.(*plan.TableScan)
	if !ok {
		return n, transform.SameTree, nil
	}

	span, ctx := ctx.Span("push_dereferences_into_table_scan")
	defer span.Finish()

	all, err := ValidDereferences(ctx, a, project.Assignments.Expressions(), a.DedupeOverlap)
	if err != nil {
		return nil, transform.SameTree, err
	}
	visible, err := restrictToSymbols(all, scan.OutputSymbols())
	if err != nil {
		return nil, transform.SameTree, err
	}

	symbols := append([]sql.Symbol(nil), scan.OutputSymbols()...)
	columns := append([]sql.ColumnHandle(nil), scan.Columns()...)
	m := expression.NewMap()
	for _, entry := range visible.Entries() {
		base, _ := expression.BaseSymbol(entry.Key)
		col, _ := scan.Column(base)
		projectable, ok := col.(sql.ProjectableColumnHandle)
		if !ok {
			continue
		}

		projected, err := projectable.ProjectField(expression.FieldPath(entry.Key)...)
		if err != nil {
			return nil, transform.SameTree, err
		}
		symbols = append(symbols, entry.Symbol)
		columns = append(columns, projected)
		m.Put(entry.Key, entry.Symbol)
	}
	if m.IsEmpty() {
		return n, transform.SameTree, nil
	}

	assignments, err := ReplaceAssignments(project.Assignments, m)
	if err != nil {
		return nil, transform.SameTree, err
	}

	a.Log("pushed %d dereferences into scan of %s", m.Len(), scan.Table.Name())
	PushedDereferencesCounter.With("rule", "push_dereferences_into_table_scan").Add(float64(m.Len()))
	return plan.NewProject(project.ID(), scan.WithColumns(symbols, columns), assignments), transform.NewTree, nil
}
