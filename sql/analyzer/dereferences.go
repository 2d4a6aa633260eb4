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
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
	"github.com/dolthub/go-projection-pushdown/sql/transform"
)

var (
	// ErrMissingType is returned when a dereference chosen for pushdown
	// cannot be typed. Every expression of an analyzed plan must be typed.
	ErrMissingType = errors.NewKind("unable to infer the type of %s")

	// ErrInvalidDereferenceBase is returned when a dereference is not rooted
	// in exactly one symbol reference.
	ErrInvalidDereferenceBase = errors.NewKind("dereference %s is not rooted in a symbol reference")
)

// ValidPushdownThroughProject creates new symbols for the dereferences in
// the assignments of project whose base symbol is produced by the sources
// of child. Overlapping dereferences are always deduplicated.
func ValidPushdownThroughProject(ctx *sql.Context, a *Analyzer, project *plan.Project, child sql.Node) (*expression.Map, error) {
	all, err := ValidDereferences(ctx, a, project.Assignments.Expressions(), true)
	if err != nil {
		return nil, err
	}
	return RestrictToVisible(all, child)
}

// ValidDereferences creates a new symbol for every dereference extracted
// from exprs. When noOverlap is set, a dereference is dropped if any of its
// prefixes was extracted too. Symbols are allocated in the sorted order of
// the dereferences, so the result only depends on the set of extracted
// expressions.
func ValidDereferences(ctx *sql.Context, a *Analyzer, exprs []sql.Expression, noOverlap bool) (*expression.Map, error) {
	extracted := expression.NewSet()
	for _, e := range exprs {
		for _, c := range symbolReferencesAndDereferences(e) {
			extracted.Add(c)
		}
	}

	var candidates []*expression.Dereference
	for _, e := range extracted.Values() {
		if noOverlap {
			overlaps, err := prefixExists(e, extracted)
			if err != nil {
				return nil, err
			}
			if overlaps {
				continue
			}
		}

		if d, ok := e.(*expression.Dereference); ok {
			candidates = append(candidates, d)
		}
	}

	result := expression.NewMap()
	if len(candidates) == 0 {
		return result, nil
	}

	types := a.Symbols.Types()
	for _, d := range candidates {
		s, err := newSymbol(ctx, a, types, d)
		if err != nil {
			return nil, err
		}
		a.Log("allocated %s for %s", s, d)
		result.Put(d, s)
	}

	return result, nil
}

// RestrictToVisible keeps the entries of m whose base symbol is an output of
// one of the sources of child. The dereferences are pushed through child, so
// their base must be defined below it.
func RestrictToVisible(m *expression.Map, child sql.Node) (*expression.Map, error) {
	return restrictToSymbols(m, plan.SourceSymbols(child))
}

func restrictToSymbols(m *expression.Map, symbols []sql.Symbol) (*expression.Map, error) {
	visible := make(map[sql.Symbol]struct{}, len(symbols))
	for _, s := range symbols {
		visible[s] = struct{}{}
	}

	result := expression.NewMap()
	for _, entry := range m.Entries() {
		base, err := baseSymbol(entry.Key)
		if err != nil {
			return nil, err
		}
		if _, ok := visible[base]; ok {
			result.Put(entry.Key, entry.Symbol)
		}
	}
	return result, nil
}

// ReplaceDereferences replaces every dereference of e that is a key of m by
// a reference to its symbol. Lambda bodies are left untouched.
func ReplaceDereferences(e sql.Expression, m *expression.Map) (sql.Expression, error) {
	if m.IsEmpty() {
		return e, nil
	}

	ne, _, err := transform.ExprTopDown(e, outsideLambda, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		d, ok := e.(*expression.Dereference)
		if !ok {
			return e, transform.SameTree, nil
		}
		if s, ok := m.Get(d); ok {
			return expression.NewSymbolReference(s), transform.NewTree, nil
		}
		return e, transform.SameTree, nil
	})
	if err != nil {
		return nil, err
	}
	return ne, nil
}

// ReplaceAssignments rewrites every expression of assignments with
// ReplaceDereferences.
func ReplaceAssignments(assignments *plan.Assignments, m *expression.Map) (*plan.Assignments, error) {
	return assignments.Rewrite(func(e sql.Expression) (sql.Expression, error) {
		return ReplaceDereferences(e, m)
	})
}

// DereferenceAssignments returns the assignments computing every symbol of
// m from its dereference.
func DereferenceAssignments(m *expression.Map) *plan.Assignments {
	b := plan.NewAssignmentsBuilder()
	for _, entry := range m.Entries() {
		b.Put(entry.Symbol, entry.Key)
	}
	return b.Build()
}

// CreateProjectionIfNeeded returns n unchanged if there are no assignments.
// Otherwise it returns a new projection over n producing the outputs of n
// followed by the given assignments.
func CreateProjectionIfNeeded(n sql.Node, assignments *plan.Assignments, ids *plan.IDAllocator) sql.Node {
	if assignments.IsEmpty() {
		return n
	}

	return plan.NewProject(
		ids.NextID(),
		n,
		plan.NewAssignmentsBuilder().
			PutIdentities(n.OutputSymbols()...).
			PutAll(assignments).
			Build(),
	)
}

// symbolReferencesAndDereferences returns the symbol references and the
// dereference sequences of e, top-down. Bases of dereference sequences are
// not returned on their own, and neither lambda bodies nor dereferences of
// anything but a symbol are looked into.
func symbolReferencesAndDereferences(e sql.Expression) []sql.Expression {
	var result []sql.Expression
	expression.Inspect(e, func(e sql.Expression) bool {
		switch e := e.(type) {
		case nil:
			return false
		case *expression.Dereference:
			if expression.IsDereferenceSequence(e) {
				result = append(result, e)
			}
			return false
		case *expression.SymbolReference:
			result = append(result, e)
			return false
		case *expression.Lambda:
			return false
		default:
			return true
		}
	})
	return result
}

// prefixExists reports whether any base along the dereference chain of e is
// in exprs. The chain must end in a symbol reference.
func prefixExists(e sql.Expression, exprs *expression.Set) (bool, error) {
	current := e
	for {
		d, ok := current.(*expression.Dereference)
		if !ok {
			break
		}
		current = d.Base()
		if exprs.Contains(current) {
			return true, nil
		}
	}

	if _, ok := current.(*expression.SymbolReference); !ok {
		return false, ErrInvalidDereferenceBase.New(e)
	}
	return false, nil
}

func newSymbol(ctx *sql.Context, a *Analyzer, types sql.TypeProvider, e sql.Expression) (sql.Symbol, error) {
	typ, ok := a.TypeAnalyzer.GetType(ctx, types, e)
	if !ok || typ == nil {
		return "", ErrMissingType.New(e)
	}
	return a.Symbols.NewSymbolForExpression(e, typ), nil
}

func baseSymbol(e sql.Expression) (sql.Symbol, error) {
	symbols := expression.ReferencedSymbols(e)
	if len(symbols) != 1 {
		return "", ErrInvalidDereferenceBase.New(e)
	}
	return symbols[0], nil
}

func outsideLambda(e sql.Expression) bool {
	_, ok := e.(*expression.Lambda)
	return !ok
}
