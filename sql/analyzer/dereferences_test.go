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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
)

func TestSymbolReferencesAndDereferences(t *testing.T) {
	testCases := []struct {
		name     string
		expr     sql.Expression
		expected []string
	}{
		{"reference", ref("a"), []string{"a"}},
		{"dereference chain", ayp(), []string{"a.y.p"}},
		{"call arguments", gt(ax(), ref("b")), []string{"a.x", "b"}},
		{"duplicates", call("+", ax(), ax()), []string{"a.x", "a.x"}},
		{"nested calls", call("f", call("g", ayq()), ref("b")), []string{"a.y.q", "b"}},
		{"lambda body", transformArr(), []string{"arr"}},
		{"dereference of call", deref(call("f", ref("a")), 0, "x"), nil},
		{"literal", lit(1), nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, exprStrings(symbolReferencesAndDereferences(tt.expr)))
		})
	}
}

func TestValidDereferences(t *testing.T) {
	testCases := []struct {
		name      string
		exprs     []sql.Expression
		noOverlap bool
		expected  []string
	}{
		{
			"overlapping prefix dropped",
			[]sql.Expression{ax(), ayp(), call("f", ay())},
			true,
			[]string{"a.x -> a_x", "a.y -> a_y"},
		},
		{
			"overlapping prefix kept",
			[]sql.Expression{ax(), ayp(), call("f", ay())},
			false,
			[]string{"a.x -> a_x", "a.y -> a_y", "a.y.p -> a_p"},
		},
		{
			"reference prefix dropped",
			[]sql.Expression{ax(), ref("a")},
			true,
			nil,
		},
		{
			"reference prefix kept",
			[]sql.Expression{ax(), ref("a")},
			false,
			[]string{"a.x -> a_x"},
		},
		{
			"siblings",
			[]sql.Expression{ayq(), ayp()},
			true,
			[]string{"a.y.p -> a_p", "a.y.q -> a_q"},
		},
		{
			"duplicates",
			[]sql.Expression{ax(), gt(ax(), ref("b"))},
			true,
			[]string{"a.x -> a_x"},
		},
		{
			"inside lambda",
			[]sql.Expression{transformArr()},
			true,
			nil,
		},
		{
			"dereference of call",
			[]sql.Expression{deref(call("f", ref("a")), 0, "x")},
			true,
			nil,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			a := newTestAnalyzer(nil)
			m, err := ValidDereferences(sql.NewEmptyContext(), a, tt.exprs, tt.noOverlap)
			require.NoError(err)
			require.Equal(tt.expected, entryStrings(m))

			types := a.Symbols.Types()
			for _, e := range m.Entries() {
				typ, ok := types.Get(e.Symbol)
				require.True(ok)
				expected, ok := ExpressionTypeAnalyzer{}.GetType(sql.NewEmptyContext(), testTypes(), e.Key)
				require.True(ok)
				require.True(expected.Equals(typ))
			}
		})
	}
}

func TestValidDereferencesPrefersFieldNames(t *testing.T) {
	unnamed := expression.NewDereference(ref("a"), 0)
	ctx := sql.NewEmptyContext()

	for _, exprs := range [][]sql.Expression{{ax(), unnamed}, {unnamed, ax()}} {
		m, err := ValidDereferences(ctx, newTestAnalyzer(nil), exprs, true)
		require.NoError(t, err)
		require.Equal(t, []string{"a.x -> a_x"}, entryStrings(m))
	}
}

func TestValidDereferencesIsDeterministic(t *testing.T) {
	exprs := []sql.Expression{ayq(), ax(), gt(ayp(), ref("b")), call("f", deref(ref("d"), 0, "z"))}
	reversed := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		reversed[len(exprs)-1-i] = e
	}

	ctx := sql.NewEmptyContext()
	m1, err := ValidDereferences(ctx, newTestAnalyzer(nil), exprs, true)
	require.NoError(t, err)
	m2, err := ValidDereferences(ctx, newTestAnalyzer(nil), reversed, true)
	require.NoError(t, err)

	require.Equal(t, entryStrings(m1), entryStrings(m2))
	require.Equal(t, 4, m1.Len())
}

type noTypes struct{}

func (noTypes) GetType(*sql.Context, sql.TypeProvider, sql.Expression) (sql.Type, bool) {
	return nil, false
}

func TestValidDereferencesMissingType(t *testing.T) {
	testCases := []struct {
		name  string
		a     *Analyzer
		exprs []sql.Expression
	}{
		{"unknown symbol", newTestAnalyzer(nil), []sql.Expression{deref(ref("c"), 0, "z")}},
		{"not a row", newTestAnalyzer(nil), []sql.Expression{deref(ref("b"), 0, "z")}},
		{
			"no type analysis",
			NewBuilder().WithTypeAnalyzer(noTypes{}).Build(plan.NewSymbolAllocator(testTypes()), plan.NewIDAllocator()),
			[]sql.Expression{ax()},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidDereferences(sql.NewEmptyContext(), tt.a, tt.exprs, true)
			require.Error(t, err)
			require.True(t, ErrMissingType.Is(err))
		})
	}
}

func TestValidDereferencesNoCandidates(t *testing.T) {
	require := require.New(t)
	a := NewBuilder().WithTypeAnalyzer(noTypes{}).Build(plan.NewSymbolAllocator(testTypes()), plan.NewIDAllocator())

	// Type analysis is only needed for the dereferences that are pushed down.
	m, err := ValidDereferences(sql.NewEmptyContext(), a, []sql.Expression{ref("a"), ax(), lit(1)}, true)
	require.NoError(err)
	require.True(m.IsEmpty())
}

func TestPrefixExists(t *testing.T) {
	require := require.New(t)
	set := expression.NewSet(ay(), ref("b"))

	ok, err := prefixExists(ayp(), set)
	require.NoError(err)
	require.True(ok)

	ok, err = prefixExists(ax(), set)
	require.NoError(err)
	require.False(ok)

	ok, err = prefixExists(ay(), set)
	require.NoError(err)
	require.False(ok)

	ok, err = prefixExists(deref(ref("b"), 0, "x"), set)
	require.NoError(err)
	require.True(ok)

	_, err = prefixExists(deref(call("f", ref("a")), 0, "x"), set)
	require.True(ErrInvalidDereferenceBase.Is(err))
}

func TestReplaceDereferences(t *testing.T) {
	m := expression.NewMap()
	m.Put(ay(), "a_y")
	m.Put(ax(), "a_x")

	testCases := []struct {
		name     string
		expr     sql.Expression
		expected string
	}{
		{"nested in candidate", ayp(), "a_y.p"},
		{"call", gt(ax(), ref("b")), ">(a_x, b)"},
		{"several", call("f", ayq(), ax(), lit(5)), "f(a_y.q, a_x, 5)"},
		{"lambda untouched", transformArr(), "transform(arr, (e) -> +(e.x, a.x))"},
		{"reference", ref("a"), "a"},
		{"unnamed dereference", expression.NewDereference(ref("a"), 0), "a_x"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := ReplaceDereferences(tt.expr, m)
			require.NoError(err)
			require.Equal(tt.expected, result.String())
			require.LessOrEqual(expression.CountDereferences(result), expression.CountDereferences(tt.expr))
		})
	}

	e := ayp()
	result, err := ReplaceDereferences(e, expression.NewMap())
	require.NoError(t, err)
	require.Same(t, e, result)
}

func TestReplaceDereferencesNeverTouchesLambdas(t *testing.T) {
	require := require.New(t)
	m := expression.NewMap()
	m.Put(ax(), "a_x")
	m.Put(deref(ref("e"), 0, "x"), "e_x")

	e := transformArr()
	result, err := ReplaceDereferences(e, m)
	require.NoError(err)
	require.True(expression.Equal(e, result))
}

func TestValidPushdownThroughProject(t *testing.T) {
	require := require.New(t)
	values := plan.NewValues(3, identities("a", "b"))
	limit := plan.NewLimit(2, 10, values)
	project := plan.NewProject(1, limit, assignments(
		"x", ax(),
		"z", deref(ref("d"), 0, "z"),
		"y", ayp(),
		"w", call("f", ay()),
	))

	a := newTestAnalyzer(project)
	m, err := ValidPushdownThroughProject(sql.NewEmptyContext(), a, project, limit)
	require.NoError(err)
	require.Equal([]string{"a.x -> a_x", "a.y -> a_y"}, entryStrings(m))

	visible := map[sql.Symbol]bool{"a": true, "b": true}
	for _, e := range m.Entries() {
		base, ok := expression.BaseSymbol(e.Key)
		require.True(ok)
		require.True(visible[base])
	}
}

func TestRestrictToVisible(t *testing.T) {
	require := require.New(t)
	m := expression.NewMap()
	m.Put(ax(), "a_x")
	m.Put(deref(ref("d"), 0, "z"), "d_z")

	values := plan.NewValues(3, identities("a", "b"))
	visible, err := RestrictToVisible(m, plan.NewLimit(2, 1, values))
	require.NoError(err)
	require.Equal([]string{"a.x -> a_x"}, entryStrings(visible))

	// Outputs of the child itself are not visible below it.
	visible, err = RestrictToVisible(m, values)
	require.NoError(err)
	require.True(visible.IsEmpty())

	m.Put(deref(call("f", ref("a"), ref("b")), 0, "x"), "bad")
	_, err = RestrictToVisible(m, plan.NewLimit(2, 1, values))
	require.True(ErrInvalidDereferenceBase.Is(err))
}

func TestCreateProjectionIfNeeded(t *testing.T) {
	require := require.New(t)
	values := plan.NewValues(3, identities("a", "b"))
	ids := plan.NewIDAllocatorFrom(values)

	result := CreateProjectionIfNeeded(values, plan.NewAssignments(), ids)
	require.Same(values, result)

	result = CreateProjectionIfNeeded(values, assignments("a_x", ax()), ids)
	project, ok := result.(*plan.Project)
	require.True(ok)
	require.Equal(sql.NodeID(4), project.ID())
	require.Same(values, project.Child)
	require.Equal(identities("a", "b", "a_x"), project.OutputSymbols())
	require.Greater(len(project.OutputSymbols()), len(values.OutputSymbols()))
	require.True(project.Assignments.IsIdentity("a"))
	require.True(project.Assignments.IsIdentity("b"))
	e, ok := project.Assignments.Get("a_x")
	require.True(ok)
	require.True(expression.Equal(ax(), e))
}

func TestDereferenceAssignments(t *testing.T) {
	m := expression.NewMap()
	m.Put(ayp(), "a_p")
	m.Put(ax(), "a_x")

	result := DereferenceAssignments(m)
	require.Equal(t, "a_x := a.x, a_p := a.y.p", result.String())
}
