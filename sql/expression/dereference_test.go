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

package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

func ref(s string) *SymbolReference {
	return NewSymbolReference(sql.Symbol(s))
}

func call(name string, args ...sql.Expression) *FunctionCall {
	return NewFunctionCall(name, types.Int64, args...)
}

// a.y.p
func ayp() *Dereference {
	return NewNamedDereference(NewNamedDereference(ref("a"), 1, "y"), 0, "p")
}

func TestDereferenceSequence(t *testing.T) {
	testCases := []struct {
		name       string
		expr       sql.Expression
		isSequence bool
		base       sql.Symbol
		hasBase    bool
		path       []int
	}{
		{"reference", ref("a"), false, "a", true, nil},
		{"single", NewDereference(ref("a"), 2), true, "a", true, []int{2}},
		{"chain", ayp(), true, "a", true, []int{1, 0}},
		{"call base", NewDereference(call("f", ref("a")), 0), false, "", false, []int{0}},
		{"deref of call deref", NewDereference(NewDereference(call("f"), 1), 0), false, "", false, []int{1, 0}},
		{"literal", NewLiteral(int64(1), types.Int64), false, "", false, nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.isSequence, IsDereferenceSequence(tt.expr))
			base, ok := BaseSymbol(tt.expr)
			require.Equal(tt.hasBase, ok)
			require.Equal(tt.base, base)
			require.Equal(tt.path, FieldPath(tt.expr))
		})
	}
}

func TestDereferenceString(t *testing.T) {
	require := require.New(t)
	require.Equal("a.y.p", ayp().String())
	require.Equal("a.$3", NewDereference(ref("a"), 3).String())
	require.Equal("f(a).$0", NewDereference(call("f", ref("a")), 0).String())

	d, err := ayp().WithChildren(ref("b"))
	require.NoError(err)
	require.Equal("b.p", d.String())

	_, err = ayp().WithChildren()
	require.True(sql.ErrInvalidChildrenNumber.Is(err))
}

func TestExpressionStrings(t *testing.T) {
	testCases := []struct {
		expr     sql.Expression
		expected string
	}{
		{NewLiteral(int64(5), types.Int64), "5"},
		{NewLiteral("five", types.Text), `"five"`},
		{NewLiteral(nil, types.Int64), "NULL"},
		{call("f", ref("a"), ref("b")), "f(a, b)"},
		{call("now"), "now()"},
		{NewLambda([]sql.Symbol{"x", "y"}, call("+", ref("x"), ref("y"))), "(x, y) -> +(x, y)"},
	}

	for _, tt := range testCases {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.expr.String())
		})
	}
}
