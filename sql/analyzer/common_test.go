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
	"fmt"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

var (
	innerType = types.Row(
		types.NewField("p", types.Int64),
		types.NewField("q", types.Text),
	)
	aType = types.Row(
		types.NewField("x", types.Int64),
		types.NewField("y", innerType),
	)
	elemType = types.Row(types.NewField("x", types.Int64))
	dType    = types.Row(types.NewField("z", types.Int64))
)

// testTypes are the types of the symbols used by the tests:
//
//	a   row(x bigint, y row(p bigint, q varchar))
//	b   bigint
//	arr array(row(x bigint))
//	d   row(z bigint)
func testTypes() sql.TypeProvider {
	return sql.TypeProvider{
		"a":   aType,
		"b":   types.Int64,
		"arr": types.Array(elemType),
		"d":   dType,
	}
}

func newTestAnalyzer(n sql.Node) *Analyzer {
	ids := plan.NewIDAllocator()
	if n != nil {
		ids = plan.NewIDAllocatorFrom(n)
	}
	return NewDefault(plan.NewSymbolAllocator(testTypes()), ids)
}

func ref(s string) *expression.SymbolReference {
	return expression.NewSymbolReference(sql.Symbol(s))
}

func deref(base sql.Expression, field int, name string) *expression.Dereference {
	return expression.NewNamedDereference(base, field, name)
}

// a.x, a.y, a.y.p and a.y.q
func ax() sql.Expression  { return deref(ref("a"), 0, "x") }
func ay() sql.Expression  { return deref(ref("a"), 1, "y") }
func ayp() sql.Expression { return deref(ay(), 0, "p") }
func ayq() sql.Expression { return deref(ay(), 1, "q") }

func lit(n int64) sql.Expression {
	return expression.NewLiteral(n, types.Int64)
}

func gt(left, right sql.Expression) sql.Expression {
	return expression.NewFunctionCall(">", types.Boolean, left, right)
}

func call(name string, args ...sql.Expression) sql.Expression {
	return expression.NewFunctionCall(name, types.Int64, args...)
}

// transform(arr, (e) -> e.x + a.x)
func transformArr() sql.Expression {
	return expression.NewFunctionCall("transform", types.Array(types.Int64),
		ref("arr"),
		expression.NewLambda(
			[]sql.Symbol{"e"},
			call("+", deref(ref("e"), 0, "x"), ax()),
		),
	)
}

func assignments(pairs ...interface{}) *plan.Assignments {
	b := plan.NewAssignmentsBuilder()
	for i := 0; i < len(pairs); i += 2 {
		b.Put(sql.Symbol(pairs[i].(string)), pairs[i+1].(sql.Expression))
	}
	return b.Build()
}

func identities(symbols ...string) []sql.Symbol {
	ret := make([]sql.Symbol, len(symbols))
	for i, s := range symbols {
		ret[i] = sql.Symbol(s)
	}
	return ret
}

func entryStrings(m *expression.Map) []string {
	var ret []string
	for _, e := range m.Entries() {
		ret = append(ret, fmt.Sprintf("%s -> %s", e.Key, e.Symbol))
	}
	return ret
}

func exprStrings(exprs []sql.Expression) []string {
	var ret []string
	for _, e := range exprs {
		ret = append(ret, e.String())
	}
	return ret
}

func getRule(name string) Rule {
	for _, rule := range DefaultRules {
		if rule.Name == name {
			return rule
		}
	}
	panic("missing rule: " + name)
}
