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
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

// TypeAnalyzer infers the type of an expression given the types of the
// symbols it may reference. It returns false when no type can be inferred.
// Implementations must be safe to use from independent planning contexts
// concurrently.
type TypeAnalyzer interface {
	GetType(ctx *sql.Context, symbols sql.TypeProvider, e sql.Expression) (sql.Type, bool)
}

// ExpressionTypeAnalyzer types expressions structurally: references by
// their symbol, dereferences by the field of their base row type, and
// literals and function calls by the type they carry.
type ExpressionTypeAnalyzer struct{}

var _ TypeAnalyzer = ExpressionTypeAnalyzer{}

// GetType implements the TypeAnalyzer interface.
func (ta ExpressionTypeAnalyzer) GetType(ctx *sql.Context, symbols sql.TypeProvider, e sql.Expression) (sql.Type, bool) {
	switch e := e.(type) {
	case *expression.SymbolReference:
		return symbols.Get(e.Symbol())
	case *expression.Dereference:
		base, ok := ta.GetType(ctx, symbols, e.Base())
		if !ok {
			return nil, false
		}
		rt, ok := base.(*types.RowType)
		if !ok {
			return nil, false
		}
		f, err := rt.Field(e.Field())
		if err != nil {
			return nil, false
		}
		return f.Type, f.Type != nil
	case *expression.Literal:
		return e.Type(), e.Type() != nil
	case *expression.FunctionCall:
		return e.Type(), e.Type() != nil
	case *expression.Lambda:
		args := make([]sql.Type, len(e.Params()))
		for i, p := range e.Params() {
			t, ok := symbols.Get(p)
			if !ok {
				return nil, false
			}
			args[i] = t
		}
		ret, ok := ta.GetType(ctx, symbols, e.Body())
		if !ok {
			return nil, false
		}
		return types.Function(ret, args...), true
	default:
		return nil, false
	}
}
