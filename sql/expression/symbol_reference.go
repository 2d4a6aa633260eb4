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
	"github.com/dolthub/go-projection-pushdown/sql"
)

// SymbolReference is an expression that reads the value of a symbol produced
// by a source node, or bound by an enclosing lambda.
type SymbolReference struct {
	symbol sql.Symbol
}

var _ sql.Expression = (*SymbolReference)(nil)

// NewSymbolReference creates a SymbolReference expression.
func NewSymbolReference(symbol sql.Symbol) *SymbolReference {
	return &SymbolReference{symbol: symbol}
}

// Symbol returns the referenced symbol.
func (r *SymbolReference) Symbol() sql.Symbol { return r.symbol }

// Name implements the Nameable interface.
func (r *SymbolReference) Name() string { return string(r.symbol) }

// Children implements the Expression interface.
func (*SymbolReference) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (r *SymbolReference) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(r, len(children), 0)
	}
	return r, nil
}

func (r *SymbolReference) String() string {
	return string(r.symbol)
}

// SymbolsToReferences returns a SymbolReference for each of the given symbols.
func SymbolsToReferences(symbols []sql.Symbol) []sql.Expression {
	ret := make([]sql.Expression, len(symbols))
	for i, s := range symbols {
		ret[i] = NewSymbolReference(s)
	}
	return ret
}
