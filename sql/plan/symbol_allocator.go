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
	"fmt"
	"strings"
	"sync"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
)

// SymbolAllocator creates fresh symbols and records their types. An
// allocator belongs to a single planning context.
type SymbolAllocator struct {
	mu     sync.Mutex
	types  sql.TypeProvider
	nextID int
}

// NewSymbolAllocator returns an allocator that knows the given symbols.
func NewSymbolAllocator(initial sql.TypeProvider) *SymbolAllocator {
	types := make(sql.TypeProvider, len(initial))
	for s, t := range initial {
		types[s] = t
	}
	return &SymbolAllocator{types: types}
}

// Types returns a snapshot of the types of every allocated symbol.
func (a *SymbolAllocator) Types() sql.TypeProvider {
	a.mu.Lock()
	defer a.mu.Unlock()
	types := make(sql.TypeProvider, len(a.types))
	for s, t := range a.types {
		types[s] = t
	}
	return types
}

// NewSymbol allocates a symbol of the given type whose name starts with hint.
func (a *SymbolAllocator) NewSymbol(hint string, typ sql.Type) sql.Symbol {
	a.mu.Lock()
	defer a.mu.Unlock()

	hint = strings.ToLower(hint)
	if hint == "" {
		hint = "expr"
	}

	unique := sql.Symbol(hint)
	for {
		if _, ok := a.types[unique]; !ok {
			break
		}
		unique = sql.Symbol(fmt.Sprintf("%s_%d", hint, a.nextID))
		a.nextID++
	}

	a.types[unique] = typ
	return unique
}

// NewSymbolForExpression allocates a symbol of the given type to hold the
// value of e, named after e where possible.
func (a *SymbolAllocator) NewSymbolForExpression(e sql.Expression, typ sql.Type) sql.Symbol {
	return a.NewSymbol(nameHint(e), typ)
}

func nameHint(e sql.Expression) string {
	switch e := e.(type) {
	case *expression.SymbolReference:
		return string(e.Symbol())
	case *expression.Dereference:
		if base, ok := expression.BaseSymbol(e); ok {
			return fmt.Sprintf("%s_%s", base, strings.TrimPrefix(e.Name(), "$"))
		}
		return "expr"
	case *expression.FunctionCall:
		return e.FunctionName()
	default:
		return "expr"
	}
}
