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

import "github.com/dolthub/go-projection-pushdown/sql"

// Visitor visits exprs in the plan.
type Visitor interface {
	// Visit method is invoked for each expr encountered by Walk.
	// If the result Visitor is not nil, Walk visits each of the children
	// of the expr with that visitor, followed by a call of Visit(nil)
	// to the returned visitor.
	Visit(expr sql.Expression) Visitor
}

// Walk traverses the expression tree in depth-first order. It starts by calling
// v.Visit(expr); expr must not be nil. If the visitor returned by
// v.Visit(expr) is not nil, Walk is invoked recursively with the returned
// visitor for each children of the expr, followed by a call of v.Visit(nil)
// to the returned visitor.
func Walk(v Visitor, expr sql.Expression) {
	if v = v.Visit(expr); v == nil {
		return
	}

	for _, child := range expr.Children() {
		Walk(v, child)
	}

	v.Visit(nil)
}

type inspector func(sql.Expression) bool

func (f inspector) Visit(expr sql.Expression) Visitor {
	if f(expr) {
		return f
	}
	return nil
}

// Inspect traverses the expression tree in depth-first order: It starts by
// calling f(expr); expr must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of expr, followed by a call of
// f(nil).
func Inspect(expr sql.Expression, f func(sql.Expression) bool) {
	Walk(inspector(f), expr)
}

// CountDereferences returns the number of Dereference nodes in e, including
// those inside lambda bodies.
func CountDereferences(e sql.Expression) int {
	var n int
	Inspect(e, func(e sql.Expression) bool {
		if _, ok := e.(*Dereference); ok {
			n++
		}
		return true
	})
	return n
}

// ReferencedSymbols returns the symbols e reads from its sources, in order of
// first appearance. Symbols bound by an enclosing lambda are not included.
func ReferencedSymbols(e sql.Expression) []sql.Symbol {
	var (
		seen    = make(map[sql.Symbol]struct{})
		symbols []sql.Symbol
	)
	var collect func(e sql.Expression, bound map[sql.Symbol]struct{})
	collect = func(e sql.Expression, bound map[sql.Symbol]struct{}) {
		switch e := e.(type) {
		case *SymbolReference:
			if _, ok := bound[e.symbol]; ok {
				return
			}
			if _, ok := seen[e.symbol]; !ok {
				seen[e.symbol] = struct{}{}
				symbols = append(symbols, e.symbol)
			}
		case *Lambda:
			inner := make(map[sql.Symbol]struct{}, len(bound)+len(e.params))
			for s := range bound {
				inner[s] = struct{}{}
			}
			for _, p := range e.params {
				inner[p] = struct{}{}
			}
			collect(e.body, inner)
		default:
			for _, c := range e.Children() {
				collect(c, bound)
			}
		}
	}
	collect(e, nil)
	return symbols
}
