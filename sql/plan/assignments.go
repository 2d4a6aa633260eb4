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

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
)

// Assignments is an ordered mapping from output symbols to the expressions
// computing them. Assignments are immutable once built.
type Assignments struct {
	symbols []sql.Symbol
	exprs   map[sql.Symbol]sql.Expression
}

// NewAssignments returns empty assignments.
func NewAssignments() *Assignments {
	return &Assignments{exprs: make(map[sql.Symbol]sql.Expression)}
}

// IdentityAssignments returns assignments that pass every given symbol through.
func IdentityAssignments(symbols ...sql.Symbol) *Assignments {
	return NewAssignmentsBuilder().PutIdentities(symbols...).Build()
}

// Symbols returns the output symbols in order.
func (a *Assignments) Symbols() []sql.Symbol {
	return a.symbols
}

// Expressions returns the assigned expressions in output order.
func (a *Assignments) Expressions() []sql.Expression {
	exprs := make([]sql.Expression, len(a.symbols))
	for i, s := range a.symbols {
		exprs[i] = a.exprs[s]
	}
	return exprs
}

// Get returns the expression assigned to the symbol.
func (a *Assignments) Get(s sql.Symbol) (sql.Expression, bool) {
	e, ok := a.exprs[s]
	return e, ok
}

// Len returns the number of assignments.
func (a *Assignments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.symbols)
}

// IsEmpty returns whether there are no assignments.
func (a *Assignments) IsEmpty() bool {
	return a.Len() == 0
}

// IsIdentity returns whether the symbol is assigned a reference to itself.
func (a *Assignments) IsIdentity(s sql.Symbol) bool {
	ref, ok := a.exprs[s].(*expression.SymbolReference)
	return ok && ref.Symbol() == s
}

// Rewrite returns new assignments with f applied to every expression.
func (a *Assignments) Rewrite(f func(sql.Expression) (sql.Expression, error)) (*Assignments, error) {
	b := NewAssignmentsBuilder()
	for _, s := range a.Symbols() {
		e, err := f(a.exprs[s])
		if err != nil {
			return nil, err
		}
		b.Put(s, e)
	}
	return b.Build(), nil
}

func (a *Assignments) String() string {
	parts := make([]string, len(a.symbols))
	for i, s := range a.symbols {
		if a.IsIdentity(s) {
			parts[i] = string(s)
		} else {
			parts[i] = fmt.Sprintf("%s := %s", s, a.exprs[s])
		}
	}
	return strings.Join(parts, ", ")
}

// AssignmentsBuilder builds Assignments.
type AssignmentsBuilder struct {
	a *Assignments
}

// NewAssignmentsBuilder returns an empty builder.
func NewAssignmentsBuilder() *AssignmentsBuilder {
	return &AssignmentsBuilder{a: NewAssignments()}
}

// Put assigns e to s. Assigning a symbol twice keeps its first position and
// the last expression.
func (b *AssignmentsBuilder) Put(s sql.Symbol, e sql.Expression) *AssignmentsBuilder {
	if _, ok := b.a.exprs[s]; !ok {
		b.a.symbols = append(b.a.symbols, s)
	}
	b.a.exprs[s] = e
	return b
}

// PutIdentity assigns a reference to s to itself.
func (b *AssignmentsBuilder) PutIdentity(s sql.Symbol) *AssignmentsBuilder {
	return b.Put(s, expression.NewSymbolReference(s))
}

// PutIdentities assigns every symbol to itself.
func (b *AssignmentsBuilder) PutIdentities(symbols ...sql.Symbol) *AssignmentsBuilder {
	for _, s := range symbols {
		b.PutIdentity(s)
	}
	return b
}

// PutAll copies every assignment of other.
func (b *AssignmentsBuilder) PutAll(other *Assignments) *AssignmentsBuilder {
	if other == nil {
		return b
	}
	for _, s := range other.symbols {
		b.Put(s, other.exprs[s])
	}
	return b
}

// Build returns the built assignments. The builder must not be used afterwards.
func (b *AssignmentsBuilder) Build() *Assignments {
	a := b.a
	b.a = nil
	return a
}
