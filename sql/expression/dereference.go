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
	"fmt"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// Dereference is an expression that reads one field, by ordinal, out of a
// row-typed value.
type Dereference struct {
	base  sql.Expression
	field int
	// name is only used for display. Two dereferences of the same base and
	// field are the same expression regardless of name.
	name string
}

var _ sql.Expression = (*Dereference)(nil)

// NewDereference creates a Dereference of the given field ordinal of base.
func NewDereference(base sql.Expression, field int) *Dereference {
	return &Dereference{base: base, field: field}
}

// NewNamedDereference creates a Dereference that displays the given field name.
func NewNamedDereference(base sql.Expression, field int, name string) *Dereference {
	return &Dereference{base: base, field: field, name: name}
}

// Base returns the expression the field is read from.
func (d *Dereference) Base() sql.Expression { return d.base }

// Field returns the ordinal of the field being read.
func (d *Dereference) Field() int { return d.field }

// Name implements the Nameable interface.
func (d *Dereference) Name() string {
	if d.name == "" {
		return fmt.Sprintf("$%d", d.field)
	}
	return d.name
}

// Children implements the Expression interface.
func (d *Dereference) Children() []sql.Expression {
	return []sql.Expression{d.base}
}

// WithChildren implements the Expression interface.
func (d *Dereference) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 1)
	}
	nd := *d
	nd.base = children[0]
	return &nd, nil
}

func (d *Dereference) String() string {
	return fmt.Sprintf("%s.%s", d.base, d.Name())
}

// IsDereferenceSequence returns whether e is a chain of dereferences that
// ends in a symbol reference, such as a.b.c.
func IsDereferenceSequence(e sql.Expression) bool {
	d, ok := e.(*Dereference)
	if !ok {
		return false
	}
	switch b := d.base.(type) {
	case *SymbolReference:
		return true
	case *Dereference:
		return IsDereferenceSequence(b)
	default:
		return false
	}
}

// BaseSymbol returns the symbol at the root of a dereference sequence. It
// returns false if e is not a dereference sequence or a symbol reference.
func BaseSymbol(e sql.Expression) (sql.Symbol, bool) {
	for {
		switch n := e.(type) {
		case *SymbolReference:
			return n.symbol, true
		case *Dereference:
			e = n.base
		default:
			return "", false
		}
	}
}

// FieldPath returns the field ordinals of a dereference sequence, from the
// root outwards. For a.b.c it returns the ordinals of b and c.
func FieldPath(e sql.Expression) []int {
	var path []int
	for {
		d, ok := e.(*Dereference)
		if !ok {
			break
		}
		path = append(path, d.field)
		e = d.base
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
