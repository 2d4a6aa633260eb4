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

package sql

import (
	"fmt"
)

// Symbol is the name of a value produced by a plan node. Symbols are unique
// within a single planning context.
type Symbol string

// String implements fmt.Stringer.
func (s Symbol) String() string { return string(s) }

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Type represents a SQL type.
type Type interface {
	fmt.Stringer
	// Equals returns whether the given type is the same as this one.
	Equals(other Type) bool
}

// TypeProvider resolves the type of every symbol known to a planning context.
type TypeProvider map[Symbol]Type

// Get returns the type of the given symbol, if known.
func (p TypeProvider) Get(s Symbol) (Type, bool) {
	t, ok := p[s]
	return t, ok
}

// Expression is a scalar expression tree. Expressions are immutable values;
// two expressions are the same when they are structurally equal.
type Expression interface {
	fmt.Stringer
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Expression) (Expression, error)
}

// NodeID identifies a plan node within a single planning context.
type NodeID int64

// Node is a node in the execution plan tree.
type Node interface {
	fmt.Stringer
	// ID returns the identity of this node.
	ID() NodeID
	// Children nodes.
	Children() []Node
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Node) (Node, error)
	// OutputSymbols returns the symbols this node produces, in order.
	OutputSymbols() []Symbol
}

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
}

// Table is a table that can be scanned.
type Table interface {
	fmt.Stringer
	Nameable
	// Columns returns the base columns of the table, in order.
	Columns() []ColumnHandle
}

// ColumnHandle identifies a column of a table as seen by a storage reader.
// A handle either denotes a whole (base) column or a projection of a nested
// field of a base column, addressed by a path of field ordinals.
type ColumnHandle interface {
	fmt.Stringer
	Nameable
	// Type returns the type of the values this handle produces.
	Type() Type
	// BaseColumn returns the handle of the top-level column this handle reads
	// from. For a base column it returns an equal handle.
	BaseColumn() ColumnHandle
	// Path returns the ordinals of the nested fields projected out of the base
	// column. It is empty for a base column.
	Path() []int
	// IsBaseColumn returns whether this handle denotes a whole column.
	IsBaseColumn() bool
	// Equals returns whether both handles denote the same column and path.
	Equals(other ColumnHandle) bool
}

// ProjectableColumnHandle is a ColumnHandle that can be narrowed to one of
// its nested fields, so that a scan reads the field directly.
type ProjectableColumnHandle interface {
	ColumnHandle
	// ProjectField returns a handle for the field at the given ordinal path,
	// relative to this handle.
	ProjectField(path ...int) (ColumnHandle, error)
}
