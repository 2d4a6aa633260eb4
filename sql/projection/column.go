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

package projection

import (
	"strings"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

// Column is the handle of a table column, or of a nested field of one.
type Column struct {
	name    string
	ordinal int
	typ     sql.Type
	// baseType is the type of the whole column. It is the same as typ for a
	// base column.
	baseType sql.Type
	path     []int
	// fieldNames has the names of the fields along path, for display.
	fieldNames []string
}

var _ sql.ProjectableColumnHandle = (*Column)(nil)

// NewBaseColumn creates the handle of the column at the given ordinal of
// its table.
func NewBaseColumn(name string, ordinal int, typ sql.Type) *Column {
	return &Column{
		name:     name,
		ordinal:  ordinal,
		typ:      typ,
		baseType: typ,
	}
}

// NewProjectedColumn creates the handle of the nested field of base at the
// given ordinal path. base must be a base column and path must denote a
// field of its type.
func NewProjectedColumn(base *Column, path ...int) (*Column, error) {
	if !base.IsBaseColumn() {
		return nil, sql.ErrInvalidFieldPath.New(path, base.Name(), "not a base column")
	}
	if len(path) == 0 {
		return base, nil
	}

	names := make([]string, 0, len(path))
	current := base.typ
	for _, ordinal := range path {
		rt, ok := current.(*types.RowType)
		if !ok {
			return nil, sql.ErrInvalidFieldPath.New(path, base.Name(), current.String()+" has no fields")
		}
		f, err := rt.Field(ordinal)
		if err != nil {
			return nil, sql.ErrInvalidFieldPath.New(path, base.Name(), err.Error())
		}
		names = append(names, f.Name)
		current = f.Type
	}

	p := make([]int, len(path))
	copy(p, path)
	return &Column{
		name:       base.name,
		ordinal:    base.ordinal,
		typ:        current,
		baseType:   base.typ,
		path:       p,
		fieldNames: names,
	}, nil
}

// Name implements the sql.ColumnHandle interface. Projected columns are
// named after the base column and the fields along the path.
func (c *Column) Name() string {
	if c.IsBaseColumn() {
		return c.name
	}
	return c.name + "#" + strings.Join(c.fieldNames, "#")
}

// BaseName returns the name of the base column.
func (c *Column) BaseName() string { return c.name }

// Ordinal returns the position of the base column in its table.
func (c *Column) Ordinal() int { return c.ordinal }

// Type implements the sql.ColumnHandle interface.
func (c *Column) Type() sql.Type { return c.typ }

// Path implements the sql.ColumnHandle interface.
func (c *Column) Path() []int { return c.path }

// IsBaseColumn implements the sql.ColumnHandle interface.
func (c *Column) IsBaseColumn() bool { return len(c.path) == 0 }

// BaseColumn implements the sql.ColumnHandle interface.
func (c *Column) BaseColumn() sql.ColumnHandle {
	if c.IsBaseColumn() {
		return c
	}
	return NewBaseColumn(c.name, c.ordinal, c.baseType)
}

// Project returns the handle of the field at the given path relative to
// this column.
func (c *Column) Project(path ...int) (*Column, error) {
	full := make([]int, 0, len(c.path)+len(path))
	full = append(full, c.path...)
	full = append(full, path...)
	return NewProjectedColumn(NewBaseColumn(c.name, c.ordinal, c.baseType), full...)
}

// ProjectField implements the sql.ProjectableColumnHandle interface.
func (c *Column) ProjectField(path ...int) (sql.ColumnHandle, error) {
	return c.Project(path...)
}

// Equals implements the sql.ColumnHandle interface.
func (c *Column) Equals(other sql.ColumnHandle) bool {
	o, ok := other.(*Column)
	if !ok {
		return false
	}
	if c.name != o.name || c.ordinal != o.ordinal || len(c.path) != len(o.path) {
		return false
	}
	for i := range c.path {
		if c.path[i] != o.path[i] {
			return false
		}
	}
	return c.baseType.Equals(o.baseType)
}

func (c *Column) String() string {
	return c.Name() + ":" + c.typ.String()
}
