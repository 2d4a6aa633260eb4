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

package types

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// ErrFieldOutOfBounds is returned when a field ordinal does not exist in a row type.
var ErrFieldOutOfBounds = errors.NewKind("field %d out of bounds for %s")

// Field is a named field of a RowType.
type Field struct {
	Name string
	Type sql.Type
}

// NewField creates a row field.
func NewField(name string, typ sql.Type) Field {
	return Field{Name: name, Type: typ}
}

// RowType is the type of structured values with ordered, named fields.
// Values of a RowType are sql.Row.
type RowType struct {
	fields []Field
}

var _ sql.Type = (*RowType)(nil)

// Row returns a new row type with the given fields.
func Row(fields ...Field) *RowType {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return &RowType{fields: fs}
}

// Fields returns the fields of this row type.
func (t *RowType) Fields() []Field {
	return t.fields
}

// Field returns the field at the given ordinal.
func (t *RowType) Field(ordinal int) (Field, error) {
	if ordinal < 0 || ordinal >= len(t.fields) {
		return Field{}, ErrFieldOutOfBounds.New(ordinal, t)
	}
	return t.fields[ordinal], nil
}

// FieldIndex returns the ordinal of the field with the given name, or -1.
func (t *RowType) FieldIndex(name string) int {
	for i, f := range t.fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

func (t *RowType) String() string {
	fields := make([]string, len(t.fields))
	for i, f := range t.fields {
		fields[i] = fmt.Sprintf("%s %s", f.Name, f.Type)
	}
	return fmt.Sprintf("row(%s)", strings.Join(fields, ", "))
}

func (t *RowType) Equals(other sql.Type) bool {
	o, ok := other.(*RowType)
	if !ok || len(o.fields) != len(t.fields) {
		return false
	}
	for i := range t.fields {
		if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equals(o.fields[i].Type) {
			return false
		}
	}
	return true
}

// FieldType follows path through nested row types and returns the type of
// the field it ends at.
func FieldType(t sql.Type, path []int) (sql.Type, error) {
	current := t
	for _, ordinal := range path {
		rt, ok := current.(*RowType)
		if !ok {
			return nil, sql.ErrInvalidType.New(fmt.Sprintf("cannot access field %d of %s", ordinal, current))
		}
		f, err := rt.Field(ordinal)
		if err != nil {
			return nil, err
		}
		current = f.Type
	}
	return current, nil
}
