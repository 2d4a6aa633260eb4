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
	"github.com/dolthub/go-projection-pushdown/sql"
)

var (
	// Int64 is a 64-bit signed integer.
	Int64 sql.Type = scalarType("bigint")
	// Float64 is a double precision floating point number.
	Float64 sql.Type = scalarType("double")
	// Text is a variable length string.
	Text sql.Type = scalarType("varchar")
	// Boolean is a boolean.
	Boolean sql.Type = scalarType("boolean")
)

type scalarType string

var _ sql.Type = scalarType("")

func (t scalarType) String() string { return string(t) }

func (t scalarType) Equals(other sql.Type) bool {
	o, ok := other.(scalarType)
	return ok && o == t
}

// IsScalar returns whether the type is one of the scalar types of this package.
func IsScalar(t sql.Type) bool {
	_, ok := t.(scalarType)
	return ok
}
