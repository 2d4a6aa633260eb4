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

	"github.com/dolthub/go-projection-pushdown/sql"
)

// ArrayType is the type of a list of values of the same element type.
type ArrayType struct {
	Elem sql.Type
}

var _ sql.Type = ArrayType{}

// Array returns an array type of the given element type.
func Array(elem sql.Type) ArrayType {
	return ArrayType{Elem: elem}
}

func (t ArrayType) String() string {
	return fmt.Sprintf("array(%s)", t.Elem)
}

func (t ArrayType) Equals(other sql.Type) bool {
	o, ok := other.(ArrayType)
	return ok && t.Elem.Equals(o.Elem)
}

// FunctionType is the type of a lambda expression.
type FunctionType struct {
	Args   []sql.Type
	Return sql.Type
}

var _ sql.Type = (*FunctionType)(nil)

// Function returns the type of a function taking args and returning ret.
func Function(ret sql.Type, args ...sql.Type) *FunctionType {
	return &FunctionType{Args: args, Return: ret}
}

func (t *FunctionType) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("function(%s, %s)", strings.Join(args, ", "), t.Return)
}

func (t *FunctionType) Equals(other sql.Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || len(o.Args) != len(t.Args) || !t.Return.Equals(o.Return) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}
