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
	"strings"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// FunctionCall is a call to a resolved scalar function. The function itself
// is opaque to planning; only its name, arguments and return type are known.
type FunctionCall struct {
	name       string
	args       []sql.Expression
	returnType sql.Type
}

var _ sql.Expression = (*FunctionCall)(nil)

// NewFunctionCall creates a call to the named function.
func NewFunctionCall(name string, returnType sql.Type, args ...sql.Expression) *FunctionCall {
	return &FunctionCall{name: name, args: args, returnType: returnType}
}

// FunctionName returns the name of the called function.
func (f *FunctionCall) FunctionName() string { return f.name }

// Type returns the return type of the function.
func (f *FunctionCall) Type() sql.Type { return f.returnType }

// Children implements the Expression interface.
func (f *FunctionCall) Children() []sql.Expression {
	return f.args
}

// WithChildren implements the Expression interface.
func (f *FunctionCall) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(f.args) {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), len(f.args))
	}
	return &FunctionCall{name: f.name, args: children, returnType: f.returnType}, nil
}

func (f *FunctionCall) String() string {
	args := make([]string, len(f.args))
	for i, a := range f.args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(args, ", "))
}
