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

// Lambda is an anonymous function. Its body is evaluated once per invocation
// with the parameters bound to the arguments, so it forms a closed scope.
// Parameters are distinct and bound by position.
type Lambda struct {
	params []sql.Symbol
	body   sql.Expression
}

var _ sql.Expression = (*Lambda)(nil)

// NewLambda creates a Lambda with the given parameters and body.
func NewLambda(params []sql.Symbol, body sql.Expression) *Lambda {
	ps := make([]sql.Symbol, len(params))
	copy(ps, params)
	return &Lambda{params: ps, body: body}
}

// Params returns the parameters bound by the lambda.
func (l *Lambda) Params() []sql.Symbol { return l.params }

// Body returns the body of the lambda.
func (l *Lambda) Body() sql.Expression { return l.body }

// Children implements the Expression interface.
func (l *Lambda) Children() []sql.Expression {
	return []sql.Expression{l.body}
}

// WithChildren implements the Expression interface.
func (l *Lambda) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 1)
	}
	return &Lambda{params: l.params, body: children[0]}, nil
}

func (l *Lambda) String() string {
	params := make([]string, len(l.params))
	for i, p := range l.params {
		params[i] = string(p)
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), l.body)
}
