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

package transform

import (
	"github.com/dolthub/go-projection-pushdown/sql"
)

// Expr applies a transformation function to the given expression
// tree from the bottom up. Each callback [f] returns a TreeIdentity
// that is aggregated into a final output indicating whether the
// expression tree was changed.
func Expr(e sql.Expression, f ExprFunc) (sql.Expression, TreeIdentity, error) {
	children := e.Children()
	if len(children) == 0 {
		return f(e)
	}

	var (
		newChildren []sql.Expression
		err         error
	)

	for i := 0; i < len(children); i++ {
		c := children[i]
		c, same, err := Expr(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			if newChildren == nil {
				newChildren = make([]sql.Expression, len(children))
				copy(newChildren, children)
			}
			newChildren[i] = c
		}
	}

	sameC := SameTree
	if len(newChildren) > 0 {
		sameC = NewTree
		e, err = e.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	e, sameN, err := f(e)
	if err != nil {
		return nil, SameTree, err
	}
	return e, sameC && sameN, nil
}

// ExprTopDown applies a transformation function to the given expression
// tree from the top down. When [f] returns a NewTree for an expression, the
// result replaces it and its children are not visited. Children of an
// expression are only visited when [sel] returns true for it.
func ExprTopDown(e sql.Expression, sel ExprSelector, f ExprFunc) (sql.Expression, TreeIdentity, error) {
	ne, same, err := f(e)
	if err != nil {
		return nil, SameTree, err
	}
	if !same {
		return ne, NewTree, nil
	}

	if sel != nil && !sel(e) {
		return e, SameTree, nil
	}

	children := e.Children()
	var newChildren []sql.Expression
	for i := range children {
		c, same, err := ExprTopDown(children[i], sel, f)
		if err != nil {
			return nil, SameTree, err
		}
		if !same {
			if newChildren == nil {
				newChildren = make([]sql.Expression, len(children))
				copy(newChildren, children)
			}
			newChildren[i] = c
		}
	}

	if newChildren == nil {
		return e, SameTree, nil
	}

	e, err = e.WithChildren(newChildren...)
	if err != nil {
		return nil, SameTree, err
	}
	return e, NewTree, nil
}
