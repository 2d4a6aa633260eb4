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
	"github.com/dolthub/go-projection-pushdown/sql"
)

// Filter skips rows that don't match a certain expression.
type Filter struct {
	UnaryNode
	id        sql.NodeID
	Predicate sql.Expression
}

var _ sql.Node = (*Filter)(nil)
var _ sql.Expressioner = (*Filter)(nil)

// NewFilter creates a new filter node.
func NewFilter(id sql.NodeID, predicate sql.Expression, child sql.Node) *Filter {
	return &Filter{
		UnaryNode: UnaryNode{Child: child},
		id:        id,
		Predicate: predicate,
	}
}

// ID implements the Node interface.
func (f *Filter) ID() sql.NodeID { return f.id }

// Expressions implements the Expressioner interface.
func (f *Filter) Expressions() []sql.Expression {
	return []sql.Expression{f.Predicate}
}

// WithChildren implements the Node interface.
func (f *Filter) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), 1)
	}

	return NewFilter(f.id, f.Predicate, children[0]), nil
}

func (f *Filter) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Filter(%s)", f.Predicate)
	_ = pr.WriteChildren(f.Child.String())
	return pr.String()
}
