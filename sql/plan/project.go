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

// Project is a projection of certain expression from the children node.
type Project struct {
	UnaryNode
	id sql.NodeID
	// Assignments computing the output symbols.
	Assignments *Assignments
}

var _ sql.Node = (*Project)(nil)
var _ sql.Expressioner = (*Project)(nil)

// NewProject creates a new projection.
func NewProject(id sql.NodeID, child sql.Node, assignments *Assignments) *Project {
	return &Project{
		UnaryNode:   UnaryNode{Child: child},
		id:          id,
		Assignments: assignments,
	}
}

// ID implements the Node interface.
func (p *Project) ID() sql.NodeID { return p.id }

// OutputSymbols implements the Node interface.
func (p *Project) OutputSymbols() []sql.Symbol {
	return p.Assignments.Symbols()
}

// Expressions implements the Expressioner interface.
func (p *Project) Expressions() []sql.Expression {
	return p.Assignments.Expressions()
}

// IsIdentity returns whether the projection passes every symbol of its child
// through unchanged and in order.
func (p *Project) IsIdentity() bool {
	childSymbols := p.Child.OutputSymbols()
	symbols := p.Assignments.Symbols()
	if len(childSymbols) != len(symbols) {
		return false
	}
	for i, s := range symbols {
		if s != childSymbols[i] || !p.Assignments.IsIdentity(s) {
			return false
		}
	}
	return true
}

// WithChildren implements the Node interface.
func (p *Project) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 1)
	}

	return NewProject(p.id, children[0], p.Assignments), nil
}

// WithAssignments returns a copy of the projection with the given assignments.
func (p *Project) WithAssignments(assignments *Assignments) *Project {
	return NewProject(p.id, p.Child, assignments)
}

func (p *Project) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Project(%s)", p.Assignments)
	_ = pr.WriteChildren(p.Child.String())
	return pr.String()
}
