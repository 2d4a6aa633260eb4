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

// Values is a leaf node producing literal rows for a fixed set of symbols.
type Values struct {
	id      sql.NodeID
	symbols []sql.Symbol
	Rows    []sql.Row
}

var _ sql.Node = (*Values)(nil)

// NewValues creates a Values node.
func NewValues(id sql.NodeID, symbols []sql.Symbol, rows ...sql.Row) *Values {
	return &Values{id: id, symbols: symbols, Rows: rows}
}

// ID implements the Node interface.
func (v *Values) ID() sql.NodeID { return v.id }

// OutputSymbols implements the Node interface.
func (v *Values) OutputSymbols() []sql.Symbol { return v.symbols }

// Children implements the Node interface.
func (v *Values) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (v *Values) WithChildren(children ...sql.Node) (sql.Node, error) {
	return NillaryWithChildren(v, children...)
}

func (v *Values) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Values(%s)", symbolsString(v.symbols))
	return pr.String()
}
