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
	"fmt"
	"strings"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// TableScan reads columns of a table. Every output symbol is bound to the
// column handle that produces it; a handle may denote a nested field of a
// base column.
type TableScan struct {
	id      sql.NodeID
	Table   sql.Table
	symbols []sql.Symbol
	columns []sql.ColumnHandle
}

var _ sql.Node = (*TableScan)(nil)

// NewTableScan creates a scan binding symbols[i] to columns[i].
func NewTableScan(id sql.NodeID, table sql.Table, symbols []sql.Symbol, columns []sql.ColumnHandle) *TableScan {
	if len(symbols) != len(columns) {
		panic(fmt.Sprintf("table scan of %s: %d symbols for %d columns", table.Name(), len(symbols), len(columns)))
	}
	return &TableScan{id: id, Table: table, symbols: symbols, columns: columns}
}

// ID implements the Node interface.
func (t *TableScan) ID() sql.NodeID { return t.id }

// OutputSymbols implements the Node interface.
func (t *TableScan) OutputSymbols() []sql.Symbol { return t.symbols }

// Columns returns the column handles bound to the output symbols, in order.
func (t *TableScan) Columns() []sql.ColumnHandle { return t.columns }

// Column returns the handle bound to the given symbol.
func (t *TableScan) Column(s sql.Symbol) (sql.ColumnHandle, bool) {
	for i, o := range t.symbols {
		if o == s {
			return t.columns[i], true
		}
	}
	return nil, false
}

// WithColumns returns a copy of the scan producing the given symbols.
func (t *TableScan) WithColumns(symbols []sql.Symbol, columns []sql.ColumnHandle) *TableScan {
	return NewTableScan(t.id, t.Table, symbols, columns)
}

// Children implements the Node interface.
func (t *TableScan) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (t *TableScan) WithChildren(children ...sql.Node) (sql.Node, error) {
	return NillaryWithChildren(t, children...)
}

func (t *TableScan) String() string {
	parts := make([]string, len(t.symbols))
	for i, s := range t.symbols {
		parts[i] = fmt.Sprintf("%s := %s", s, t.columns[i])
	}
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("TableScan(%s)[%s]", t.Table.Name(), strings.Join(parts, ", "))
	return pr.String()
}
