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

package memory

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/projection"
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

// ErrPartitionNotFound is returned when a partition key is unknown.
var ErrPartitionNotFound = errors.NewKind("partition not found %q")

// Table represents an in-memory table whose rows may hold nested row values.
type Table struct {
	name    string
	columns []*projection.Column

	// Data storage
	mu         sync.RWMutex
	partitions map[string][]sql.Row
	keys       [][]byte

	// Insert bookkeeping
	insert int
}

var _ sql.Table = (*Table)(nil)
var _ projection.ReaderProvider = (*Table)(nil)

// NewTable creates a new Table with the given name and columns.
func NewTable(name string, columns ...types.Field) *Table {
	return NewPartitionedTable(name, 0, columns...)
}

// NewPartitionedTable creates a new Table with the given name, number of
// partitions and columns. Inserted rows are spread over the partitions.
func NewPartitionedTable(name string, numPartitions int, columns ...types.Field) *Table {
	var keys [][]byte
	var partitions = map[string][]sql.Row{}

	if numPartitions < 1 {
		numPartitions = 1
	}

	for i := 0; i < numPartitions; i++ {
		key := strconv.Itoa(i)
		keys = append(keys, []byte(key))
		partitions[key] = []sql.Row{}
	}

	cols := make([]*projection.Column, len(columns))
	for i, c := range columns {
		cols[i] = projection.NewBaseColumn(c.Name, i, c.Type)
	}

	return &Table{
		name:       name,
		columns:    cols,
		partitions: partitions,
		keys:       keys,
	}
}

// Name implements the sql.Table interface.
func (t *Table) Name() string {
	return t.name
}

// Columns implements the sql.Table interface.
func (t *Table) Columns() []sql.ColumnHandle {
	cols := make([]sql.ColumnHandle, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c
	}
	return cols
}

// Column returns the base column with the given name.
func (t *Table) Column(name string) (*projection.Column, bool) {
	for _, c := range t.columns {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// PartitionKeys returns the keys of the partitions holding rows.
func (t *Table) PartitionKeys() [][]byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var keys [][]byte
	for _, k := range t.keys {
		if rows, ok := t.partitions[string(k)]; ok && len(rows) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// PartitionCount returns the number of partitions of the table.
func (t *Table) PartitionCount() int {
	return len(t.keys)
}

// NumRows returns the number of rows of the table.
func (t *Table) NumRows() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var count uint64
	for _, rows := range t.partitions {
		count += uint64(len(rows))
	}
	return count
}

// Insert adds a row to the next partition.
func (t *Table) Insert(ctx *sql.Context, row sql.Row) error {
	if err := checkRow(t.columns, row); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	key := string(t.keys[t.insert])
	t.insert = (t.insert + 1) % len(t.keys)
	t.partitions[key] = append(t.partitions[key], row.Copy())
	return nil
}

// PartitionRows returns an iterator over the given base columns of the rows
// of one partition.
func (t *Table) PartitionRows(ctx *sql.Context, key []byte, columns []sql.ColumnHandle) (sql.RowIter, error) {
	ordinals, err := t.ordinals(columns)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	rows, ok := t.partitions[string(key)]
	// Inserts may append to the partition while it is read.
	rowsCopy := make([]sql.Row, len(rows))
	copy(rowsCopy, rows)
	t.mu.RUnlock()
	if !ok {
		return nil, ErrPartitionNotFound.New(key)
	}

	return &tableIter{rows: rowsCopy, columns: ordinals}, nil
}

// Read implements the projection.ReaderProvider interface. Partitions are
// read concurrently and their rows are returned in partition order.
func (t *Table) Read(ctx *sql.Context, columns []sql.ColumnHandle) (sql.RowIter, error) {
	span, ctx := ctx.Span("memory.Read")
	defer span.Finish()

	if _, err := t.ordinals(columns); err != nil {
		return nil, err
	}

	keys := t.PartitionKeys()
	results := make([][]sql.Row, len(keys))
	eg, egCtx := errgroup.WithContext(ctx)
	readCtx := ctx.WithContext(egCtx)
	for i, key := range keys {
		i, key := i, key
		eg.Go(func() error {
			iter, err := t.PartitionRows(readCtx, key, columns)
			if err != nil {
				return err
			}
			rows, err := sql.RowIterToRows(readCtx, iter)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var rows []sql.Row
	for _, r := range results {
		rows = append(rows, r...)
	}

	ctx.GetLogger().Debugf("read %d rows of %d columns from %s", len(rows), len(columns), t.name)
	return sql.RowsToRowIter(rows...), nil
}

// ordinals returns the positions of the given columns, which must all be
// base columns of the table.
func (t *Table) ordinals(columns []sql.ColumnHandle) ([]int, error) {
	ordinals := make([]int, len(columns))
	for i, c := range columns {
		col, ok := c.(*projection.Column)
		if !ok || !c.IsBaseColumn() {
			return nil, sql.ErrColumnNotFound.New(t.name, c.Name())
		}
		if col.Ordinal() < 0 || col.Ordinal() >= len(t.columns) || !t.columns[col.Ordinal()].Equals(col) {
			return nil, sql.ErrColumnNotFound.New(t.name, c.Name())
		}
		ordinals[i] = col.Ordinal()
	}
	return ordinals, nil
}

type tableIter struct {
	columns []int
	rows    []sql.Row
	pos     int
}

var _ sql.RowIter = (*tableIter)(nil)

func (i *tableIter) Next(ctx *sql.Context) (sql.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i.pos >= len(i.rows) {
		return nil, io.EOF
	}

	row := i.rows[i.pos]
	i.pos++
	return projectOnRow(i.columns, row), nil
}

func (i *tableIter) Close(*sql.Context) error {
	i.rows = nil
	return nil
}

func projectOnRow(columns []int, row sql.Row) sql.Row {
	projected := make(sql.Row, len(columns))
	for i, selected := range columns {
		projected[i] = row[selected]
	}
	return projected
}

func checkRow(columns []*projection.Column, row sql.Row) error {
	if len(row) != len(columns) {
		return sql.ErrUnexpectedRowLength.New(len(columns), len(row))
	}

	for i, value := range row {
		if err := checkValue(columns[i].Type(), value); err != nil {
			return err
		}
	}
	return nil
}

// checkValue verifies that values of row types are rows of the right width.
// Scalar values are not checked.
func checkValue(typ sql.Type, value interface{}) error {
	rt, ok := typ.(*types.RowType)
	if !ok || value == nil {
		return nil
	}

	row, ok := value.(sql.Row)
	if !ok {
		return sql.ErrInvalidType.New(fmt.Sprintf("%T for %s", value, rt))
	}
	if len(row) != len(rt.Fields()) {
		return sql.ErrUnexpectedRowLength.New(len(rt.Fields()), len(row))
	}
	for i, f := range rt.Fields() {
		if err := checkValue(f.Type, row[i]); err != nil {
			return err
		}
	}
	return nil
}

// String implements the sql.Table interface.
func (t *Table) String() string {
	return t.name
}

// DebugString returns the name of the table with its columns and partitions.
func (t *Table) DebugString() string {
	p := sql.NewTreePrinter()
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.String()
	}
	_ = p.WriteNode("%s(%s) partitions=%d", t.name, strings.Join(cols, ", "), len(t.keys))
	return p.String()
}
