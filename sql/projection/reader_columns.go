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

package projection

import (
	"github.com/dolthub/go-projection-pushdown/sql"
)

// ReaderColumns maps the columns requested from a scan to the base columns
// a reader has to fetch. It is immutable and safe for concurrent use.
type ReaderColumns struct {
	requested     []sql.ColumnHandle
	readerColumns []sql.ColumnHandle
	positions     []int
}

// ProjectBaseColumns reduces the requested columns to the distinct base
// columns they read from, in order of first occurrence. It returns false
// when every requested column is a base column, in which case the columns
// can be read as they are.
func ProjectBaseColumns(columns []sql.ColumnHandle) (*ReaderColumns, bool) {
	allBase := true
	for _, c := range columns {
		if !c.IsBaseColumn() {
			allBase = false
			break
		}
	}
	if allBase {
		return nil, false
	}

	var (
		readerColumns []sql.ColumnHandle
		positions     = make([]int, len(columns))
	)
	for i, c := range columns {
		base := c.BaseColumn()
		pos := indexOf(readerColumns, base)
		if pos < 0 {
			pos = len(readerColumns)
			readerColumns = append(readerColumns, base)
		}
		positions[i] = pos
	}

	requested := make([]sql.ColumnHandle, len(columns))
	copy(requested, columns)
	return &ReaderColumns{
		requested:     requested,
		readerColumns: readerColumns,
		positions:     positions,
	}, true
}

func indexOf(columns []sql.ColumnHandle, c sql.ColumnHandle) int {
	for i, o := range columns {
		if o.Equals(c) {
			return i
		}
	}
	return -1
}

// Columns returns the base columns to read, without duplicates.
func (r *ReaderColumns) Columns() []sql.ColumnHandle {
	return r.readerColumns
}

// Len returns the number of requested columns.
func (r *ReaderColumns) Len() int {
	return len(r.requested)
}

// RequestedColumn returns the i-th requested column.
func (r *ReaderColumns) RequestedColumn(i int) sql.ColumnHandle {
	return r.requested[i]
}

// PositionForColumnAt returns the index in Columns of the base column of the
// i-th requested column.
func (r *ReaderColumns) PositionForColumnAt(i int) int {
	return r.positions[i]
}

// ColumnForColumnAt returns the base column of the i-th requested column.
func (r *ReaderColumns) ColumnForColumnAt(i int) sql.ColumnHandle {
	return r.readerColumns[r.positions[i]]
}
