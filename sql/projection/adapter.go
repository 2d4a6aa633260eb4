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
	"fmt"

	"github.com/dolthub/go-projection-pushdown/sql"
)

type adaptedRowIter struct {
	columns *ReaderColumns
	iter    sql.RowIter
}

var _ sql.RowIter = (*adaptedRowIter)(nil)

// NewAdaptedRowIter returns an iterator producing the requested columns of
// the mapping out of rows of its reader columns.
func NewAdaptedRowIter(columns *ReaderColumns, iter sql.RowIter) sql.RowIter {
	return &adaptedRowIter{columns: columns, iter: iter}
}

func (i *adaptedRowIter) Next(ctx *sql.Context) (sql.Row, error) {
	row, err := i.iter.Next(ctx)
	if err != nil {
		return nil, err
	}

	readerColumns := i.columns.Columns()
	if len(row) != len(readerColumns) {
		return nil, sql.ErrUnexpectedRowLength.New(len(readerColumns), len(row))
	}

	result := make(sql.Row, i.columns.Len())
	for j := range result {
		requested := i.columns.RequestedColumn(j)
		v, err := fieldValue(row[i.columns.PositionForColumnAt(j)], requested.Path())
		if err != nil {
			return nil, sql.ErrInvalidFieldPath.New(requested.Path(), requested.Name(), err.Error())
		}
		result[j] = v
	}
	return result, nil
}

func (i *adaptedRowIter) Close(ctx *sql.Context) error {
	return i.iter.Close(ctx)
}

// fieldValue follows path into v. A null anywhere along the path is null.
func fieldValue(v interface{}, path []int) (interface{}, error) {
	for _, ordinal := range path {
		if v == nil {
			return nil, nil
		}
		row, ok := v.(sql.Row)
		if !ok {
			return nil, fmt.Errorf("value of type %T has no fields", v)
		}
		if ordinal < 0 || ordinal >= len(row) {
			return nil, fmt.Errorf("field %d out of bounds for row of %d values", ordinal, len(row))
		}
		v = row[ordinal]
	}
	return v, nil
}
