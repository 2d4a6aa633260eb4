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
	"testing"

	"github.com/go-kit/kit/metrics"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-projection-pushdown/sql"
)

// sliceProvider serves the base columns x, s and s2 out of full rows.
type sliceProvider struct {
	rows  []sql.Row
	reads [][]sql.ColumnHandle
}

func (p *sliceProvider) Name() string { return "slices" }

func (p *sliceProvider) Read(ctx *sql.Context, columns []sql.ColumnHandle) (sql.RowIter, error) {
	p.reads = append(p.reads, columns)
	var rows []sql.Row
	for _, r := range p.rows {
		projected := make(sql.Row, len(columns))
		for i, c := range columns {
			if !c.IsBaseColumn() {
				return nil, sql.ErrColumnNotFound.New(p.Name(), c.Name())
			}
			projected[i] = r[c.(*Column).Ordinal()]
		}
		rows = append(rows, projected)
	}
	return sql.RowsToRowIter(rows...), nil
}

func testRows() []sql.Row {
	return []sql.Row{
		{int64(1), sql.NewRow(int64(10), "a"), sql.NewRow(sql.NewRow(int64(100), int64(101)), true)},
		{int64(2), sql.NewRow(int64(20), "b"), sql.NewRow(nil, false)},
		{int64(3), nil, sql.NewRow(sql.NewRow(int64(300), int64(301)), nil)},
	}
}

func TestNewReader(t *testing.T) {
	ctx := sql.NewEmptyContext()

	testCases := []struct {
		name      string
		requested []sql.ColumnHandle
		reads     int
		expected  []sql.Row
	}{
		{
			"nested fields",
			[]sql.ColumnHandle{
				colX,
				mustProject(t, colS, 0),
				mustProject(t, colS, 1),
				mustProject(t, colS2, 0, 1),
				mustProject(t, colS2, 0),
			},
			3,
			[]sql.Row{
				{int64(1), int64(10), "a", int64(101), sql.NewRow(int64(100), int64(101))},
				{int64(2), int64(20), "b", nil, nil},
				{int64(3), nil, nil, int64(301), sql.NewRow(int64(300), int64(301))},
			},
		},
		{
			"base columns only",
			[]sql.ColumnHandle{colS, colX},
			2,
			[]sql.Row{
				{sql.NewRow(int64(10), "a"), int64(1)},
				{sql.NewRow(int64(20), "b"), int64(2)},
				{nil, int64(3)},
			},
		},
		{
			"same field twice",
			[]sql.ColumnHandle{mustProject(t, colS2, 1), mustProject(t, colS2, 1)},
			1,
			[]sql.Row{
				{true, true},
				{false, false},
				{nil, nil},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			p := &sliceProvider{rows: testRows()}

			iter, err := NewReader(ctx, p, tt.requested)
			require.NoError(err)
			rows, err := sql.RowIterToRows(ctx, iter)
			require.NoError(err)
			require.Equal(tt.expected, rows)

			require.Len(p.reads, 1)
			require.Len(p.reads[0], tt.reads)
			for _, c := range p.reads[0] {
				require.True(c.IsBaseColumn())
			}
		})
	}
}

func TestAdaptedRowIterErrors(t *testing.T) {
	ctx := sql.NewEmptyContext()
	require := require.New(t)

	mapping, ok := ProjectBaseColumns([]sql.ColumnHandle{mustProject(t, colS, 0)})
	require.True(ok)

	iter := NewAdaptedRowIter(mapping, sql.RowsToRowIter(sql.NewRow("not a row")))
	_, err := sql.RowIterToRows(ctx, iter)
	require.True(sql.ErrInvalidFieldPath.Is(err))

	iter = NewAdaptedRowIter(mapping, sql.RowsToRowIter(sql.NewRow(int64(1), int64(2))))
	_, err = sql.RowIterToRows(ctx, iter)
	require.True(sql.ErrUnexpectedRowLength.Is(err))
}

func TestTrackingReaderProvider(t *testing.T) {
	ctx := sql.NewEmptyContext()
	require := require.New(t)

	require.IsType(&sliceProvider{}, NewReaderProvider(&sliceProvider{}, false))

	p := NewReaderProvider(&sliceProvider{rows: testRows()}, true)
	tracking, ok := p.(*TrackingReaderProvider)
	require.True(ok)

	iter, err := NewReader(ctx, p, []sql.ColumnHandle{mustProject(t, colS, 1), colX})
	require.NoError(err)
	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(err)
	require.Len(rows, 3)
	require.NoError(iter.Close(ctx))

	require.Equal([]ReadOperation{
		{Table: "slices", Columns: []string{"s", "x"}, Rows: 3},
	}, tracking.Operations())
}

type rowsCounter struct {
	labels []string
	total  *float64
}

func (c rowsCounter) With(labelValues ...string) metrics.Counter {
	return rowsCounter{labels: append(c.labels, labelValues...), total: c.total}
}

func (c rowsCounter) Add(delta float64) {
	if len(c.labels) == 2 && c.labels[0] == "table" && c.labels[1] == "slices" {
		*c.total += delta
	}
}

func TestReadRowsCounter(t *testing.T) {
	ctx := sql.NewEmptyContext()
	require := require.New(t)

	var total float64
	defer func(c metrics.Counter) { ReadRowsCounter = c }(ReadRowsCounter)
	ReadRowsCounter = rowsCounter{total: &total}

	p := NewTrackingReaderProvider(&sliceProvider{rows: testRows()})
	for i := 0; i < 2; i++ {
		iter, err := NewReader(ctx, p, []sql.ColumnHandle{colX})
		require.NoError(err)
		_, err = sql.RowIterToRows(ctx, iter)
		require.NoError(err)
		require.NoError(iter.Close(ctx))
	}

	require.Equal(float64(6), total)
}
