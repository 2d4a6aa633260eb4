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

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-projection-pushdown/memory"
	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/projection"
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

var pointType = types.Row(
	types.NewField("x", types.Int64),
	types.NewField("y", types.Int64),
)

func newTestTable(t *testing.T, numPartitions int) *memory.Table {
	table := memory.NewPartitionedTable("test", numPartitions,
		types.NewField("name", types.Text),
		types.NewField("point", pointType),
		types.NewField("weight", types.Float64),
	)

	ctx := sql.NewEmptyContext()
	rows := []sql.Row{
		{"a", sql.NewRow(int64(1), int64(2)), 1.5},
		{"b", sql.NewRow(int64(3), int64(4)), 2.5},
		{"c", nil, 3.5},
		{"d", sql.NewRow(int64(7), int64(8)), 4.5},
		{"e", sql.NewRow(int64(9), nil), 5.5},
		{"f", sql.NewRow(int64(11), int64(12)), 6.5},
	}
	for _, r := range rows {
		require.NoError(t, table.Insert(ctx, r))
	}
	return table
}

func TestTableName(t *testing.T) {
	require := require.New(t)
	table := memory.NewTable("test", types.NewField("col1", types.Text))
	require.Equal("test", table.Name())
	require.Equal("test", table.String())
	require.Equal(1, table.PartitionCount())
}

func TestTableColumns(t *testing.T) {
	require := require.New(t)
	table := newTestTable(t, 1)

	cols := table.Columns()
	require.Len(cols, 3)
	for _, c := range cols {
		require.True(c.IsBaseColumn())
	}

	point, ok := table.Column("POINT")
	require.True(ok)
	require.Equal(1, point.Ordinal())
	require.True(pointType.Equals(point.Type()))

	_, ok = table.Column("nope")
	require.False(ok)
}

func TestTableRead(t *testing.T) {
	table := newTestTable(t, 2)
	name, _ := table.Column("name")
	point, _ := table.Column("point")
	weight, _ := table.Column("weight")

	testCases := []struct {
		name     string
		columns  []sql.ColumnHandle
		expected []sql.Row
	}{
		{
			"all columns",
			table.Columns(),
			[]sql.Row{
				{"a", sql.NewRow(int64(1), int64(2)), 1.5},
				{"c", nil, 3.5},
				{"e", sql.NewRow(int64(9), nil), 5.5},
				{"b", sql.NewRow(int64(3), int64(4)), 2.5},
				{"d", sql.NewRow(int64(7), int64(8)), 4.5},
				{"f", sql.NewRow(int64(11), int64(12)), 6.5},
			},
		},
		{
			"reordered subset",
			[]sql.ColumnHandle{weight, name},
			[]sql.Row{
				{1.5, "a"},
				{3.5, "c"},
				{5.5, "e"},
				{2.5, "b"},
				{4.5, "d"},
				{6.5, "f"},
			},
		},
		{
			"repeated column",
			[]sql.ColumnHandle{point, point},
			[]sql.Row{
				{sql.NewRow(int64(1), int64(2)), sql.NewRow(int64(1), int64(2))},
				{nil, nil},
				{sql.NewRow(int64(9), nil), sql.NewRow(int64(9), nil)},
				{sql.NewRow(int64(3), int64(4)), sql.NewRow(int64(3), int64(4))},
				{sql.NewRow(int64(7), int64(8)), sql.NewRow(int64(7), int64(8))},
				{sql.NewRow(int64(11), int64(12)), sql.NewRow(int64(11), int64(12))},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext()

			iter, err := table.Read(ctx, tt.columns)
			require.NoError(err)
			rows, err := sql.RowIterToRows(ctx, iter)
			require.NoError(err)
			require.Equal(tt.expected, rows)
		})
	}
}

func TestTableReadRejectsNestedColumns(t *testing.T) {
	require := require.New(t)
	table := newTestTable(t, 2)
	point, _ := table.Column("point")
	x, err := point.Project(0)
	require.NoError(err)

	_, err = table.Read(sql.NewEmptyContext(), []sql.ColumnHandle{x})
	require.True(sql.ErrColumnNotFound.Is(err))

	other := projection.NewBaseColumn("point", 1, types.Int64)
	_, err = table.Read(sql.NewEmptyContext(), []sql.ColumnHandle{other})
	require.True(sql.ErrColumnNotFound.Is(err))
}

func TestTableNestedReader(t *testing.T) {
	require := require.New(t)
	table := newTestTable(t, 3)
	ctx := sql.NewEmptyContext()
	name, _ := table.Column("name")
	point, _ := table.Column("point")
	y, err := point.Project(1)
	require.NoError(err)

	provider := projection.NewTrackingReaderProvider(table)
	iter, err := projection.NewReader(ctx, provider, []sql.ColumnHandle{y, name})
	require.NoError(err)
	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(err)

	require.Equal([]sql.Row{
		{int64(2), "a"},
		{int64(8), "d"},
		{int64(4), "b"},
		{nil, "e"},
		{nil, "c"},
		{int64(12), "f"},
	}, rows)

	ops := provider.Operations()
	require.Len(ops, 1)
	require.Equal("test", ops[0].Table)
	require.Equal([]string{"point", "name"}, ops[0].Columns)
	require.Equal(int64(6), ops[0].Rows)
}

func TestTableInsertErrors(t *testing.T) {
	require := require.New(t)
	table := newTestTable(t, 1)
	ctx := sql.NewEmptyContext()

	err := table.Insert(ctx, sql.NewRow("g"))
	require.True(sql.ErrUnexpectedRowLength.Is(err))

	err = table.Insert(ctx, sql.NewRow("g", sql.NewRow(int64(1)), 1.0))
	require.True(sql.ErrUnexpectedRowLength.Is(err))

	err = table.Insert(ctx, sql.NewRow("g", int64(1), 1.0))
	require.True(sql.ErrInvalidType.Is(err))

	require.Equal(uint64(6), table.NumRows())
}
