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

package pushdown_test

import (
	"context"
	"fmt"
	"io"

	pushdown "github.com/dolthub/go-projection-pushdown"
	"github.com/dolthub/go-projection-pushdown/memory"
	"github.com/dolthub/go-projection-pushdown/sql"
	"github.com/dolthub/go-projection-pushdown/sql/expression"
	"github.com/dolthub/go-projection-pushdown/sql/plan"
	"github.com/dolthub/go-projection-pushdown/sql/types"
)

var addressType = types.Row(
	types.NewField("city", types.Text),
	types.NewField("zip", types.Int64),
)

func Example() {
	cfg := pushdown.DefaultConfig()
	cfg.Storage.TrackOperations = true
	e, err := pushdown.New(cfg)
	checkIfError(err)
	ctx := e.NewContext(context.Background())

	table := createTestTable(ctx)

	// SELECT address.city AS city FROM people
	city := expression.NewNamedDereference(expression.NewSymbolReference("address"), 0, "city")
	node := plan.NewProject(1,
		plan.NewTableScan(2, table, []sql.Symbol{"name", "address"}, table.Columns()),
		plan.NewAssignmentsBuilder().Put("city", city).Build(),
	)

	optimized, err := e.Optimize(ctx, node, sql.TypeProvider{
		"name":    types.Text,
		"address": addressType,
	})
	checkIfError(err)

	scan := optimized.(*plan.Project).Child.(*plan.TableScan)
	r, err := e.Scan(ctx, scan)
	checkIfError(err)

	// Iterate results and print them.
	for {
		row, err := r.Next(ctx)
		if err == io.EOF {
			break
		}
		checkIfError(err)
		fmt.Println(row[0])
	}
	checkIfError(r.Close(ctx))

	for _, op := range e.Operations() {
		fmt.Println(op.Table, op.Columns, op.Rows)
	}

	// Output: Berlin
	// Paris
	// people [address] 2
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func createTestTable(ctx *sql.Context) *memory.Table {
	table := memory.NewTable("people",
		types.NewField("name", types.Text),
		types.NewField("address", addressType),
	)

	checkIfError(table.Insert(ctx, sql.NewRow("John Doe", sql.NewRow("Berlin", int64(10115)))))
	checkIfError(table.Insert(ctx, sql.NewRow("Jane Doe", sql.NewRow("Paris", int64(75001)))))
	return table
}
