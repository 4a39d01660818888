// Copyright 2025 Starspread Contributors
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

package starspread

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starspread/starspread/mem"
	"github.com/starspread/starspread/schema"
)

func newTestFetcher(t *testing.T) *mem.Fetcher {
	t.Helper()

	f := mem.NewFetcher()
	require.NoError(t, f.AddTableFromColumns("main", "sales", "orders", []schema.ColumnDef{
		{Name: "id", TypeText: "BIGINT"},
		{Name: "address", TypeText: "STRUCT<street: STRING, zip: INT>", Nullable: true},
		{Name: "tags", TypeText: "ARRAY<STRING>", Nullable: true},
	}))
	return f
}

func TestEngineGenerateSelect(t *testing.T) {
	require := require.New(t)

	e := New(newTestFetcher(t))
	stmt, err := e.GenerateSelect(context.Background(), "main", "sales", "orders")
	require.NoError(err)

	require.Equal("SELECT `id`,\n"+
		"       STRUCT(`address`.`street` AS `street`, `address`.`zip` AS `zip`) AS `address`,\n"+
		"       `tags`\n"+
		"FROM `main`.`sales`.`orders`", stmt)
}

func TestEngineGenerateSelectNotFound(t *testing.T) {
	require := require.New(t)

	e := New(mem.NewFetcher())
	_, err := e.GenerateSelect(context.Background(), "main", "sales", "missing")
	require.Error(err)
	require.True(schema.ErrTableNotFound.Is(err))
}

func TestEngineGenerateAll(t *testing.T) {
	require := require.New(t)

	f := mem.NewFetcher()
	var names []schema.TableName
	for i := 0; i < 20; i++ {
		table := fmt.Sprintf("t%02d", i)
		require.NoError(f.AddTableFromColumns("c", "s", table, []schema.ColumnDef{
			{Name: fmt.Sprintf("col%02d", i), TypeText: "INT"},
		}))
		names = append(names, schema.TableName{Catalog: "c", Schema: "s", Table: table})
	}

	e := New(f)
	results, err := e.GenerateAll(context.Background(), names, 4)
	require.NoError(err)
	require.Len(results, 20)

	// Results keep the input order regardless of completion order.
	for i, stmt := range results {
		require.Contains(stmt, fmt.Sprintf("`col%02d`", i))
		require.Contains(stmt, fmt.Sprintf("FROM `c`.`s`.`t%02d`", i))
	}
}

func TestEngineGenerateAllFailsOnAnyError(t *testing.T) {
	require := require.New(t)

	e := New(newTestFetcher(t))
	_, err := e.GenerateAll(context.Background(), []schema.TableName{
		{Catalog: "main", Schema: "sales", Table: "orders"},
		{Catalog: "main", Schema: "sales", Table: "missing"},
	}, 2)
	require.Error(err)
	require.True(schema.ErrTableNotFound.Is(err))
}

func TestGeneratePureFunction(t *testing.T) {
	require := require.New(t)

	ts := schema.NewTableSchema("c", "s", "t", []schema.Node{
		schema.NewSimple("id", "INT", false),
	})

	first := Generate(ts)
	second := Generate(ts)
	require.Equal(first, second)
	require.Equal("SELECT `id`\nFROM `c`.`s`.`t`", first)
}
