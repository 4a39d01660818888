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

package sqlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starspread/starspread/schema"
)

func mustParse(t *testing.T, name, typeText string, nullable bool) schema.Node {
	t.Helper()

	p := &schema.Parser{}
	node, err := p.Parse(name, typeText, nullable)
	require.NoError(t, err)
	return node
}

func table(cols ...schema.Node) *schema.TableSchema {
	return schema.NewTableSchema("c", "s", "t", cols)
}

func TestGenerateSimpleColumns(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		schema.NewSimple("id", "INT", false),
		schema.NewSimple("name", "STRING", true),
	))

	require.Equal("SELECT `id`,\n       `name`\nFROM `c`.`s`.`t`", stmt)
}

func TestGenerateStructReconstruction(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		schema.NewSimple("id", "INT", false),
		mustParse(t, "address", "STRUCT<street: STRING, zip: INT>", true),
	))

	require.Contains(stmt, "STRUCT(`address`.`street` AS `street`, `address`.`zip` AS `zip`) AS `address`")
}

func TestGenerateArrayOfPrimitivePassthrough(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "tags", "ARRAY<STRING>", true),
	))

	require.Equal("SELECT `tags`\nFROM `c`.`s`.`t`", stmt)
	require.NotContains(stmt, "TRANSFORM")
	require.NotContains(stmt, " AS ")
}

func TestGenerateArrayOfStructTransform(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "line_items", "ARRAY<STRUCT<product_id: INT, qty: INT>>", true),
	))

	require.Contains(stmt,
		"TRANSFORM(`line_items`, item -> STRUCT(item.`product_id` AS `product_id`, item.`qty` AS `qty`)) AS `line_items`")
}

func TestGenerateNestedArrayLambdaNumbering(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "departments",
			"ARRAY<STRUCT<name: STRING, teams: ARRAY<STRUCT<size: INT>>>>", true),
	))

	expected := "TRANSFORM(`departments`, item -> STRUCT(item.`name` AS `name`, " +
		"TRANSFORM(item.`teams`, item2 -> STRUCT(item2.`size` AS `size`)) AS `teams`)) AS `departments`"
	require.Contains(stmt, expected)
}

func TestGenerateLambdaNumberingIndependentSiblings(t *testing.T) {
	// Two separately placed columns with the same shape both restart at
	// item/item2; neither affects the other's numbering.
	require := require.New(t)

	typeText := "ARRAY<STRUCT<inner: ARRAY<STRUCT<v: INT>>>>"
	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "first", typeText, true),
		mustParse(t, "second", typeText, true),
	))

	require.Equal(2, strings.Count(stmt, "item -> "))
	require.Equal(2, strings.Count(stmt, "item2 -> "))
	require.NotContains(stmt, "item3")
}

func TestGenerateMapPassthrough(t *testing.T) {
	cases := []struct {
		name     string
		typeText string
	}{
		{"primitive map", "MAP<STRING, INT>"},
		{"map with struct value", "MAP<STRING, STRUCT<a: INT>>"},
		{"map with map value", "MAP<STRING, MAP<STRING, INT>>"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			stmt := NewGenerator().GenerateSelect(table(
				mustParse(t, "attrs", tt.typeText, true),
			))

			require.Equal("SELECT `attrs`\nFROM `c`.`s`.`t`", stmt)
		})
	}
}

func TestGenerateNestedStructPaths(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "a", "STRUCT<b: STRUCT<c: INT>>", true),
	))

	// Each path component is quoted individually, never as one string with
	// embedded dots.
	require.Contains(stmt, "STRUCT(STRUCT(`a`.`b`.`c` AS `c`) AS `b`) AS `a`")
	require.NotContains(stmt, "`a.b")
}

func TestGenerateStructCompleteness(t *testing.T) {
	require := require.New(t)

	node := mustParse(t, "wide", "STRUCT<f1: INT, f2: INT, f3: INT, f4: INT, f5: INT>", true)
	stmt := NewGenerator().GenerateSelect(table(node))

	fields := node.(*schema.Struct).Fields()
	require.Equal(len(fields), strings.Count(stmt, " AS `f"))

	// Fields appear in declaration order.
	last := -1
	for _, f := range fields {
		idx := strings.Index(stmt, " AS `"+f.Name()+"`")
		require.Greater(idx, last)
		last = idx
	}
}

func TestGenerateArrayOfArrayOfStruct(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "grid", "ARRAY<ARRAY<STRUCT<v: INT>>>", true),
	))

	// The outer lambda binds item over the inner array; the inner transform
	// references it directly and binds item2 over its elements.
	require.Contains(stmt,
		"TRANSFORM(`grid`, item -> TRANSFORM(item.`element`, item2 -> STRUCT(item2.`v` AS `v`))) AS `grid`")
}

func TestGenerateMapInsideStruct(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "o", "STRUCT<m: MAP<STRING, INT>, x: INT>", true),
	))

	require.Contains(stmt, "STRUCT(`o`.`m` AS `m`, `o`.`x` AS `x`) AS `o`")
}

func TestGenerateArrayInsideStruct(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "o", "STRUCT<items: ARRAY<STRUCT<v: INT>>>", true),
	))

	// A transform nested under a struct still starts numbering at item,
	// since no lambda is open above it.
	require.Contains(stmt,
		"STRUCT(TRANSFORM(`o`.`items`, item -> STRUCT(item.`v` AS `v`)) AS `items`) AS `o`")
}

func TestGenerateStructInsideLambdaPath(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "rows", "ARRAY<STRUCT<nested: STRUCT<v: INT>>>", true),
	))

	// Fields of a named struct inside a lambda are reached through the
	// lambda variable plus the struct's own name.
	require.Contains(stmt,
		"TRANSFORM(`rows`, item -> STRUCT(STRUCT(item.`nested`.`v` AS `v`) AS `nested`)) AS `rows`")
}

func TestGenerateColumnOrderPreserved(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		schema.NewSimple("z", "INT", true),
		schema.NewSimple("a", "INT", true),
		schema.NewSimple("m", "INT", true),
	))

	require.Equal("SELECT `z`,\n       `a`,\n       `m`\nFROM `c`.`s`.`t`", stmt)
}

func TestGenerateAliasRules(t *testing.T) {
	cases := []struct {
		name     string
		typeText string
		aliased  bool
	}{
		{"simple", "INT", false},
		{"struct", "STRUCT<a: INT>", true},
		{"array of primitive", "ARRAY<INT>", false},
		{"array of struct", "ARRAY<STRUCT<a: INT>>", true},
		{"array of map", "ARRAY<MAP<STRING, INT>>", true},
		{"map", "MAP<STRING, STRUCT<a: INT>>", false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			stmt := NewGenerator().GenerateSelect(table(
				mustParse(t, "col", tt.typeText, true),
			))

			assert.Equal(t, tt.aliased, strings.Contains(stmt, " AS `col`"), stmt)
		})
	}
}

func TestGenerateArrayOfMapTransform(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "maps", "ARRAY<MAP<STRING, INT>>", true),
	))

	// A map element is complex, so the array is transformed; the map itself
	// passes through via the lambda variable.
	require.Contains(stmt, "TRANSFORM(`maps`, item -> item.`element`) AS `maps`")
}

func TestGenerateFullStatementShape(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(schema.NewTableSchema("main", "sales", "orders", []schema.Node{
		schema.NewSimple("id", "INT", false),
	}))

	require.True(strings.HasPrefix(stmt, "SELECT "))
	require.True(strings.HasSuffix(stmt, "FROM `main`.`sales`.`orders`"))
}

func TestGenerateDeepLambdaSequence(t *testing.T) {
	require := require.New(t)

	stmt := NewGenerator().GenerateSelect(table(
		mustParse(t, "deep", "ARRAY<STRUCT<l2: ARRAY<STRUCT<l3: ARRAY<STRUCT<v: INT>>>>>>", true),
	))

	require.Contains(stmt, "item -> ")
	require.Contains(stmt, "item2 -> ")
	require.Contains(stmt, "item3 -> ")
	require.NotContains(stmt, "item4")

	// Strictly increasing along the single path.
	require.Less(strings.Index(stmt, "item -> "), strings.Index(stmt, "item2 -> "))
	require.Less(strings.Index(stmt, "item2 -> "), strings.Index(stmt, "item3 -> "))
}
