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

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTableFromTypeText(t *testing.T) {
	require := require.New(t)

	ts, err := BuildTable("c", "s", "t", []ColumnDef{
		{Name: "id", TypeText: "BIGINT", Nullable: false},
		{Name: "address", TypeText: "STRUCT<street: STRING, zip: INT>", Nullable: true},
	})
	require.NoError(err)
	require.Len(ts.Columns, 2)

	require.IsType(&Simple{}, ts.Columns[0])

	s, ok := ts.Columns[1].(*Struct)
	require.True(ok)
	require.Len(s.Fields(), 2)
}

func TestBuildTableFromChildren(t *testing.T) {
	require := require.New(t)

	ts, err := BuildTable("c", "s", "t", []ColumnDef{
		{
			Name:     "items",
			TypeText: "ARRAY<STRUCT<qty: INT>>",
			Children: []ColumnDef{
				{
					Name:     ElementField,
					TypeText: "STRUCT<qty: INT>",
					Children: []ColumnDef{
						{Name: "qty", TypeText: "INT", Nullable: true},
					},
				},
			},
		},
		{
			Name:     "attrs",
			TypeText: "MAP<STRING, INT>",
			Children: []ColumnDef{
				{Name: KeyField, TypeText: "STRING"},
				{Name: ValueField, TypeText: "INT", Nullable: true},
			},
		},
	})
	require.NoError(err)

	arr, ok := ts.Columns[0].(*Array)
	require.True(ok)
	element, ok := arr.Element().(*Struct)
	require.True(ok)
	require.Len(element.Fields(), 1)
	require.Equal("qty", element.Fields()[0].Name())

	m, ok := ts.Columns[1].(*Map)
	require.True(ok)
	require.Equal("STRING", m.Key().TypeText())
	require.Equal("INT", m.Value().TypeText())
}

func TestBuildTableStructWithKeyValueFields(t *testing.T) {
	// A STRUCT whose user fields happen to be named "key" and "value" must
	// not be mistaken for a map; the type text disambiguates.
	require := require.New(t)

	ts, err := BuildTable("c", "s", "t", []ColumnDef{
		{
			Name:     "pair",
			TypeText: "STRUCT<key: STRING, value: INT>",
			Children: []ColumnDef{
				{Name: "key", TypeText: "STRING", Nullable: true},
				{Name: "value", TypeText: "INT", Nullable: true},
			},
		},
	})
	require.NoError(err)

	s, ok := ts.Columns[0].(*Struct)
	require.True(ok)
	require.Len(s.Fields(), 2)
}

func TestBuildTableMapMissingParts(t *testing.T) {
	require := require.New(t)

	ts, err := BuildTable("c", "s", "t", []ColumnDef{
		{
			Name:     "m",
			TypeText: "MAP<STRING, INT>",
			Children: []ColumnDef{
				{Name: KeyField, TypeText: "STRING"},
			},
		},
	})
	require.NoError(err)

	m, ok := ts.Columns[0].(*Map)
	require.True(ok)
	require.Equal("UNKNOWN", m.Key().TypeText())
	require.Equal("UNKNOWN", m.Value().TypeText())
}
