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

import "strings"

// Reserved field names used for the structural children of complex types.
// These are placed by the grammar, never read from user field lists, so they
// cannot collide with user-defined names.
const (
	ElementField = "element"
	KeyField     = "key"
	ValueField   = "value"
)

// Node is a typed column or nested field in a table schema tree.
// The set of implementations is closed: Simple, Struct, Array and Map.
type Node interface {
	// Name returns the column or field name of this node. Array elements are
	// named "element" and map parts "key"/"value".
	Name() string
	// TypeText returns the raw type string as reported by the source,
	// preserved verbatim.
	TypeText() string
	// Nullable reports whether this column or field accepts NULL values.
	Nullable() bool

	node()
}

type column struct {
	name     string
	typeText string
	nullable bool
}

func (c column) Name() string     { return c.name }
func (c column) TypeText() string { return c.typeText }
func (c column) Nullable() bool   { return c.nullable }

// Simple is a leaf node: any non-struct/array/map type. The primitive lexicon
// is opaque text, it is never interpreted.
type Simple struct {
	column
}

// NewSimple creates a Simple column node.
func NewSimple(name, typeText string, nullable bool) *Simple {
	return &Simple{column{name, typeText, nullable}}
}

func (*Simple) node() {}

// Struct is a node with named fields in significant order.
type Struct struct {
	column
	fields []Node
}

// NewStruct creates a Struct node with the given fields. Field order is
// preserved exactly as given.
func NewStruct(name, typeText string, nullable bool, fields ...Node) *Struct {
	return &Struct{column{name, typeText, nullable}, fields}
}

// Fields returns the struct fields in declaration order.
func (s *Struct) Fields() []Node { return s.fields }

func (*Struct) node() {}

// Array is a node with a single element type, which may itself be complex.
type Array struct {
	column
	element Node
}

// NewArray creates an Array node wrapping the given element type.
func NewArray(name, typeText string, nullable bool, element Node) *Array {
	return &Array{column{name, typeText, nullable}, element}
}

// Element returns the element type of the array.
func (a *Array) Element() Node { return a.element }

func (*Array) node() {}

// Map is a node with a key type and a value type. Map keys are never
// nullable.
type Map struct {
	column
	key   Node
	value Node
}

// NewMap creates a Map node with the given key and value types.
func NewMap(name, typeText string, nullable bool, key, value Node) *Map {
	return &Map{column{name, typeText, nullable}, key, value}
}

// Key returns the key type of the map.
func (m *Map) Key() Node { return m.key }

// Value returns the value type of the map.
func (m *Map) Value() Node { return m.value }

func (*Map) node() {}

// TableSchema is the root of a schema tree: table identity plus the ordered
// top-level columns. It is built once per fetch and immutable afterwards.
type TableSchema struct {
	Catalog string
	Schema  string
	Table   string
	Columns []Node
}

// NewTableSchema creates a TableSchema for the given three-part identity.
func NewTableSchema(catalog, schemaName, table string, columns []Node) *TableSchema {
	return &TableSchema{
		Catalog: catalog,
		Schema:  schemaName,
		Table:   table,
		Columns: columns,
	}
}

// FullName returns the fully qualified table name, dot-joined and unquoted.
// Quoting is a generator concern.
func (t *TableSchema) FullName() string {
	return t.Catalog + "." + t.Schema + "." + t.Table
}

// TableName is a parsed three-part table identifier.
type TableName struct {
	Catalog string
	Schema  string
	Table   string
}

func (n TableName) String() string {
	return n.Catalog + "." + n.Schema + "." + n.Table
}

// ParseTableName parses a catalog.schema.table string. Each of the three
// parts must be non-empty.
func ParseTableName(s string) (TableName, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TableName{}, ErrInvalidTableName.New(s)
	}
	for _, p := range parts {
		if p == "" {
			return TableName{}, ErrInvalidTableName.New(s)
		}
	}
	return TableName{Catalog: parts[0], Schema: parts[1], Table: parts[2]}, nil
}
