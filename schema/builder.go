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

// ColumnDef is raw per-column metadata as delivered by a schema source that
// pre-parses nested types into children. Sources that only have the raw type
// string leave Children empty and the type text is parsed instead.
type ColumnDef struct {
	Name     string
	TypeText string
	Nullable bool
	Children []ColumnDef
}

// BuildTable builds a TableSchema from pre-parsed column metadata.
//
// A column with children is classified by its type text: an ARRAY<...> prefix
// takes the first child as the element type, a MAP<...> prefix takes the
// children named "key" and "value", and everything else is a struct with all
// children as fields. The type-text check disambiguates genuine maps from
// structs that happen to have fields named "key" and "value".
func BuildTable(catalog, schemaName, table string, cols []ColumnDef) (*TableSchema, error) {
	p := &Parser{}
	columns := make([]Node, 0, len(cols))
	for _, col := range cols {
		node, err := buildColumn(p, col)
		if err != nil {
			return nil, err
		}
		columns = append(columns, node)
	}
	return NewTableSchema(catalog, schemaName, table, columns), nil
}

func buildColumn(p *Parser, col ColumnDef) (Node, error) {
	if len(col.Children) == 0 {
		return p.Parse(col.Name, col.TypeText, col.Nullable)
	}

	upper := strings.ToUpper(strings.TrimSpace(col.TypeText))
	switch {
	case strings.HasPrefix(upper, arrayPrefix):
		element, err := buildColumn(p, col.Children[0])
		if err != nil {
			return nil, err
		}
		return NewArray(col.Name, col.TypeText, col.Nullable, element), nil

	case strings.HasPrefix(upper, mapPrefix):
		key, value, ok := mapParts(col.Children)
		if !ok {
			return NewMap(col.Name, col.TypeText, col.Nullable,
				NewSimple(KeyField, unknownType, false),
				NewSimple(ValueField, unknownType, true)), nil
		}
		keyNode, err := buildColumn(p, key)
		if err != nil {
			return nil, err
		}
		valueNode, err := buildColumn(p, value)
		if err != nil {
			return nil, err
		}
		return NewMap(col.Name, col.TypeText, col.Nullable, keyNode, valueNode), nil

	default:
		fields := make([]Node, 0, len(col.Children))
		for _, child := range col.Children {
			field, err := buildColumn(p, child)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
		return NewStruct(col.Name, col.TypeText, col.Nullable, fields...), nil
	}
}

func mapParts(children []ColumnDef) (key, value ColumnDef, ok bool) {
	var haveKey, haveValue bool
	for _, c := range children {
		switch c.Name {
		case KeyField:
			key, haveKey = c, true
		case ValueField:
			value, haveValue = c, true
		}
	}
	return key, value, haveKey && haveValue
}
