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

import "strings"

// Dialect abstracts the syntax the generator emits: identifier quoting, the
// struct reconstruction literal and the array transform expression. A target
// without these constructs needs its own implementation (e.g. ROW() and array
// comprehensions); the structural rules of the generator stay the same.
type Dialect interface {
	// QuoteIdentifier quotes a single identifier.
	QuoteIdentifier(name string) string
	// QuotePath quotes a dotted path as individually quoted components
	// joined by dots, never as one quoted string with embedded dots.
	QuotePath(path string) string
	// StructLiteral renders a struct reconstruction from already-aliased
	// field expressions.
	StructLiteral(fields []string) string
	// Transform renders an element-wise array transform binding lambdaVar
	// over arrayRef.
	Transform(arrayRef, lambdaVar, body string) string
	// TableRef renders a fully qualified three-part table reference.
	TableRef(catalog, schemaName, table string) string
}

// Databricks emits Spark SQL: backtick quoting, STRUCT() literals and
// TRANSFORM(arr, x -> expr) lambdas.
type Databricks struct{}

func (Databricks) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d Databricks) QuotePath(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func (Databricks) StructLiteral(fields []string) string {
	return "STRUCT(" + strings.Join(fields, ", ") + ")"
}

func (Databricks) Transform(arrayRef, lambdaVar, body string) string {
	return "TRANSFORM(" + arrayRef + ", " + lambdaVar + " -> " + body + ")"
}

func (d Databricks) TableRef(catalog, schemaName, table string) string {
	return d.QuoteIdentifier(catalog) + "." + d.QuoteIdentifier(schemaName) + "." + d.QuoteIdentifier(table)
}
