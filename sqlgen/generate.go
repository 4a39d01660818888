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
	"fmt"
	"strconv"
	"strings"

	"github.com/starspread/starspread/schema"
)

// Generator renders a schema tree as an explicit SELECT statement that is
// semantically identical to SELECT * against the same table: every column is
// named, structs are reconstructed field by field and arrays of complex
// elements are rebuilt with element-wise transforms.
type Generator struct {
	Dialect Dialect
}

// NewGenerator returns a Generator for the Databricks dialect.
func NewGenerator() *Generator {
	return &Generator{Dialect: Databricks{}}
}

// genContext is the state threaded through the recursion. It is passed by
// value so sibling branches can never observe each other's mutations.
type genContext struct {
	// parentPath is the dotted chain of struct field names accumulated while
	// descending outside of any array transform.
	parentPath string
	// lambdaVar is the iteration variable bound by the nearest enclosing
	// array transform, or empty outside of one.
	lambdaVar string
	// depth counts the array-transform lambdas opened on the current path
	// and is only used to mint the next lambda variable name.
	depth int
}

// GenerateSelect renders the complete statement for the given table schema.
func (g *Generator) GenerateSelect(t *schema.TableSchema) string {
	exprs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		exprs[i] = g.columnExpr(col)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(exprs, ",\n       "))
	b.WriteString("\nFROM ")
	b.WriteString(g.Dialect.TableRef(t.Catalog, t.Schema, t.Table))
	return b.String()
}

// columnExpr renders a single top-level column, aliased by its own name
// whenever the expression is not a bare reference: structs always, arrays
// only when a transform was applied, simple columns and maps never.
func (g *Generator) columnExpr(col schema.Node) string {
	expr := g.expr(col, genContext{})

	switch n := col.(type) {
	case *schema.Struct:
		return expr + " AS " + g.Dialect.QuoteIdentifier(n.Name())
	case *schema.Array:
		if isComplexNode(n.Element()) {
			return expr + " AS " + g.Dialect.QuoteIdentifier(n.Name())
		}
	}
	return expr
}

func (g *Generator) expr(n schema.Node, gc genContext) string {
	switch n := n.(type) {
	case *schema.Simple:
		return g.ref(n.Name(), gc)
	case *schema.Struct:
		return g.structExpr(n, gc)
	case *schema.Array:
		return g.arrayExpr(n, gc)
	case *schema.Map:
		// Maps pass through unchanged, mirroring SELECT * semantics.
		return g.ref(n.Name(), gc)
	}
	panic(fmt.Sprintf("sqlgen: unhandled schema node %T", n))
}

func (g *Generator) structExpr(n *schema.Struct, gc genContext) string {
	var path string
	switch {
	case gc.lambdaVar != "" && gc.parentPath == "" && n.Name() == schema.ElementField:
		// This struct is the very thing the enclosing lambda iterates over:
		// the lambda variable already denotes it, so its synthetic name must
		// not appear in field paths.
		path = ""
	default:
		path = joinPath(gc.parentPath, n.Name())
	}

	fields := make([]string, 0, len(n.Fields()))
	for _, field := range n.Fields() {
		sub := g.expr(field, genContext{
			parentPath: path,
			lambdaVar:  gc.lambdaVar,
			depth:      gc.depth,
		})
		fields = append(fields, sub+" AS "+g.Dialect.QuoteIdentifier(field.Name()))
	}
	return g.Dialect.StructLiteral(fields)
}

func (g *Generator) arrayExpr(n *schema.Array, gc genContext) string {
	ref := g.ref(n.Name(), gc)

	element := n.Element()
	if !isComplexNode(element) {
		// Arrays of primitives are never expanded; SELECT * returns them
		// unmodified.
		return ref
	}

	depth := 0
	if gc.lambdaVar != "" {
		depth = gc.depth + 1
	}
	lambdaVar := lambdaVarName(depth)

	// The lambda variable denotes the element directly, so the path restarts
	// from empty inside the transform.
	body := g.expr(element, genContext{lambdaVar: lambdaVar, depth: depth})
	return g.Dialect.Transform(ref, lambdaVar, body)
}

// ref renders a reference to a named field: relative to the nearest enclosing
// lambda variable when inside a transform, as an absolute quoted path
// otherwise.
func (g *Generator) ref(name string, gc genContext) string {
	if gc.lambdaVar != "" {
		if gc.parentPath != "" {
			return gc.lambdaVar + "." + g.Dialect.QuotePath(gc.parentPath) + "." + g.Dialect.QuoteIdentifier(name)
		}
		return gc.lambdaVar + "." + g.Dialect.QuoteIdentifier(name)
	}
	return g.Dialect.QuotePath(joinPath(gc.parentPath, name))
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// lambdaVarName is purely a function of nesting depth along the current
// path: item, item2, item3, ... Sibling transforms at the same depth restart
// independently since each is a separately scoped lambda.
func lambdaVarName(depth int) string {
	if depth == 0 {
		return "item"
	}
	return "item" + strconv.Itoa(depth+1)
}

func isComplexNode(n schema.Node) bool {
	switch n.(type) {
	case *schema.Struct, *schema.Array, *schema.Map:
		return true
	}
	return false
}
