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

// Package starspread converts SELECT * against a table into an explicit,
// semantically identical statement: every column named, nested structs
// reconstructed field by field, arrays of complex elements rebuilt with
// element-wise transforms.
package starspread

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/starspread/starspread/schema"
	"github.com/starspread/starspread/sqlgen"
)

// Generate renders the explicit SELECT statement for an already-fetched
// table schema. It is a pure function of its input.
func Generate(t *schema.TableSchema) string {
	return sqlgen.NewGenerator().GenerateSelect(t)
}

// Engine wires a schema source to the SQL generator.
type Engine struct {
	Fetcher   schema.Fetcher
	Generator *sqlgen.Generator
}

// New creates an Engine over the given schema source.
func New(fetcher schema.Fetcher) *Engine {
	return &Engine{
		Fetcher:   fetcher,
		Generator: sqlgen.NewGenerator(),
	}
}

// GenerateSelect fetches the schema for one table and renders its explicit
// SELECT statement.
func (e *Engine) GenerateSelect(ctx context.Context, catalog, schemaName, table string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "starspread.GenerateSelect")
	defer span.Finish()

	t, err := e.Fetcher.FetchSchema(ctx, catalog, schemaName, table)
	if err != nil {
		return "", err
	}

	stmt := e.Generator.GenerateSelect(t)
	logrus.WithFields(logrus.Fields{
		"table":   t.FullName(),
		"columns": len(t.Columns),
	}).Debug("generated explicit SELECT")

	return stmt, nil
}

// GenerateAll converts many tables concurrently. Each conversion is fully
// independent, so they fan out over an errgroup bounded by parallelism
// (values below 1 mean unbounded). Results preserve the input order; the
// first failure cancels the rest.
func (e *Engine) GenerateAll(ctx context.Context, tables []schema.TableName, parallelism int) ([]string, error) {
	results := make([]string, len(tables))

	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, name := range tables {
		i, name := i, name
		g.Go(func() error {
			stmt, err := e.GenerateSelect(ctx, name.Catalog, name.Schema, name.Table)
			if err != nil {
				return err
			}
			results[i] = stmt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
