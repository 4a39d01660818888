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

// Package databricks fetches table schemas from Unity Catalog and validates
// generated statements against EXPLAIN plans through the Databricks SDK.
package databricks

import (
	"context"

	dbsdk "github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/apierr"
	"github.com/databricks/databricks-sdk-go/service/catalog"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/starspread/starspread/schema"
)

// tablesService is the slice of the Unity Catalog tables API the fetcher
// needs. *databricks.WorkspaceClient's Tables service satisfies it.
type tablesService interface {
	Get(ctx context.Context, req catalog.GetTableRequest) (*catalog.TableInfo, error)
}

// Fetcher retrieves table schemas from Unity Catalog and parses each
// column's raw type text into a schema tree.
type Fetcher struct {
	tables tablesService
	parser *schema.Parser
}

var _ schema.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher over a workspace client.
func NewFetcher(w *dbsdk.WorkspaceClient) *Fetcher {
	return &Fetcher{tables: w.Tables, parser: &schema.Parser{}}
}

// NewStrictFetcher creates a Fetcher whose type parser fails fast on
// malformed type text instead of degrading to fallback nodes.
func NewStrictFetcher(w *dbsdk.WorkspaceClient) *Fetcher {
	return &Fetcher{tables: w.Tables, parser: &schema.Parser{Strict: true}}
}

// FetchSchema implements schema.Fetcher.
func (f *Fetcher) FetchSchema(ctx context.Context, catalogName, schemaName, table string) (*schema.TableSchema, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "databricks.FetchSchema")
	defer span.Finish()

	full := catalogName + "." + schemaName + "." + table
	span.SetTag("table", full)

	info, err := f.tables.Get(ctx, catalog.GetTableRequest{FullName: full})
	if err != nil {
		if apierr.IsMissing(err) {
			return nil, schema.ErrTableNotFound.New(full)
		}
		return nil, schema.ErrSchemaFetch.Wrap(err, full)
	}

	columns := make([]schema.Node, 0, len(info.Columns))
	for _, col := range info.Columns {
		typeText := col.TypeText
		if typeText == "" {
			typeText = string(col.TypeName)
		}

		node, err := f.parser.Parse(col.Name, typeText, col.Nullable)
		if err != nil {
			return nil, err
		}
		columns = append(columns, node)
	}

	logrus.WithFields(logrus.Fields{
		"table":   full,
		"columns": len(columns),
	}).Debug("fetched table schema")

	return schema.NewTableSchema(catalogName, schemaName, table, columns), nil
}
