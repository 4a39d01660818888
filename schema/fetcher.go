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

import "context"

// Fetcher retrieves the schema of a table from some source: a remote catalog
// API, a local metadata store, or an in-memory registry for tests.
type Fetcher interface {
	// FetchSchema returns the schema tree for the given table, or an error
	// such as ErrTableNotFound when the source cannot deliver it.
	FetchSchema(ctx context.Context, catalog, schemaName, table string) (*TableSchema, error)
}
