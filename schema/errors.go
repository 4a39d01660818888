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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidTableName is returned when a table identifier is not exactly
	// three non-empty dot-separated parts.
	ErrInvalidTableName = errors.NewKind("invalid table name %q, expected catalog.schema.table")

	// ErrTableNotFound is returned when the table is not available from the
	// configured source.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrUnknownComplexType is returned when a type was detected as complex
	// but matches none of STRUCT/ARRAY/MAP. This means the detector and the
	// dispatcher have drifted out of sync and is never swallowed.
	ErrUnknownComplexType = errors.NewKind("unknown complex type %q for column %q")

	// ErrUnbalancedType is returned in strict mode when the angle brackets of
	// a type string never return to depth zero.
	ErrUnbalancedType = errors.NewKind("unbalanced angle brackets in type %q for column %q")

	// ErrMalformedType is returned in strict mode for type text that would
	// otherwise take a best-effort fallback: a STRUCT with no interior, a
	// struct field without a top-level colon, an ARRAY with no element type,
	// or a MAP without exactly two top-level parts.
	ErrMalformedType = errors.NewKind("malformed type %q for column %q")

	// ErrSchemaFetch is returned when the source cannot deliver a table
	// schema for reasons other than the table being missing.
	ErrSchemaFetch = errors.NewKind("could not fetch schema for %s")
)
