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

package databricks

import (
	"context"
	"regexp"
	"strings"

	dbsdk "github.com/databricks/databricks-sdk-go"
	dbsql "github.com/databricks/databricks-sdk-go/service/sql"
	"github.com/google/go-cmp/cmp"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrExplainFailed is returned when the warehouse reports a failed
	// EXPLAIN statement.
	ErrExplainFailed = errors.NewKind("EXPLAIN failed: %s")

	// ErrEmptyExplain is returned when an EXPLAIN statement succeeds but
	// yields no plan text.
	ErrEmptyExplain = errors.NewKind("no EXPLAIN output received")
)

// Maximum wait the statement execution API allows before forcing async mode.
const explainWaitTimeout = "50s"

// statementService is the slice of the statement execution API the validator
// needs. *databricks.WorkspaceClient's StatementExecution service satisfies
// it.
type statementService interface {
	ExecuteStatement(ctx context.Context, req dbsql.ExecuteStatementRequest) (*dbsql.ExecuteStatementResponse, error)
}

// ValidationResult is the outcome of comparing two statements' plans.
type ValidationResult struct {
	// Equivalent is true when the normalized logical plans match.
	Equivalent bool
	// StarPlan is the raw EXPLAIN output of the SELECT * statement.
	StarPlan string
	// ExplicitPlan is the raw EXPLAIN output of the generated statement.
	ExplicitPlan string
	// Differences is a human-readable plan diff, empty when equivalent.
	Differences string
}

// ExplainValidator judges whether two statements are equivalent by comparing
// their EXPLAIN plans on a SQL warehouse. It is the external check that a
// generated explicit statement really matches SELECT *.
type ExplainValidator struct {
	statements  statementService
	warehouseID string
}

// NewExplainValidator creates a validator over a workspace client. The
// warehouse may be given as a bare ID or as an HTTP path like
// /sql/1.0/warehouses/<id>; an empty string uses the workspace default.
func NewExplainValidator(w *dbsdk.WorkspaceClient, warehouse string) *ExplainValidator {
	return &ExplainValidator{
		statements:  w.StatementExecution,
		warehouseID: ExtractWarehouseID(warehouse),
	}
}

// ExtractWarehouseID accepts either a warehouse ID or its HTTP path form and
// returns the bare ID.
func ExtractWarehouseID(warehouse string) string {
	if !strings.HasPrefix(warehouse, "/sql/") && !strings.HasPrefix(warehouse, "sql/") {
		return warehouse
	}
	parts := strings.Split(warehouse, "/")
	for i, p := range parts {
		if p == "warehouses" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return warehouse
}

// ValidateEquivalence runs EXPLAIN on both statements in the given
// catalog/schema context and compares the extracted logical plans.
func (v *ExplainValidator) ValidateEquivalence(ctx context.Context, starQuery, explicitQuery, catalogName, schemaName string) (*ValidationResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "databricks.ValidateEquivalence")
	defer span.Finish()

	starPlan, err := v.explain(ctx, starQuery, catalogName, schemaName)
	if err != nil {
		return nil, err
	}
	explicitPlan, err := v.explain(ctx, explicitQuery, catalogName, schemaName)
	if err != nil {
		return nil, err
	}

	starLogical := extractLogicalPlan(starPlan)
	explicitLogical := extractLogicalPlan(explicitPlan)

	result := &ValidationResult{
		StarPlan:     starPlan,
		ExplicitPlan: explicitPlan,
	}

	if normalizePlan(starLogical) == normalizePlan(explicitLogical) {
		result.Equivalent = true
		return result, nil
	}

	result.Differences = cmp.Diff(
		strings.Split(starLogical, "\n"),
		strings.Split(explicitLogical, "\n"),
	)

	logrus.WithFields(logrus.Fields{
		"catalog": catalogName,
		"schema":  schemaName,
	}).Warn("EXPLAIN plans differ")

	return result, nil
}

func (v *ExplainValidator) explain(ctx context.Context, query, catalogName, schemaName string) (string, error) {
	req := dbsql.ExecuteStatementRequest{
		Statement:   "EXPLAIN " + query,
		Catalog:     catalogName,
		Schema:      schemaName,
		WaitTimeout: explainWaitTimeout,
		WarehouseId: v.warehouseID,
	}

	resp, err := v.statements.ExecuteStatement(ctx, req)
	if err != nil {
		return "", err
	}

	if resp.Status != nil && resp.Status.State == dbsql.StatementStateFailed {
		msg := "unknown error"
		if resp.Status.Error != nil {
			msg = resp.Status.Error.Message
		}
		return "", ErrExplainFailed.New(msg)
	}

	if resp.Result == nil || len(resp.Result.DataArray) == 0 {
		return "", ErrEmptyExplain.New()
	}

	var rows []string
	for _, row := range resp.Result.DataArray {
		if len(row) > 0 {
			rows = append(rows, row[0])
		}
	}
	return strings.Join(rows, "\n"), nil
}

var (
	logicalPlanSection = regexp.MustCompile(`(?is)== (?:Analyzed|Optimized) Logical Plan ==\s*\n(.*?)(?:\n== |$)`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	generatedNames     = regexp.MustCompile(`_(?:tmp|gen)_\d+`)
	planNodeIDs        = regexp.MustCompile(`#\d+`)
)

// extractLogicalPlan pulls the analyzed or optimized logical plan section out
// of the EXPLAIN output. When neither section header is present, the first
// contiguous non-header block is used instead.
func extractLogicalPlan(explainOutput string) string {
	trimmed := strings.TrimSpace(explainOutput)

	if m := logicalPlanSection.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}

	var planLines []string
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "==") || strings.TrimSpace(line) == "" {
			if len(planLines) > 0 {
				break
			}
			continue
		}
		planLines = append(planLines, line)
	}
	if len(planLines) == 0 {
		return trimmed
	}
	return strings.Join(planLines, "\n")
}

// normalizePlan removes differences that do not affect equivalence: case,
// whitespace runs, generated temp names and per-plan node IDs.
func normalizePlan(plan string) string {
	normalized := strings.ToLower(plan)
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")
	normalized = generatedNames.ReplaceAllString(normalized, "_temp")
	normalized = planNodeIDs.ReplaceAllString(normalized, "#id")
	return strings.TrimSpace(normalized)
}
