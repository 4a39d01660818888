package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/starspread/starspread"
	"github.com/starspread/starspread/config"
	"github.com/starspread/starspread/databricks"
	"github.com/starspread/starspread/schema"
	"github.com/starspread/starspread/sqlgen"
)

type generateCmd struct {
	Tables []string `arg:"positional,required" help:"tables in catalog.schema.table form"`
	Output string   `arg:"-o,--output" help:"write the result to a file instead of stdout"`
}

type validateCmd struct {
	Table string `arg:"positional,required" help:"table in catalog.schema.table form"`
}

type cliArgs struct {
	Generate *generateCmd `arg:"subcommand:generate" help:"generate an explicit SELECT statement"`
	Validate *validateCmd `arg:"subcommand:validate" help:"compare the generated statement against SELECT * via EXPLAIN"`

	Config    string `arg:"--config" help:"path to a YAML config file"`
	Host      string `arg:"--host" help:"Databricks workspace host URL"`
	Token     string `arg:"--token" help:"Databricks access token"`
	Warehouse string `arg:"--warehouse" help:"SQL warehouse ID or HTTP path (validate only)"`
	Strict    bool   `arg:"--strict" help:"fail on malformed type text instead of degrading"`
	Verbose   bool   `arg:"-v,--verbose" help:"enable debug logging"`
}

func (cliArgs) Description() string {
	return "starspread converts SELECT * into an explicit, equivalent column list using the table's schema"
}

func main() {
	var args cliArgs
	p := arg.MustParse(&args)

	if err := run(&args, p); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args *cliArgs, p *arg.Parser) error {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return err
	}
	if args.Host != "" {
		cfg.Host = args.Host
	}
	if args.Token != "" {
		cfg.Token = args.Token
	}
	if args.Warehouse != "" {
		cfg.Warehouse = args.Warehouse
	}
	if args.Strict {
		cfg.StrictTypes = true
	}
	if args.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := starspread.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	switch {
	case args.Generate != nil:
		return runGenerate(args.Generate, cfg)
	case args.Validate != nil:
		return runValidate(args.Validate, cfg)
	}

	p.WriteHelp(os.Stderr)
	os.Exit(1)
	return nil
}

func newEngine(cfg *config.Config) (*starspread.Engine, error) {
	w, err := cfg.WorkspaceClient()
	if err != nil {
		return nil, err
	}
	if cfg.StrictTypes {
		return starspread.New(databricks.NewStrictFetcher(w)), nil
	}
	return starspread.New(databricks.NewFetcher(w)), nil
}

func runGenerate(cmd *generateCmd, cfg *config.Config) error {
	// Validate every table name up front so no work happens on bad input.
	tables := make([]schema.TableName, len(cmd.Tables))
	for i, raw := range cmd.Tables {
		name, err := schema.ParseTableName(raw)
		if err != nil {
			return err
		}
		tables[i] = name
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	statements, err := engine.GenerateAll(context.Background(), tables, cfg.Parallelism)
	if err != nil {
		return err
	}

	text := renderScript(statements)

	// The output file is only written once everything has succeeded.
	if cmd.Output != "" {
		return os.WriteFile(cmd.Output, []byte(text), 0o644)
	}
	_, err = fmt.Print(text)
	return err
}

// renderScript joins the generated statements into a runnable SQL script.
// Every statement is terminated with a semicolon so that piping one table or
// many into a SQL runner behaves the same.
func renderScript(statements []string) string {
	return strings.Join(statements, ";\n\n") + ";\n"
}

func runValidate(cmd *validateCmd, cfg *config.Config) error {
	name, err := schema.ParseTableName(cmd.Table)
	if err != nil {
		return err
	}

	w, err := cfg.WorkspaceClient()
	if err != nil {
		return err
	}

	var fetcher schema.Fetcher
	if cfg.StrictTypes {
		fetcher = databricks.NewStrictFetcher(w)
	} else {
		fetcher = databricks.NewFetcher(w)
	}

	engine := starspread.New(fetcher)
	explicit, err := engine.GenerateSelect(context.Background(), name.Catalog, name.Schema, name.Table)
	if err != nil {
		return err
	}

	star := "SELECT *\nFROM " + sqlgen.Databricks{}.TableRef(name.Catalog, name.Schema, name.Table)

	validator := databricks.NewExplainValidator(w, cfg.Warehouse)
	result, err := validator.ValidateEquivalence(context.Background(), star, explicit, name.Catalog, name.Schema)
	if err != nil {
		return err
	}

	if result.Equivalent {
		fmt.Printf("plans are equivalent for %s\n", name)
		return nil
	}

	fmt.Printf("plans differ for %s:\n%s\n", name, result.Differences)
	os.Exit(1)
	return nil
}
