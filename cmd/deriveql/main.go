package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/deriveql/deriveql/derive"
	"github.com/deriveql/deriveql/output"
	"github.com/deriveql/deriveql/query"
	"github.com/deriveql/deriveql/source"
)

var (
	queryFlag      = flag.String("q", "", "Query (e.g., \"SELECT name, age FROM people WHERE age > 30\")")
	formatFlag     = flag.String("f", "table", "Output format: json, csv, table")
	previewFlag    = flag.Int("preview", 0, "Preview mode: show at most N rows while stats report the true total")
	schemaFlag     = flag.Bool("schema", false, "Show inferred schemas of the given sources instead of running a query")
	derivationFlag = flag.Bool("derivation", false, "Print the derivation record as JSON instead of rows")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Derive computed tables from data files with a SQL-style query.\n")
		fmt.Fprintf(os.Stderr, "Each file becomes a source named after its base name.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT * FROM people WHERE age > 30\" people.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q \"SELECT dept, COUNT(*) AS n FROM emp GROUP BY dept\" -f csv emp.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -schema people.csv orders.avro\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: no data files given\n\n")
		flag.Usage()
		os.Exit(1)
	}

	provider, err := source.NewFiles(flag.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *schemaFlag {
		if err := printSchemas(provider); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *queryFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: missing -q query\n\n")
		flag.Usage()
		os.Exit(1)
	}

	parsed, err := query.Parse(*queryFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing query: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Query: %s\n", *queryFlag)
		os.Exit(1)
	}

	var result *query.Result
	if *previewFlag > 0 {
		result, err = query.Preview(*queryFlag, provider, *previewFlag)
	} else {
		result, err = query.Execute(parsed.Pipeline, provider)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing query: %v\n", err)
		os.Exit(1)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	if *derivationFlag {
		record := derive.Build(parsed, result, *queryFlag, query.SystemClock())
		encoded, err := record.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding derivation record: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(encoded))
		return
	}

	var formatter output.Formatter
	switch *formatFlag {
	case "json", "jsonl":
		formatter = output.NewJSONFormatter(os.Stdout)
	case "csv":
		formatter = output.NewCSVFormatter(os.Stdout)
	case "table":
		formatter = output.NewTableFormatter(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q\n", *formatFlag)
		fmt.Fprintf(os.Stderr, "Supported formats: json, csv, table\n")
		os.Exit(1)
	}

	if err := formatter.Format(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	if *previewFlag > 0 && result.Stats.OutputRows > len(result.Rows) {
		fmt.Fprintf(os.Stderr, "(showing %d of %d rows)\n", len(result.Rows), result.Stats.OutputRows)
	}
}

// printSchemas prints the inferred schema of every registered source.
func printSchemas(provider *source.Files) error {
	ids := provider.Sources()
	sort.Strings(ids)
	for _, id := range ids {
		fields, err := provider.SourceSchema(id)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", id)
		for _, field := range fields {
			fmt.Printf("  %s %s\n", field.Name, field.Kind)
		}
	}
	return nil
}
