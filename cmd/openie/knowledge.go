// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/openie-engine/internal/graphdb"
	"github.com/pdiddy/openie-engine/internal/knowledge"
	"github.com/pdiddy/openie-engine/pkg/types"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the triple store (store, retrieve, export, graph)",
	Long: `Knowledge manages a local SQLite store built from extracted triples.
Use subcommands to index triples, query them, export them, or push them
to a Neo4j graph.`,
}

// --- store subcommand ---

var knowledgeStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Ingest extracted triples into the triple store",
	Long: `Store reads extraction YAML files from knowledge/extracted/, ingests
them into a SQLite database with FTS5 indexing, and writes an export file.
Unchanged documents are skipped on subsequent runs.`,
	RunE: runKnowledgeStore,
}

func runKnowledgeStore(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var knowledgeRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the triple store with full-text search and filters",
	Long: `Retrieve searches triples using FTS5 full-text search over subject,
relation and object, structured filters, or a combination of both.

Use --trace with a triple ID to print the sentence it came from.`,
	RunE: runKnowledgeRetrieve,
}

func runKnowledgeRetrieve(cmd *cobra.Command, args []string) error {
	traceID, _ := cmd.Flags().GetString("trace")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if traceID != "" {
		t, text, err := store.Trace(context.Background(), traceID)
		if err != nil {
			return err
		}
		fmt.Println(t)
		fmt.Printf("%s[%d]: %s\n", t.DocID, t.SentenceIndex, text)
		return nil
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --subject, --relation, --object, --doc or --min-confidence")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func formatRetrieveOutput(results []types.StoredTriple, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-5s  %-25s  %-20s  %-25s  %-20s  %s\n",
		"Rank", "Conf", "Subject", "Relation", "Object", "Document", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 140))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %.3f  %-25s  %-20s  %-25s  %-20s  %s\n",
			i+1, r.Confidence,
			truncate(r.Subject, 25), truncate(r.Relation, 20), truncate(r.Object, 25),
			truncate(fmt.Sprintf("%s[%d]", r.DocID, r.SentenceIndex), 20), r.ID)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var knowledgeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the triple store to YAML or JSON",
	Long: `Export writes all triples (or a filtered subset) to
knowledge/index/export.yaml or export.json. Supports the same filter
flags as retrieve for partial exports.`,
	RunE: runKnowledgeExport,
}

func runKnowledgeExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", store.ExportPath("yaml"))
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", store.ExportPath("json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- graph subcommand ---

var knowledgeGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Push stored triples to a Neo4j graph",
	Long: `Graph merges stored triples into Neo4j as (:Entity)-[:RELATION]->(:Entity)
edges keyed by triple ID, so repeated exports update rather than
duplicate. Connection settings come from graph.uri, graph.username and
the neo4j-password secret. Supports the same filter flags as retrieve.`,
	RunE: runKnowledgeGraph,
}

func runKnowledgeGraph(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if uri, _ := cmd.Flags().GetString("uri"); uri != "" {
		cfg.Graph.URI = uri
	}
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	triples, err := store.All(ctx, queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	w, err := graphdb.Connect(ctx, cfg.Graph)
	if err != nil {
		return err
	}
	defer w.Close(ctx)

	n, err := graphdb.NewExporter(w, batchSize, log).Export(ctx, triples)
	fmt.Printf("exported %d of %d triples to %s\n", n, len(triples), cfg.Graph.URI)
	return err
}

// --- shared helpers ---

func openStore() (*knowledge.Store, error) {
	return knowledge.NewStore(loadConfig().KnowledgeBase)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) knowledge.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	subject, _ := cmd.Flags().GetString("subject")
	relation, _ := cmd.Flags().GetString("relation")
	object, _ := cmd.Flags().GetString("object")
	docID, _ := cmd.Flags().GetString("doc")
	minConf, _ := cmd.Flags().GetFloat64("min-confidence")
	limit, _ := cmd.Flags().GetInt("limit")

	return knowledge.QueryOptions{
		Query:         queryText,
		Subject:       subject,
		Relation:      relation,
		Object:        object,
		DocID:         docID,
		MinConfidence: minConf,
		MaxResults:    limit,
	}
}

func addFilterFlags(cmd *cobra.Command, what string) {
	cmd.Flags().String("query", "", "full-text search query"+what)
	cmd.Flags().String("subject", "", "filter by subject"+what)
	cmd.Flags().String("relation", "", "filter by relation"+what)
	cmd.Flags().String("object", "", "filter by object"+what)
	cmd.Flags().String("doc", "", "filter by document ID"+what)
	cmd.Flags().Float64("min-confidence", 0, "drop triples below this confidence")
}

func init() {
	knowledgeCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")
	bindFlags(knowledgeCmd.PersistentFlags(), map[string]string{"knowledge.max_results": "max-results"})

	// Retrieve flags.
	addFilterFlags(knowledgeRetrieveCmd, "")
	knowledgeRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	knowledgeRetrieveCmd.Flags().String("trace", "", "show the source sentence of a triple ID")
	knowledgeRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	addFilterFlags(knowledgeExportCmd, " for partial export")
	knowledgeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Graph flags.
	addFilterFlags(knowledgeGraphCmd, " for partial export")
	knowledgeGraphCmd.Flags().String("uri", "", "Neo4j URI (overrides graph.uri)")
	knowledgeGraphCmd.Flags().Int("batch-size", graphdb.DefaultBatchSize, "triples written per transaction")

	// Wire subcommands.
	knowledgeCmd.AddCommand(knowledgeStoreCmd)
	knowledgeCmd.AddCommand(knowledgeRetrieveCmd)
	knowledgeCmd.AddCommand(knowledgeExportCmd)
	knowledgeCmd.AddCommand(knowledgeGraphCmd)

	rootCmd.AddCommand(knowledgeCmd)
}
