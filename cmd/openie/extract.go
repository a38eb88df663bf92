// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/openie-engine/internal/openie"
	"github.com/pdiddy/openie-engine/internal/parse"
	"github.com/pdiddy/openie-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [documents...]",
	Short: "Extract relation triples from parsed documents",
	Long: `Extract reads parsed documents (YAML or JSON), entails shortened clauses
from every sentence, and segments them into (subject; relation; object)
triples. Results are written to knowledge/extracted/ and printed to stdout.

With --batch every document in documents-dir is processed; unchanged
documents are skipped. Without arguments, text is read from stdin one
sentence per line, parsed with the configured parser, and printed only.`,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.Bool("batch", false, "process every document in documents-dir")
	f.String("format", "default", "output format: default, reverb or ollie")
	f.Int("workers", 1, "documents processed in parallel")
	f.Float64("splitter-threshold", 0.1, "minimum clause score")
	f.Bool("splitter-disable", false, "extract from the whole sentence only")
	f.Int("max-entailments", 1000, "maximum entailed fragments per clause (0 disables shortening)")
	f.Bool("ignore-affinity", false, "score every deletion as certain")
	f.Float64("affinity-cap", 1.0/3.0, "affinity probability treated as certain")
	f.Bool("strict", true, "only keep triples that consume the whole fragment")
	f.Bool("all-nominals", false, "extract possessive relations for all nouns")

	bindFlags(f, map[string]string{
		"format":                     "format",
		"workers":                    "workers",
		"splitter.threshold":         "splitter-threshold",
		"splitter.disable":           "splitter-disable",
		"max_entailments_per_clause": "max-entailments",
		"ignore_affinity":            "ignore-affinity",
		"affinity_probability_cap":   "affinity-cap",
		"triple.strict":              "strict",
		"triple.all_nominals":        "all-nominals",
	})

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	format, err := openie.ParseFormat(string(cfg.OpenIE.Format))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a := openie.New(cfg.OpenIE, openie.WithLogger(log))
	printer := openie.NewPrinter(os.Stdout, os.Stderr, format)

	batch, _ := cmd.Flags().GetBool("batch")
	switch {
	case batch:
		summary, err := a.ExtractAll(ctx, printer, os.Stderr)
		if err != nil {
			return err
		}
		return reportExtraction(summary)
	case len(args) > 0:
		summary, err := a.ExtractFiles(ctx, args, printer, os.Stderr)
		if err != nil {
			return err
		}
		return reportExtraction(summary)
	default:
		return extractStdin(ctx, a, printer, cfg.Parser)
	}
}

func reportExtraction(s openie.BatchSummary) error {
	fmt.Fprintf(os.Stderr, "\nextracted: %d, skipped: %d, failed: %d, triples: %d\n",
		s.Extracted, s.Skipped, s.Failed, s.Triples)
	if s.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", s.Failed)
	}
	return nil
}

func extractStdin(ctx context.Context, a *openie.Annotator, printer *openie.Printer, pcfg types.ParserConfig) error {
	opts := parse.Options{ResolveCoref: pcfg.ResolveCoref, EOLOnly: true}
	p, err := parse.New(ctx, pcfg, opts, log)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "reading sentences from stdin, one per line")
	return parse.ParseLines(ctx, p, os.Stdin, func(doc *types.Document) error {
		res, err := a.AnnotateDocument(ctx, doc)
		if err != nil {
			return err
		}
		return printer.Print(res)
	})
}
