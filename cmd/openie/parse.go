// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/openie-engine/internal/parse"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text files...]",
	Short: "Parse text files into documents for extraction",
	Long: `Parse sends text through a CoreNLP server or parser container and writes
one parsed document per file to documents-dir. Without arguments every
.txt file in --text-dir is parsed; unchanged files are skipped.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("text-dir", "text", "directory of .txt files to parse")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := parse.New(ctx, cfg.Parser, parse.Options{ResolveCoref: cfg.Parser.ResolveCoref}, log)
	if err != nil {
		return err
	}

	var summary parse.Summary
	if len(args) > 0 {
		summary, err = parse.ParseFiles(ctx, p, args, cfg.OpenIE.DocumentsDir, os.Stdout)
	} else {
		textDir, _ := cmd.Flags().GetString("text-dir")
		summary, err = parse.ParseAll(ctx, p, textDir, cfg.OpenIE.DocumentsDir, os.Stdout)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nparsed: %d, skipped: %d, failed: %d\n",
		summary.Parsed, summary.Skipped, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed parsing", summary.Failed)
	}
	return nil
}
