// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns raw text into parsed documents using a CoreNLP server
// or a parser container image, and converts directories of text files into
// document YAML for the extractor.
package parse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/internal/document"
	"github.com/pdiddy/openie-engine/pkg/types"
)

const textExt = ".txt"

// baseAnnotators produce tokens, tags, entities, dependencies and polarity.
var baseAnnotators = []string{"tokenize", "ssplit", "pos", "lemma", "ner", "depparse", "natlog"}

// Parser turns text into a parsed document.
type Parser interface {
	Parse(ctx context.Context, id, text string) (*types.Document, error)
}

// Options are the annotation settings shared by all backends.
type Options struct {
	// ResolveCoref adds the coreference annotator.
	ResolveCoref bool

	// EOLOnly treats every line of input as exactly one sentence.
	EOLOnly bool
}

// Annotators returns the annotator pipeline for o.
func (o Options) Annotators() string {
	names := append([]string(nil), baseAnnotators...)
	if o.ResolveCoref {
		names = append(names, "coref")
	}
	return strings.Join(names, ",")
}

// Properties returns the CoreNLP properties for o.
func (o Options) Properties() map[string]string {
	props := map[string]string{
		"annotators":   o.Annotators(),
		"outputFormat": "json",
	}
	if o.EOLOnly {
		props["ssplit.eolonly"] = "true"
	}
	return props
}

// New returns the parser selected by cfg.
func New(ctx context.Context, cfg types.ParserConfig, opts Options, log *logrus.Logger) (Parser, error) {
	switch cfg.Backend {
	case types.BackendCoreNLP, "":
		return NewCoreNLPClient(cfg, opts, log), nil
	case types.BackendContainer:
		return NewContainerParser(ctx, cfg.Image, opts)
	default:
		return nil, fmt.Errorf("unknown parser backend %q", cfg.Backend)
	}
}

// Summary holds counts from a batch parse run.
type Summary struct {
	Parsed  int
	Skipped int
	Failed  int
}

// Total returns the number of text files processed.
func (s Summary) Total() int {
	return s.Parsed + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed to parse.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// DocumentPath returns where the parse of id is written.
func DocumentPath(docsDir, id string) string {
	return filepath.Join(docsDir, id+".yaml")
}

// ParseAll parses every .txt file in textDir into docsDir. Files whose
// document is newer than the text are skipped. A failing file is reported
// and counted without stopping the batch.
func ParseAll(ctx context.Context, p Parser, textDir, docsDir string, w io.Writer) (Summary, error) {
	entries, err := os.ReadDir(textDir)
	if err != nil {
		return Summary{}, fmt.Errorf("reading text directory %s: %w", textDir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == textExt {
			paths = append(paths, filepath.Join(textDir, e.Name()))
		}
	}
	sort.Strings(paths)
	return ParseFiles(ctx, p, paths, docsDir, w)
}

// ParseFiles parses the given text files into docsDir.
func ParseFiles(ctx context.Context, p Parser, paths []string, docsDir string, w io.Writer) (Summary, error) {
	var s Summary
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		id := document.IDFromPath(path)
		out := DocumentPath(docsDir, id)

		if !newer(path, out) {
			fmt.Fprintf(w, "skipped %s\n", id)
			s.Skipped++
			continue
		}

		n, err := parseFile(ctx, p, id, path, out)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			s.Failed++
			continue
		}
		fmt.Fprintf(w, "parsed  %s (%d sentences)\n", id, n)
		s.Parsed++
	}
	return s, nil
}

func parseFile(ctx context.Context, p Parser, id, path, out string) (int, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := p.Parse(ctx, id, string(text))
	if err != nil {
		return 0, err
	}
	if err := document.Save(out, doc); err != nil {
		return 0, err
	}
	return len(doc.Sentences), nil
}

// newer reports whether src was modified after dst, or dst does not exist.
func newer(src, dst string) bool {
	out, err := os.Stat(dst)
	if err != nil {
		return true
	}
	in, err := os.Stat(src)
	if err != nil {
		return true
	}
	return in.ModTime().After(out.ModTime())
}

// LineID derives a stable document id from a line of input.
func LineID(n int, line string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d\x00%s", n, line))).String()
}

// ParseLines parses each non-blank line of r as its own document and hands
// it to fn. It stops at the first parse or callback error.
func ParseLines(ctx context.Context, p Parser, r io.Reader, fn func(*types.Document) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		n++
		doc, err := p.Parse(ctx, LineID(n, line), line)
		if err != nil {
			return fmt.Errorf("parsing line %d: %w", n, err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
