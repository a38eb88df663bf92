// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/openie-engine/internal/document"
	"github.com/pdiddy/openie-engine/pkg/types"
)

const (
	extractedDir  = "extracted"
	triplesSuffix = "-triples.yaml"
)

// TriplesPath returns where the extraction result of docID is written.
func TriplesPath(knowledgeDir, docID string) string {
	return filepath.Join(knowledgeDir, extractedDir, docID+triplesSuffix)
}

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
	Triples   int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// syncWriter serializes writes from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

// ExtractAll annotates every document file in the configured documents
// directory and writes one result file per document under
// knowledgeDir/extracted/. Documents whose result is newer than the
// document are skipped. When p is not nil each result is also printed.
func (a *Annotator) ExtractAll(ctx context.Context, p *Printer, w io.Writer) (BatchSummary, error) {
	entries, err := os.ReadDir(a.cfg.DocumentsDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading documents directory %s: %w", a.cfg.DocumentsDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !document.IsDocumentFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(a.cfg.DocumentsDir, entry.Name()))
	}
	return a.ExtractFiles(ctx, paths, p, w)
}

// ExtractFiles annotates the given document files with up to the configured
// number of workers. A failing document is counted and reported; it does not
// stop the batch.
func (a *Annotator) ExtractFiles(ctx context.Context, paths []string, p *Printer, w io.Writer) (BatchSummary, error) {
	outDir := filepath.Join(a.cfg.KnowledgeDir, extractedDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var (
		mu      sync.Mutex
		summary BatchSummary
		out     = &syncWriter{w: w}
	)
	count := func(f func(*BatchSummary)) {
		mu.Lock()
		defer mu.Unlock()
		f(&summary)
	}

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range sorted {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := document.IDFromPath(path)
			outPath := TriplesPath(a.cfg.KnowledgeDir, id)

			changed, err := hasChanged(path, outPath)
			if err != nil {
				out.Printf("failed  %s: %v\n", id, err)
				documentsProcessed.WithLabelValues("failed").Inc()
				count(func(s *BatchSummary) { s.Failed++ })
				return nil
			}
			if !changed {
				out.Printf("skipped %s\n", id)
				documentsProcessed.WithLabelValues("skipped").Inc()
				count(func(s *BatchSummary) { s.Skipped++ })
				return nil
			}

			res, err := a.ExtractFile(ctx, path)
			if err == nil {
				err = writeResult(outPath, res)
			}
			if err == nil && p != nil {
				err = p.Print(res)
			}
			if err != nil {
				a.log.WithError(err).WithField("doc", id).Error("extraction failed")
				out.Printf("failed  %s: %v\n", id, err)
				documentsProcessed.WithLabelValues("failed").Inc()
				count(func(s *BatchSummary) { s.Failed++ })
				return nil
			}

			n := res.TripleCount()
			out.Printf("extracted %s (%d triples)\n", res.DocID, n)
			documentsProcessed.WithLabelValues("extracted").Inc()
			count(func(s *BatchSummary) {
				s.Extracted++
				s.Triples += n
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ExtractFile loads one document file, tags sentences that arrived without
// part-of-speech or entity tags, and annotates it.
func (a *Annotator) ExtractFile(ctx context.Context, path string) (*types.ExtractionResult, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	tagged, err := document.Backfill(doc, a.log)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"doc":       doc.ID,
		"sentences": len(doc.Sentences),
		"tagged":    tagged,
	}).Debug("extracting document")
	return a.AnnotateDocument(ctx, doc)
}

// hasChanged reports whether the document file is newer than its result.
// Returns true if the result does not exist yet.
func hasChanged(docPath, outPath string) (bool, error) {
	docInfo, err := os.Stat(docPath)
	if err != nil {
		return false, fmt.Errorf("stat document %s: %w", docPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return docInfo.ModTime().After(outInfo.ModTime()), nil
}

func writeResult(path string, result *types.ExtractionResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
