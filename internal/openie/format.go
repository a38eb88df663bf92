// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// noExtractions prefixes the notice printed for sentences without triples.
const noExtractions = "No extractions in: "

// ParseFormat maps a format name, case-insensitively, to an OutputFormat.
// The empty string selects the default format.
func ParseFormat(name string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return types.FormatDefault, nil
	case types.FormatDefault, types.FormatReverb, types.FormatOllie:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want default, reverb or ollie)", name)
	}
}

// FormatTriple renders one triple of sentence s in the given format.
func FormatTriple(format types.OutputFormat, docID string, s *types.Sentence, t types.RelationTriple) (string, error) {
	switch format {
	case types.FormatDefault, "":
		return t.String(), nil
	case types.FormatReverb:
		return t.ReverbString(docID, s), nil
	case types.FormatOllie:
		return t.OllieString(), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// Printer writes extraction results to a shared sink. Each document is
// rendered first and then written under a lock, so lines from documents
// processed concurrently never interleave.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	notice io.Writer
	format types.OutputFormat
}

// NewPrinter returns a printer writing triples to out and notices about
// sentences without extractions to notice.
func NewPrinter(out, notice io.Writer, format types.OutputFormat) *Printer {
	return &Printer{out: out, notice: notice, format: format}
}

// Print writes every triple of res.
func (p *Printer) Print(res *types.ExtractionResult) error {
	var out, notice bytes.Buffer
	for _, se := range res.Sentences {
		if len(se.Triples) == 0 {
			fmt.Fprintf(&notice, "%s%s\n", noExtractions, se.Text)
			continue
		}
		s := &types.Sentence{Index: se.Index, Text: se.Text}
		for _, t := range se.Triples {
			line, err := FormatTriple(p.format, res.DocID, s, t)
			if err != nil {
				return err
			}
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.out.Write(out.Bytes()); err != nil {
		return fmt.Errorf("writing triples of %s: %w", res.DocID, err)
	}
	if p.notice != nil && notice.Len() > 0 {
		if _, err := p.notice.Write(notice.Bytes()); err != nil {
			return fmt.Errorf("writing notices of %s: %w", res.DocID, err)
		}
	}
	return nil
}
