// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openie

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/openie-engine/internal/depgraph/depgraphtest"
	"github.com/pdiddy/openie-engine/internal/document"
	"github.com/pdiddy/openie-engine/pkg/types"
)

func batchConfig(t *testing.T) types.OpenIEConfig {
	t.Helper()
	cfg := types.DefaultOpenIEConfig()
	cfg.DocumentsDir = filepath.Join(t.TempDir(), "documents")
	cfg.KnowledgeDir = filepath.Join(t.TempDir(), "knowledge")
	cfg.Workers = 2
	cfg.ResolveCoref = true
	require.NoError(t, os.MkdirAll(cfg.DocumentsDir, 0o755))
	return cfg
}

func TestExtractAll(t *testing.T) {
	cfg := batchConfig(t)
	require.NoError(t, document.Save(filepath.Join(cfg.DocumentsDir, "apple.yaml"), depgraphtest.ApplePhones()))
	cat := &types.Document{ID: "cat", Sentences: []types.Sentence{*depgraphtest.HappyCat()}}
	require.NoError(t, document.Save(filepath.Join(cfg.DocumentsDir, "cat.yaml"), cat))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DocumentsDir, "notes.txt"), []byte("ignored"), 0o644))

	a := newTestAnnotator(cfg)
	var progress bytes.Buffer
	summary, err := a.ExtractAll(context.Background(), nil, &progress)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 6, summary.Triples)
	assert.False(t, summary.HasFailures())
	assert.Contains(t, progress.String(), "extracted apple (3 triples)")
	assert.Contains(t, progress.String(), "extracted cat (3 triples)")

	data, err := os.ReadFile(TriplesPath(cfg.KnowledgeDir, "apple"))
	require.NoError(t, err)
	var res types.ExtractionResult
	require.NoError(t, yaml.Unmarshal(data, &res))
	assert.Equal(t, "apple", res.DocID)
	assert.Len(t, res.Sentences, 2)

	// Second run skips unchanged documents.
	progress.Reset()
	summary, err = a.ExtractAll(context.Background(), nil, &progress)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, summary.Total())

	// Touching a document re-extracts it.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(cfg.DocumentsDir, "cat.yaml"), future, future))
	summary, err = a.ExtractAll(context.Background(), nil, &progress)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Skipped)
}

func TestExtractAllCountsFailures(t *testing.T) {
	cfg := batchConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DocumentsDir, "broken.yaml"), []byte("sentences: ["), 0o644))
	noParse := &types.Document{ID: "noparse", Sentences: []types.Sentence{{Tokens: []types.Token{{Index: 1, Word: "a"}, {Index: 2, Word: "b"}}}}}
	require.NoError(t, document.Save(filepath.Join(cfg.DocumentsDir, "noparse.yaml"), noParse))

	var progress bytes.Buffer
	summary, err := newTestAnnotator(cfg).ExtractAll(context.Background(), nil, &progress)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.Contains(t, progress.String(), "failed  broken")
	assert.Contains(t, progress.String(), "failed  noparse")
}

func TestExtractAllMissingDirectory(t *testing.T) {
	cfg := types.DefaultOpenIEConfig()
	cfg.DocumentsDir = filepath.Join(t.TempDir(), "missing")
	_, err := newTestAnnotator(cfg).ExtractAll(context.Background(), nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExtractFilesPrints(t *testing.T) {
	cfg := batchConfig(t)
	path := filepath.Join(cfg.DocumentsDir, "apple.yaml")
	require.NoError(t, document.Save(path, depgraphtest.ApplePhones()))

	var out, notice bytes.Buffer
	p := NewPrinter(&out, &notice, types.FormatOllie)
	_, err := newTestAnnotator(cfg).ExtractFiles(context.Background(), []string{path}, p, &bytes.Buffer{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines, "1.000: (Apple Inc.; makes; phones)")
	assert.Contains(t, lines, "1.000: (Apple Inc.; sells; phones)")
	assert.Empty(t, notice.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    types.OutputFormat
		wantErr bool
	}{
		{"", types.FormatDefault, false},
		{"DEFAULT", types.FormatDefault, false},
		{"Reverb", types.FormatReverb, false},
		{"ollie", types.FormatOllie, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter(t *testing.T) {
	triple := types.RelationTriple{
		Subject:    []types.Word{{Index: 1, Text: "cat"}},
		Relation:   []types.Word{{Index: 2, Text: "is"}},
		Object:     []types.Word{{Index: 3, Text: "happy"}},
		Confidence: 1,
	}
	res := &types.ExtractionResult{DocID: "d", Sentences: []types.SentenceExtraction{
		{Index: 0, Text: "cat is happy", Triples: []types.RelationTriple{triple}},
		{Index: 1, Text: "Hello"},
	}}

	tests := []struct {
		format types.OutputFormat
		want   string
	}{
		{types.FormatDefault, "1.000\tcat\tis\thappy\n"},
		{types.FormatOllie, "1.000: (cat; is; happy)\n"},
		{types.FormatReverb, "d\t0\tcat\tis\thappy\t0\t1\t1\t2\t2\t3\t1.000\tcat is happy\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var out, notice bytes.Buffer
			require.NoError(t, NewPrinter(&out, &notice, tt.format).Print(res))
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, "No extractions in: Hello\n", notice.String())
		})
	}

	err := NewPrinter(&bytes.Buffer{}, nil, "csv").Print(res)
	assert.Error(t, err)
}

const unnumberedMeeting = `id: meeting
sentences:
  - tokens:
      - {word: Obama, pos: NNP, ner: PERSON, polarity: up}
      - {word: met, pos: VBD, ner: O, polarity: up}
      - {word: Merkel, pos: NNP, ner: PERSON, polarity: up}
    enhanced_dependencies:
      - {dep: root, governor: 0, dependent: 2}
      - {dep: nsubj, governor: 2, dependent: 1}
      - {dep: dobj, governor: 2, dependent: 3}
  - tokens:
      - {word: He, pos: PRP, ner: O, polarity: up}
      - {word: thanked, pos: VBD, ner: O, polarity: up}
      - {word: her, pos: PRP, ner: O, polarity: up}
    enhanced_dependencies:
      - {dep: root, governor: 0, dependent: 2}
      - {dep: nsubj, governor: 2, dependent: 1}
      - {dep: dobj, governor: 2, dependent: 3}
coref:
  - id: 1
    mentions:
      - {sentence: 0, start: 1, end: 2, representative: true}
      - {sentence: 1, start: 1, end: 2}
  - id: 2
    mentions:
      - {sentence: 0, start: 3, end: 4, representative: true}
      - {sentence: 1, start: 3, end: 4}
`

func TestExtractFileResolvesEachPronounWithoutTokenIndices(t *testing.T) {
	cfg := batchConfig(t)
	path := filepath.Join(cfg.DocumentsDir, "meeting.yaml")
	require.NoError(t, os.WriteFile(path, []byte(unnumberedMeeting), 0o644))

	res, err := newTestAnnotator(cfg).ExtractFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Sentences, 2)

	got := ollie(res.Sentences[1].Triples)
	assert.Contains(t, got, "1.000: (Obama; thanked; Merkel)")
	assert.NotContains(t, got, "1.000: (Obama; thanked; Obama)")
	assert.NotContains(t, res.Sentences[1].Entailed, "Obama thanked Obama")
}
