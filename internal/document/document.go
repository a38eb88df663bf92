// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document reads and writes parsed documents and fills in tags a
// parser left out.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".yaml", ".yml", ".json"}

// IsDocumentFile reports whether name has a document extension.
func IsDocumentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IDFromPath derives a document id from a file name by dropping directory
// and extension.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads a document from a YAML or JSON file. A document without an id
// takes the file's base name. Sentence and token indices are renumbered to
// their position in the file, so token ids stay unique when a file leaves
// them out.
func Load(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	var doc types.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("document %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}

	if doc.ID == "" {
		doc.ID = IDFromPath(path)
	}
	for i := range doc.Sentences {
		s := &doc.Sentences[i]
		s.Index = i
		for j := range s.Tokens {
			s.Tokens[j].Index = j + 1
		}
	}
	return &doc, nil
}

// Save writes doc as YAML.
func Save(path string, doc *types.Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document %s: %w", doc.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
