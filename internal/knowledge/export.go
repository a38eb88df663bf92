// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// ExportLimit bounds the number of triples read by a single export.
const ExportLimit = 100000

// ExportPath returns where an export with the given extension is written.
func (s *Store) ExportPath(ext string) string {
	return filepath.Join(s.knowledgeDir, indexDir, "export."+ext)
}

// ExportYAML writes the matching triples to knowledge/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	triples, err := s.All(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(triples)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(s.ExportPath("yaml"), data, 0o644)
}

// ExportJSON writes the matching triples to knowledge/index/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	triples, err := s.All(ctx, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(triples, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(s.ExportPath("json"), data, 0o644)
}

// All returns every triple matching opts, up to ExportLimit.
func (s *Store) All(ctx context.Context, opts QueryOptions) ([]types.StoredTriple, error) {
	opts.MaxResults = ExportLimit
	triples, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if triples == nil {
		triples = []types.StoredTriple{}
	}
	return triples, nil
}
