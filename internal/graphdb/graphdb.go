// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphdb exports stored triples to Neo4j as a graph of entities
// joined by RELATION edges.
package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// DefaultBatchSize is the number of triples written per transaction.
const DefaultBatchSize = 500

const (
	constraintCypher = `CREATE CONSTRAINT entity_name IF NOT EXISTS FOR (e:Entity) REQUIRE e.name IS UNIQUE`

	mergeCypher = `UNWIND $rows AS row
MERGE (s:Entity {name: row.subject})
MERGE (o:Entity {name: row.object})
MERGE (s)-[r:RELATION {id: row.id}]->(o)
SET r.relation = row.relation, r.confidence = row.confidence,
    r.doc_id = row.doc_id, r.sentence = row.sentence`
)

// Writer runs a write statement in its own transaction.
type Writer interface {
	Write(ctx context.Context, cypher string, params map[string]any) error
	Close(ctx context.Context) error
}

// neo4jWriter is the production Writer backed by a Neo4j driver.
type neo4jWriter struct {
	driver   neo4j.DriverWithContext
	database string
}

// Connect opens a driver for cfg and verifies the server is reachable.
func Connect(ctx context.Context, cfg types.GraphConfig) (Writer, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("graph uri is not configured")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", cfg.URI, err)
	}
	return &neo4jWriter{driver: driver, database: cfg.Database}, nil
}

func (w *neo4jWriter) Write(ctx context.Context, cypher string, params map[string]any) error {
	session := w.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: w.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}

func (w *neo4jWriter) Close(ctx context.Context) error {
	return w.driver.Close(ctx)
}

// Exporter writes triples through a Writer in batches.
type Exporter struct {
	writer    Writer
	batchSize int
	log       *logrus.Logger
}

// NewExporter returns an exporter writing through w. A batchSize of zero
// uses DefaultBatchSize.
func NewExporter(w Writer, batchSize int, log *logrus.Logger) *Exporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Exporter{writer: w, batchSize: batchSize, log: log}
}

// Rows converts triples into the parameter rows of the merge statement.
func Rows(triples []types.StoredTriple) []map[string]any {
	rows := make([]map[string]any, len(triples))
	for i, t := range triples {
		rows[i] = map[string]any{
			"id":         t.ID,
			"subject":    t.Subject,
			"relation":   t.Relation,
			"object":     t.Object,
			"confidence": t.Confidence,
			"doc_id":     t.DocID,
			"sentence":   int64(t.SentenceIndex),
		}
	}
	return rows
}

// Export ensures the entity constraint and merges triples into the graph.
// It returns the number of triples written before the first failure.
func (e *Exporter) Export(ctx context.Context, triples []types.StoredTriple) (int, error) {
	if err := e.writer.Write(ctx, constraintCypher, nil); err != nil {
		return 0, fmt.Errorf("creating entity constraint: %w", err)
	}

	written := 0
	for start := 0; start < len(triples); start += e.batchSize {
		end := min(start+e.batchSize, len(triples))
		batch := triples[start:end]
		if err := e.writer.Write(ctx, mergeCypher, map[string]any{"rows": Rows(batch)}); err != nil {
			return written, fmt.Errorf("writing triples %d-%d: %w", start, end-1, err)
		}
		written += len(batch)
		e.log.WithFields(logrus.Fields{"written": written, "total": len(triples)}).Debug("exported batch")
	}
	return written, nil
}
