// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists extracted relation triples in SQLite and
// serves full-text and structured retrieval over them.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/openie-engine/pkg/types"
)

const (
	extractedDir  = "extracted"
	indexDir      = "index"
	dbFile        = "triples.db"
	triplesSuffix = "-triples.yaml"

	defaultMaxResults = 20
)

// tripleNamespace scopes triple ids generated by this store.
var tripleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("openie-engine/triple"))

// TripleID returns the stable id of a triple extracted from the given
// document sentence.
func TripleID(docID string, sentence int, t types.RelationTriple) string {
	name := fmt.Sprintf("%s\x00%d\x00%s", docID, sentence, t.Key())
	return uuid.NewSHA1(tripleNamespace, []byte(name)).String()
}

// Store manages the triple store SQLite database.
type Store struct {
	db           *sql.DB
	knowledgeDir string
	maxResults   int
}

// NewStore opens or creates the database at knowledgeDir/index/triples.db
// and creates the schema if it does not exist.
func NewStore(cfg types.KnowledgeBaseConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.KnowledgeDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:           db,
		knowledgeDir: cfg.KnowledgeDir,
		maxResults:   maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			sentence_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sentences (
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			text TEXT NOT NULL,
			PRIMARY KEY (doc_id, idx)
		)`,
		`CREATE TABLE IF NOT EXISTS triples (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			sentence_idx INTEGER NOT NULL,
			subject TEXT NOT NULL,
			relation TEXT NOT NULL,
			object TEXT NOT NULL,
			confidence REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_doc_id ON triples(doc_id)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_relation ON triples(relation)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			doc_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='triples_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE triples_fts USING fts5(subject, relation, object, content=triples, content_rowid=rowid)`,
			`CREATE TRIGGER triples_ai AFTER INSERT ON triples BEGIN
				INSERT INTO triples_fts(rowid, subject, relation, object)
				VALUES (new.rowid, new.subject, new.relation, new.object);
			END`,
			`CREATE TRIGGER triples_ad AFTER DELETE ON triples BEGIN
				INSERT INTO triples_fts(triples_fts, rowid, subject, relation, object)
				VALUES ('delete', old.rowid, old.subject, old.relation, old.object);
			END`,
			`CREATE TRIGGER triples_au AFTER UPDATE ON triples BEGIN
				INSERT INTO triples_fts(triples_fts, rowid, subject, relation, object)
				VALUES ('delete', old.rowid, old.subject, old.relation, old.object);
				INSERT INTO triples_fts(rowid, subject, relation, object)
				VALUES (new.rowid, new.subject, new.relation, new.object);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a triple store indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of extraction files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads extraction files from knowledgeDir/extracted/ and populates
// the database. Files whose modification time matches the last indexing
// are skipped; changed files replace the document's previous triples. On
// any change export.yaml is rewritten.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	extractDir := filepath.Join(s.knowledgeDir, extractedDir)

	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading extraction directory %s: %w", extractDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), triplesSuffix) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := strings.TrimSuffix(entry.Name(), triplesSuffix)
		filePath := filepath.Join(extractDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE doc_id = ?`, docID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		var result types.ExtractionResult
		if err := yaml.Unmarshal(data, &result); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", docID, err)
			summary.Failed++
			continue
		}
		if result.DocID == "" {
			result.DocID = docID
		}

		n, err := s.ingestDocument(ctx, docID, &result, modTime)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d triples)\n", docID, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d triples)\n", docID, n)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

// ingestDocument replaces everything stored for docID with result and
// returns the number of triples inserted.
func (s *Store) ingestDocument(ctx context.Context, docID string, result *types.ExtractionResult, modTime string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Triples and sentences go with the document via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID); err != nil {
		return 0, fmt.Errorf("deleting old document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, sentence_count) VALUES (?, ?)`, docID, len(result.Sentences),
	); err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	sentStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO sentences (doc_id, idx, text) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing sentence insert: %w", err)
	}
	defer sentStmt.Close()

	tripleStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO triples (id, doc_id, sentence_idx, subject, relation, object, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing triple insert: %w", err)
	}
	defer tripleStmt.Close()

	n := 0
	for _, sent := range result.Sentences {
		if _, err := sentStmt.ExecContext(ctx, docID, sent.Index, sent.Text); err != nil {
			return 0, fmt.Errorf("inserting sentence %d: %w", sent.Index, err)
		}
		for _, t := range sent.Triples {
			id := TripleID(docID, sent.Index, t)
			res, err := tripleStmt.ExecContext(ctx, id, docID, sent.Index,
				t.SubjectGloss(), t.RelationGloss(), t.ObjectGloss(), t.Confidence)
			if err != nil {
				return 0, fmt.Errorf("inserting triple %s: %w", id, err)
			}
			if added, _ := res.RowsAffected(); added > 0 {
				n++
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (doc_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return 0, fmt.Errorf("updating indexing status: %w", err)
	}

	return n, tx.Commit()
}
