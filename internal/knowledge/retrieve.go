// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// ErrNotFound is returned by Trace for an unknown triple id.
var ErrNotFound = errors.New("triple not found")

// QueryOptions holds parameters for triple store queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over subject, relation and object.
	Query string

	// Subject, Relation and Object filter by exact gloss, ignoring case.
	Subject  string
	Relation string
	Object   string

	// DocID filters by source document.
	DocID string

	// MinConfidence drops triples scored below it.
	MinConfidence float64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Subject == "" && q.Relation == "" && q.Object == "" &&
		q.DocID == "" && q.MinConfidence == 0
}

// Retrieve queries the triple store with optional full-text search and
// structured filters. Full-text results are ranked by relevance; otherwise
// triples come in document and sentence order, most confident first.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.StoredTriple, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT t.id, t.doc_id, t.sentence_idx, t.subject, t.relation, t.object, t.confidence
			FROM triples_fts
			JOIN triples t ON t.rowid = triples_fts.rowid
			WHERE triples_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT t.id, t.doc_id, t.sentence_idx, t.subject, t.relation, t.object, t.confidence
			FROM triples t
			WHERE 1=1`)
	}

	for _, f := range []struct{ col, val string }{
		{"t.subject", opts.Subject},
		{"t.relation", opts.Relation},
		{"t.object", opts.Object},
	} {
		if f.val != "" {
			qb.WriteString(` AND ` + f.col + ` = ? COLLATE NOCASE`)
			args = append(args, f.val)
		}
	}

	if opts.DocID != "" {
		qb.WriteString(` AND t.doc_id = ?`)
		args = append(args, opts.DocID)
	}

	if opts.MinConfidence > 0 {
		qb.WriteString(` AND t.confidence >= ?`)
		args = append(args, opts.MinConfidence)
	}

	if useFTS {
		qb.WriteString(` ORDER BY triples_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY t.doc_id, t.sentence_idx, t.confidence DESC, t.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying triple store: %w", err)
	}
	defer rows.Close()

	var results []types.StoredTriple
	for rows.Next() {
		var t types.StoredTriple
		if err := rows.Scan(&t.ID, &t.DocID, &t.SentenceIndex,
			&t.Subject, &t.Relation, &t.Object, &t.Confidence); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, t)
	}

	return results, rows.Err()
}

// Trace returns the triple with the given id and the text of the sentence
// it was extracted from.
func (s *Store) Trace(ctx context.Context, tripleID string) (types.StoredTriple, string, error) {
	var (
		t    types.StoredTriple
		text sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT t.id, t.doc_id, t.sentence_idx, t.subject, t.relation, t.object, t.confidence, s.text
		FROM triples t
		LEFT JOIN sentences s ON s.doc_id = t.doc_id AND s.idx = t.sentence_idx
		WHERE t.id = ?`, tripleID,
	).Scan(&t.ID, &t.DocID, &t.SentenceIndex, &t.Subject, &t.Relation, &t.Object, &t.Confidence, &text)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StoredTriple{}, "", fmt.Errorf("%s: %w", tripleID, ErrNotFound)
		}
		return types.StoredTriple{}, "", fmt.Errorf("looking up triple: %w", err)
	}
	return t, text.String, nil
}

// Stats reports the number of documents and triples stored.
func (s *Store) Stats(ctx context.Context) (docs, triples int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&docs); err != nil {
		return 0, 0, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM triples`).Scan(&triples); err != nil {
		return 0, 0, fmt.Errorf("counting triples: %w", err)
	}
	return docs, triples, nil
}
