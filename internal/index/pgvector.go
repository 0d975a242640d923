package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

// dbtx is the subset of pgxpool.Pool used by the index client; pgx.Tx
// satisfies it too.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Client is a vector index handle bound to exactly one pipeline. All four
// pipelines share the vector_records table; the handle stamps its pipeline
// id on every insert and filters on it for every search, so records from
// one pipeline are unreachable through another pipeline's handle.
type Client struct {
	db       dbtx
	pipeline domain.PipelineID
}

// New creates an index handle for the given pipeline.
func New(pool *pgxpool.Pool, pipeline domain.PipelineID) *Client {
	return &Client{db: pool, pipeline: pipeline}
}

// Pipeline returns the pipeline id this handle is bound to.
func (c *Client) Pipeline() domain.PipelineID {
	return c.pipeline
}

// Insert stores a vector record and returns its id. Records are
// insert-only; there is no update or delete path.
func (c *Client) Insert(ctx context.Context, rec domain.VectorRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	uploadedAt := rec.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err := c.db.Exec(ctx,
		`INSERT INTO vector_records
			(id, pipeline, org_id, session_id, document_id, file_name, file_type, content, embedding, uploaded_at)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id,
		c.pipeline,
		rec.Scope.OrgID,
		rec.Scope.SessionID,
		rec.DocumentID,
		rec.FileName,
		rec.FileType,
		rec.Text,
		pgvector.NewVector(rec.Embedding),
		uploadedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert vector record: %w", err)
	}

	return id, nil
}

// Search returns the topK nearest records by cosine similarity, filtered
// to the full scope triple. The pipeline filter comes from the handle, not
// the caller, so a handle can never read another pipeline's records.
func (c *Client) Search(ctx context.Context, embedding []float32, scope domain.ScopeKey, topK int) ([]domain.RetrievedMatch, error) {
	if topK <= 0 {
		topK = 5
	}

	vec := pgvector.NewVector(embedding)
	rows, err := c.db.Query(ctx,
		`SELECT document_id, file_name, file_type, content,
		        GREATEST(0.0, LEAST(1.0, 1.0 - (embedding <=> $1))) AS score
		 FROM vector_records
		 WHERE pipeline = $2 AND org_id = $3 AND session_id = $4
		 ORDER BY embedding <=> $1
		 LIMIT $5`,
		vec, c.pipeline, scope.OrgID, scope.SessionID, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector records: %w", err)
	}
	defer rows.Close()

	matches := make([]domain.RetrievedMatch, 0, topK)
	for rows.Next() {
		var m domain.RetrievedMatch
		if err := rows.Scan(&m.DocumentID, &m.FileName, &m.FileType, &m.Text, &m.Score); err != nil {
			return nil, fmt.Errorf("failed to scan vector record: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}
