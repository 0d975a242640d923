package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

// StorageClient defines the interface for durable blob storage of raw uploads
type StorageClient interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IngestionService orchestrates batch document uploads: persist blob,
// extract text, embed, insert into the routed pipeline index.
type IngestionService struct {
	storage   StorageClient
	embedding EmbeddingClient
	registry  *IndexRegistry
	now       func() time.Time
}

// NewIngestionService creates a new IngestionService instance
func NewIngestionService(storage StorageClient, embedding EmbeddingClient, registry *IndexRegistry) *IngestionService {
	return &IngestionService{
		storage:   storage,
		embedding: embedding,
		registry:  registry,
		now:       time.Now,
	}
}

// Ingest processes a batch of uploaded files for one scope. Malformed
// requests are rejected before any external call; after that, files are
// processed independently and a failure in one never aborts the others.
// The result slice always has one entry per file, in submission order.
func (s *IngestionService) Ingest(ctx context.Context, scope domain.ScopeKey, files []domain.UploadedDocument) ([]domain.IngestionResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	idx, err := s.registry.Resolve(scope.Pipeline)
	if err != nil {
		return nil, err
	}

	results := make([]domain.IngestionResult, len(files))
	for i, file := range files {
		results[i] = s.ingestOne(ctx, idx, scope, file)
	}

	return results, nil
}

// ingestOne runs the five-step pipeline for a single file. Any step
// failing records a per-file error; completed side effects (an already
// written blob) are not rolled back.
func (s *IngestionService) ingestOne(ctx context.Context, idx VectorIndex, scope domain.ScopeKey, file domain.UploadedDocument) domain.IngestionResult {
	result := domain.IngestionResult{
		FileName:  file.FileName,
		FileType:  file.MimeType,
		SizeBytes: file.SizeBytes,
		Status:    domain.UploadStatusError,
	}

	uploadedAt := s.now().UTC()
	key := blobKey(scope, uploadedAt, file.FileName)
	if err := s.storage.PutObject(ctx, key, file.Data, file.MimeType); err != nil {
		result.Error = fmt.Sprintf("failed to store file: %v", err)
		return result
	}

	text, err := ExtractText(file.Data)
	if err != nil {
		result.Error = fmt.Sprintf("failed to extract text: %v", err)
		return result
	}

	embedding, err := s.embedding.GenerateEmbedding(ctx, text)
	if err != nil {
		result.Error = fmt.Sprintf("failed to embed file: %v", err)
		return result
	}

	documentID := uuid.NewString()
	record := domain.VectorRecord{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Scope:      scope,
		FileName:   file.FileName,
		FileType:   file.MimeType,
		Text:       text,
		Embedding:  embedding,
		UploadedAt: uploadedAt,
	}

	if _, err := idx.Insert(ctx, record); err != nil {
		result.Error = fmt.Sprintf("failed to index file: %v", err)
		return result
	}

	result.DocumentID = documentID
	result.Status = domain.UploadStatusReady
	return result
}

// blobKey derives the deterministic object-store path for a raw upload.
// The scope and timestamp in the key allow offline reconciliation of
// blobs orphaned by a failed index insert.
func blobKey(scope domain.ScopeKey, uploadedAt time.Time, fileName string) string {
	return fmt.Sprintf("%s/%s/%d-%s", scope.OrgID, scope.SessionID, uploadedAt.UnixMilli(), fileName)
}
