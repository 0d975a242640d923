package service

import (
	"context"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

// VectorIndex defines the interface for a pipeline's similarity-search index
type VectorIndex interface {
	Insert(ctx context.Context, rec domain.VectorRecord) (string, error)
	Search(ctx context.Context, embedding []float32, scope domain.ScopeKey, topK int) ([]domain.RetrievedMatch, error)
}

// IndexRegistry is the single source of truth for pipeline to index
// routing. It is built once at startup and never mutated afterwards, so
// ingestion and query can never diverge on which index a pipeline maps to.
type IndexRegistry struct {
	indexes map[domain.PipelineID]VectorIndex
}

// NewIndexRegistry creates a registry over the given handles. The map is
// copied; later mutation of the argument does not affect routing.
func NewIndexRegistry(indexes map[domain.PipelineID]VectorIndex) *IndexRegistry {
	copied := make(map[domain.PipelineID]VectorIndex, len(indexes))
	for pipeline, idx := range indexes {
		copied[pipeline] = idx
	}
	return &IndexRegistry{indexes: copied}
}

// Resolve returns the index handle for the given pipeline id.
func (r *IndexRegistry) Resolve(pipeline domain.PipelineID) (VectorIndex, error) {
	idx, ok := r.indexes[pipeline]
	if !ok {
		return nil, domain.NewUnknownPipelineError(string(pipeline))
	}
	return idx, nil
}
