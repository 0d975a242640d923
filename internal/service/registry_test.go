package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

// stubIndex is a trivially distinguishable VectorIndex for routing tests.
type stubIndex struct {
	name string
}

func (s *stubIndex) Insert(ctx context.Context, rec domain.VectorRecord) (string, error) {
	return "", nil
}

func (s *stubIndex) Search(ctx context.Context, embedding []float32, scope domain.ScopeKey, topK int) ([]domain.RetrievedMatch, error) {
	return nil, nil
}

func newTestRegistry() (*IndexRegistry, map[domain.PipelineID]*stubIndex) {
	stubs := make(map[domain.PipelineID]*stubIndex)
	indexes := make(map[domain.PipelineID]VectorIndex)
	for _, p := range domain.Pipelines() {
		stub := &stubIndex{name: string(p)}
		stubs[p] = stub
		indexes[p] = stub
	}
	return NewIndexRegistry(indexes), stubs
}

func TestIndexRegistry_Resolve_AllPipelinesDistinct(t *testing.T) {
	registry, stubs := newTestRegistry()

	seen := make(map[VectorIndex]domain.PipelineID)
	for _, p := range domain.Pipelines() {
		idx, err := registry.Resolve(p)
		require.NoError(t, err)
		assert.Same(t, stubs[p], idx, "pipeline %s should resolve to its own handle", p)

		prev, dup := seen[idx]
		assert.False(t, dup, "pipelines %s and %s share a handle", prev, p)
		seen[idx] = p
	}
	assert.Len(t, seen, 4)
}

func TestIndexRegistry_Resolve_UnknownPipeline(t *testing.T) {
	registry, _ := newTestRegistry()

	for _, bad := range []domain.PipelineID{"", "consumer-rag", "Equipment-Vehicle-RAG"} {
		idx, err := registry.Resolve(bad)
		assert.Nil(t, idx)
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.ErrCodeUnknownPipeline, domainErr.Code)
	}
}

func TestIndexRegistry_CopiesInputMap(t *testing.T) {
	indexes := map[domain.PipelineID]VectorIndex{
		domain.PipelineSBA: &stubIndex{name: "sba"},
	}
	registry := NewIndexRegistry(indexes)

	// Mutating the source map must not change routing.
	indexes[domain.PipelineSBA] = &stubIndex{name: "other"}
	delete(indexes, domain.PipelineSBA)

	idx, err := registry.Resolve(domain.PipelineSBA)
	require.NoError(t, err)
	assert.Equal(t, "sba", idx.(*stubIndex).name)
}
