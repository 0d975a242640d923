package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

const (
	// retrievalTopK is the number of nearest neighbors fetched per query.
	retrievalTopK = 5
	// snippetMaxChars limits the cited passage excerpt, in runes.
	snippetMaxChars = 200
)

// ChatClient defines the interface for the generative model
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// QueryService answers natural-language questions over previously
// ingested passages: embed query, retrieve scoped matches, assemble the
// conversation, delegate to the generative model.
type QueryService struct {
	embedding EmbeddingClient
	chat      ChatClient
	registry  *IndexRegistry
}

// NewQueryService creates a new QueryService instance
func NewQueryService(embedding EmbeddingClient, chat ChatClient, registry *IndexRegistry) *QueryService {
	return &QueryService{
		embedding: embedding,
		chat:      chat,
		registry:  registry,
	}
}

// Answer runs the full query pipeline. Validation failures are rejected
// before any external call. A failure in any leaf client surfaces as an
// upstream error; no partial answer is ever returned.
func (s *QueryService) Answer(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	idx, err := s.registry.Resolve(req.Scope.Pipeline)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embedding.GenerateEmbedding(ctx, req.Query)
	if err != nil {
		return nil, domain.NewUpstreamError("embedding", err)
	}

	matches, err := idx.Search(ctx, embedding, req.Scope, retrievalTopK)
	if err != nil {
		return nil, domain.NewUpstreamError("vector index", err)
	}

	messages := buildMessages(req, matches)
	answer, err := s.chat.CreateChatCompletion(ctx, messages)
	if err != nil {
		return nil, domain.NewUpstreamError("generative model", err)
	}

	sources := make([]domain.Source, len(matches))
	var confidence float32
	for i, m := range matches {
		if m.Score > confidence {
			confidence = m.Score
		}
		sources[i] = domain.Source{
			DocumentID: m.DocumentID,
			FileName:   m.FileName,
			FileType:   m.FileType,
			Confidence: m.Score,
			Snippet:    snippet(m.Text, snippetMaxChars),
		}
	}

	return &domain.QueryResponse{
		Answer:     answer,
		Sources:    sources,
		Confidence: confidence,
	}, nil
}

// buildMessages assembles the generative-model conversation: system
// prompt with the retrieved context, then the caller's history in order,
// then the current query as the final user turn.
func buildMessages(req domain.QueryRequest, matches []domain.RetrievedMatch) []domain.ChatMessage {
	passages := make([]string, len(matches))
	for i, m := range matches {
		passages[i] = m.Text
	}
	contextBlock := strings.Join(passages, "\n\n")

	messages := make([]domain.ChatMessage, 0, len(req.ChatHistory)+2)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.ChatRoleSystem,
		Content: buildSystemPrompt(req.Scope.Pipeline, contextBlock),
	})

	for _, turn := range req.ChatHistory {
		role := turn.Role
		if role != domain.ChatRoleAssistant {
			role = domain.ChatRoleUser
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: turn.Text})
	}

	messages = append(messages, domain.ChatMessage{Role: domain.ChatRoleUser, Content: req.Query})
	return messages
}

func buildSystemPrompt(pipeline domain.PipelineID, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"You are a lending assistant specializing in %s. "+
			"Answer the user's question using the reference passages below. "+
			"If the passages do not cover the question, say so and answer from general lending guidance without inventing citations.",
		pipeline.Description(),
	))
	sb.WriteString("\n\nReference passages:\n")
	sb.WriteString(contextBlock)
	return sb.String()
}

func snippet(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
