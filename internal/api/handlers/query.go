package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/lendrag/internal/api"
	"github.com/cloo-solutions/lendrag/internal/domain"
)

// QueryAnswerer defines the question-answering operation the handler depends on
type QueryAnswerer interface {
	Answer(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
}

// QueryHandler parses JSON question requests into the query service.
type QueryHandler struct {
	svc QueryAnswerer
}

// NewQueryHandler creates a new QueryHandler instance
func NewQueryHandler(svc QueryAnswerer) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type ChatTurnRequest struct {
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp,omitempty"`
}

type QueryRequest struct {
	Query       string            `json:"query"`
	OrgID       string            `json:"orgId"`
	Pipeline    string            `json:"pipeline"`
	SessionID   string            `json:"sessionId"`
	ChatHistory []ChatTurnRequest `json:"chatHistory,omitempty"`
}

type SourceResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float32 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

type QueryResponse struct {
	Answer     string           `json:"answer"`
	Sources    []SourceResponse `json:"sources"`
	Confidence float32          `json:"confidence"`
}

// Query handles POST /query. Missing fields are rejected before any
// leaf client is touched.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" || req.OrgID == "" || req.Pipeline == "" || req.SessionID == "" {
		api.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	history := make([]domain.Turn, len(req.ChatHistory))
	for i, turn := range req.ChatHistory {
		role := domain.ChatRoleUser
		if turn.Sender == "ai" {
			role = domain.ChatRoleAssistant
		}
		history[i] = domain.Turn{Role: role, Text: turn.Text}
	}

	input := domain.QueryRequest{
		Query: req.Query,
		Scope: domain.ScopeKey{
			OrgID:     req.OrgID,
			Pipeline:  domain.PipelineID(req.Pipeline),
			SessionID: req.SessionID,
		},
		ChatHistory: history,
	}

	output, err := h.svc.Answer(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sources := make([]SourceResponse, len(output.Sources))
	for i, src := range output.Sources {
		sources[i] = SourceResponse{
			ID:         src.DocumentID,
			Name:       src.FileName,
			Type:       src.FileType,
			Confidence: src.Confidence,
			Snippet:    src.Snippet,
		}
	}

	api.JSON(w, http.StatusOK, QueryResponse{
		Answer:     output.Answer,
		Sources:    sources,
		Confidence: output.Confidence,
	})
}
