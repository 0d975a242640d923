package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/cloo-solutions/lendrag/internal/api"
	"github.com/cloo-solutions/lendrag/internal/domain"
)

// UploadService defines the ingestion operations the handler depends on
type UploadService interface {
	Ingest(ctx context.Context, scope domain.ScopeKey, files []domain.UploadedDocument) ([]domain.IngestionResult, error)
}

// UploadHandler parses multipart batch uploads into the ingestion service.
type UploadHandler struct {
	svc          UploadService
	maxFormBytes int64
}

// NewUploadHandler creates an UploadHandler with the given in-memory
// multipart budget (anything above spills to temp files).
func NewUploadHandler(svc UploadService, maxFormBytes int64) *UploadHandler {
	if maxFormBytes <= 0 {
		maxFormBytes = 25 << 20
	}
	return &UploadHandler{svc: svc, maxFormBytes: maxFormBytes}
}

// UploadResultResponse is one entry in the per-file result array.
type UploadResultResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Upload handles POST /upload. Missing form fields are rejected before
// any file is read into the service.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	orgID := r.FormValue("orgId")
	pipeline := r.FormValue("pipeline")
	sessionID := r.FormValue("sessionId")
	fileHeaders := r.MultipartForm.File["files"]

	if orgID == "" || pipeline == "" || sessionID == "" || len(fileHeaders) == 0 {
		api.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	scope := domain.ScopeKey{
		OrgID:     orgID,
		Pipeline:  domain.PipelineID(pipeline),
		SessionID: sessionID,
	}

	files := make([]domain.UploadedDocument, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		files = append(files, domain.UploadedDocument{
			FileName:  fh.Filename,
			MimeType:  fh.Header.Get("Content-Type"),
			SizeBytes: fh.Size,
			Data:      data,
		})
	}

	results, err := h.svc.Ingest(r.Context(), scope, files)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]UploadResultResponse, len(results))
	for i, res := range results {
		responses[i] = UploadResultResponse{
			ID:     res.DocumentID,
			Name:   res.FileName,
			Type:   res.FileType,
			Size:   res.SizeBytes,
			Status: string(res.Status),
			Error:  res.Error,
		}
	}

	api.JSON(w, http.StatusOK, responses)
}
