package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/lendrag/internal/domain"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Ingest(ctx context.Context, scope domain.ScopeKey, files []domain.UploadedDocument) ([]domain.IngestionResult, error) {
	args := m.Called(ctx, scope, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IngestionResult), args.Error(1)
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"orgId":     "acme",
		"pipeline":  "equipment-vehicle-rag",
		"sessionId": "s1",
	}
}

func TestUploadHandler_Success(t *testing.T) {
	mockSvc := new(MockUploadService)
	handler := NewUploadHandler(mockSvc, 0)

	expected := []domain.IngestionResult{
		{DocumentID: "doc-1", FileName: "terms.txt", FileType: "application/octet-stream", SizeBytes: 10, Status: domain.UploadStatusReady},
	}
	mockSvc.On("Ingest", mock.Anything, domain.ScopeKey{
		OrgID:     "acme",
		Pipeline:  domain.PipelineEquipmentVehicle,
		SessionID: "s1",
	}, mock.MatchedBy(func(files []domain.UploadedDocument) bool {
		return len(files) == 1 &&
			files[0].FileName == "terms.txt" &&
			string(files[0].Data) == "loan terms"
	})).Return(expected, nil)

	req := multipartRequest(t, validFields(), map[string]string{"terms.txt": "loan terms"})
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body []UploadResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "doc-1", body[0].ID)
	assert.Equal(t, "terms.txt", body[0].Name)
	assert.Equal(t, "ready", body[0].Status)
	assert.Empty(t, body[0].Error)
	mockSvc.AssertExpectations(t)
}

func TestUploadHandler_PerFileErrorsInResponse(t *testing.T) {
	mockSvc := new(MockUploadService)
	handler := NewUploadHandler(mockSvc, 0)

	results := []domain.IngestionResult{
		{DocumentID: "doc-1", FileName: "a.txt", Status: domain.UploadStatusReady},
		{FileName: "b.bin", Status: domain.UploadStatusError, Error: "failed to extract text: file is not valid UTF-8 text"},
	}
	mockSvc.On("Ingest", mock.Anything, mock.Anything, mock.Anything).Return(results, nil)

	req := multipartRequest(t, validFields(), map[string]string{"a.txt": "good", "b.bin": "bad"})
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "per-file failures never fail the request")

	var body []UploadResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "error", body[1].Status)
	assert.Contains(t, body[1].Error, "not valid UTF-8")
}

func TestUploadHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		files  map[string]string
	}{
		{"missing orgId", map[string]string{"pipeline": "sba-rag", "sessionId": "s1"}, map[string]string{"a.txt": "x"}},
		{"missing pipeline", map[string]string{"orgId": "acme", "sessionId": "s1"}, map[string]string{"a.txt": "x"}},
		{"missing sessionId", map[string]string{"orgId": "acme", "pipeline": "sba-rag"}, map[string]string{"a.txt": "x"}},
		{"no files", validFields(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockUploadService)
			handler := NewUploadHandler(mockSvc, 0)

			req := multipartRequest(t, tt.fields, tt.files)
			w := httptest.NewRecorder()

			handler.Upload(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Missing required fields")
			mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUploadHandler_UnknownPipeline(t *testing.T) {
	mockSvc := new(MockUploadService)
	handler := NewUploadHandler(mockSvc, 0)

	mockSvc.On("Ingest", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewUnknownPipelineError("crypto-rag"))

	fields := validFields()
	fields["pipeline"] = "crypto-rag"
	req := multipartRequest(t, fields, map[string]string{"a.txt": "x"})
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "crypto-rag")
}

func TestUploadHandler_NotMultipart(t *testing.T) {
	mockSvc := new(MockUploadService)
	handler := NewUploadHandler(mockSvc, 0)

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Upload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid multipart form")
	mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
}
