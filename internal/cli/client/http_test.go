package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_PostDecodesRawResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var req AskRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "what are the terms?", req.Query)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Net 30.","sources":[],"confidence":0}`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	var resp AskResponse
	err := api.Post("/query", AskRequest{Query: "what are the terms?", OrgID: "acme", Pipeline: "sba-rag", SessionID: "s1"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "Net 30.", resp.Answer)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing required fields"}`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	err := api.Post("/query", AskRequest{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Missing required fields", apiErr.Message)
}

func TestAPIClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	err := api.Post("/nope", AskRequest{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "404")
}

func TestAPIClient_UploadFiles(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "terms.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("loan terms"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "acme", r.FormValue("orgId"))
		assert.Equal(t, "general-lending-rag", r.FormValue("pipeline"))
		assert.Equal(t, "s1", r.FormValue("sessionId"))
		require.Len(t, r.MultipartForm.File["files"], 1)
		assert.Equal(t, "terms.txt", r.MultipartForm.File["files"][0].Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"doc-1","name":"terms.txt","type":"text/plain","size":10,"status":"ready"}]`))
	}))
	defer server.Close()

	api := NewAPIClientWithConfig(server.URL)

	fields := map[string]string{"orgId": "acme", "pipeline": "general-lending-rag", "sessionId": "s1"}
	var results []UploadResult
	err := api.UploadFiles("/upload", fields, []string{filePath}, &results)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ready", results[0].Status)
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "http://example.test:9999")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9999", api.baseURL)
}

func TestNewAPIClientWithCmd_Default(t *testing.T) {
	t.Setenv(envAPIURL, "")

	api, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, api.baseURL)
}
