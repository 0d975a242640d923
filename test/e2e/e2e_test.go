//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type queryResponse struct {
	Answer  string `json:"answer"`
	Sources []struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Type       string  `json:"type"`
		Confidence float32 `json:"confidence"`
		Snippet    string  `json:"snippet"`
	} `json:"sources"`
	Confidence float32 `json:"confidence"`
}

func scopeFields(orgID, pipeline, sessionID string) map[string]string {
	return map[string]string{
		"orgId":     orgID,
		"pipeline":  pipeline,
		"sessionId": sessionID,
	}
}

func TestE2E_UploadAndQuery(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("upload documents", func(t *testing.T) {
		status, body, err := env.UploadFiles(
			scopeFields("acme", "equipment-vehicle-rag", "s1"),
			map[string]string{
				"rates.txt": "Equipment loans carry a 7.5 percent interest rate.",
				"terms.txt": "A 20 percent down payment is required on vehicle leases.",
			},
		)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status, string(body))

		var results []uploadResult
		require.NoError(t, json.Unmarshal(body, &results))
		require.Len(t, results, 2)
		for _, result := range results {
			assert.Equal(t, "ready", result.Status)
			assert.NotEmpty(t, result.ID)
		}
	})

	t.Run("query answers from uploaded documents", func(t *testing.T) {
		status, body, err := env.PostJSON("/query", map[string]any{
			"query":     "what down payment is required on vehicle leases?",
			"orgId":     "acme",
			"pipeline":  "equipment-vehicle-rag",
			"sessionId": "s1",
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status, string(body))

		var resp queryResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Contains(t, resp.Answer, "down payment")
		require.NotEmpty(t, resp.Sources)
		assert.Equal(t, "terms.txt", resp.Sources[0].Name)
		assert.Greater(t, resp.Confidence, float32(0))
	})

	t.Run("vector rows are persisted", func(t *testing.T) {
		var count int
		rows, err := env.Pool.Query(env.Ctx,
			"SELECT COUNT(*) FROM vector_records WHERE org_id = $1 AND session_id = $2", "acme", "s1")
		require.NoError(t, err)
		defer rows.Close()
		require.True(t, rows.Next())
		require.NoError(t, rows.Scan(&count))
		assert.Equal(t, 2, count)
	})
}

func TestE2E_ScopeIsolation(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	status, _, err := env.UploadFiles(
		scopeFields("acme", "sba-rag", "s1"),
		map[string]string{"sba.txt": "SBA 7a loans max out at five million dollars."},
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name      string
		orgID     string
		pipeline  string
		sessionID string
	}{
		{"different org", "globex", "sba-rag", "s1"},
		{"different pipeline", "acme", "real-estate-rag", "s1"},
		{"different session", "acme", "sba-rag", "s2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpStatus, body, err := env.PostJSON("/query", map[string]any{
				"query":     "SBA 7a loans five million dollars",
				"orgId":     tt.orgID,
				"pipeline":  tt.pipeline,
				"sessionId": tt.sessionID,
			})
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, httpStatus)

			var resp queryResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Empty(t, resp.Sources)
			assert.Zero(t, resp.Confidence)
		})
	}
}

func TestE2E_PartialBatchFailure(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	status, body, err := env.UploadFiles(
		scopeFields("acme", "general-lending-rag", "s1"),
		map[string]string{
			"good.txt": "Personal loans require a credit score of at least 680.",
			"bad.bin":  "\xff\xfe\x00binary blob",
		},
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status, "per-file failures never fail the batch")

	var results []uploadResult
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 2)

	byName := make(map[string]uploadResult, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}
	assert.Equal(t, "ready", byName["good.txt"].Status)
	assert.Equal(t, "error", byName["bad.bin"].Status)
	assert.NotEmpty(t, byName["bad.bin"].Error)
}

func TestE2E_ValidationErrors(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	t.Run("upload without scope", func(t *testing.T) {
		status, body, err := env.UploadFiles(
			map[string]string{"orgId": "acme"},
			map[string]string{"a.txt": "x"},
		)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "Missing required fields")
	})

	t.Run("query with unknown pipeline", func(t *testing.T) {
		status, body, err := env.PostJSON("/query", map[string]any{
			"query":     "q",
			"orgId":     "acme",
			"pipeline":  "crypto-rag",
			"sessionId": "s1",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "crypto-rag")
	})

	t.Run("unknown route is plain text 404", func(t *testing.T) {
		resp, err := env.HTTPClient.Get(env.ServerURL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, env.ServerURL+"/upload", nil)
		require.NoError(t, err)
		resp, err := env.HTTPClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
