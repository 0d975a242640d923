//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloo-solutions/lendrag/internal/api/handlers"
	"github.com/cloo-solutions/lendrag/internal/domain"
	"github.com/cloo-solutions/lendrag/internal/index"
	"github.com/cloo-solutions/lendrag/internal/server"
	"github.com/cloo-solutions/lendrag/internal/service"
	"github.com/cloo-solutions/lendrag/internal/storage"
	"github.com/cloo-solutions/lendrag/internal/testutil"
)

// embeddingDim matches the vector_records column width.
const embeddingDim = 1536

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	S3Client     *storage.S3Client
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment: real pgvector and
// RustFS containers, and the HTTP server in-process with deterministic
// embedding and chat stand-ins so no model account is needed.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "test-uploads",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, s3Client, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RustFSC:      s3C,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		S3Client:     s3Client,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

func startServer(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client, port int) (string, func()) {
	embedder := &wordHashEmbedder{}
	chat := &contextEchoChat{}

	indexes := make(map[domain.PipelineID]service.VectorIndex, len(domain.Pipelines()))
	for _, pipeline := range domain.Pipelines() {
		indexes[pipeline] = index.New(pool, pipeline)
	}
	registry := service.NewIndexRegistry(indexes)

	ingestionSvc := service.NewIngestionService(s3Client, embedder, registry)
	querySvc := service.NewQueryService(embedder, chat, registry)

	router := server.NewRouter(server.RouterConfig{
		UploadHandler: handlers.NewUploadHandler(ingestionSvc, 0),
		QueryHandler:  handlers.NewQueryHandler(querySvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Errorf("server failed: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL)

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}

	return serverURL, closer
}

func waitForServer(t *testing.T, serverURL string) {
	client := &http.Client{Timeout: time.Second}
	for i := 0; i < 50; i++ {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("server did not become ready")
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// wordHashEmbedder maps each word to a bucket by FNV hash and
// L2-normalizes the bag-of-words counts. Texts sharing vocabulary get
// high cosine similarity, which is enough for retrieval ordering.
type wordHashEmbedder struct{}

func (e *wordHashEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, embeddingDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[h.Sum32()%embeddingDim]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}

// contextEchoChat answers with the first reference passage from the
// system prompt, so answers provably flow from retrieval.
type contextEchoChat struct{}

func (c *contextEchoChat) CreateChatCompletion(_ context.Context, messages []domain.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}
	system := messages[0].Content
	marker := "Reference passages:\n"
	idx := strings.Index(system, marker)
	if idx < 0 {
		return "I could not find relevant documents.", nil
	}
	passages := strings.TrimSpace(system[idx+len(marker):])
	if passages == "" {
		return "I could not find relevant documents.", nil
	}
	first := passages
	if cut := strings.Index(passages, "\n\n"); cut >= 0 {
		first = passages[:cut]
	}
	return "Based on your documents: " + first, nil
}

// PostJSON posts a JSON body and returns status code and raw body.
func (e *E2ETestEnv) PostJSON(path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	resp, err := e.HTTPClient.Post(e.ServerURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}

// UploadFiles posts a multipart upload and returns status code and raw body.
func (e *E2ETestEnv) UploadFiles(fields map[string]string, files map[string]string) (int, []byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return 0, nil, err
		}
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			return 0, nil, err
		}
		if _, err := part.Write([]byte(content)); err != nil {
			return 0, nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return 0, nil, err
	}

	resp, err := e.HTTPClient.Post(e.ServerURL+"/upload", writer.FormDataContentType(), &buf)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, err
}
