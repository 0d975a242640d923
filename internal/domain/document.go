package domain

import "time"

// UploadStatus is the terminal state of one file in a batch upload.
type UploadStatus string

const (
	UploadStatusReady UploadStatus = "ready"
	UploadStatusError UploadStatus = "error"
)

// UploadedDocument represents one file received in a batch upload. Its
// lifecycle ends within the request: it either produces a VectorRecord or
// a per-file error in the IngestionResult.
type UploadedDocument struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Data      []byte
	RawText   string
}

// VectorRecord is an insert-only entry in a pipeline's vector index.
// The ingestion service constructs and submits it; nothing mutates it
// after insertion (no update/delete path exists).
type VectorRecord struct {
	ID         string
	DocumentID string
	Scope      ScopeKey
	FileName   string
	FileType   string
	Text       string
	Embedding  []float32
	UploadedAt time.Time
}

// IngestionResult reports the outcome for a single file in a batch. The
// result slice for a batch always has one entry per submitted file, in
// submission order.
type IngestionResult struct {
	DocumentID string
	FileName   string
	FileType   string
	SizeBytes  int64
	Status     UploadStatus
	Error      string
}
