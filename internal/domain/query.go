package domain

// ChatRole identifies the author of a conversation turn.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Turn is one prior message in the conversation, ordered chronologically
// by position in the slice.
type Turn struct {
	Role ChatRole
	Text string
}

// ChatMessage is a single message sent to the generative model.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// QueryRequest carries a natural-language question plus the scope and
// conversation history it should be answered within.
type QueryRequest struct {
	Query       string
	Scope       ScopeKey
	ChatHistory []Turn
}

// Validate checks the request before any external call is attempted.
func (r QueryRequest) Validate() error {
	if r.Query == "" {
		return ErrMissingRequiredField
	}
	return r.Scope.Validate()
}

// RetrievedMatch is a transient per-query retrieval hit. Score is cosine
// similarity in [0, 1].
type RetrievedMatch struct {
	DocumentID string
	FileName   string
	FileType   string
	Score      float32
	Text       string
}

// Source is a cited match shaped for the response, with the passage
// truncated to a short snippet.
type Source struct {
	DocumentID string
	FileName   string
	FileType   string
	Confidence float32
	Snippet    string
}

// QueryResponse is the answer plus its citations. Confidence is the
// maximum similarity score across the retrieved matches, zero when
// retrieval found nothing.
type QueryResponse struct {
	Answer     string
	Sources    []Source
	Confidence float32
}
