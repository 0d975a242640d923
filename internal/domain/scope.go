package domain

// ScopeKey is the tenant/session isolation boundary. Every vector record
// carries exactly one ScopeKey and every retrieval is filtered to the
// caller-supplied ScopeKey; a match outside the exact triple is a
// cross-tenant leak, not a ranking problem.
type ScopeKey struct {
	OrgID     string
	Pipeline  PipelineID
	SessionID string
}

// Validate checks that all three components are populated and the pipeline
// id is recognized.
func (s ScopeKey) Validate() error {
	if s.OrgID == "" || s.SessionID == "" || s.Pipeline == "" {
		return ErrMissingRequiredField
	}
	if !s.Pipeline.Valid() {
		return NewUnknownPipelineError(string(s.Pipeline))
	}
	return nil
}
