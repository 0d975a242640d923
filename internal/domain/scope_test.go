package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeKey_Validate(t *testing.T) {
	valid := ScopeKey{OrgID: "acme", Pipeline: PipelineGeneralLending, SessionID: "s1"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		scope ScopeKey
		code  string
	}{
		{"missing org", ScopeKey{Pipeline: PipelineGeneralLending, SessionID: "s1"}, ErrCodeValidation},
		{"missing session", ScopeKey{OrgID: "acme", Pipeline: PipelineGeneralLending}, ErrCodeValidation},
		{"missing pipeline", ScopeKey{OrgID: "acme", SessionID: "s1"}, ErrCodeValidation},
		{"unknown pipeline", ScopeKey{OrgID: "acme", Pipeline: "consumer-rag", SessionID: "s1"}, ErrCodeUnknownPipeline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scope.Validate()
			require.Error(t, err)

			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestQueryRequest_Validate(t *testing.T) {
	scope := ScopeKey{OrgID: "acme", Pipeline: PipelineSBA, SessionID: "s1"}

	assert.NoError(t, QueryRequest{Query: "what are the terms?", Scope: scope}.Validate())

	err := QueryRequest{Scope: scope}.Validate()
	require.Error(t, err)

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrCodeValidation, domainErr.Code)
}
