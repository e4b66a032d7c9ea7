package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/codereview/internal/domain"
)

func TestValidateReviewRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        domain.ReviewRequest
		wantValid  bool
		wantFields []string
	}{
		{
			name:      "valid request",
			req:       domain.ReviewRequest{Code: "def f(): pass", Language: "Python"},
			wantValid: true,
		},
		{
			name:      "valid request with context",
			req:       domain.ReviewRequest{Code: "x := 1", Language: "Go", Context: "part of a parser"},
			wantValid: true,
		},
		{
			name:       "empty code",
			req:        domain.ReviewRequest{Code: "", Language: "Python"},
			wantValid:  false,
			wantFields: []string{"code"},
		},
		{
			name:       "whitespace-only code",
			req:        domain.ReviewRequest{Code: "   ", Language: "Python"},
			wantValid:  false,
			wantFields: []string{"code"},
		},
		{
			name:       "missing language",
			req:        domain.ReviewRequest{Code: "def f(): pass"},
			wantValid:  false,
			wantFields: []string{"language"},
		},
		{
			name:       "everything missing",
			req:        domain.ReviewRequest{},
			wantValid:  false,
			wantFields: []string{"code", "language"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.req)
			assert.Equal(t, tt.wantValid, result.Valid)

			var fields []string
			for _, fe := range result.Errors {
				fields = append(fields, fe.Field)
			}
			for _, want := range tt.wantFields {
				assert.Contains(t, fields, want)
			}
		})
	}
}

func TestValidateReviewCommentRequest(t *testing.T) {
	valid := domain.ReviewCommentRequest{
		CommitID: "abc123",
		Path:     "main.go",
		Body:     "consider returning the error",
		Line:     4,
	}
	assert.True(t, Validate(valid).Valid)

	missingLine := valid
	missingLine.Line = 0
	assert.False(t, Validate(missingLine).Valid)

	negativeLine := valid
	negativeLine.Line = -2
	assert.False(t, Validate(negativeLine).Valid)
}

func TestValidateStructFoldsToDomainError(t *testing.T) {
	err := ValidateStruct(domain.ReviewRequest{}, "Invalid request data")

	assert.NotNil(t, err)
	assert.Equal(t, domain.ValidationError, err.Type)
	assert.Equal(t, "Invalid request data", err.Message)
	assert.Contains(t, err.Details, "code")
	assert.True(t, err.IsOperational())

	assert.Nil(t, ValidateStruct(domain.ReviewRequest{Code: "x", Language: "Go"}, "Invalid request data"))
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"42", 42, true},
		{" 7 ", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.5", 0, false},
	}

	for _, tt := range tests {
		got, ok := PositiveInt(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "PositiveInt(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "PositiveInt(%q)", tt.raw)
	}
}

func TestNonEmpty(t *testing.T) {
	assert.True(t, NonEmpty("octocat", "hello-world"))
	assert.False(t, NonEmpty("octocat", ""))
	assert.False(t, NonEmpty("  ", "hello-world"))
}
