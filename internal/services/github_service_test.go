package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/codereview/internal/domain"
)

// newGitHubAPIStub serves the subset of the GitHub API the proxy
// touches. It records the bearer tokens it sees.
func newGitHubAPIStub(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var tokens []string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/hello-world", func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1296269, "name": "hello-world", "full_name": "octocat/hello-world", "stargazers_count": 80}`))
	})
	mux.HandleFunc("GET /repos/octocat/hello-world/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"number": 42, "title": "Improve parser", "state": "open"}`))
	})
	mux.HandleFunc("GET /repos/octocat/hello-world/pulls/42/files", func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"filename": "parser.go", "status": "modified", "additions": 10}]`))
	})
	mux.HandleFunc("POST /repos/octocat/hello-world/pulls/42/comments", func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc123", body["commit_id"])
		assert.Equal(t, "parser.go", body["path"])
		assert.EqualValues(t, 4, body["position"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 9001, "body": "consider returning the error", "position": 4}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &tokens
}

func newTestGitHubService(server *httptest.Server) GitHubService {
	return NewGitHubService(fakeGitHubConfig{apiBaseURL: server.URL})
}

func TestGetRepository(t *testing.T) {
	server, tokens := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	repo, err := svc.GetRepository(context.Background(), "gho_token", "octocat", "hello-world")

	require.NoError(t, err)
	assert.Equal(t, "hello-world", repo.GetName())
	assert.Equal(t, int64(1296269), repo.GetID())
	require.Len(t, *tokens, 1)
	assert.Equal(t, "Bearer gho_token", (*tokens)[0])
}

func TestGetRepositoryIsIdempotent(t *testing.T) {
	server, _ := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	first, err := svc.GetRepository(context.Background(), "gho_token", "octocat", "hello-world")
	require.NoError(t, err)
	second, err := svc.GetRepository(context.Background(), "gho_token", "octocat", "hello-world")
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestGetRepositoryValidation(t *testing.T) {
	server, tokens := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	tests := []struct {
		name  string
		owner string
		repo  string
	}{
		{"empty owner", "", "hello-world"},
		{"empty repo", "octocat", ""},
		{"whitespace owner", "  ", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetRepository(context.Background(), "gho_token", tt.owner, tt.repo)

			domainErr, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, domain.ValidationError, domainErr.Type)
			assert.Equal(t, "Invalid repository data", domainErr.Message)
		})
	}

	// Validation runs before the provider call in every case.
	assert.Empty(t, *tokens)
}

func TestGetRepositoryPropagatesProviderError(t *testing.T) {
	server, _ := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	_, err := svc.GetRepository(context.Background(), "gho_token", "octocat", "no-such-repo")

	domainErr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ExternalServiceError, domainErr.Type)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus())
	assert.Equal(t, "Not Found", domainErr.Message)
}

func TestGetPullRequestCompositePayload(t *testing.T) {
	server, tokens := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	details, err := svc.GetPullRequest(context.Background(), "gho_token", "octocat", "hello-world", 42)

	require.NoError(t, err)
	assert.Equal(t, 42, details.PullRequest.GetNumber())
	assert.Equal(t, "Improve parser", details.PullRequest.GetTitle())
	require.Len(t, details.Files, 1)
	assert.Equal(t, "parser.go", details.Files[0].GetFilename())

	// Both the pull request and its files were fetched.
	assert.Len(t, *tokens, 2)
}

func TestGetPullRequestValidation(t *testing.T) {
	server, tokens := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	for _, number := range []int{0, -1} {
		_, err := svc.GetPullRequest(context.Background(), "gho_token", "octocat", "hello-world", number)

		domainErr, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, domain.ValidationError, domainErr.Type)
		assert.Equal(t, "Invalid pull request data", domainErr.Message)
	}
	assert.Empty(t, *tokens)
}

func TestCreateReviewComment(t *testing.T) {
	server, tokens := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	comment, err := svc.CreateReviewComment(context.Background(), "gho_token", "octocat", "hello-world", 42,
		domain.ReviewCommentRequest{
			CommitID: "abc123",
			Path:     "parser.go",
			Body:     "consider returning the error",
			Line:     4,
		})

	require.NoError(t, err)
	assert.Equal(t, int64(9001), comment.GetID())
	require.Len(t, *tokens, 1)
	assert.Equal(t, "Bearer gho_token", (*tokens)[0])
}

func TestCreateReviewCommentValidation(t *testing.T) {
	server, tokens := newGitHubAPIStub(t)
	svc := newTestGitHubService(server)

	tests := []struct {
		name string
		req  domain.ReviewCommentRequest
	}{
		{"missing commit id", domain.ReviewCommentRequest{Path: "a.go", Body: "b", Line: 1}},
		{"missing path", domain.ReviewCommentRequest{CommitID: "abc", Body: "b", Line: 1}},
		{"missing body", domain.ReviewCommentRequest{CommitID: "abc", Path: "a.go", Line: 1}},
		{"zero line", domain.ReviewCommentRequest{CommitID: "abc", Path: "a.go", Body: "b"}},
		{"negative line", domain.ReviewCommentRequest{CommitID: "abc", Path: "a.go", Body: "b", Line: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReviewComment(context.Background(), "gho_token", "octocat", "hello-world", 42, tt.req)

			domainErr, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, domain.ValidationError, domainErr.Type)
			assert.Equal(t, "Invalid comment data", domainErr.Message)
		})
	}
	assert.Empty(t, *tokens)
}
