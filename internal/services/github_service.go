package services

import (
	"context"
	"errors"

	"github.com/google/go-github/v66/github"

	"github.com/ericfisherdev/codereview/internal/config"
	"github.com/ericfisherdev/codereview/internal/domain"
	"github.com/ericfisherdev/codereview/internal/validation"
)

// GitHubService proxies repository and pull-request operations to the
// GitHub API using the caller-supplied bearer token. No token is
// checked for presence: an unauthenticated call is forwarded and the
// provider rejects it itself.
type GitHubService interface {
	// GetRepository fetches repository metadata.
	GetRepository(ctx context.Context, token, owner, repo string) (*github.Repository, error)

	// GetPullRequest fetches pull-request metadata together with its
	// changed-file list as one composite payload.
	GetPullRequest(ctx context.Context, token, owner, repo string, number int) (*PullRequestDetails, error)

	// CreateReviewComment creates a single-line review comment. The
	// request's Line is forwarded as the diff position the provider
	// expects; no translation is applied.
	CreateReviewComment(ctx context.Context, token, owner, repo string, number int, req domain.ReviewCommentRequest) (*github.PullRequestComment, error)
}

// PullRequestDetails is the composite payload for a pull request and
// its changed files.
type PullRequestDetails struct {
	PullRequest *github.PullRequest  `json:"pullRequest"`
	Files       []*github.CommitFile `json:"files"`
}

type githubService struct {
	apiBaseURL string
}

// NewGitHubService creates a new GitHub proxy service.
func NewGitHubService(cfg config.GitHubConfig) GitHubService {
	return &githubService{apiBaseURL: cfg.GetGitHubAPIBaseURL()}
}

// GetRepository fetches repository metadata.
func (s *githubService) GetRepository(ctx context.Context, token, owner, repo string) (*github.Repository, error) {
	if !validation.NonEmpty(owner, repo) {
		return nil, domain.NewValidationError("INVALID_REPOSITORY", "Invalid repository data", nil)
	}

	client, err := newGitHubClient(token, s.apiBaseURL)
	if err != nil {
		return nil, domain.NewInternalError("GITHUB_CLIENT_FAILED", "Failed to build GitHub client", err)
	}

	repository, _, err := client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, classifyGitHubError(err)
	}
	return repository, nil
}

// GetPullRequest fetches pull-request metadata and its changed files.
// The two fetches are sequential; both must succeed.
func (s *githubService) GetPullRequest(ctx context.Context, token, owner, repo string, number int) (*PullRequestDetails, error) {
	if !validation.NonEmpty(owner, repo) || number <= 0 {
		return nil, domain.NewValidationError("INVALID_PULL_REQUEST", "Invalid pull request data", nil)
	}

	client, err := newGitHubClient(token, s.apiBaseURL)
	if err != nil {
		return nil, domain.NewInternalError("GITHUB_CLIENT_FAILED", "Failed to build GitHub client", err)
	}

	pullRequest, _, err := client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classifyGitHubError(err)
	}

	files, _, err := client.PullRequests.ListFiles(ctx, owner, repo, number, nil)
	if err != nil {
		return nil, classifyGitHubError(err)
	}

	return &PullRequestDetails{PullRequest: pullRequest, Files: files}, nil
}

// CreateReviewComment creates a single-line review comment on a pull
// request.
func (s *githubService) CreateReviewComment(
	ctx context.Context,
	token, owner, repo string,
	number int,
	req domain.ReviewCommentRequest,
) (*github.PullRequestComment, error) {
	if !validation.NonEmpty(owner, repo) || number <= 0 {
		return nil, domain.NewValidationError("INVALID_COMMENT", "Invalid comment data", nil)
	}
	if err := validation.ValidateStruct(req, "Invalid comment data"); err != nil {
		return nil, err
	}

	client, err := newGitHubClient(token, s.apiBaseURL)
	if err != nil {
		return nil, domain.NewInternalError("GITHUB_CLIENT_FAILED", "Failed to build GitHub client", err)
	}

	comment := &github.PullRequestComment{
		CommitID: github.String(req.CommitID),
		Path:     github.String(req.Path),
		Body:     github.String(req.Body),
		Position: github.Int(req.Line),
	}

	created, _, err := client.PullRequests.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return nil, classifyGitHubError(err)
	}
	return created, nil
}

// classifyGitHubError translates a go-github failure into the error
// taxonomy, echoing the provider's status code and message unchanged.
func classifyGitHubError(err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		status := 0
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
		return domain.NewExternalServiceError("GITHUB_API_ERROR", errResp.Message, status, err)
	}
	return domain.NewInternalError("GITHUB_API_ERROR", "GitHub API call failed", err)
}
