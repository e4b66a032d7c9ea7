package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/codereview/internal/api/middleware"
	"github.com/ericfisherdev/codereview/internal/domain"
	"github.com/ericfisherdev/codereview/internal/services"
	"github.com/ericfisherdev/codereview/internal/validation"
)

// GitHubHandler proxies repository and pull-request operations.
type GitHubHandler struct {
	gh         services.GitHubService
	normalizer *ErrorNormalizer
}

// NewGitHubHandler creates a new GitHub proxy handler.
func NewGitHubHandler(gh services.GitHubService, normalizer *ErrorNormalizer) *GitHubHandler {
	return &GitHubHandler{
		gh:         gh,
		normalizer: normalizer,
	}
}

// RegisterRoutes registers the proxy routes. The session middleware
// resolves the bearer into a GitHub token before any of them run.
func (h *GitHubHandler) RegisterRoutes(router *gin.RouterGroup, session *middleware.SessionMiddleware) {
	gh := router.Group("/github", session.OptionalSession())
	{
		gh.GET("/repos/:owner/:repo", h.GetRepository)
		gh.GET("/repos/:owner/:repo/pulls/:pull_number", h.GetPullRequest)
		gh.POST("/repos/:owner/:repo/pulls/:pull_number/comments", h.CreateReviewComment)
	}
}

// GetRepository answers with repository metadata.
func (h *GitHubHandler) GetRepository(c *gin.Context) {
	repo, err := h.gh.GetRepository(c.Request.Context(), middleware.GetGitHubToken(c), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.normalizer.Respond(c, err)
		return
	}
	respondData(c, repo)
}

// GetPullRequest answers with pull-request metadata and its changed
// files.
func (h *GitHubHandler) GetPullRequest(c *gin.Context) {
	number, ok := validation.PositiveInt(c.Param("pull_number"))
	if !ok {
		h.normalizer.Respond(c, domain.NewValidationError("INVALID_PULL_REQUEST", "Invalid pull request data", nil))
		return
	}

	details, err := h.gh.GetPullRequest(c.Request.Context(), middleware.GetGitHubToken(c), c.Param("owner"), c.Param("repo"), number)
	if err != nil {
		h.normalizer.Respond(c, err)
		return
	}
	respondData(c, details)
}

// CreateReviewComment creates a single-line review comment on a pull
// request.
func (h *GitHubHandler) CreateReviewComment(c *gin.Context) {
	number, ok := validation.PositiveInt(c.Param("pull_number"))
	if !ok {
		h.normalizer.Respond(c, domain.NewValidationError("INVALID_PULL_REQUEST", "Invalid pull request data", nil))
		return
	}

	var req domain.ReviewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.normalizer.Respond(c, domain.NewValidationError("INVALID_COMMENT", "Invalid comment data", nil))
		return
	}

	comment, err := h.gh.CreateReviewComment(c.Request.Context(), middleware.GetGitHubToken(c), c.Param("owner"), c.Param("repo"), number, req)
	if err != nil {
		h.normalizer.Respond(c, err)
		return
	}
	respondData(c, comment)
}

// respondData writes the shared success envelope.
func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   data,
	})
}
