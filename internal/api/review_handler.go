package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/codereview/internal/domain"
	"github.com/ericfisherdev/codereview/internal/services"
)

// ReviewHandler handles code review requests.
type ReviewHandler struct {
	reviews    services.ReviewService
	normalizer *ErrorNormalizer
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews services.ReviewService, normalizer *ErrorNormalizer) *ReviewHandler {
	return &ReviewHandler{
		reviews:    reviews,
		normalizer: normalizer,
	}
}

// RegisterRoutes registers the review routes.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	review := router.Group("/review")
	{
		review.POST("/analyze", h.Analyze)
	}
}

// Analyze runs the review pipeline over the submitted code and answers
// with the generated review text.
func (h *ReviewHandler) Analyze(c *gin.Context) {
	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.normalizer.Respond(c, domain.NewValidationError("INVALID_REVIEW", "Invalid request data", nil))
		return
	}

	result, err := h.reviews.Analyze(c.Request.Context(), req)
	if err != nil {
		h.normalizer.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"review": result.Text,
	})
}
