// Package api provides the HTTP handlers and router assembly.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/codereview/internal/services"
)

// AuthHandler handles the GitHub OAuth flow and session issuance.
type AuthHandler struct {
	oauth      services.OAuthService
	sessions   services.SessionService
	normalizer *ErrorNormalizer
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(oauth services.OAuthService, sessions services.SessionService, normalizer *ErrorNormalizer) *AuthHandler {
	return &AuthHandler{
		oauth:      oauth,
		sessions:   sessions,
		normalizer: normalizer,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/github", h.Redirect)
		auth.GET("/github/callback", h.Callback)
	}
}

// Redirect sends the browser to the GitHub authorization page.
func (h *AuthHandler) Redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, h.oauth.AuthorizeURL())
}

// Callback exchanges the authorization code for a GitHub token,
// resolves the user's identity and answers with a signed session
// credential.
func (h *AuthHandler) Callback(c *gin.Context) {
	identity, err := h.oauth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.normalizer.Respond(c, err)
		return
	}

	token, _, err := h.sessions.Issue(identity)
	if err != nil {
		h.normalizer.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
