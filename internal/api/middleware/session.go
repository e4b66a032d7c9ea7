package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/codereview/internal/services"
)

// GitHubTokenKey is the key under which the GitHub access token for
// the request is stored.
const GitHubTokenKey = "github_token"

// SessionUserKey is the key under which the verified session username
// is stored.
const SessionUserKey = "session_user"

// SessionMiddleware resolves the Authorization header into a GitHub
// access token for downstream handlers.
type SessionMiddleware struct {
	sessions services.SessionService
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(sessions services.SessionService) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// OptionalSession inspects the bearer token without requiring one. A
// JWT-shaped bearer must be a valid session credential: it is swapped
// for the GitHub token embedded in its claims, and an invalid one is
// rejected outright. Any other bearer is assumed to be a raw GitHub
// token and forwarded as-is. Requests without a bearer proceed
// untouched; the provider rejects them itself.
func (m *SessionMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := extractBearer(c)
		if bearer == "" {
			c.Next()
			return
		}

		if !looksLikeJWT(bearer) {
			c.Set(GitHubTokenKey, bearer)
			c.Next()
			return
		}

		claims, err := m.sessions.Verify(bearer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired session credential",
			})
			return
		}

		c.Set(GitHubTokenKey, claims.AccessToken)
		c.Set(SessionUserKey, claims.Username)
		c.Next()
	}
}

// GetGitHubToken returns the GitHub access token resolved for the
// request, if any.
func GetGitHubToken(c *gin.Context) string {
	return c.GetString(GitHubTokenKey)
}

// extractBearer pulls the bearer token out of the Authorization
// header.
func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// looksLikeJWT reports whether a bearer has the three-segment shape of
// a signed session credential. GitHub tokens never contain dots, so
// the shapes cannot collide.
func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}
