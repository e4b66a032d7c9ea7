package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/codereview/internal/domain"
	"github.com/ericfisherdev/codereview/internal/services"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	router := newRouter()
	router.Use(RequestID())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestIDHonorsInboundHeader(t *testing.T) {
	router := newRouter()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "caller-chosen")
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-chosen", w.Header().Get("X-Request-ID"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newRouter()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	router := newRouter()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter()
	router.Use(CORS(nil))
	router.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRecoveryAnswersWithGenericError(t *testing.T) {
	router := newRouter()
	router.Use(RequestID(), Recovery(nil))
	router.GET("/boom", func(_ *gin.Context) { panic("unexpected state") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "unexpected state")
}

// stubSessionService recognizes a single fixed credential.
type stubSessionService struct {
	validToken string
	claims     *services.SessionClaims
}

func (s *stubSessionService) Issue(_ *domain.Identity) (string, time.Time, error) {
	return s.validToken, time.Now().Add(time.Hour), nil
}

func (s *stubSessionService) Verify(token string) (*services.SessionClaims, error) {
	if token == s.validToken {
		return s.claims, nil
	}
	return nil, domain.NewAuthenticationError("INVALID_SESSION", "Invalid or expired session credential")
}

func newSessionRouter(sessions services.SessionService) (*gin.Engine, *string) {
	router := newRouter()
	router.Use(NewSessionMiddleware(sessions).OptionalSession())

	var token string
	router.GET("/test", func(c *gin.Context) {
		token = GetGitHubToken(c)
		c.Status(http.StatusOK)
	})
	return router, &token
}

func TestOptionalSessionSwapsSessionForGitHubToken(t *testing.T) {
	sessions := &stubSessionService{
		validToken: "aaa.bbb.ccc",
		claims:     &services.SessionClaims{GitHubID: 583231, Username: "octocat", AccessToken: "gho_embedded"},
	}
	router, token := newSessionRouter(sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer aaa.bbb.ccc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gho_embedded", *token)
}

func TestOptionalSessionRejectsInvalidSessionCredential(t *testing.T) {
	router, _ := newSessionRouter(&stubSessionService{validToken: "aaa.bbb.ccc"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer tampered.jwt.shape")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestOptionalSessionForwardsRawGitHubToken(t *testing.T) {
	router, token := newSessionRouter(&stubSessionService{validToken: "aaa.bbb.ccc"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer gho_rawtoken")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gho_rawtoken", *token)
}

func TestOptionalSessionWithoutBearer(t *testing.T) {
	router, token := newSessionRouter(&stubSessionService{validToken: "aaa.bbb.ccc"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *token)
}
