// Package testutil provides testing utilities shared across packages.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTestRouter creates a gin engine in test mode.
func NewTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// HTTPTestHelper drives a router through recorded requests.
type HTTPTestHelper struct {
	router http.Handler
	t      *testing.T
}

// NewHTTPTestHelper creates a helper around the given router.
func NewHTTPTestHelper(t *testing.T, router http.Handler) *HTTPTestHelper {
	return &HTTPTestHelper{router: router, t: t}
}

// Request performs a request and returns the recorded response. A
// non-nil body is marshaled as JSON.
func (h *HTTPTestHelper) Request(method, url string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	h.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(h.t, err)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	require.NoError(h.t, err)

	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

// GET performs a GET request.
func (h *HTTPTestHelper) GET(url string, headers map[string]string) *httptest.ResponseRecorder {
	return h.Request(http.MethodGet, url, nil, headers)
}

// POST performs a POST request with a JSON body.
func (h *HTTPTestHelper) POST(url string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	return h.Request(http.MethodPost, url, body, headers)
}

// DecodeJSON unmarshals the recorded body into a map.
func (h *HTTPTestHelper) DecodeJSON(recorder *httptest.ResponseRecorder) map[string]interface{} {
	h.t.Helper()
	var body map[string]interface{}
	require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// AssertErrorBody asserts the shared error envelope.
func (h *HTTPTestHelper) AssertErrorBody(recorder *httptest.ResponseRecorder, status int, message string) {
	h.t.Helper()
	assert.Equal(h.t, status, recorder.Code)
	body := h.DecodeJSON(recorder)
	assert.Equal(h.t, "error", body["status"])
	assert.Equal(h.t, message, body["message"])
}
