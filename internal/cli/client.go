package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIClient talks to the code review server.
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewAPIClient creates a client for the given server.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewAPIClientFromProfile creates a client from a stored profile.
func NewAPIClientFromProfile(profile *Profile) *APIClient {
	if profile == nil {
		return nil
	}
	return NewAPIClient(profile.ServerURL, profile.Token)
}

// APIError is a non-2xx server response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// doRequest performs an authenticated request against the server.
func (c *APIClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("join URL path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// handleResponse decodes the response into result, converting error
// envelopes into *APIError. It closes the body.
func (c *APIClient) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// AnalyzeCode submits code for review and returns the review text.
func (c *APIClient) AnalyzeCode(ctx context.Context, code, language, codeContext string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/review/analyze", map[string]string{
		"code":     code,
		"language": language,
		"context":  codeContext,
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Status string `json:"status"`
		Review string `json:"review"`
	}
	if err := c.handleResponse(resp, &result); err != nil {
		return "", err
	}
	return result.Review, nil
}

// GetPullRequest fetches a pull request with its files through the
// server proxy.
func (c *APIClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("/api/github/repos/%s/%s/pulls/%d", owner, repo, number)
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Ping checks that the server is reachable.
func (c *APIClient) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/ping", nil)
	if err != nil {
		return err
	}
	return c.handleResponse(resp, nil)
}
