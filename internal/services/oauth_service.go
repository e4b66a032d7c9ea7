package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/ericfisherdev/codereview/internal/config"
	"github.com/ericfisherdev/codereview/internal/domain"
)

// OAuthService exchanges a one-time GitHub authorization code for an
// access token and resolves the authenticated identity. The exchange
// is strictly single-use per call: a burned authorization code cannot
// be reused, so nothing is retried.
type OAuthService interface {
	// AuthorizeURL returns the provider authorize URL the client is
	// redirected to, carrying the client id and requested scopes.
	AuthorizeURL() string

	// Exchange converts an authorization code into an authenticated
	// identity carrying the provider access token.
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

type oauthService struct {
	config     *oauth2.Config
	apiBaseURL string
}

// NewOAuthService creates a new GitHub OAuth service.
func NewOAuthService(cfg config.GitHubConfig) OAuthService {
	return &oauthService{
		config: &oauth2.Config{
			ClientID:     cfg.GetGitHubClientID(),
			ClientSecret: cfg.GetGitHubClientSecret(),
			Scopes:       []string{"repo", "user"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GetGitHubAuthURL(),
				TokenURL: cfg.GetGitHubTokenURL(),
			},
		},
		apiBaseURL: cfg.GetGitHubAPIBaseURL(),
	}
}

// AuthorizeURL returns the provider authorize URL.
func (s *oauthService) AuthorizeURL() string {
	return s.config.AuthCodeURL("")
}

// Exchange converts an authorization code into an authenticated
// identity. The profile fetch strictly follows a successful token
// exchange; its failure propagates as unexpected.
func (s *oauthService) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domain.NewValidationError("INVALID_AUTH_CODE", "Invalid authorization code", nil)
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, classifyExchangeError(err)
	}
	if token.AccessToken == "" {
		return nil, domain.NewAuthenticationError("NO_ACCESS_TOKEN", "No access token received")
	}

	user, err := s.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, domain.NewInternalError("PROFILE_FETCH_FAILED", "Failed to fetch user profile", err)
	}

	return &domain.Identity{
		GitHubID:    user.GetID(),
		Username:    user.GetLogin(),
		AvatarURL:   user.GetAvatarURL(),
		AccessToken: token.AccessToken,
	}, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, accessToken string) (*github.User, error) {
	client, err := newGitHubClient(accessToken, s.apiBaseURL)
	if err != nil {
		return nil, err
	}
	user, _, err := client.Users.Get(ctx, "")
	return user, err
}

// newGitHubClient builds an authenticated go-github client. A
// non-empty baseURL points the client at a stub or enterprise host.
func newGitHubClient(accessToken, baseURL string) (*github.Client, error) {
	client := github.NewClient(nil)
	if accessToken != "" {
		client = client.WithAuthToken(accessToken)
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = parsed
	}
	return client, nil
}

// classifyExchangeError maps token-endpoint failures to the error
// taxonomy. GitHub reports a rejected code as an error field in the
// response body, which oauth2 surfaces as a RetrieveError even when
// the status is 200.
func classifyExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		message := retrieveErr.ErrorDescription
		if message == "" {
			message = retrieveErr.ErrorCode
		}
		if message == "" {
			message = "GitHub authentication failed"
		}
		return domain.NewAuthenticationError("GITHUB_AUTH_FAILED", message)
	}

	// oauth2 reports a 2xx response with no access_token as a plain
	// error rather than a RetrieveError.
	if strings.Contains(err.Error(), "missing access_token") {
		return domain.NewAuthenticationError("NO_ACCESS_TOKEN", "No access token received")
	}

	return domain.NewInternalError("TOKEN_EXCHANGE_FAILED", "Failed to exchange authorization code", err)
}
