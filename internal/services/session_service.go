package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ericfisherdev/codereview/internal/config"
	"github.com/ericfisherdev/codereview/internal/domain"
)

// SessionService mints and verifies signed session credentials. A
// credential embeds the GitHub access token so downstream proxy calls
// can reuse it without a second OAuth round-trip; nothing is stored
// server-side.
type SessionService interface {
	// Issue creates a signed session credential for an authenticated
	// identity. The expiry is a fixed window from issuance.
	Issue(identity *domain.Identity) (string, time.Time, error)

	// Verify parses and validates a session credential, returning its
	// claims or an authentication error.
	Verify(tokenString string) (*SessionClaims, error)
}

// SessionClaims is the payload of a session credential.
type SessionClaims struct {
	GitHubID    int64  `json:"github_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

type sessionService struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionService creates a new session service.
func NewSessionService(cfg config.SecurityConfig) SessionService {
	return &sessionService{
		secret: []byte(cfg.GetSessionSecret()),
		ttl:    cfg.GetSessionTTL(),
	}
}

// Issue creates a signed session credential for an authenticated identity.
func (s *sessionService) Issue(identity *domain.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &SessionClaims{
		GitHubID:    identity.GitHubID,
		Username:    identity.Username,
		AccessToken: identity.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.GitHubID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "codereview",
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.NewInternalError(
			"TOKEN_SIGNING_FAILED", "Failed to sign session credential", err)
	}

	return signed, expiresAt, nil
}

// Verify parses and validates a session credential.
func (s *sessionService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, domain.NewAuthenticationError("INVALID_SESSION", "Invalid or expired session credential")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.NewAuthenticationError("INVALID_SESSION", "Invalid or expired session credential")
	}

	return claims, nil
}
