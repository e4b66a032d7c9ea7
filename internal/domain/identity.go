package domain

// Identity is the authenticated GitHub profile returned by the
// provider after a successful token exchange.
type Identity struct {
	GitHubID    int64  `json:"github_id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	AccessToken string `json:"-"`
}
