package auth

import "time"

// User is the identity attached to a session.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
}

// Session is the opaque credential pair issued by the identity provider,
// plus the identity it belongs to. Owned by the Store; everything else reads
// it by value and never mutates it.
type Session struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
	User         User      `yaml:"user"`
}

// expirySkew keeps us from presenting a token that dies mid-request.
const expirySkew = 30 * time.Second

// Expired reports whether the access token is past (or within skew of) its
// expiry. A zero ExpiresAt is treated as non-expiring.
func (s *Session) Expired() bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(expirySkew).After(s.ExpiresAt)
}
