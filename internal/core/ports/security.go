package ports

import (
	"context"
	"time"
)

// PasswordHasher derives and checks one-way password hashes.
type PasswordHasher interface {
	// Hash returns a self-describing salted hash of password.
	Hash(ctx context.Context, password string) (string, error)
	// Verify reports whether password matches hash. A mismatch is not an error.
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// Claims is the identity embedded in a bearer token.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Token is a signed bearer credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenIssuer issues and verifies bearer tokens.
type TokenIssuer interface {
	Issue(claims Claims, ttl time.Duration) (Token, error)
	Verify(token string) (Claims, error)
}

// LoginLimiter throttles repeated failed logins per email.
type LoginLimiter interface {
	// Blocked reports whether email has used up its failed attempts.
	Blocked(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed login for email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, email string) error
}
