package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danmigwi24/credential-service/internal/core/domain"
	"github.com/danmigwi24/credential-service/internal/core/ports"
)

const defaultIssuer = "credential-service"

// userClaims is the JWT payload: the user identity plus registered claims.
type userClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and verifies HS256 bearer tokens.
type JWTIssuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// IssuerOption customises a JWTIssuer.
type IssuerOption func(*JWTIssuer)

// WithIssuer sets the iss claim written and required on verification.
func WithIssuer(issuer string) IssuerOption {
	return func(i *JWTIssuer) {
		if issuer != "" {
			i.issuer = issuer
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *JWTIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewJWTIssuer returns an issuer signing with secret.
func NewJWTIssuer(secret string, opts ...IssuerOption) (*JWTIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is empty", domain.ErrInvalidArgument)
	}
	i := &JWTIssuer{
		secret: []byte(secret),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs claims into a token that expires ttl from now.
func (i *JWTIssuer) Issue(claims ports.Claims, ttl time.Duration) (ports.Token, error) {
	if ttl <= 0 {
		return ports.Token{}, fmt.Errorf("%w: token ttl must be positive", domain.ErrInvalidArgument)
	}
	if claims.ID == "" {
		return ports.Token{}, fmt.Errorf("%w: claims id is empty", domain.ErrInvalidArgument)
	}

	now := i.now()
	payload := userClaims{
		ID:       claims.ID,
		Username: claims.Username,
		Email:    claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   claims.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(i.secret)
	if err != nil {
		return ports.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.Token{Value: signed, ExpiresAt: payload.ExpiresAt.Time}, nil
}

// Verify checks the signature, issuer and expiry of token and returns its
// claims unchanged. Expiry has one-second granularity and a token is already
// expired at the exp second itself.
func (i *JWTIssuer) Verify(token string) (ports.Claims, error) {
	if token == "" {
		return ports.Claims{}, domain.ErrTokenInvalid
	}

	var payload userClaims
	parsed, err := jwt.ParseWithClaims(token, &payload, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.Claims{}, domain.ErrTokenExpired
		}
		return ports.Claims{}, domain.ErrTokenInvalid
	}
	if !parsed.Valid || payload.ID == "" || payload.Subject != payload.ID {
		return ports.Claims{}, domain.ErrTokenInvalid
	}

	return ports.Claims{ID: payload.ID, Username: payload.Username, Email: payload.Email}, nil
}
