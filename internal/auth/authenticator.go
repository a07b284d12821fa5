package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// LocalDevAPIKey is the hardcoded key accepted in dev mode only.
	LocalDevAPIKey = "sk_local_tablekeep_dev_key"
	// LocalDevUserID is the user the dev key resolves to.
	LocalDevUserID = "tablekeep-dev"
)

// Identity is the authenticated caller. Every store query is scoped to UserID.
type Identity struct {
	UserID string `json:"user_id"`
	Method string `json:"method"` // "jwt" or "dev-key"
}

// Authenticator resolves a bearer credential to an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// Claims carried by access tokens; the subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 tokens signed with a shared secret.
type JWTAuthenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, token string) (*Identity, error) {
	var claims Claims
	parsed, err := a.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Identity{UserID: claims.Subject, Method: "jwt"}, nil
}

// IssueToken signs an access token for userID valid for ttl.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	if userID == "" {
		return "", errors.New("user id is empty")
	}
	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "tablekeep",
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// DevKeyAuthenticator accepts only LocalDevAPIKey.
type DevKeyAuthenticator struct{}

func (DevKeyAuthenticator) Authenticate(_ context.Context, token string) (*Identity, error) {
	if token != LocalDevAPIKey {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: LocalDevUserID, Method: "dev-key"}, nil
}

// Chain tries each authenticator in order and returns the first success.
type Chain []Authenticator

func (c Chain) Authenticate(ctx context.Context, token string) (*Identity, error) {
	for _, a := range c {
		if id, err := a.Authenticate(ctx, token); err == nil {
			return id, nil
		}
	}
	return nil, ErrInvalidToken
}

// New picks authenticators for the deployment: JWT when a secret is set,
// plus the dev key when devMode is on.
func New(jwtSecret string, devMode bool) Authenticator {
	var c Chain
	if jwtSecret != "" {
		c = append(c, NewJWTAuthenticator(jwtSecret))
	}
	if devMode {
		c = append(c, DevKeyAuthenticator{})
	}
	return c
}

// UnverifiedSubject reads the user id a token was issued for without checking
// its signature. Clients use it to scope local state; the service still
// verifies every request.
func UnverifiedSubject(token string) (string, error) {
	if token == LocalDevAPIKey {
		return LocalDevUserID, nil
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
