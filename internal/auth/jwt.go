package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the claims in a tutoring session token
type SessionClaims struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"` // always "learner" today
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer with the given signing secret and
// token lifetime
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// GenerateSessionToken generates a JWT for a tutoring session
func (i *TokenIssuer) GenerateSessionToken(sessionID string) (string, error) {
	claims := &SessionClaims{
		SessionID: sessionID,
		Role:      "learner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a session token and returns its claims
func (i *TokenIssuer) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
