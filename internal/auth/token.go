package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/usecase-portal/internal/domain"
)

// ErrInvalidToken covers bad signatures, expired tokens and missing subjects.
var ErrInvalidToken = errors.New("invalid token")

// ErrSigningUnavailable indicates the signing secret is not configured.
var ErrSigningUnavailable = errors.New("token signing secret not configured")

// TokenManager handles issuing and validating JWT session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. Role and license are snapshotted at
// issuance; a change on the account is invisible until re-login.
type Claims struct {
	Role    domain.Role    `json:"role"`
	License domain.License `json:"license"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session token for the given account. There is no
// revocation list; logout is a client-side discard and the token stays valid
// until its natural expiry.
func (tm *TokenManager) Issue(email string, role domain.Role, license domain.License) (string, time.Time, error) {
	if len(tm.secret) == 0 {
		return "", time.Time{}, ErrSigningUnavailable
	}

	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		Role:    role,
		License: license,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Validate checks signature and expiry and returns the claims. A token
// without a subject is rejected.
func (tm *TokenManager) Validate(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
