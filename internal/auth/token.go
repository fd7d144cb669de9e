package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "interval-timer-service"
	tokenTTL    = 24 * time.Hour
)

// ErrTokenIdentity is returned when a token is requested for a user that has not been stored yet
var ErrTokenIdentity = errors.New("user has no id or username")

var jwtSecretKey = os.Getenv("JWT_SECRET")

// SetJWTSecret replaces the signing key read from JWT_SECRET
func SetJWTSecret(secret string) {
	jwtSecretKey = secret
}

// TokenClaims identifies a user. The subject is the user id; the role is
// looked up on every request so a demoted admin loses access immediately.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for a stored user
func IssueToken(user *User) (string, error) {
	if user.ID == nil || user.Username == nil {
		return "", ErrTokenIdentity
	}

	now := time.Now()
	claims := &TokenClaims{
		Username: *user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   *user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecretKey))
}

// ParseToken verifies signature, issuer and expiry and returns the claims
func ParseToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(jwtSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
