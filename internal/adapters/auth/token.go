package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"outreachengine/internal/domain"
)

type jwtProvider struct {
	secret []byte
}

// NewJWTProvider returns a provider that signs and verifies HS256 JWTs with
// the given secret. It serves as both the TokenIssuer used by the auth
// service and the TokenVerifier used by the HTTP middleware.
func NewJWTProvider(secret string) (*jwtProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must be configured")
	}
	return &jwtProvider{secret: []byte(secret)}, nil
}

var (
	_ domain.TokenIssuer   = (*jwtProvider)(nil)
	_ domain.TokenVerifier = (*jwtProvider)(nil)
)

func (p *jwtProvider) Issue(subject string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (p *jwtProvider) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	return claims.Subject, nil
}
