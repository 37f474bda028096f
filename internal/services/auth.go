package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"outreachengine/internal/domain"
)

const operatorSubject = "operator"

type authService struct {
	keyHash []byte
	issuer  domain.TokenIssuer
	expiry  time.Duration
}

// NewAuthService returns an AuthService that exchanges the operator key for
// an API token. keyHash is the bcrypt hash of the key, supplied via config.
func NewAuthService(keyHash string, issuer domain.TokenIssuer, expiry time.Duration) (domain.AuthService, error) {
	if keyHash == "" {
		return nil, fmt.Errorf("operator key hash must be configured")
	}
	return &authService{keyHash: []byte(keyHash), issuer: issuer, expiry: expiry}, nil
}

func (s *authService) IssueToken(ctx context.Context, operatorKey string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(operatorKey)); err != nil {
		return "", domain.ErrInvalidCredential
	}
	token, err := s.issuer.Issue(operatorSubject, s.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
