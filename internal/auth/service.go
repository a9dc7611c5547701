package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/folio-desk/frontdesk/internal/credential"
	"github.com/folio-desk/frontdesk/internal/platform/httpx"
)

// Service wraps login and logout rules.
type Service struct {
	authenticator Authenticator
	tokens        *credential.Store
}

// NewService constructs a new Service.
func NewService(authenticator Authenticator, tokens *credential.Store) *Service {
	return &Service{authenticator: authenticator, tokens: tokens}
}

// Login validates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (credential.Token, error) {
	userID, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, httpx.ErrUnauthorized) || errors.Is(err, httpx.ErrNotFound) {
			return credential.Token{}, ErrInvalidCredentials
		}
		return credential.Token{}, fmt.Errorf("auth: authenticate: %w", err)
	}
	return s.tokens.Issue(ctx, userID)
}

// Logout revokes raw. Unknown or malformed tokens are ignored.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	err := s.tokens.Revoke(ctx, raw)
	if errors.Is(err, credential.ErrMalformedToken) || errors.Is(err, credential.ErrBadSignature) {
		return nil
	}
	return err
}
