package auth

import (
	"context"
	"errors"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies credentials against the accounts backend and returns
// the user id.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}
