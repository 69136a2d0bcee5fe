// Package services implements the identity application services.
package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/cmas/internal/identity/domain"
)

// credential is one entry in the static table.
type credential struct {
	password string
	role     domain.Role
}

// StaticAuthenticator authenticates against a fixed in-memory credential
// table. It exists for demo and development installs; production deployments
// swap in a real provider behind the same interface.
type StaticAuthenticator struct {
	credentials map[string]credential
	logger      *slog.Logger
}

// NewStaticAuthenticator creates an authenticator with the demo accounts.
func NewStaticAuthenticator(logger *slog.Logger) *StaticAuthenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticAuthenticator{
		credentials: map[string]credential{
			"testkid": {password: "pass", role: domain.RolePatient},
			"drhouse": {password: "pass", role: domain.RoleClinician},
		},
		logger: logger,
	}
}

// Authenticate checks the credential table.
func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (domain.User, error) {
	cred, ok := a.credentials[username]
	if !ok || subtle.ConstantTimeCompare([]byte(cred.password), []byte(password)) != 1 {
		a.logger.Warn("authentication failed", "username", username)
		return domain.User{}, fmt.Errorf("user %q: %w", username, domain.ErrInvalidCredentials)
	}

	a.logger.Info("user authenticated", "username", username, "role", cred.role)
	return domain.User{Username: username, Role: cred.role}, nil
}
