// Package domain holds the identity context: who is using the assessment
// and in what role. The assessment core trusts whatever the authenticator
// returns; roles only gate which CLI surfaces are offered.
package domain

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned for unknown users or wrong passwords.
// The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Role distinguishes the patient-facing assessment flow from the
// clinician-facing history view.
type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
)

// User is an authenticated principal.
type User struct {
	Username string
	Role     Role
}

// Authenticator verifies credentials and returns the matching user.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (User, error)
}
