package domain

import "time"

// AdminRole is the role claim required on the administrative surface.
const AdminRole = "admin"

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal carries role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenIssuer issues bearer tokens (e.g. JWT) for an operator.
type TokenIssuer interface {
	Issue(subject string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns its principal.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}
