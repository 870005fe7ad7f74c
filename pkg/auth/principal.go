package auth

import "context"

// RoleAdmin may perform every mutating operation.
const RoleAdmin = "admin"

// Principal is the authenticated caller.
type Principal struct {
	ID    string   `json:"id"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles"`
}

// Actor is the identifier recorded as __updatedBy: the email when known,
// otherwise the id.
func (p Principal) Actor() string {
	if p.Email != "" {
		return p.Email
	}
	return p.ID
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (p Principal) HasAnyRole(roles ...string) bool {
	for _, held := range p.Roles {
		for _, want := range roles {
			if held == want {
				return true
			}
		}
	}
	return false
}

// FromClaims builds the principal a verified token describes.
func FromClaims(c *Claims) Principal {
	return Principal{ID: c.Subject, Email: c.Email, Roles: append([]string(nil), c.Roles...)}
}

type principalKey struct{}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
