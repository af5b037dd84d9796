package models

import "github.com/golang-jwt/jwt/v5"

// Actor is the already-authenticated caller context the core trusts.
// Membership of the tenant is verified upstream; the core only performs
// capability checks on top of it.
type Actor struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// AccessClaims represents the JWT claims structure issued by the identity
// provider. The tenant and role travel as custom claims next to the
// registered set.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	TenantID             string `json:"tenant_id"`
	Role                 string `json:"role"`
}

// Actor converts verified claims into the actor triple consumed by services.
func (c *AccessClaims) Actor() Actor {
	return Actor{
		UserID:   c.Subject,
		TenantID: c.TenantID,
		Role:     c.Role,
	}
}
