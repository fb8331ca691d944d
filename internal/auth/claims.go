package auth

import "climbing-gym/belay/internal/constants"

// UserClaims is what handlers and middleware know about the caller
type UserClaims interface {
	UserID() uint
	Roles() []constants.Role
	HasRole(role constants.Role) bool
	Source() string
	TokenVersion() int
}

type JWTClaims struct {
	UserIDValue  uint
	RoleValues   []constants.Role
	VersionValue int
}

func (c *JWTClaims) UserID() uint            { return c.UserIDValue }
func (c *JWTClaims) Roles() []constants.Role { return c.RoleValues }
func (c *JWTClaims) Source() string          { return "JWT" }
func (c *JWTClaims) TokenVersion() int       { return c.VersionValue }

func (c *JWTClaims) HasRole(role constants.Role) bool {
	for _, r := range c.RoleValues {
		if r == role {
			return true
		}
	}
	return false
}
