package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleStaff || r == RoleManager
}

// ProtectedUsername is the bootstrap account that can never be deleted.
const ProtectedUsername = "admin"

// IsReservedUsername reports whether name collides with a role. Notices
// addressed to a role share a column with notices addressed to a user, so
// an account named after a role would read that role's broadcasts.
func IsReservedUsername(name string) bool {
	for _, r := range []Role{RoleStaff, RoleManager} {
		if strings.EqualFold(strings.TrimSpace(name), string(r)) {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity attached to every protected request.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (p Principal) IsManager() bool {
	return p.Role == RoleManager
}

// Account is the user record as seen by authentication.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Email        string    `json:"email,omitempty"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a Account) Principal() Principal {
	return Principal{ID: a.ID, Username: a.Username, Role: a.Role}
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	Message string   `json:"message,omitempty"`
	Token   string   `json:"token"`
	User    *Account `json:"user"`
}

// Claims binds the principal into the signed token.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() Principal {
	return Principal{ID: c.ID, Username: c.Username, Role: c.Role}
}

// TokenGenerator issues and verifies access tokens.
type TokenGenerator interface {
	GenerateAccessToken(p Principal) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}
