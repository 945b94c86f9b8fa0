package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

// Role is the backend's role value.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operador"
	RoleViewer   Role = "visualizador"
)

// ParseRole maps both the backend's spelling and the English one onto a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return RoleAdmin, nil
	case "operador", "operator":
		return RoleOperator, nil
	case "visualizador", "viewer":
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleOperator:
		return "Operator"
	case RoleViewer:
		return "Viewer"
	default:
		return string(r)
	}
}

type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt timex.Time `json:"created_at"`
	LastLogin timex.Time `json:"last_login"`
}

// Normalize checks the required identity fields and rewrites Role to its
// canonical value.
func (u *User) Normalize() error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: user id missing", ErrInvalid)
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username missing", ErrInvalid)
	}
	role, err := ParseRole(string(u.Role))
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalid)
	}
	return nil
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// NewUser is the body of POST /auth/register.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (n NewUser) Validate() error {
	if strings.TrimSpace(n.Username) == "" || strings.TrimSpace(n.Email) == "" || n.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", ErrInvalid)
	}
	if _, err := ParseRole(string(n.Role)); err != nil {
		return err
	}
	return nil
}

// PasswordChange is the body of POST /auth/change-password.
type PasswordChange struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

func (p PasswordChange) Validate() error {
	if p.Current == "" || p.New == "" {
		return fmt.Errorf("%w: current and new password are required", ErrInvalid)
	}
	return nil
}

// UserChange is returned by user administration endpoints.
type UserChange struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
