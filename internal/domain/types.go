package domain

import "strings"

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a stored role value; unknown values fall back to guest.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleGuest
}

// Actor is the authenticated identity performing an operation. It is resolved
// once per request and passed explicitly into every service call.
type Actor struct {
	UserID    int64  `json:"userId"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (a Actor) Authenticated() bool { return a.UserID > 0 }

func (a Actor) IsAdmin() bool { return a.Authenticated() && a.Role == RoleAdmin }

// RequireRole is the single capability check shared by middleware and services.
func RequireRole(a Actor, role Role) error {
	if !a.Authenticated() {
		return AuthenticationError{}
	}
	if a.Role != role {
		return AuthorizationError{Msg: "requires " + string(role) + " role"}
	}
	return nil
}

// RequireActor only checks that someone is logged in.
func RequireActor(a Actor) error {
	if !a.Authenticated() {
		return AuthenticationError{}
	}
	return nil
}
