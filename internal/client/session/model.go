package session

import (
	"errors"
	"slices"
	"strings"
)

// ErrNilUser is returned when an authenticated state is requested without a user.
var ErrNilUser = errors.New("authenticated state requires a user")

// Status is the authentication status of the running client.
type Status int

const (
	Unauthenticated Status = iota
	Checking
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Role is a marketplace role a user can hold.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSitter Role = "sitter"
)

// KnownRoles lists the roles the API accepts, in display order.
func KnownRoles() []Role {
	return []Role{RoleOwner, RoleSitter}
}

// User is the profile summary of the authenticated user.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Roles          []Role `json:"user_type"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// DisplayName returns "First Last", falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user holds role r.
func (u User) HasRole(r Role) bool {
	return slices.Contains(u.Roles, r)
}

func (u User) clone() User {
	u.Roles = slices.Clone(u.Roles)
	return u
}

func (u User) equal(o User) bool {
	return u.ID == o.ID &&
		u.Email == o.Email &&
		u.FirstName == o.FirstName &&
		u.LastName == o.LastName &&
		u.ProfilePicture == o.ProfilePicture &&
		slices.Equal(u.Roles, o.Roles)
}

// State is the single authoritative record of authentication.
// User is non-nil if and only if Status is Authenticated.
type State struct {
	Status Status
	User   *User
}

// IsAuthenticated reports whether the state holds an authenticated user.
func (s State) IsAuthenticated() bool {
	return s.Status == Authenticated && s.User != nil
}

// Valid reports whether the state satisfies the user/status invariant.
func (s State) Valid() bool {
	return (s.User != nil) == (s.Status == Authenticated)
}

// Equal reports whether two states carry the same status and user.
func (s State) Equal(o State) bool {
	if s.Status != o.Status {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == nil && o.User == nil
	}
	return s.User.equal(*o.User)
}

func (s State) clone() State {
	if s.User != nil {
		u := s.User.clone()
		s.User = &u
	}
	return s
}
