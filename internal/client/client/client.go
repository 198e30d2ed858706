package client

import (
	"context"

	"github.com/dmitrijs2005/furbaby/internal/client/session"
)

// API paths, relative to the configured base URL.
const (
	PathRegister             = "auth/register"
	PathLogin                = "auth/login"
	PathLogout               = "auth/logout"
	PathSession              = "auth/session"
	PathWhoAmI               = "auth/whoami"
	PathPasswordResetInit    = "auth/password_reset/"
	PathPasswordResetVerify  = "auth/password_reset/validate_token/"
	PathPasswordResetConfirm = "auth/password_reset/confirm/"
	PathUser                 = "api/user"
	PathIndex                = ""
)

// RegisterRequest is the body of POST auth/register.
type RegisterRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required"`
	UserType []session.Role `json:"user_type" validate:"required,min=1,dive,oneof=owner sitter"`
}

// Client is the furbaby REST API surface the session layer depends on.
//
// Login and Session return the user carried in the response, or nil when
// the server answered successfully without one. All calls share one cookie
// jar, so a successful Login makes later calls credentialed.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, email string, password []byte) (*session.User, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*session.User, error)
	WhoAmI(ctx context.Context) (string, error)
	PasswordResetInit(ctx context.Context, email string) error
	PasswordResetValidateToken(ctx context.Context, token string) error
	PasswordResetConfirm(ctx context.Context, password []byte, token string) error
	DeleteUser(ctx context.Context) error
}
