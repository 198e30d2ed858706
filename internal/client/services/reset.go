package services

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"sync"
)

// Stage is where a password reset currently stands.
type Stage int

const (
	AwaitingEmail Stage = iota
	ValidatingToken
	AwaitingNewPassword
)

func (s Stage) String() string {
	switch s {
	case AwaitingEmail:
		return "awaiting-email"
	case ValidatingToken:
		return "validating-token"
	case AwaitingNewPassword:
		return "awaiting-new-password"
	default:
		return "unknown"
	}
}

// ResetFlow walks a user through a password reset: request a link, open it
// (which validates the token), then choose a new password. A new password
// is only accepted after the server validated the token it is sent with.
type ResetFlow struct {
	auth AuthService

	mu    sync.Mutex
	stage Stage
	token string
}

// NewResetFlow creates a flow waiting for an email address.
func NewResetFlow(auth AuthService) *ResetFlow {
	return &ResetFlow{auth: auth}
}

// Stage returns the current stage.
func (f *ResetFlow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Token returns the token being reset, or "".
func (f *ResetFlow) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// RequestLink asks the server to email a reset link to email.
func (f *ResetFlow) RequestLink(ctx context.Context, email string) error {
	return f.auth.PasswordResetInit(ctx, email)
}

// Begin takes a token, or a reset link carrying one, and validates it. It
// reports whether the flow now accepts a new password.
func (f *ResetFlow) Begin(ctx context.Context, tokenOrLink string) bool {
	token := ExtractToken(tokenOrLink)

	f.mu.Lock()
	f.stage, f.token = ValidatingToken, token
	f.mu.Unlock()

	ok := f.auth.PasswordResetVerifyToken(ctx, token)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token != token || f.stage != ValidatingToken {
		// another Begin or a Reset overtook this one
		return false
	}
	if !ok {
		f.stage, f.token = AwaitingEmail, ""
		return false
	}
	f.stage = AwaitingNewPassword
	return true
}

// Confirm submits the new password for the validated token. The flow is
// finished afterwards whatever the outcome.
func (f *ResetFlow) Confirm(ctx context.Context, password, confirmation []byte) error {
	f.mu.Lock()
	if f.stage != AwaitingNewPassword {
		f.mu.Unlock()
		return ErrResetNotReady
	}
	token := f.token
	f.mu.Unlock()

	if !bytes.Equal(password, confirmation) {
		return ErrPasswordMismatch
	}

	ok := f.auth.PasswordResetConfirm(ctx, password, token)
	f.Reset()
	if !ok {
		return ErrResetFailed
	}
	return nil
}

// Reset discards the flow state.
func (f *ResetFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stage, f.token = AwaitingEmail, ""
}

// ExtractToken returns the token query parameter of a reset link, or s
// itself when it is a bare token.
func ExtractToken(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "?/=") {
		return s
	}
	q := s
	if i := strings.IndexByte(s, '?'); i >= 0 {
		q = s[i+1:]
	}
	if i := strings.IndexByte(q, '#'); i >= 0 {
		q = q[:i]
	}
	values, err := url.ParseQuery(q)
	if err != nil {
		return ""
	}
	return values.Get("token")
}
