package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/furbaby/internal/client/client"
	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
	"github.com/dmitrijs2005/furbaby/internal/logging"
	"github.com/dmitrijs2005/furbaby/internal/validation"
)

// SessionStore is the write side of the session store.
type SessionStore interface {
	State() session.State
	SetChecking()
	SetAuthenticated(u *session.User) error
	SetUnauthenticated()
}

// Navigator moves the client to a path. Forget drops the remembered
// protected path so a fresh login lands on the home view.
type Navigator interface {
	Navigate(path string) router.View
	Forget()
}

// Credentials is the local copy of the server session (the cookie jar).
type Credentials interface {
	Clear(ctx context.Context) error
}

// CheckOptions tunes SessionCheck.
type CheckOptions struct {
	// AnnounceSuccess shows a notification when the session is confirmed.
	AnnounceSuccess bool
	// RedirectOnFailure navigates to the login view when the check fails.
	RedirectOnFailure bool
}

// AuthService defines the authentication operations of the client.
//
// Every operation reports its outcome to the user through the notifier
// (DeleteAccount excepted: its caller decides what to show) and returns an
// explicit error. Login, Logout, SessionCheck, WhoAmI and DeleteAccount are
// sequenced; a result that lost the race returns ErrSuperseded and leaves
// the store alone.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, roles []session.Role) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	SessionCheck(ctx context.Context, opts CheckOptions) error
	WhoAmI(ctx context.Context) error
	PasswordResetInit(ctx context.Context, email string) error
	PasswordResetVerifyToken(ctx context.Context, token string) bool
	PasswordResetConfirm(ctx context.Context, password []byte, token string) bool
	DeleteAccount(ctx context.Context) error
	Ping(ctx context.Context) error
	// InFlight reports whether a sequenced operation is running.
	InFlight() bool
}

// Deps are the collaborators of AuthService. Credentials and Logger are
// optional.
type Deps struct {
	Client      client.Client
	Store       SessionStore
	Navigator   Navigator
	Notifier    notify.Notifier
	Credentials Credentials
	Logger      logging.Logger
}

type authService struct {
	client      client.Client
	store       SessionStore
	nav         Navigator
	notifier    notify.Notifier
	credentials Credentials
	logger      logging.Logger

	seq sequencer
}

// NewAuthService constructs an AuthService from d.
func NewAuthService(d Deps) AuthService {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{
		client:      d.Client,
		store:       d.Store,
		nav:         d.Navigator,
		notifier:    d.Notifier,
		credentials: d.Credentials,
		logger:      logger,
	}
}

func (a *authService) notify(kind notify.Kind, title, body string) {
	a.notifier.Notify(notify.Notification{Title: title, Body: body, Kind: kind})
}

func (a *authService) fail(ctx context.Context, op, title string, err error) {
	a.logger.Info(ctx, "auth operation failed", "op", op, "kind", client.Classify(err).String(), "error", err)
	a.notify(notify.Error, title, client.Detail(err))
}

func (a *authService) invalid(ctx context.Context, op, title, reason string) error {
	err := fmt.Errorf("%w: %s", ErrInvalidInput, reason)
	a.logger.Debug(ctx, "input rejected", "op", op, "reason", reason)
	a.notify(notify.Error, title, reason)
	return err
}

// check validates v and reports the first problem like invalid does.
func (a *authService) check(ctx context.Context, op, title string, v any) error {
	if err := validation.Struct(v); err != nil {
		return a.invalid(ctx, op, title, err.Error())
	}
	return nil
}

// settleFailed signs the client out when a failed explicit operation
// replaced a check that had already moved the store to Checking.
func (a *authService) settleFailed(ctx context.Context, op string, t *ticket) {
	if a.seq.settle(t, a.store.SetUnauthenticated) {
		a.logger.Debug(ctx, "interrupted session check settled", "op", op)
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password []byte `json:"password" validate:"required,min=1"`
}

type resetInitInput struct {
	Email string `json:"email" validate:"required,email"`
}

type newPasswordInput struct {
	Password []byte `json:"password" validate:"required,min=1"`
}

func (a *authService) clearCredentials(ctx context.Context, op string) {
	if a.credentials == nil {
		return
	}
	if err := a.credentials.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "clearing stored credentials failed", "op", op, "error", err)
	}
}

// Register creates an account. On success the user is sent to the login
// view; the session is not touched either way.
func (a *authService) Register(ctx context.Context, email string, password []byte, roles []session.Role) error {
	const op, title = "register", "Sign up failed"

	req := client.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: string(password),
		UserType: roles,
	}
	if err := a.check(ctx, op, title, &req); err != nil {
		return err
	}

	if err := a.client.Register(ctx, req); err != nil {
		a.fail(ctx, op, title, err)
		return err
	}

	a.logger.Info(ctx, "account created", "op", op)
	a.notify(notify.Success, "Account created", "You can now log in.")
	a.nav.Navigate(router.PathLogin)
	return nil
}

// Login authenticates with email and password and stores the returned
// profile. When the response carries no profile it is fetched from the
// session endpoint, and failing that a profile holding only the email is
// stored. A successful login always lands on the home view; a protected
// path remembered before the login is dropped.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	const op, title = "login", "Login failed"

	in := loginInput{Email: strings.TrimSpace(email), Password: password}
	if err := a.check(ctx, op, title, &in); err != nil {
		return err
	}
	email = in.Email

	opCtx, t, err := a.seq.begin(ctx, explicit)
	if err != nil {
		return err
	}
	defer a.seq.end(t)

	user, err := a.client.Login(opCtx, email, password)
	if err != nil {
		a.settleFailed(ctx, op, t)
		a.fail(ctx, op, title, err)
		return err
	}
	if user == nil {
		user, err = a.client.Session(opCtx)
		if err != nil || user == nil {
			a.logger.Debug(ctx, "profile unavailable after login", "op", op, "error", err)
			user = &session.User{Email: email}
		}
	}

	var setErr error
	if !a.seq.commit(t, func() {
		a.nav.Forget()
		setErr = a.store.SetAuthenticated(user)
	}) {
		a.logger.Info(ctx, "login result discarded", "op", op)
		return ErrSuperseded
	}
	if setErr != nil {
		return setErr
	}

	a.logger.Info(ctx, "logged in", "op", op)
	a.notify(notify.Success, "Logged in", "Welcome, "+user.DisplayName()+".")
	a.nav.Navigate(router.PathHome)
	return nil
}

// Logout ends the server session and clears the local one.
func (a *authService) Logout(ctx context.Context) error {
	const op, title = "logout", "Logout failed"

	opCtx, t, err := a.seq.begin(ctx, explicit)
	if err != nil {
		return err
	}
	defer a.seq.end(t)

	if err := a.client.Logout(opCtx); err != nil {
		a.settleFailed(ctx, op, t)
		a.fail(ctx, op, title, err)
		return err
	}
	if !a.seq.commit(t, a.store.SetUnauthenticated) {
		a.logger.Info(ctx, "logout result discarded", "op", op)
		return ErrSuperseded
	}
	a.clearCredentials(ctx, op)

	a.logger.Info(ctx, "logged out", "op", op)
	a.notify(notify.Success, "Logged out", "See you soon.")
	a.nav.Navigate(router.PathLogin)
	return nil
}

// SessionCheck asks the server whether the stored session is still valid.
// Unless the store already holds an authenticated user it moves to Checking
// first. Any failure leaves the store Unauthenticated.
func (a *authService) SessionCheck(ctx context.Context, opts CheckOptions) error {
	const op = "session_check"

	opCtx, t, err := a.seq.begin(ctx, passive)
	if err != nil {
		a.logger.Debug(ctx, "session check skipped", "op", op)
		return err
	}
	defer a.seq.end(t)

	wasAuthenticated := a.store.State().Status == session.Authenticated
	if !wasAuthenticated {
		a.seq.markChecking(t, a.store.SetChecking)
	}

	user, err := a.client.Session(opCtx)
	if err == nil && user == nil {
		var email string
		email, err = a.client.WhoAmI(opCtx)
		switch {
		case err != nil:
		case email == "":
			err = errNoUser
		default:
			user = &session.User{Email: email}
		}
	}

	// The caller gave up, which says nothing about an authenticated
	// session. A Checking store still has to settle, so that case falls
	// through and fails closed.
	if err != nil && ctx.Err() != nil && wasAuthenticated {
		return ctx.Err()
	}

	if err != nil {
		if !a.seq.commit(t, a.store.SetUnauthenticated) {
			return ErrSuperseded
		}
		a.logger.Info(ctx, "session check failed", "op", op, "kind", client.Classify(err).String(), "error", err)
		if client.Classify(err) == client.KindRejected {
			a.clearCredentials(ctx, op)
		}
		if opts.RedirectOnFailure {
			a.nav.Navigate(router.PathLogin)
		}
		return err
	}

	var setErr error
	if !a.seq.commit(t, func() { setErr = a.store.SetAuthenticated(user) }) {
		return ErrSuperseded
	}
	if setErr != nil {
		return setErr
	}

	a.logger.Debug(ctx, "session confirmed", "op", op)
	if opts.AnnounceSuccess {
		a.notify(notify.Success, "Session active", "Signed in as "+user.DisplayName()+".")
	}
	return nil
}

// WhoAmI asks the server who the session belongs to. It does not move the
// store to Checking; a failure signs the client out.
func (a *authService) WhoAmI(ctx context.Context) error {
	const op = "whoami"

	opCtx, t, err := a.seq.begin(ctx, passive)
	if err != nil {
		return err
	}
	defer a.seq.end(t)

	email, err := a.client.WhoAmI(opCtx)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		if !a.seq.commit(t, a.store.SetUnauthenticated) {
			return ErrSuperseded
		}
		a.fail(ctx, op, "Not authenticated", err)
		a.nav.Navigate(router.PathLogin)
		return err
	}
	if !a.seq.current(t) {
		return ErrSuperseded
	}

	body := "The server recognizes this session."
	if email != "" {
		body = "Signed in as " + email + "."
	}
	a.notify(notify.Success, "Authenticated", body)
	return nil
}

// PasswordResetInit asks the server to email a reset link.
func (a *authService) PasswordResetInit(ctx context.Context, email string) error {
	const op, title = "password_reset_init", "Password reset failed"

	in := resetInitInput{Email: strings.TrimSpace(email)}
	if err := a.check(ctx, op, title, &in); err != nil {
		return err
	}
	email = in.Email
	if err := a.client.PasswordResetInit(ctx, email); err != nil {
		a.fail(ctx, op, title, err)
		return err
	}

	a.notify(notify.Success, "Check your email", "If an account exists for "+email+", a reset link is on its way.")
	a.nav.Navigate(router.PathLanding)
	return nil
}

// PasswordResetVerifyToken reports whether the server accepts token. A
// rejected token sends the user back to the login view.
func (a *authService) PasswordResetVerifyToken(ctx context.Context, token string) bool {
	const op, title = "password_reset_verify", "Invalid reset link"

	var err error
	if token == "" {
		err = fmt.Errorf("%w: reset token is empty", ErrInvalidInput)
	} else {
		err = a.client.PasswordResetValidateToken(ctx, token)
	}
	if err != nil {
		a.fail(ctx, op, title, err)
		a.nav.Navigate(router.PathLogin)
		return false
	}

	a.notify(notify.Success, "Reset link verified", "Choose a new password.")
	return true
}

// PasswordResetConfirm sets a new password for a validated token. On
// failure the user is sent back to request a new link.
func (a *authService) PasswordResetConfirm(ctx context.Context, password []byte, token string) bool {
	const op, title = "password_reset_confirm", "Password reset failed"

	if err := a.check(ctx, op, title, &newPasswordInput{Password: password}); err != nil {
		return false
	}
	if err := a.client.PasswordResetConfirm(ctx, password, token); err != nil {
		a.fail(ctx, op, title, err)
		a.nav.Navigate(router.PathForgotPassword)
		return false
	}

	a.notify(notify.Success, "Password updated", "Log in with your new password.")
	return true
}

// DeleteAccount deletes the signed-in account and signs the client out.
// It does not notify or navigate; the caller does both.
func (a *authService) DeleteAccount(ctx context.Context) error {
	const op = "delete_account"

	opCtx, t, err := a.seq.begin(ctx, explicit)
	if err != nil {
		return err
	}
	defer a.seq.end(t)

	if err := a.client.DeleteUser(opCtx); err != nil {
		a.settleFailed(ctx, op, t)
		a.logger.Info(ctx, "account deletion failed", "op", op, "error", err)
		return err
	}
	if !a.seq.commit(t, a.store.SetUnauthenticated) {
		return ErrSuperseded
	}
	a.clearCredentials(ctx, op)
	a.logger.Info(ctx, "account deleted", "op", op)
	return nil
}

// Ping checks that the API answers.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) InFlight() bool {
	return a.seq.busy()
}
