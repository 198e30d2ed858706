package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/furbaby/internal/client/client"
	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/services"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
	"github.com/dmitrijs2005/furbaby/internal/common"
)

// getSimpleText and getPassword point at the interactive input helpers and
// are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// errNotAvailable is returned by commands whose view the guard refused.
var errNotAvailable = errors.New("view not available")

// enter navigates to path and reports whether it is now shown. A
// public-only view refused to a signed-in user says so.
func (a *App) enter(path string) bool {
	v := a.nav.Navigate(path)
	if v.Path == router.Normalize(path) && v.Verdict == router.Allow {
		return true
	}
	if router.IsPublicOnly(path) {
		a.println("Already signed in. Use 'logout' first.")
	}
	return false
}

// Register prompts for email, password and roles on the sign-up view and
// creates the account. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	if !a.enter(router.PathSignUp) {
		return errNotAvailable
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rolesText, err := getSimpleText(a.reader, "Roles (owner, sitter)", a.out)
	if err != nil {
		return err
	}
	var roles []session.Role
	for _, r := range common.SplitList(rolesText) {
		roles = append(roles, session.Role(r))
	}

	return a.auth.Register(ctx, email, password, roles)
}

// Login prompts for credentials on the login view and signs in. The
// password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if !a.enter(router.PathLogin) {
		return errNotAvailable
	}

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.auth.Login(ctx, email, password)
}

func (a *App) Logout(ctx context.Context) error {
	return a.auth.Logout(ctx)
}

func (a *App) WhoAmI(ctx context.Context) error {
	return a.auth.WhoAmI(ctx)
}

// Check re-validates the session on demand and reports the outcome.
func (a *App) Check(ctx context.Context) error {
	err := a.auth.SessionCheck(ctx, services.CheckOptions{AnnounceSuccess: true, RedirectOnFailure: true})
	if err != nil && !errors.Is(err, services.ErrSuperseded) {
		a.notifier.Notify(notify.Notification{Title: "Not signed in", Body: client.Detail(err), Kind: notify.Error})
	}
	return err
}

// DeleteAccount asks for confirmation, deletes the account and returns to
// the landing view. Local state tied to the account is purged.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type DELETE to permanently remove your account", a.out)
	if err != nil {
		return err
	}
	if answer != "DELETE" {
		a.println("Cancelled.")
		return nil
	}

	err = a.auth.DeleteAccount(ctx)
	if errors.Is(err, services.ErrSuperseded) {
		return err
	}
	if err != nil {
		a.notifier.Notify(notify.Notification{Title: "Could not delete account", Body: client.Detail(err), Kind: notify.Error})
		return err
	}

	a.nav.Forget()
	if a.db != nil {
		if err := metadata.Purge(ctx, a.db, metadata.KeyCookies, metadata.KeyLastPath); err != nil {
			a.logger.Warn(ctx, "purging local account data failed", "error", err)
		}
	}
	a.notifier.Notify(notify.Notification{Title: "Account deleted", Body: "Your account has been removed.", Kind: notify.Success})
	a.nav.Navigate(router.PathLanding)
	return nil
}
