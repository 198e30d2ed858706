package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/services"
	"github.com/dmitrijs2005/furbaby/internal/common"
)

const maxPasswordAttempts = 3

// Forgot asks for an email address and requests a reset link for it.
func (a *App) Forgot(ctx context.Context) error {
	a.nav.Navigate(router.PathForgotPassword)
	a.reset.Reset()

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	return a.reset.RequestLink(ctx, email)
}

// Reset opens a reset link (or bare token), and once the server accepted
// the token asks for the new password.
func (a *App) Reset(ctx context.Context, tokenOrLink string) error {
	target := router.PathForgotPassword
	if strings.HasPrefix(tokenOrLink, router.PathForgotPassword) {
		target = tokenOrLink
	}
	a.nav.Navigate(target)

	if !a.reset.Begin(ctx, tokenOrLink) {
		return errNotAvailable
	}
	defer a.reset.Reset()

	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		err := a.confirmNewPassword(ctx)
		if !errors.Is(err, services.ErrPasswordMismatch) {
			if err == nil {
				a.nav.Navigate(router.PathLogin)
			}
			return err
		}
		a.notifier.Notify(notify.Notification{Title: "Passwords do not match", Body: "Try again.", Kind: notify.Error})
	}
	return services.ErrPasswordMismatch
}

func (a *App) confirmNewPassword(ctx context.Context) error {
	password, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	return a.reset.Confirm(ctx, password, confirmation)
}
