package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/furbaby/internal/client/notify"
	"github.com/dmitrijs2005/furbaby/internal/client/services"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
)

const pingTimeout = 3 * time.Second

// StartSessionWatcher runs until ctx is done. On every tick it pings the
// API; when the API answers and the user is signed in it re-validates the
// session, unless another session operation is already running.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.watchTick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) watchTick(ctx context.Context) {
	if !a.refreshMode(ctx) {
		return
	}
	if a.store.Status() != session.Authenticated || a.auth.InFlight() {
		return
	}

	err := a.auth.SessionCheck(ctx, services.CheckOptions{RedirectOnFailure: true})
	if err == nil || errors.Is(err, services.ErrSuperseded) || ctx.Err() != nil {
		return
	}
	a.notifier.Notify(notify.Notification{
		Title: "Session expired",
		Body:  "Log in again to continue.",
		Kind:  notify.Error,
	})
}

// refreshMode pings the API and records whether it answered.
func (a *App) refreshMode(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return false
	}
	a.setMode(ModeOnline)
	return true
}
