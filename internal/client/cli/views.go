package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/furbaby/internal/client/router"
	"github.com/dmitrijs2005/furbaby/internal/client/session"
)

var titles = map[string]string{
	router.PathLanding:        "Welcome to furbaby",
	router.PathLogin:          "Log in",
	router.PathSignUp:         "Sign up",
	router.PathForgotPassword: "Forgot password",
	router.PathHome:           "Home",
	router.PathProfile:        "Profile",
	router.PathSettings:       "Settings",
	router.PathLocations:      "Locations",
	router.PathPets:           "Pets",
	router.PathJobs:           "Jobs",
	router.PathNotifications:  "Notifications",
}

var hints = map[string]string{
	router.PathLanding:        "Find a sitter for your pet, or sit for others. Try 'signup' or 'login'.",
	router.PathLogin:          "Type 'login' to sign in or 'forgot' if you lost your password.",
	router.PathSignUp:         "Type 'signup' to create an account.",
	router.PathForgotPassword: "Type 'forgot' to get a reset link, or 'reset <link>' to use one.",
}

// renderView describes what a view shows for the given session.
func renderView(v router.View, st session.State) string {
	switch v.Verdict {
	case router.Loading:
		return fmt.Sprintf("[%s] Checking your session...", v.Path)
	case router.NotFound:
		return fmt.Sprintf("[%s] Page not found. Type 'help' for the list of views.", v.Path)
	}

	line := fmt.Sprintf("[%s] %s", v.Path, titles[v.Path])
	if router.IsProtected(v.Path) && st.IsAuthenticated() {
		return line + " | " + st.User.DisplayName() + roleBadge(*st.User)
	}
	if h := hints[v.Path]; h != "" {
		return line + ". " + h
	}
	return line
}

// roleBadge lists the known roles u holds, e.g. " (owner, sitter)".
func roleBadge(u session.User) string {
	var names []string
	for _, r := range session.KnownRoles() {
		if u.HasRole(r) {
			names = append(names, string(r))
		}
	}
	if len(names) == 0 {
		return ""
	}
	return " (" + strings.Join(names, ", ") + ")"
}

func (a *App) showView(v router.View) {
	a.println(renderView(v, a.store.State()))
}

// Open navigates to path and shows the resulting view.
func (a *App) Open(path string) {
	prev := a.nav.Current()
	v := a.nav.Navigate(path)
	if v == prev {
		// unchanged views are not announced by the navigator
		a.showView(v)
	}
}

// Status prints the session, connectivity and current view.
func (a *App) Status() {
	st := a.store.State()
	if st.IsAuthenticated() {
		a.println("Session: signed in as " + st.User.DisplayName() + " <" + st.User.Email + ">" + roleBadge(*st.User))
	} else {
		a.println("Session: " + st.Status.String())
	}
	if m := a.Mode(); m != "" {
		a.println("API: " + string(m))
	}
	a.showView(a.nav.Current())
}
