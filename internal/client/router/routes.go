package router

import "strings"

// Public-only paths: reachable only while signed out.
const (
	PathLanding = "/"
	PathLogin   = "/login"
	PathSignUp  = "/signup"
)

// PathForgotPassword is public in every status so reset links always open.
const PathForgotPassword = "/forgot-password"

// Protected paths.
const (
	PathHome          = "/home"
	PathProfile       = "/profile"
	PathSettings      = "/settings"
	PathLocations     = "/locations"
	PathPets          = "/pets"
	PathJobs          = "/jobs"
	PathNotifications = "/notifications"
)

// Access is how a path relates to the session.
type Access int

const (
	Unknown Access = iota
	PublicOnly
	Public
	Protected
)

var routes = map[string]Access{
	PathLanding:        PublicOnly,
	PathLogin:          PublicOnly,
	PathSignUp:         PublicOnly,
	PathForgotPassword: Public,
	PathHome:           Protected,
	PathProfile:        Protected,
	PathSettings:       Protected,
	PathLocations:      Protected,
	PathPets:           Protected,
	PathJobs:           Protected,
	PathNotifications:  Protected,
}

// ProtectedPaths lists the protected views in menu order.
var ProtectedPaths = []string{
	PathHome, PathProfile, PathSettings, PathLocations, PathPets, PathJobs, PathNotifications,
}

// Normalize strips the query and fragment, trims a trailing slash and
// turns an empty path into the landing path.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return PathLanding
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathLanding
		}
	}
	return path
}

// Classify returns the access class of path.
func Classify(path string) Access {
	return routes[Normalize(path)]
}

// IsProtected reports whether path needs an authenticated session.
func IsProtected(path string) bool {
	return Classify(path) == Protected
}

// IsPublicOnly reports whether path is meant for signed-out users only.
func IsPublicOnly(path string) bool {
	return Classify(path) == PublicOnly
}
