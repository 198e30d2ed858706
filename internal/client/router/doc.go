// Package router maps client paths to access classes, decides whether a
// path may be shown for a session status, and keeps the current view in
// step with session transitions.
package router
