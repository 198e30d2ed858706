// Package services contains the application services of the furbaby
// client.
//
// AuthService runs the authentication operations (sign-up, login, logout,
// session checks, password reset, account deletion) against the REST
// client and writes their outcome into the session store. Operations that
// change the session are ordered by a sequencer: only the most recently
// started one may update the store, so a slow response can never overwrite
// a newer one.
//
// ResetFlow drives the three-step password reset on top of AuthService.
package services
