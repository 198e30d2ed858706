// Package client contains the furbaby REST API client used by the session
// layer.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the auth endpoints: register, login, logout, session, whoami, the
//     three password-reset steps and account deletion.
//  2. A concrete HTTP implementation (see HTTPClient) that resolves paths
//     against the configured base URL, sends every call credentialed through
//     a shared cookie jar, attaches the CSRF header derived from the
//     csrftoken cookie, and tags requests with an X-Request-ID.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures fall into three classes that callers match with errors.Is or
// Classify: ErrUnavailable (no response), ErrRejected / ErrUnauthorized
// (4xx, with the server's detail in *APIError), and ErrServer (5xx).
package client
