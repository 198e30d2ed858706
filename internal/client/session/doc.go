// Package session holds the client's single source of truth for
// authentication: the Store and the State it broadcasts.
//
// The Store is created once by the application and injected into every
// component that reads or writes it. Only the completion handlers of auth
// operations mutate it; routers and views subscribe and read.
//
// Invariant: State.User is non-nil if and only if State.Status is
// Authenticated. The mutators (SetChecking, SetAuthenticated,
// SetUnauthenticated) are the only way to change state and each preserves it.
package session
