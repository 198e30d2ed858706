// Package cli provides the interactive furbaby command-line client.
//
// It wires configuration, the local sqlite store, the cookie jar, the REST
// client and the session services into a REPL. The current "page" is a
// path shown in the prompt; commands such as login, logout or open move
// between paths, and the route guard decides what each path renders.
//
// App.Run blocks until the user exits. Next to the REPL it runs a watcher
// that tracks API reachability and re-checks the session periodically.
package cli
