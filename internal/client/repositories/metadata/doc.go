// Package metadata persists the client's small pieces of local state in the
// sqlite metadata table: the API cookies that keep a session alive across
// restarts and the last protected path the user asked for.
package metadata
