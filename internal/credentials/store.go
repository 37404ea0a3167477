// Package credentials persists the single opaque auth token across
// restarts. The token is read at startup for silent re-authentication
// and cleared on logout.
package credentials

// Store defines the interface for token persistence
type Store interface {
	// Get returns the stored token, or "" when none is stored
	Get() (string, error)

	// Set persists the token, replacing any previous one
	Set(token string) error

	// Clear removes the stored token; clearing an empty store is not
	// an error
	Clear() error
}
