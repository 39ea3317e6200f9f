// Package session owns the authenticated-session state of the client.
//
// A Controller holds the current user and access token, mirrors them into
// the persisted session store, and is the only path by which they change.
// Readers take a Snapshot or Subscribe to changes; mutating operations
// (Initialize, Login, Signup, Logout, RefreshUser) are serialized.
package session
