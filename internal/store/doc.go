// Package store is the persisted session store: the access token, the
// refresh token, and the serialized current user, kept as three opaque
// blobs in a kv.Backend under a fixed namespace prefix.
//
// # Failure semantics
//
//   - Reads never fail. A backend error or a corrupt blob is logged and
//     reported as absence, which callers treat as logged out.
//   - Writes and removals return wrapped errors to the caller. Nothing is
//     retried.
//   - ClearAll removes all three keys in a single backend MultiRemove.
package store
