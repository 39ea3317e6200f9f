// Package domain holds the records exchanged with the Smart Farming REST
// API, the closed role enumeration derived from a user's role string, and
// the client-side form rules applied before any request is sent.
//
// Remote entities (crops, orders, profiles) are owned by the server and are
// carried verbatim; the client never derives or validates their contents.
package domain
