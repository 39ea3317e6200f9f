// Package api is the REST client for the Smart Farming backend.
//
// A single Client is shared by every domain service. Cross-cutting behaviour
// lives in http.RoundTripper middleware rather than in the client itself:
//
//   - BearerAuth reads the access token from a TokenSource on every request
//     and sends it as a bearer credential. No token, no header.
//   - Unauthorized calls a single injected hook whenever a response carries
//     HTTP 401. The response still flows back and the caller gets an *Error.
//   - RequestID, Instrument, and Logging add a request id, Prometheus
//     metrics, and debug logs.
//
// Tokens are never cached here. Concurrent requests racing a session purge
// each carry either the old token or none.
package api
