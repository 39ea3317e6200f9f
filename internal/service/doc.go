// Package service maps each Smart Farming REST resource to a small service
// type. Every method issues exactly one request through an api.Doer and
// returns the decoded body, or the transport/HTTP error unchanged.
//
// Services hold no state beyond the Doer; they do not cache, batch, retry,
// or paginate.
package service
