// Package api is the single HTTP entry point to the recovery backend.
//
// # Overview
//
// Client.Request resolves an endpoint against the base URL fixed at
// construction, appends a cache-busting query parameter, merges the default
// headers (no-cache directives, JSON content type, bearer token from the
// configured TokenSource) with the caller's headers, and sends the request
// with a cookie jar. Caller headers win over defaults.
//
// Typed endpoint methods (Login, Vehicles, Triggers, ...) decode the body into
// the schemas of package models and reject unexpected shapes with
// ErrMalformedResponse.
//
// # Error Handling
//
// Non-2xx responses become *Error carrying the status code and a non-empty
// message taken from the body's "message" (or "error") field, the raw text
// of a non-JSON body, or a generic "HTTP <code>: <status>" fallback. *Error
// matches ErrUnauthorized, ErrForbidden, ErrNotFound, ErrValidation and
// ErrServer with errors.Is. Transport failures wrap ErrUnavailable; a
// cancelled context is returned as the context's error.
package api
