// Package apitest is an in-memory stand-in for the recovery backend, used by
// tests of the client packages. It serves the same routes, envelopes and
// error bodies under /api and issues HS256 tokens with a user_id claim.
package apitest
