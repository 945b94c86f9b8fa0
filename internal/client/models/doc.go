// Package models defines the typed schemas exchanged with the recovery
// backend. JSON tags carry the backend's field names; Go names are English.
//
// Every input type has a Validate method covering the required-field checks
// the client performs before calling the backend. Referential integrity is
// enforced by the backend only.
package models
