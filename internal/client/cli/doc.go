// Package cli provides the interactive recovery-desk command-line client.
//
// It wires configuration, the local token store, the API wrapper and the
// services into a REPL. Typical flow: restore the persisted session, prompt
// for credentials when there is none, then execute user commands.
//
// Key features:
//   - Login / Logout, with the token kept in the local SQLite store
//   - Vehicle cases: list, detail, create, edit, timeline updates, documents
//   - Email triggers: paging, manual processing, check-new, auto-process
//   - Reference data and user administration (admins only)
//
// Every command runs in its own view.Scope; Ctrl-C cancels the command in
// flight and returns to the prompt. The REPL is started via App.Run(ctx),
// which blocks until the user exits.
package cli
