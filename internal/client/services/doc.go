// Package services contains the per-screen data operations of the recovery
// client. Services call the backend through narrow interfaces satisfied by
// *api.Client, hold the locally displayed state where a screen needs it, and
// invalidate the session when the backend answers 401.
package services
