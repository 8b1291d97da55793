// Package repositories implements SQLite persistence for client-side state.
//
// The only state mfx keeps between runs is the session credential, stored one
// row per API origin so that switching between a local backend and the hosted
// one does not clobber either login.
//
// Key Implementations:
//   - [SessionRepository] : Credential persistence keyed by origin (scheme://host[:port])
package repositories
