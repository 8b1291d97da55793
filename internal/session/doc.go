// Package session holds the credential shared by the API client and the router.
//
// A [Store] is the single source of truth for "is there a credential". The API
// client reads it to attach the Authorization header and clears it when the
// backend rejects the session. The router reads it to decide whether a
// protected view may be shown. Neither side caches the value.
//
// Implementations:
//   - [MemoryStore] : Process-local credential, used by tests and one-shot commands
//   - [PersistentStore] : Credential stored in SQLite, keyed by API origin
//
// [Inspect] decodes a JWT credential for display only. Claims are never
// verified and must not be used for authorization decisions.
package session
