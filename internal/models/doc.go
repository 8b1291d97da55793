// Package models defines the payloads exchanged with the MovieFinder backend.
//
// The types mirror the backend's JSON shapes and are passed through verbatim:
//   - [MovieProfile] : Movie metadata with genres, keywords, artwork paths and watch providers
//   - [Genre] : Genre id and name
//   - [GroupMatch] : A movie liked by members of a group, with the like count
//   - [GroupMatchQuery] : Aggregated matches for a group plus its member count
//   - [User] : The authenticated identity returned by /users/me
//   - [Group] : A group with its administrator and members
//   - [Token] : The bearer credential issued by /auth/token/
//   - [Session] : A persisted credential keyed by API origin
//
// Optional fields are pointers (or nil-able slices and maps) so that a null or
// absent value from the backend stays distinguishable from a zero value.
// There is no client-side identity beyond the ids the backend assigns.
package models
