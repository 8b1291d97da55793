// Package tasks runs long account operations with progress reporting.
//
// # Export
//
// [Exporter.Export] writes the caller's favourites and the matches of every group
// they belong to into a directory:
//
//  1. Favourites are fetched and written first. A failure here aborts the export.
//  2. Groups are listed, then a pool of workers fetches each group's matches
//     behind a shared rate limiter and writes one file per group.
//  3. A manifest summarising every file and failure is written last.
//
// A failing group does not stop the others; it is recorded in the manifest.
//
// # Progress Reporting
//
// Operations take an optional channel of [ProgressUpdate]. Sends never block:
// when the consumer is slow, updates are dropped.
//
// # Sources
//
// The exporter depends on the narrow [GroupSource] and [FavoriteSource]
// interfaces, which services.GroupService and services.MovieService satisfy.
package tasks
