// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// Every view is a route from the navigation table. The [Model] never switches
// views on its own: it asks the router.Navigator, which applies static
// redirects and the session guard, and renders whatever route comes back:
//
//   - login, register : text-input forms; a successful submit re-navigates to
//     /login and the guard forwards to the landing view
//   - home : dashboard loaded concurrently with errgroup
//   - swipe : one random movie at a time, liked or disliked with ←/→
//   - groups : group list, enter shows the group's matches
//   - favorites : favourite list, d removes the selection
//   - settings : enter logs out
//
// The host forwards session-expired events from the API client as
// [SessionExpiredMsg]; the model then forces the login view. An API error
// wrapping shared.ErrSessionExpired has the same effect.
//
// Tab and shift+tab cycle through routes that show the header.
package ui
