// Package router maps view paths to views and guards navigation on session presence.
//
// # Route Table
//
// A [Table] is built once from a list of [Route] descriptors and never changes
// afterwards. Paths match exactly; there are no parameters or wildcards. A
// route either names a [View] or redirects to another path.
//
// # Guard
//
// Every transition is checked against the session credential:
//
//	no credential, route requires auth  -> login view
//	credential, route is an entry view  -> landing view
//	otherwise                           -> proceed
//
// [NewTable] rejects tables whose login route requires auth or whose landing
// route is an entry view, so a redirect target always passes the guard on the
// next hop. [MaxRedirects] still bounds every resolution and reports
// [ErrRedirectLoop] instead of spinning on a bad redirect chain.
//
// # Navigator
//
// [Navigator] owns the current route for a host (the TUI, or a one-shot CLI
// check). It reads presence from a [session.Store] on each call and never
// writes to it. Hosts hand [Navigator.ForceLogin] to the API client's
// session-expired subscription.
package router
