// Package services is the single point of outbound HTTP communication with the MovieFinder backend.
//
// # Client
//
// [NewClient] builds one [http.Client] whose transport is a chain of
// interceptors, applied in order:
//   - bearer: attaches "Authorization: Bearer <token>" when the [session.Store] holds a credential
//   - logging: tags the request with an X-Request-ID and logs it at debug level
//   - expiry: on a 401 from /auth/token or /users/me, clears the credential and publishes [SessionExpired]
//   - rate limit: paces requests when requests_per_second is configured
//
// A 401 from any other endpoint is a permission error for that action. It is
// returned to the caller as an [APIError] and leaves the session alone.
//
// # Resource Wrappers
//
// [AuthService], [GroupService] and [MovieService] wrap one backend operation
// per method. Wrappers that need the caller's user id resolve it with
// GET /users/me first and only then issue the scoped request. The two calls
// are sequential and not atomic; errors name the step that failed.
//
// # Session Expiry
//
// The client never navigates. Hosts subscribe with [Client.OnSessionExpired]
// and move their UI to the login view.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which matches the shared sentinels with [errors.Is]:
//   - [shared.ErrUnauthorized] : status 401
//   - [shared.ErrSessionExpired] : status 401 from an identity endpoint
//   - [shared.ErrForbidden] : status 403
//   - [shared.ErrNotFound] : status 404
//   - [shared.ErrServiceUnavailable] : status 5xx
//   - [shared.ErrAPIRequest] : every API error, and transport failures
package services
