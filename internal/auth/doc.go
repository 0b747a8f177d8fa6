// ABOUTME: Package documentation for dashboard session authentication
// ABOUTME: Tokens, user store, login, and the session middleware

/*
Package auth implements session authentication for the dashboard API.

Sessions are HS256-signed JWTs carrying the user id in the "sub" claim.
JWTVerifier both issues and verifies them; the signing secret comes from
configuration.

Users live in the same SQLite database as the agent records; construct
SQLiteUserStore with the handle the agent store exposes. Login verifies an
email/password pair with bcrypt and returns ErrInvalidCredentials for
unknown emails and wrong passwords alike, burning a hash comparison either
way so the two cases are not distinguishable by timing.

RequireSession is the HTTP middleware guarding the API: it extracts the
bearer token, verifies it, resolves the user (retrying transient store
failures via Backoff), and attaches an Identity to the request context for
handlers to read with FromContext.
*/
package auth
