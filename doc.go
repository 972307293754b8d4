// Package authsvc implements a cookie-based authentication micro-service:
// user registration, credential verification, short-lived access and
// longer-lived refresh JWTs delivered as path-scoped HTTP-only cookies, and
// role-based authorization on top of the resolved identity.
//
// Token lifecycle:
//   - TokenService mints and validates signed claim sets. Every token carries
//     an explicit type claim (access or refresh) that the identity resolver
//     verifies against the cookie slot it was read from, so a refresh token
//     replayed in the access slot is rejected as malformed.
//   - CookieManager binds each token type to its cookie name and path scope.
//     The refresh cookie is only presented by clients on /auth/refresh.
//
// Authorization:
//   - Guard layers role and self-action policy over the resolver: admin-only
//     listing, self-or-admin updates, and the self-ban prohibition. Policy
//     failures short-circuit before any repository mutation.
//
// Persistence is a narrow Users repository over Bun; an optional Cache
// fronting it is best-effort only and never an authorization source.
package authsvc
