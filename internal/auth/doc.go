// Package auth is the access-control core: the Issuer mints signed session
// tokens for valid credentials, the Verifier turns a bearer token back into a
// subject, and the Gate decides whether that subject may act on a resource.
//
// Sessions are stateless HS256 JWTs valid for SessionTTL. There is no
// revocation list; logging out only removes the cookie on the client.
package auth
