// Package authz provides authorization collaborators for the dispatch
// engine.
//
// The engine itself only knows the dispatch.Authorizer contract: given
// a bound request and a required role, decide yes or no. This package
// ships the two decision sources the router binary supports:
//
//   - StaticAuthorizer: role sets per principal from static
//     configuration, with the principal read from a request header.
//   - JWTAuthorizer: roles extracted from a verified Bearer token
//     claim.
//
// Both deny by default: unknown principals, missing or unverifiable
// tokens and absent role claims all fail closed.
package authz
