// Package accountsdk provides a typed Go client for the accounts service.
//
// The package serves two audiences: external callers use SDKClient and
// Session to drive the HTTP API, and the service's own handlers reuse the
// request/response types so the wire shapes are defined exactly once.
//
// Unauthenticated operations (Register, Authenticate, the health probes) live on
// SDKClient. Authenticate returns a Session that carries the issued bearer
// token and exposes the owner-only operations (GetUser, UpdateUser,
// DeleteUser).
package accountsdk
