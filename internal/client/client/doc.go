// Package client contains the client-side transport and local storage
// bootstrap for blogsync.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface) of the remote blog service:
//     auth, post reads, claps, comments, drafts, publishing and the admin roster.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the bearer
//     credential carried by the request context and maps responses to the
//     error taxonomy of package common.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring a SQLite
//     database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap common.ErrNetwork, non-2xx responses are
// *common.StatusError (matching common.ErrServer or common.ErrClient) and
// malformed bodies wrap common.ErrDecode.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
