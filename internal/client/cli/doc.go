// Package cli provides the interactive blogsync command-line client.
//
// It wires configuration, the local session database, the HTTP API client,
// the resource cache with its fetch coordinator and mutation controller, and
// an interactive REPL. Typical flow: restore the previous session, then
// browse posts, clap and comment, and manage drafts.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
