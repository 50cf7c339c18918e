// Package session owns the client's single live session: the bearer
// credential issued at login and the identity decoded from it.
//
// The session survives restarts through a Persistence that writes the
// credential and the identity record together. Other components only read
// the credential; login, logout and restore are the only writers.
package session
