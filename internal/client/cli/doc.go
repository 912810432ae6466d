// Package cli provides the interactive Talk command-line client.
//
// It wires configuration, the local account store, the Talk API client and
// an interactive REPL. On start the previously current account is restored,
// a connectivity watcher flips between online and offline, and a purge
// watcher removes accounts that were logged out.
//
// Key features:
//   - Login / Logout / Switch between several accounts
//   - Room list with search highlighting, last activity and avatars
//   - Room operations: join, leave, rename, public/private, password, delete
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, runREPL and host for details.
package cli
