// Package cli provides the interactive DriveBuddy command-line client.
//
// It wires configuration, the local record store and the authentication
// gate into a small REPL. A background watcher follows the gate's state
// and logs session transitions.
//
// Commands:
//   - register, login, logout
//   - passwd (change password), whoami
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
