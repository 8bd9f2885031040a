// Package app wires application dependencies for the CLI.
//
// It builds the concrete file stores, the relay client and the high-level
// services from configuration, exposing them via the Wire struct for commands
// to use.
package app
