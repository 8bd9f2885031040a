// Package logging builds the zap logger shared by the relay and the CLI.
package logging
