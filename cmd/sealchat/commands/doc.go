// Package commands defines the sealchat CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init          Create the local identity (encryption and signing keys)
//   - fingerprint   Print the fingerprints of both public keys
//   - export-key    Print the armored public keys
//   - register      Create a relay account and publish the public keys
//   - login         Obtain a new session token
//   - chat          Open the chat with a peer by email
//   - chats         List your chats
//   - send          Encrypt, sign and send a message
//   - recv          Fetch, decrypt and verify a chat's messages
//   - watch         Stream new messages as they arrive
//   - delete        Delete a message you sent
//
// # Implementation
//
// The root command loads configuration through viper (config file, then
// SEALCHAT_* environment, then flags) and builds the dependency graph
// (stores, services, relay client) before any subcommand runs.
package commands
