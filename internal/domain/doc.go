// Package domain re-exports the sealchat data model and service contracts.
//
// Plain types (tagged keys, identities, sealed messages, relay requests) live
// in the types subpackage and contracts in interfaces; this package aliases
// both so callers import a single path.
package domain
