// Package account registers the local identity with a relay and keeps the
// resulting session token.
//
// Register publishes both armored public keys alongside the user's email,
// display name and password. Login exchanges credentials for a fresh token.
// Either way the profile is stored per relay URL so later commands can
// authenticate without asking again.
package account
