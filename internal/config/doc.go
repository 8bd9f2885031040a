// Package config loads sealchat settings with viper.
//
// Values come from, in increasing priority: built-in defaults, config.yaml
// found in ".", "./config" or "$HOME/.sealchat", SEALCHAT_* environment
// variables (SEALCHAT_CLIENT_RELAY_URL for client.relay_url), and finally
// command-line flags bound by the binaries.
package config
