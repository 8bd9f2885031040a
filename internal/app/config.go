package app

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"sealchat/internal/config"
	"sealchat/internal/crypto"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home         string        // config directory, e.g. $HOME/.sealchat
	RelayURL     string        // relay base URL, e.g. http://127.0.0.1:8080
	Timeout      time.Duration // per request; zero means no timeout
	HybridBodies bool          // seal bodies with the hybrid scheme
	HTTP         *http.Client  // optional; replaces the relay client's transport
	Provider     crypto.Provider
	Logger       *zap.Logger
}

// FromConfig maps loaded configuration onto wiring options.
func FromConfig(c *config.Config, log *zap.Logger) Config {
	return Config{
		Home:         c.Client.Home,
		RelayURL:     c.Client.RelayURL,
		Timeout:      c.Client.Timeout,
		HybridBodies: c.Crypto.HybridBodies,
		Logger:       log,
	}
}
