package app

import (
	"go.uber.org/zap"

	"sealchat/internal/config"
)

// App is what CLI commands run against: the wired services plus the logger
// that must be flushed on exit.
type App struct {
	*Wire
	Config *config.Config
	Log    *zap.Logger
}

// New wires an App from loaded configuration.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	w, err := NewWire(FromConfig(cfg, log))
	if err != nil {
		return nil, err
	}
	return &App{Wire: w, Config: cfg, Log: log}, nil
}

// Close flushes buffered log entries.
func (a *App) Close() {
	_ = a.Log.Sync()
}
