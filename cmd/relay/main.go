package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sealchat/internal/config"
	"sealchat/internal/logging"
	"sealchat/internal/server"
	"sealchat/internal/server/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "config file (default ./config.yaml)")
	addr := flag.String("addr", "", "listen address, overrides relay.addr")
	flag.Parse()

	v, err := config.LoadConfig(*configFile)
	if err != nil {
		fatal(err)
	}
	if *addr != "" {
		v.Set("relay.addr", *addr)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		fatal(err)
	}
	log, err := logging.New(cfg.Logger)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Relay, log); err != nil {
		log.Error("relay stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Relay, log *zap.Logger) error {
	st, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	metrics := server.NewMetrics()
	hub := server.NewHub(metrics, log)
	relay := server.NewRelay(st, hub, metrics, log, server.Options{MaxMessageBytes: cfg.MaxMessageBytes})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(relay, hub, metrics, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("relay listening", zap.String("addr", cfg.Addr), zap.String("database", cfg.Database))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info("shutting down")
	// Websocket handlers only return once their subscriptions close.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func fatal(err error) {
	_, _ = os.Stderr.WriteString("relay: " + err.Error() + "\n")
	os.Exit(1)
}
