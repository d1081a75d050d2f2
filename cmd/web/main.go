package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"mafia/internal/config"
	"mafia/internal/web"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	cfg, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := web.NewServer(web.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.ShutdownTimeout,
		SessionTTL:      cfg.SessionTTL,
	})
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	log.Printf("mafia-web %s starting on %s", buildVersion, cfg.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal(err)
	}
}
