package main

import (
	"go.uber.org/zap"

	"go-cobit-maturity-admin/internal/config"
	httpapi "go-cobit-maturity-admin/internal/http"
	"go-cobit-maturity-admin/internal/logger"
)

var version = "dev"

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	srv, err := httpapi.NewServer(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize server", zap.Error(err))
	}

	log.Info("starting admin server", zap.String("version", version), zap.String("addr", cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
