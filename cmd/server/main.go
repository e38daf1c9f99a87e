// Package main is the entry point for the DevConnect backend.
//
// main stays minimal: load configuration, build the logger, ensure the
// data directory exists, then hand everything to internal/server. All
// actual behaviour lives in the internal packages so it stays testable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load(logger)

	// Without the shared signing secret every protected route would reject
	// all callers, so refuse to start rather than run half-broken.
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
