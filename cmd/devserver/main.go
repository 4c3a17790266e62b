package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dbreno/mugiwaradb/internal/config"
	"github.com/dbreno/mugiwaradb/internal/devserver"
	"github.com/dbreno/mugiwaradb/internal/logger"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.InitLogger()

	data := devserver.NewDataStore()
	if err := data.Seed(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo data")
	}

	api := devserver.NewServer(data, cfg.JWTSecret, cfg.UploadDir, log)
	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: devserver.NewRouter(api, cfg.JWTSecret, log),
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("Dev store server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
