package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"passtnicht/internal/config"
	"passtnicht/internal/room"
	"passtnicht/internal/server"
	"passtnicht/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer store.Close()

	mgr := room.NewManager(store, cfg.TargetScore)

	// Sweep abandoned rooms every minute, remove after 24 hours
	go mgr.CleanupLoop(1*time.Minute, 24*time.Hour)

	srv := server.New(mgr, store)

	log.Info().Str("addr", cfg.Addr).Int("targetScore", cfg.TargetScore).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
