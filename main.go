package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordparty/server/internal/httpserver"
	"github.com/wordparty/server/internal/store"
	"github.com/wordparty/server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load answer list")
	}

	st, err := newStore(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up store")
	}

	srv := httpserver.New(st)
	port := getEnv("PORT", "8000")
	log.Info().Str("port", port).Msg("starting wordparty server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// newStore connects to MongoDB when MONGO_URI is set, and falls back
// to the in-memory store otherwise (local development only).
func newStore(ctx context.Context) (store.Store, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Warn().Msg("MONGO_URI not set, using in-memory store")
		return store.NewMemory(), nil
	}
	m, err := store.NewMongo(ctx, uri)
	if err != nil {
		return nil, err
	}
	if err := m.Setup(ctx); err != nil {
		return nil, err
	}
	log.Info().Msg("connected to mongodb")
	return m, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
