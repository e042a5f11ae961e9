package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"smschat/internal/app"
	"smschat/internal/config"
	"smschat/internal/render"
	"smschat/internal/server"
	"smschat/internal/util"
	"smschat/pkg/ai"
	"smschat/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := store.NewGormStore(cfg.DatabasePath)
	if err != nil {
		util.Fatal("failed to init store", "err", err)
	}

	generator := ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Model)

	appCore, err := app.New(app.Config{
		Store:     dataStore,
		Generator: generator,
	})
	if err != nil {
		util.Fatal("failed to init app", "err", err)
	}

	httpServer := server.New(server.Config{
		App:      appCore,
		Renderer: render.New(),
	})

	addr := ":" + cfg.Port
	// WriteTimeout stays 0: a reply is only sent after the completion call
	// resolves, and no timeout is imposed on that call.
	srv := &http.Server{
		Addr:        addr,
		Handler:     httpServer.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	slog.Info("chat server listening", "addr", addr, "db", cfg.DatabasePath, "model", cfg.Model)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
