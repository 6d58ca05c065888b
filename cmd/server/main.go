package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/sozercan/tribunal/internal/analyzer"
	"github.com/sozercan/tribunal/internal/config"
	"github.com/sozercan/tribunal/internal/extract"
	"github.com/sozercan/tribunal/internal/llm"
	"github.com/sozercan/tribunal/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(newLogger(cfg.Log))

	llmProvider, err := llm.New(context.Background(), &cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}
	if c, ok := llmProvider.(io.Closer); ok {
		defer c.Close()
	}

	analyzer := analyzer.New(llmProvider, cfg.LLM.Timeout, cfg.LLM.Model)

	srv := server.New(*cfg, analyzer, extract.New())
	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
	)
	if err := srv.Run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
