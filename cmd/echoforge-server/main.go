package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"echoforge/internal/app/core"
	"echoforge/internal/app/orchestrate"
	"echoforge/internal/app/server"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	origins := flag.String("origins", "http://localhost:3000", "comma-separated allowed CORS origins")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg := core.DefaultConfig()
	cfg.Logger = logger
	cfg.TorProxy = os.Getenv("TOR_PROXY")

	creds := core.Credentials{
		APIKey: os.Getenv("GOOGLE_API_KEY"),
		CXID:   os.Getenv("GOOGLE_CX_ID"),
	}

	orch, err := orchestrate.New(cfg, creds)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(orch, logger)
	handler := srv.Handler(strings.Split(*origins, ","))

	logger.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
