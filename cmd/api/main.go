package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"witness-lab/internal/config"
	"witness-lab/internal/httpapi"
	"witness-lab/internal/llm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	marketCfg, err := cfg.MarketConfig()
	if err != nil {
		logger.Fatal("market config", zap.Error(err))
	}

	var client llm.Client
	if cfg.LLMAPIKey == "" {
		logger.Warn("narrative source not configured, simulations will run in fallback mode")
		client = llm.NewDisabledClient("narrative source not configured")
	} else {
		timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
		client = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, timeout, logger)
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	handler := httpapi.NewHandler(logger, marketCfg, cfg.IssuanceK, cfg.Weights(), client, seed)
	router := httpapi.NewRouter(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
