package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"witness-lab/internal/config"
	"witness-lab/internal/consensus"
	"witness-lab/internal/domain"
	"witness-lab/internal/llm"
	"witness-lab/internal/market"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	marketCfg, err := cfg.MarketConfig()
	if err != nil {
		logger.Fatal("market config", zap.Error(err))
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	client := narrativeClient(cfg, logger)
	protocol := consensus.New(cfg.IssuanceK, cfg.Weights(), logger)
	engine := market.NewEngine(marketCfg, protocol, client, rng, logger)

	summary := engine.Run(ctx)

	reportPath := filepath.Join(cfg.OutputDir, "market_simulation_report.json")
	if err := writeReport(reportPath, summary); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}

	printSummary(summary)
	fmt.Printf("\nReport saved to: %s\n", reportPath)
}

// narrativeClient arma el cliente de la fuente narrativa; sin API key la
// simulacion corre igual en modo fallback deterministico.
func narrativeClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	if cfg.LLMAPIKey == "" {
		logger.Warn("narrative source not configured, running in fallback mode")
		return llm.NewDisabledClient("narrative source not configured")
	}
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	return llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, timeout, logger)
}

func writeReport(path string, summary domain.SimulationSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printSummary(summary domain.SimulationSummary) {
	fmt.Println("============================================================")
	fmt.Println("MARKET SIMULATION RESULTS")
	fmt.Println("============================================================")

	fmt.Printf("\nTotal Minted: %.2f\n", summary.TotalMinted)
	fmt.Printf("Total Interventions: %d\n", summary.TotalInterventions)

	fmt.Println("\n--- Sector Minted Distribution ---")
	for sector, minted := range summary.SectorMinted {
		fmt.Printf("  %s: %.2f\n", sector, minted)
	}

	fmt.Println("\n--- Market Indicators ---")
	for sector, ind := range summary.Indicators {
		fmt.Printf("\n  %s:\n", sector)
		fmt.Printf("    Current: %.2f\n", ind.Current)
		fmt.Printf("    Change: %+.2f\n", ind.Change)
		fmt.Printf("    Trend: %+.4f\n", ind.Trend)
	}

	fmt.Println("\n--- Predictions ---")
	for sector, pred := range summary.Predictions {
		fmt.Printf("\n  %s:\n", sector)
		fmt.Printf("    Love Change: %+.2f\n", pred.LoveChange)
		fmt.Printf("    Market Change: %+.2f\n", pred.MarketChange)
		fmt.Printf("    Prediction Correct: %t\n", pred.PredictionCorrect)
		fmt.Printf("    Correlation: %.4f\n", pred.Correlation)
	}
}
