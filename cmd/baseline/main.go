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
	"witness-lab/internal/llm"
	"witness-lab/internal/scenario"
	"witness-lab/internal/sim"
	"witness-lab/internal/witness"
)

// poolSize cubre los nombres fijos que los escenarios base referencian
// (3 interveners, 3 beneficiaries, 3 validators).
const poolSize = 9

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var client llm.Client
	if cfg.LLMAPIKey == "" {
		logger.Warn("narrative source not configured, running in fallback mode")
		client = llm.NewDisabledClient("narrative source not configured")
	} else {
		timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
		client = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, timeout, logger)
	}

	fmt.Println("============================================================")
	fmt.Println("WITNESS CONSENSUS LAB - BASELINE SUITE")
	fmt.Println("============================================================")
	fmt.Printf("Baseline Scenarios: %d\n", len(scenario.Baseline))

	protocol := consensus.New(cfg.IssuanceK, cfg.Weights(), logger)
	pool := witness.NewPool("", poolSize, client, rng, time.Duration(cfg.LLMTimeoutSeconds)*time.Second, logger)
	engine := sim.NewEngine(protocol, pool, logger)

	summary, err := engine.RunBaselineSuite(ctx)
	if err != nil {
		logger.Fatal("baseline suite", zap.Error(err))
	}

	report := engine.Report()

	reportPath := filepath.Join(cfg.OutputDir, "simulation_report.json")
	if err := writeReport(reportPath, report); err != nil {
		logger.Fatal("write report", zap.Error(err))
	}

	fmt.Println("\n============================================================")
	fmt.Println("SUITE SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Total Scenarios: %d\n", summary.TotalScenarios)
	fmt.Printf("Confirmed: %d\n", summary.Confirmed)
	fmt.Printf("Validated: %d\n", summary.Validated)
	fmt.Printf("Rejected: %d\n", summary.Rejected)
	fmt.Printf("Total Minted: %.2f\n", summary.TotalMinted)
	fmt.Printf("Average per Intervention: %.2f\n", summary.AveragePerMint)

	imi := report.IMI
	fmt.Println("\n============================================================")
	fmt.Println("IMI METRICS")
	fmt.Println("============================================================")
	fmt.Printf("Total Minted: %.2f\n", imi.TotalMinted)
	fmt.Printf("Intervention Count: %d\n", imi.InterventionCount)
	fmt.Printf("Mint Intensity (per day): %.2f\n", imi.MintIntensity)
	fmt.Printf("Temporal Acceleration: %.4f\n", imi.TemporalAcceleration)
	fmt.Println("\nAverage Scores:")
	for _, axis := range []string{"H", "T", "R", "S", "E", "W"} {
		fmt.Printf("  %s: %.2f\n", axis, imi.AverageScores[axis])
	}

	fmt.Printf("\nReport saved to: %s\n", reportPath)
}

func writeReport(path string, report sim.LabReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
