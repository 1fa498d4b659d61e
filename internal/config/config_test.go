package config

import (
	"testing"
	"time"

	"witness-lab/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.IssuanceK != 1.0 {
		t.Fatalf("expected default issuance k 1.0, got %v", cfg.IssuanceK)
	}

	weights := cfg.Weights()
	if weights["H"] != 1.2 || weights["T"] != 1.1 || weights["R"] != 1.0 {
		t.Fatalf("unexpected default weights: %v", weights)
	}

	mc, err := cfg.MarketConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mc.Sectors) != 3 {
		t.Fatalf("expected 3 default sectors, got %d", len(mc.Sectors))
	}
	if mc.NarrativeTimeout != 30*time.Second {
		t.Fatalf("expected 30s narrative timeout, got %v", mc.NarrativeTimeout)
	}
	if mc.LoveMarketCorrelation != -0.3 {
		t.Fatalf("expected default correlation -0.3, got %v", mc.LoveMarketCorrelation)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("WEIGHT_H", "2.5")
	t.Setenv("SIMULATION_DAYS", "7")
	t.Setenv("SECTORS", "workplace, education")
	t.Setenv("LLM_TIMEOUT_SECONDS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Weights()["H"] != 2.5 {
		t.Fatalf("expected overridden weight, got %v", cfg.Weights()["H"])
	}

	mc, err := cfg.MarketConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mc.SimulationDays != 7 {
		t.Fatalf("expected 7 days, got %d", mc.SimulationDays)
	}
	if len(mc.Sectors) != 2 || mc.Sectors[0] != domain.SectorWorkplace || mc.Sectors[1] != domain.SectorEducation {
		t.Fatalf("unexpected sectors: %v", mc.Sectors)
	}
	if mc.NarrativeTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", mc.NarrativeTimeout)
	}
}

func TestLoadConfig_RejectsInvalidOrgSizes(t *testing.T) {
	t.Setenv("MIN_ORG_SIZE", "0")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for zero minimum size")
	}

	t.Setenv("MIN_ORG_SIZE", "20")
	t.Setenv("MAX_ORG_SIZE", "10")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for inverted size range")
	}
}

func TestMarketConfig_RejectsUnknownSectors(t *testing.T) {
	t.Setenv("SECTORS", "dating_apps,stock_exchange")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cfg.MarketConfig(); err == nil {
		t.Fatalf("expected error for unknown sector")
	}

	t.Setenv("SECTORS", " , ,")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cfg.MarketConfig(); err == nil {
		t.Fatalf("expected error for empty sector list")
	}
}
