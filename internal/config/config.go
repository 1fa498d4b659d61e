package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"witness-lab/internal/domain"
	"witness-lab/internal/market"
)

// Config centraliza la configuracion del laboratorio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// Fuente narrativa. Sin API key el sistema corre en modo fallback.
	LLMAPIKey         string `env:"LLM_API_KEY"`
	LLMBaseURL        string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel          string `env:"LLM_MODEL" envDefault:"gpt-5.1"`
	LLMTimeoutSeconds int    `env:"LLM_TIMEOUT_SECONDS" envDefault:"30"`

	// Semilla del generador; 0 usa el reloj.
	RandomSeed int64 `env:"RANDOM_SEED" envDefault:"0"`

	// Protocolo de consenso.
	IssuanceK float64 `env:"ISSUANCE_K" envDefault:"1.0"`
	WeightH   float64 `env:"WEIGHT_H" envDefault:"1.2"`
	WeightT   float64 `env:"WEIGHT_T" envDefault:"1.1"`
	WeightR   float64 `env:"WEIGHT_R" envDefault:"1.0"`
	WeightS   float64 `env:"WEIGHT_S" envDefault:"1.1"`
	WeightE   float64 `env:"WEIGHT_E" envDefault:"1.0"`
	WeightW   float64 `env:"WEIGHT_W" envDefault:"1.0"`

	// Simulacion de mercado.
	NumOrganizations        int     `env:"NUM_ORGANIZATIONS" envDefault:"5"`
	MinOrgSize              int     `env:"MIN_ORG_SIZE" envDefault:"10"`
	MaxOrgSize              int     `env:"MAX_ORG_SIZE" envDefault:"30"`
	Sectors                 string  `env:"SECTORS" envDefault:"dating_apps,social_networks,community_platforms"`
	SimulationDays          int     `env:"SIMULATION_DAYS" envDefault:"30"`
	InterventionsPerDay     float64 `env:"INTERVENTIONS_PER_DAY" envDefault:"2.0"`
	CommunicationDensityMin float64 `env:"COMMUNICATION_DENSITY_MIN" envDefault:"0.3"`
	CommunicationDensityMax float64 `env:"COMMUNICATION_DENSITY_MAX" envDefault:"0.8"`
	StressMin               float64 `env:"STRESS_MIN" envDefault:"0.2"`
	StressMax               float64 `env:"STRESS_MAX" envDefault:"0.6"`
	IndicatorVolatility     float64 `env:"INDICATOR_VOLATILITY" envDefault:"2.0"`
	IndicatorTrendMin       float64 `env:"INDICATOR_TREND_MIN" envDefault:"-1.0"`
	IndicatorTrendMax       float64 `env:"INDICATOR_TREND_MAX" envDefault:"1.0"`
	LoveMarketCorrelation   float64 `env:"LOVE_MARKET_CORRELATION" envDefault:"-0.3"`
	PredictionLagDays       int     `env:"PREDICTION_LAG_DAYS" envDefault:"7"`

	OutputDir string `env:"OUTPUT_DIR" envDefault:"lab/output"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.MinOrgSize < 1 || cfg.MaxOrgSize < cfg.MinOrgSize {
		return nil, fmt.Errorf("invalid org size range [%d,%d]", cfg.MinOrgSize, cfg.MaxOrgSize)
	}
	return &cfg, nil
}

// Weights arma el mapa de exponentes por eje para el protocolo.
func (c *Config) Weights() map[string]float64 {
	return map[string]float64{
		"H": c.WeightH,
		"T": c.WeightT,
		"R": c.WeightR,
		"S": c.WeightS,
		"E": c.WeightE,
		"W": c.WeightW,
	}
}

// MarketConfig convierte los knobs de entorno a la configuracion del
// motor de mercado.
func (c *Config) MarketConfig() (market.Config, error) {
	sectors, err := parseSectors(c.Sectors)
	if err != nil {
		return market.Config{}, err
	}

	return market.Config{
		NumOrganizations:        c.NumOrganizations,
		MinOrgSize:              c.MinOrgSize,
		MaxOrgSize:              c.MaxOrgSize,
		Sectors:                 sectors,
		SimulationDays:          c.SimulationDays,
		InterventionsPerDay:     c.InterventionsPerDay,
		CommunicationDensityMin: c.CommunicationDensityMin,
		CommunicationDensityMax: c.CommunicationDensityMax,
		StressMin:               c.StressMin,
		StressMax:               c.StressMax,
		IndicatorVolatility:     c.IndicatorVolatility,
		IndicatorTrendMin:       c.IndicatorTrendMin,
		IndicatorTrendMax:       c.IndicatorTrendMax,
		LoveMarketCorrelation:   c.LoveMarketCorrelation,
		PredictionLagDays:       c.PredictionLagDays,
		NarrativeTimeout:        time.Duration(c.LLMTimeoutSeconds) * time.Second,
	}, nil
}

var knownSectors = map[domain.Sector]bool{
	domain.SectorDatingApps:         true,
	domain.SectorSocialNetworks:     true,
	domain.SectorCommunityPlatforms: true,
	domain.SectorMentalHealth:       true,
	domain.SectorWorkplace:          true,
	domain.SectorEducation:          true,
}

func parseSectors(raw string) ([]domain.Sector, error) {
	var sectors []domain.Sector
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sector := domain.Sector(part)
		if !knownSectors[sector] {
			return nil, fmt.Errorf("unknown sector %q", part)
		}
		sectors = append(sectors, sector)
	}
	if len(sectors) == 0 {
		return nil, fmt.Errorf("no sectors configured")
	}
	return sectors, nil
}
