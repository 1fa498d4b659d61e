package market

import (
	"time"

	"witness-lab/internal/domain"
)

// Config reune los parametros de la simulacion de mercado.
type Config struct {
	NumOrganizations int
	MinOrgSize       int
	MaxOrgSize       int
	Sectors          []domain.Sector

	SimulationDays      int
	InterventionsPerDay float64 // promedio por organizacion por dia

	CommunicationDensityMin float64
	CommunicationDensityMax float64
	StressMin               float64
	StressMax               float64

	IndicatorVolatility float64
	IndicatorTrendMin   float64 // por dia
	IndicatorTrendMax   float64

	// Negativo: mas minteo implica mercado en declive.
	LoveMarketCorrelation float64
	// El minteo predice movimientos de mercado N dias adelante.
	PredictionLagDays int

	NarrativeTimeout time.Duration
}

// DefaultConfig replica la configuracion base del laboratorio.
func DefaultConfig() Config {
	return Config{
		NumOrganizations: 5,
		MinOrgSize:       10,
		MaxOrgSize:       50,
		Sectors: []domain.Sector{
			domain.SectorDatingApps,
			domain.SectorSocialNetworks,
			domain.SectorCommunityPlatforms,
		},
		SimulationDays:          30,
		InterventionsPerDay:     2.0,
		CommunicationDensityMin: 0.3,
		CommunicationDensityMax: 0.8,
		StressMin:               0.2,
		StressMax:               0.6,
		IndicatorVolatility:     2.0,
		IndicatorTrendMin:       -1.0,
		IndicatorTrendMax:       1.0,
		LoveMarketCorrelation:   -0.3,
		PredictionLagDays:       7,
		NarrativeTimeout:        30 * time.Second,
	}
}
