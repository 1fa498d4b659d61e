package domain

// Estructuras del reporte de simulacion. Los nombres y el anidamiento JSON
// son estables: la herramienta externa de analisis indexa por sector y por
// indice de dia.

// DayInterventionRecord registra una intervencion minteada durante un dia.
type DayInterventionRecord struct {
	Org            string  `json:"org"`
	InterventionID string  `json:"intervention_id"`
	Minted         float64 `json:"minted"`
}

// OrgDayResult resume la actividad diaria de una organizacion.
type OrgDayResult struct {
	Interventions int     `json:"interventions"`
	Minted        float64 `json:"minted"`
}

// IndicatorDaySnapshot captura el estado de un indicador al cierre del dia.
type IndicatorDaySnapshot struct {
	Value       float64 `json:"value"`
	Trend       float64 `json:"trend"`
	MintedToday float64 `json:"minted_today"`
}

// DayResult es el resultado completo de un dia simulado.
type DayResult struct {
	Day           int                             `json:"day"`
	Interventions []DayInterventionRecord         `json:"interventions"`
	Minted        float64                         `json:"minted"`
	Indicators    map[string]IndicatorDaySnapshot `json:"indicators"`
	Organizations map[string]OrgDayResult         `json:"organizations"`
}

// OrganizationSummary resume una organizacion al final de la corrida.
type OrganizationSummary struct {
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Size          int     `json:"size"`
	TotalMinted   float64 `json:"total_minted"`
	Interventions int     `json:"interventions"`
}

// IndicatorSummary resume la trayectoria de un indicador.
type IndicatorSummary struct {
	Current float64 `json:"current"`
	Initial float64 `json:"initial"`
	Change  float64 `json:"change"`
	Trend   float64 `json:"trend"`
}

// SectorPrediction evalua la hipotesis de correlacion para un sector.
type SectorPrediction struct {
	EarlyLove         float64 `json:"early_love"`
	LateLove          float64 `json:"late_love"`
	LoveChange        float64 `json:"love_change"`
	MarketChange      float64 `json:"market_change"`
	PredictionCorrect bool    `json:"prediction_correct"`
	Correlation       float64 `json:"correlation"`
}

// SimulationSummary es el artefacto de reporte final de una corrida.
type SimulationSummary struct {
	TotalDays          int                            `json:"total_days"`
	TotalMinted        float64                        `json:"total_minted"`
	TotalInterventions int                            `json:"total_interventions"`
	Organizations      map[string]OrganizationSummary `json:"organizations"`
	SectorMinted       map[string]float64             `json:"sector_minted"`
	Indicators         map[string]IndicatorSummary    `json:"indicators"`
	Predictions        map[string]SectorPrediction    `json:"predictions"`
	DailyHistory       []DayResult                    `json:"daily_history"`
}

// IMIMetrics agrega la actividad de minteo en una ventana movil.
type IMIMetrics struct {
	TotalMinted          float64            `json:"total_minted"`
	InterventionCount    int                `json:"intervention_count"`
	AverageScores        map[string]float64 `json:"average_scores"`
	MintIntensity        float64            `json:"mint_intensity"`
	TemporalAcceleration float64            `json:"temporal_acceleration"`
	WindowDays           int                `json:"time_window_days"`
}

// ParticipantStats agrega la actividad de un participante individual.
type ParticipantStats struct {
	ParticipantID string  `json:"participant_id"`
	Submitted     int     `json:"interventions_submitted"`
	Received      int     `json:"interventions_received"`
	TotalEarned   float64 `json:"total_earned"`
	Validated     int     `json:"validated_interventions"`
}
