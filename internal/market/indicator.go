package market

import (
	"math/rand"
	"time"

	"witness-lab/internal/domain"
)

// historyCap acota ambas series historicas del indicador.
const historyCap = 1000

// Point es una muestra con marca de tiempo de una serie del indicador.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Indicator rastrea la salud sintetica de mercado de un sector. El valor
// evoluciona por tendencia + ruido gaussiano y se clampa siempre a
// [0,100]. Las dos series (valor y minteo diario) crecen una muestra por
// dia y se acotan descartando lo mas viejo.
type Indicator struct {
	Sector     domain.Sector
	Name       string
	Value      float64
	Trend      float64
	Volatility float64

	History     []Point
	LoveHistory []Point

	rng *rand.Rand
}

func NewIndicator(sector domain.Sector, value, trend, volatility float64, rng *rand.Rand) *Indicator {
	return &Indicator{
		Sector:     sector,
		Name:       sector.DisplayName() + " Health",
		Value:      value,
		Trend:      trend,
		Volatility: volatility,
		rng:        rng,
	}
}

// Update aplica la actualizacion diaria propia del indicador: tendencia,
// ruido escalado por volatilidad, clamp a [0,100] y registro en historia.
func (in *Indicator) Update(deltaDays float64) {
	in.Value += in.Trend * deltaDays
	in.Value += in.rng.NormFloat64() * in.Volatility

	if in.Value < 0 {
		in.Value = 0
	}
	if in.Value > 100 {
		in.Value = 100
	}

	in.History = appendBounded(in.History, Point{Timestamp: time.Now().UTC(), Value: in.Value})
}

// RecordLove agrega el minteo sectorial del dia a la serie paralela.
func (in *Indicator) RecordLove(amount float64) {
	in.LoveHistory = appendBounded(in.LoveHistory, Point{Timestamp: time.Now().UTC(), Value: amount})
}

func appendBounded(series []Point, p Point) []Point {
	series = append(series, p)
	if len(series) > historyCap {
		series = series[len(series)-historyCap:]
	}
	return series
}
