package consensus

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"witness-lab/internal/domain"
)

// ErrInterventionNotFound se devuelve cuando una operacion referencia un
// id de intervencion desconocido. Se propaga al llamador, no se traga.
var ErrInterventionNotFound = errors.New("intervention not found")

// RewardCap limita el monto por intervencion para evitar valores extremos.
const RewardCap = 1000.0

// Porcentajes fijos de distribucion de la recompensa.
const (
	shareIntervener  = 0.60
	shareBeneficiary = 0.25
	shareValidator   = 0.10
	shareTreasury    = 0.05
)

// DefaultWeights devuelve los exponentes por eje de la formula de minteo.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"H": 1.2,
		"T": 1.1,
		"R": 1.0,
		"S": 1.1,
		"E": 1.0,
		"W": 1.0,
	}
}

// Protocol es la maquina de estados autoritativa del consenso de testigos
// y la calculadora de minteo. Posee los catalogos de intervenciones,
// validaciones y mints; el mutex los protege cuando varias organizaciones
// procesan rondas en paralelo.
type Protocol struct {
	k       float64
	weights map[string]float64
	logger  *zap.Logger
	now     func() time.Time

	mu            sync.Mutex
	interventions map[string]*domain.Intervention
	validations   map[string]domain.ValidationResult
	mints         []domain.Mint
}

// New construye el protocolo. weights puede ser nil o parcial: los ejes
// ausentes toman los exponentes por defecto.
func New(k float64, weights map[string]float64, logger *zap.Logger) *Protocol {
	merged := DefaultWeights()
	for axis, w := range weights {
		merged[axis] = w
	}
	return &Protocol{
		k:             k,
		weights:       merged,
		logger:        logger,
		now:           time.Now,
		interventions: make(map[string]*domain.Intervention),
		validations:   make(map[string]domain.ValidationResult),
	}
}

// RegisterIntervention agrega una intervencion al catalogo en estado submitted.
func (p *Protocol) RegisterIntervention(iv domain.Intervention) {
	if iv.Status == "" {
		iv.Status = domain.StatusSubmitted
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interventions[iv.ID] = &iv
}

// Intervention devuelve una copia de la intervencion, si existe.
func (p *Protocol) Intervention(id string) (domain.Intervention, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	iv, ok := p.interventions[id]
	if !ok {
		return domain.Intervention{}, false
	}
	return *iv, true
}

// MarkConfirmed avanza una intervencion a confirmed tras el paso del
// beneficiario.
func (p *Protocol) MarkConfirmed(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	iv, ok := p.interventions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInterventionNotFound, id)
	}
	advanceStatus(iv, domain.StatusConfirmed)
	return nil
}

// CalculateReward calcula el monto a mintear:
//
//	reward = k * (H^wH * T^wT * R^wR * S^wS * E^wE * W^wW)
//
// Cada score se clampa a [1,10]; los ejes ausentes valen el minimo 1.
// El resultado se capa en RewardCap y se redondea a 2 decimales.
// Funcion pura: mismas entradas, misma salida.
func (p *Protocol) CalculateReward(scores domain.ScoreMap, confirmed bool) float64 {
	if !confirmed {
		return 0
	}

	product := 1.0
	for _, axis := range domain.ScoreAxes {
		score := 1.0
		if v, ok := scores[axis]; ok {
			score = v
		}
		score = clampScore(score)
		product *= math.Pow(score, p.weights[axis])
	}

	amount := p.k * product
	if amount > RewardCap {
		amount = RewardCap
	}
	return round2(amount)
}

// DistributeReward reparte el monto 60/25/10/5 entre las partes. Cada
// pata se redondea a 2 decimales por separado, por lo que la suma puede
// desviarse unas centesimas del total.
func (p *Protocol) DistributeReward(amount float64) map[string]float64 {
	return map[string]float64{
		"intervener":  round2(amount * shareIntervener),
		"beneficiary": round2(amount * shareBeneficiary),
		"validator":   round2(amount * shareValidator),
		"treasury":    round2(amount * shareTreasury),
	}
}

// ProcessValidation procesa el resultado confirm+validate de una
// intervencion: si ambos pasos pasaron, mintea; si no, la rechaza y no
// crea Mint. No hay guardia de dedup: debe llamarse a lo sumo una vez
// por intervencion.
func (p *Protocol) ProcessValidation(id string, result domain.ValidationResult) (*domain.Mint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	iv, ok := p.interventions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInterventionNotFound, id)
	}

	p.validations[id] = result

	if !result.Confirmed || !result.Validated {
		advanceStatus(iv, domain.StatusRejected)
		if p.logger != nil {
			p.logger.Debug("intervention rejected",
				zap.String("intervention_id", id),
				zap.Bool("confirmed", result.Confirmed),
				zap.Bool("validated", result.Validated),
			)
		}
		return nil, nil
	}

	amount := p.CalculateReward(result.Scores, true)
	ts := result.Timestamp
	if ts.IsZero() {
		ts = p.now()
	}

	mint := domain.Mint{
		InterventionID: id,
		Amount:         amount,
		Scores:         result.Scores.Clone(),
		Timestamp:      ts,
		Distribution:   p.DistributeReward(amount),
	}

	p.mints = append(p.mints, mint)
	advanceStatus(iv, domain.StatusValidated)

	if p.logger != nil {
		p.logger.Debug("reward minted", zap.String("intervention_id", id), zap.Float64("amount", amount))
	}

	return &mint, nil
}

// IMIMetrics agrega la actividad de minteo dentro de la ventana movil.
// La aceleracion temporal compara la tasa por segundo de la primera
// mitad cronologica contra la segunda, sobre TODOS los mints.
func (p *Protocol) IMIMetrics(windowDays int) domain.IMIMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()

	zero := domain.IMIMetrics{
		AverageScores: map[string]float64{},
		WindowDays:    windowDays,
	}
	if len(p.mints) == 0 {
		return zero
	}

	cutoff := p.now().Add(-time.Duration(windowDays) * 24 * time.Hour)
	var recent []domain.Mint
	for _, m := range p.mints {
		if !m.Timestamp.Before(cutoff) {
			recent = append(recent, m)
		}
	}
	if len(recent) == 0 {
		return zero
	}

	total := 0.0
	for _, m := range recent {
		total += m.Amount
	}

	avgScores := make(map[string]float64, len(domain.ScoreAxes))
	for _, axis := range domain.ScoreAxes {
		sum := 0.0
		for _, m := range recent {
			sum += m.Scores[axis]
		}
		avgScores[axis] = round2(sum / float64(len(recent)))
	}

	return domain.IMIMetrics{
		TotalMinted:          round2(total),
		InterventionCount:    len(recent),
		AverageScores:        avgScores,
		MintIntensity:        round2(total / float64(windowDays)),
		TemporalAcceleration: p.temporalAcceleration(),
		WindowDays:           windowDays,
	}
}

// temporalAcceleration asume p.mu tomado.
func (p *Protocol) temporalAcceleration() float64 {
	if len(p.mints) < 2 {
		return 0
	}

	sorted := make([]domain.Mint, len(p.mints))
	copy(sorted, p.mints)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	span := sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp).Seconds()
	if span <= 0 {
		return 0
	}

	half := len(sorted) / 2
	firstTotal := 0.0
	for _, m := range sorted[:half] {
		firstTotal += m.Amount
	}
	secondTotal := 0.0
	for _, m := range sorted[half:] {
		secondTotal += m.Amount
	}

	firstRate := firstTotal / (span / 2)
	secondRate := secondTotal / (span / 2)
	if firstRate <= 0 {
		return 0
	}
	return round4((secondRate - firstRate) / firstRate)
}

// ParticipantStats agrega intervenciones y ganancias de un participante.
// Pura agregacion, no cambia estado.
func (p *Protocol) ParticipantStats(id string) domain.ParticipantStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := domain.ParticipantStats{ParticipantID: id}
	for _, iv := range p.interventions {
		if iv.Intervener == id {
			stats.Submitted++
		}
		if iv.Beneficiary == id {
			stats.Received++
		}
	}
	for _, m := range p.mints {
		iv, ok := p.interventions[m.InterventionID]
		if !ok || iv.Intervener != id {
			continue
		}
		stats.Validated++
		stats.TotalEarned += m.Distribution["intervener"]
	}
	stats.TotalEarned = round2(stats.TotalEarned)
	return stats
}

// Counts devuelve los tamanios de los catalogos para reportes.
func (p *Protocol) Counts() (interventions, validations, mints int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.interventions), len(p.validations), len(p.mints)
}

// advanceStatus aplica una transicion monotona hacia adelante. Los
// estados terminales (validated, rejected) nunca se abandonan.
func advanceStatus(iv *domain.Intervention, next domain.InterventionStatus) {
	if isTerminal(iv.Status) {
		return
	}
	if statusRank(next) >= statusRank(iv.Status) {
		iv.Status = next
	}
}

func isTerminal(s domain.InterventionStatus) bool {
	return s == domain.StatusValidated || s == domain.StatusRejected
}

func statusRank(s domain.InterventionStatus) int {
	switch s {
	case domain.StatusSubmitted:
		return 0
	case domain.StatusConfirmed:
		return 1
	case domain.StatusValidated, domain.StatusRejected:
		return 2
	default:
		return 0
	}
}

func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
