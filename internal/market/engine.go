package market

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"witness-lab/internal/consensus"
	"witness-lab/internal/domain"
	"witness-lab/internal/llm"
	"witness-lab/internal/witness"
)

// Engine conduce las rondas de consenso a escala: cada dia simulado
// genera intervenciones por organizacion, retroalimenta el volumen
// minteado por sector sobre su indicador y al final evalua la hipotesis
// de correlacion con rezago.
type Engine struct {
	cfg      Config
	protocol *consensus.Protocol
	client   llm.Client
	rng      *rand.Rand
	logger   *zap.Logger

	organizations []*Organization
	indicators    map[domain.Sector]*Indicator
	history       []domain.DayResult
	currentDay    int
	roundFailures int
}

func NewEngine(cfg Config, protocol *consensus.Protocol, client llm.Client, rng *rand.Rand, logger *zap.Logger) *Engine {
	e := &Engine{
		cfg:        cfg,
		protocol:   protocol,
		client:     client,
		rng:        rng,
		logger:     logger,
		indicators: make(map[domain.Sector]*Indicator),
	}
	e.initOrganizations()
	e.initIndicators()
	return e
}

// initOrganizations reparte los sectores round-robin y luego baraja, de
// modo que cada sector pedido reciba al menos una organizacion cuando
// hay organizaciones suficientes.
func (e *Engine) initOrganizations() {
	if len(e.cfg.Sectors) == 0 {
		return
	}

	assigned := make([]domain.Sector, 0, e.cfg.NumOrganizations)
	for len(assigned) < e.cfg.NumOrganizations {
		assigned = append(assigned, e.cfg.Sectors...)
	}
	assigned = assigned[:e.cfg.NumOrganizations]
	e.rng.Shuffle(len(assigned), func(i, j int) {
		assigned[i], assigned[j] = assigned[j], assigned[i]
	})

	for i := 0; i < e.cfg.NumOrganizations; i++ {
		size := e.cfg.MinOrgSize
		if e.cfg.MaxOrgSize > e.cfg.MinOrgSize {
			size += e.rng.Intn(e.cfg.MaxOrgSize - e.cfg.MinOrgSize + 1)
		}

		sector := assigned[i]
		id := fmt.Sprintf("org_%d", i+1)

		e.organizations = append(e.organizations, &Organization{
			ID:                   id,
			Name:                 fmt.Sprintf("%s Organization %d", sector.DisplayName(), i+1),
			Sector:               sector,
			Size:                 size,
			Witnesses:            witness.NewPool(id, size, e.client, e.rng, e.cfg.NarrativeTimeout, e.logger),
			CommunicationDensity: e.uniform(e.cfg.CommunicationDensityMin, e.cfg.CommunicationDensityMax),
			InternalStress:       e.uniform(e.cfg.StressMin, e.cfg.StressMax),
			InterventionRate:     e.cfg.InterventionsPerDay / float64(size),
		})
	}
}

// initIndicators crea un indicador solo para los sectores que terminaron
// con alguna organizacion. Arrancan saludables.
func (e *Engine) initIndicators() {
	withOrgs := make(map[domain.Sector]bool)
	for _, org := range e.organizations {
		withOrgs[org.Sector] = true
	}

	for _, sector := range e.cfg.Sectors {
		if !withOrgs[sector] {
			continue
		}
		e.indicators[sector] = NewIndicator(
			sector,
			e.uniform(60, 90),
			e.uniform(e.cfg.IndicatorTrendMin, e.cfg.IndicatorTrendMax),
			e.cfg.IndicatorVolatility,
			e.rng,
		)
	}
}

// Organizations expone las organizaciones creadas (para reportes y tests).
func (e *Engine) Organizations() []*Organization {
	return e.organizations
}

// Indicator devuelve el indicador de un sector, si existe.
func (e *Engine) Indicator(sector domain.Sector) (*Indicator, bool) {
	in, ok := e.indicators[sector]
	return in, ok
}

// SimulateDay ejecuta un dia completo: rondas por organizacion, agregado
// por sector y retroalimentacion sobre los indicadores. Cualquier fallo
// dentro de una ronda se cuenta y se descarta; el dia siempre se completa.
func (e *Engine) SimulateDay(ctx context.Context) domain.DayResult {
	day := domain.DayResult{
		Day:           e.currentDay,
		Interventions: []domain.DayInterventionRecord{},
		Indicators:    make(map[string]domain.IndicatorDaySnapshot),
		Organizations: make(map[string]domain.OrgDayResult),
	}

	for _, org := range e.organizations {
		count := int(math.Round(
			org.InterventionRate * float64(org.Size) * (1 + org.InternalStress) * e.uniform(0.5, 1.5),
		))

		orgMinted := 0.0
		for i := 0; i < count; i++ {
			mint, err := e.runRound(ctx, org)
			if err != nil {
				e.roundFailures++
				if e.logger != nil {
					e.logger.Debug("intervention round discarded", zap.String("org", org.ID), zap.Error(err))
				}
				continue
			}
			if mint == nil {
				continue
			}
			orgMinted += mint.Amount
			day.Interventions = append(day.Interventions, domain.DayInterventionRecord{
				Org:            org.ID,
				InterventionID: mint.InterventionID,
				Minted:         mint.Amount,
			})
		}

		day.Organizations[org.ID] = domain.OrgDayResult{Interventions: count, Minted: orgMinted}
		day.Minted += orgMinted
	}

	e.applyMarketFeedback(&day)

	e.currentDay++
	e.history = append(e.history, day)
	return day
}

// runRound corre una ronda completa submit -> confirm -> validate ->
// process. Un par invalido o una confirmacion/validacion negativa no son
// errores: la ronda simplemente no mintea.
func (e *Engine) runRound(ctx context.Context, org *Organization) (*domain.Mint, error) {
	intervener, beneficiary, ok := org.RandomPair(e.rng)
	if !ok {
		return nil, nil
	}

	sc := generateScenario(e.rng, org, intervener, beneficiary)

	payload, err := intervener.Submit(ctx, beneficiary.Persona.Name, sc.Description, sc.PredictedHarm, sc.Context)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	iv := domain.Intervention{
		ID:            uuid.NewString(),
		Intervener:    intervener.Persona.Name,
		Beneficiary:   beneficiary.Persona.Name,
		Description:   sc.Description,
		PredictedHarm: sc.PredictedHarm,
		Timestamp:     time.Now().UTC(),
		Submission:    payload,
		Status:        domain.StatusSubmitted,
	}
	e.protocol.RegisterIntervention(iv)

	conf, err := beneficiary.Confirm(ctx, payload, intervener.Persona.Name)
	if err != nil {
		return nil, fmt.Errorf("confirm: %w", err)
	}
	if !conf.Confirmed {
		return nil, nil
	}
	if err := e.protocol.MarkConfirmed(iv.ID); err != nil {
		return nil, err
	}

	validator := e.pickValidator(org)
	if validator == nil {
		return nil, nil
	}

	assessment, err := validator.Validate(ctx, payload, conf, intervener.Persona.Name, beneficiary.Persona.Name)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if !assessment.Valid {
		return nil, nil
	}

	result := domain.ValidationResult{
		InterventionID:          iv.ID,
		Confirmed:               conf.Confirmed,
		ConfirmedBy:             beneficiary.Persona.Name,
		ConfirmationExplanation: conf.Explanation,
		ImprovementScore:        conf.ImprovementScore,
		Validated:               assessment.Valid,
		ValidatedBy:             validator.Persona.Name,
		Scores:                  assessment.Scores,
		ValidationReasoning:     assessment.Reasoning,
		Timestamp:               time.Now().UTC(),
	}

	mint, err := e.protocol.ProcessValidation(iv.ID, result)
	if err != nil {
		return nil, fmt.Errorf("process validation: %w", err)
	}
	if mint != nil {
		org.Mints = append(org.Mints, MintRecord{
			InterventionID: mint.InterventionID,
			Amount:         mint.Amount,
			Scores:         mint.Scores,
			Timestamp:      mint.Timestamp,
		})
	}
	return mint, nil
}

// pickValidator prefiere un validador de la misma organizacion y si no
// hay, recurre a cualquier validador de toda la simulacion.
func (e *Engine) pickValidator(org *Organization) *witness.Witness {
	validators := org.ByRole(domain.RoleValidator)
	if len(validators) == 0 {
		for _, other := range e.organizations {
			validators = append(validators, other.ByRole(domain.RoleValidator)...)
		}
	}
	if len(validators) == 0 {
		return nil
	}
	return validators[e.rng.Intn(len(validators))]
}

// applyMarketFeedback acopla el minteo sectorial del dia al indicador.
// El volumen empuja la tendencia (1/1000) Y ADEMAS el valor directo
// (1/500): la doble aplicacion es intencional, la prueba de la hipotesis
// depende de esta fuerza de acople exacta.
func (e *Engine) applyMarketFeedback(day *domain.DayResult) {
	for sector, ind := range e.indicators {
		sectorLove := 0.0
		for _, org := range e.organizations {
			if org.Sector != sector {
				continue
			}
			sectorLove += day.Organizations[org.ID].Minted
		}

		ind.RecordLove(sectorLove)

		ind.Trend += sectorLove * e.cfg.LoveMarketCorrelation / 1000.0
		ind.Value += sectorLove * e.cfg.LoveMarketCorrelation / 500.0

		ind.Update(1.0)

		day.Indicators[string(sector)] = domain.IndicatorDaySnapshot{
			Value:       round2(ind.Value),
			Trend:       round4(ind.Trend),
			MintedToday: round2(sectorLove),
		}
	}
}

// Run ejecuta la simulacion completa y devuelve el resumen.
func (e *Engine) Run(ctx context.Context) domain.SimulationSummary {
	if e.logger != nil {
		e.logger.Info("market simulation starting",
			zap.Int("organizations", len(e.organizations)),
			zap.Int("days", e.cfg.SimulationDays),
			zap.Int("sectors", len(e.indicators)),
		)
	}

	for day := 0; day < e.cfg.SimulationDays; day++ {
		e.SimulateDay(ctx)
	}

	if e.logger != nil {
		e.logger.Info("market simulation complete",
			zap.Int("days", e.currentDay),
			zap.Int("round_failures", e.roundFailures),
		)
	}

	return e.Summary()
}

// Summary arma el artefacto de reporte final de la corrida.
func (e *Engine) Summary() domain.SimulationSummary {
	totalMinted := 0.0
	totalInterventions := 0
	for _, day := range e.history {
		totalMinted += day.Minted
		totalInterventions += len(day.Interventions)
	}

	orgs := make(map[string]domain.OrganizationSummary, len(e.organizations))
	for _, org := range e.organizations {
		orgs[org.ID] = domain.OrganizationSummary{
			Name:          org.Name,
			Sector:        string(org.Sector),
			Size:          org.Size,
			TotalMinted:   round2(org.TotalMinted()),
			Interventions: len(org.Mints),
		}
	}

	sectorMinted := make(map[string]float64, len(e.cfg.Sectors))
	for _, sector := range e.cfg.Sectors {
		total := 0.0
		for _, org := range e.organizations {
			if org.Sector == sector {
				total += org.TotalMinted()
			}
		}
		sectorMinted[string(sector)] = round2(total)
	}

	indicators := make(map[string]domain.IndicatorSummary, len(e.indicators))
	for sector, ind := range e.indicators {
		initial := ind.Value
		if len(ind.History) > 0 {
			initial = ind.History[0].Value
		}
		indicators[string(sector)] = domain.IndicatorSummary{
			Current: round2(ind.Value),
			Initial: round2(initial),
			Change:  round2(ind.Value - initial),
			Trend:   round4(ind.Trend),
		}
	}

	return domain.SimulationSummary{
		TotalDays:          e.cfg.SimulationDays,
		TotalMinted:        round2(totalMinted),
		TotalInterventions: totalInterventions,
		Organizations:      orgs,
		SectorMinted:       sectorMinted,
		Indicators:         indicators,
		Predictions:        e.Predictions(),
		DailyHistory:       e.history,
	}
}

// Predictions evalua por sector la hipotesis "el minteo temprano predice
// un declive posterior del mercado". Requiere al menos lag dias de ambas
// series; si no, todos los campos quedan en cero/false.
func (e *Engine) Predictions() map[string]domain.SectorPrediction {
	lag := e.cfg.PredictionLagDays
	preds := make(map[string]domain.SectorPrediction, len(e.indicators))

	for sector, ind := range e.indicators {
		if len(ind.LoveHistory) < lag || len(ind.History) < lag {
			preds[string(sector)] = domain.SectorPrediction{}
			continue
		}

		early := sumPoints(ind.LoveHistory[:lag])
		late := sumPoints(ind.LoveHistory[len(ind.LoveHistory)-lag:])
		marketChange := ind.History[len(ind.History)-1].Value - ind.History[0].Value

		correct := (early > 0 && marketChange < 0) || (early == 0 && marketChange >= 0)

		correlation := 0.0
		if len(ind.LoveHistory) == len(ind.History) && len(ind.History) > 1 {
			correlation = round4(pearson(cumulative(ind.LoveHistory), values(ind.History)))
		}

		preds[string(sector)] = domain.SectorPrediction{
			EarlyLove:         round2(early),
			LateLove:          round2(late),
			LoveChange:        round2(late - early),
			MarketChange:      round2(marketChange),
			PredictionCorrect: correct,
			Correlation:       correlation,
		}
	}
	return preds
}

// RoundFailures cuenta las rondas descartadas por fallos transitorios.
func (e *Engine) RoundFailures() int {
	return e.roundFailures
}

func (e *Engine) uniform(low, high float64) float64 {
	return low + e.rng.Float64()*(high-low)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
