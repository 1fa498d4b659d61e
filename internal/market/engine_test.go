package market

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"witness-lab/internal/consensus"
	"witness-lab/internal/domain"
	"witness-lab/internal/llm"
	"witness-lab/internal/witness"
)

// Una sola respuesta narrativa que los tres pasos pueden estructurar.
const fullConsensusJSON = `{
	"intervention_description": "Acompanio a un colega durante una crisis",
	"before_state": "Situacion tensa",
	"after_state": "Comunicacion restablecida",
	"evidence": "Testimonio directo",
	"confirmed": true,
	"explanation": "La ayuda fue real",
	"improvement_score": 0.8,
	"valid": true,
	"scores": {"H": 6, "T": 5, "R": 4, "S": 5, "E": 5, "W": 7},
	"reasoning": "Relato consistente"
}`

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NumOrganizations = 3
	cfg.MinOrgSize = 6
	cfg.MaxOrgSize = 6
	cfg.SimulationDays = 3
	cfg.InterventionsPerDay = 20
	cfg.Sectors = []domain.Sector{
		domain.SectorDatingApps,
		domain.SectorSocialNetworks,
		domain.SectorCommunityPlatforms,
	}
	cfg.NarrativeTimeout = time.Second
	return cfg
}

func newTestEngine(t *testing.T, cfg Config, client llm.Client, seed int64) (*Engine, *consensus.Protocol) {
	t.Helper()
	protocol := consensus.New(1.0, nil, nil)
	rng := rand.New(rand.NewSource(seed))
	return NewEngine(cfg, protocol, client, rng, nil), protocol
}

func TestNewEngine_CoversRequestedSectors(t *testing.T) {
	cfg := testConfig()
	e, _ := newTestEngine(t, cfg, &llm.MockClient{}, 11)

	if len(e.Organizations()) != cfg.NumOrganizations {
		t.Fatalf("expected %d organizations, got %d", cfg.NumOrganizations, len(e.Organizations()))
	}

	bySector := make(map[domain.Sector]int)
	for _, org := range e.Organizations() {
		bySector[org.Sector]++
		if org.Size < cfg.MinOrgSize || org.Size > cfg.MaxOrgSize {
			t.Fatalf("organization size %d outside configured range", org.Size)
		}
		if len(org.Witnesses) != org.Size {
			t.Fatalf("expected %d witnesses, got %d", org.Size, len(org.Witnesses))
		}
		wantRate := cfg.InterventionsPerDay / float64(org.Size)
		if org.InterventionRate != wantRate {
			t.Fatalf("expected rate %v, got %v", wantRate, org.InterventionRate)
		}
	}

	// Con tantas organizaciones como sectores, todos quedan cubiertos y
	// cada uno tiene su indicador.
	for _, sector := range cfg.Sectors {
		if bySector[sector] == 0 {
			t.Fatalf("sector %s without organizations", sector)
		}
		ind, ok := e.Indicator(sector)
		if !ok {
			t.Fatalf("sector %s without indicator", sector)
		}
		if ind.Value < 60 || ind.Value > 90 {
			t.Fatalf("indicator must start healthy, got %v", ind.Value)
		}
	}
}

func TestSimulateDay_MintsAndCouplesIndicators(t *testing.T) {
	cfg := testConfig()
	// Suficientes rondas para que los pares con roles correctos aparezcan.
	cfg.InterventionsPerDay = 60
	client := &llm.MockClient{Response: fullConsensusJSON}
	e, protocol := newTestEngine(t, cfg, client, 21)

	day := e.SimulateDay(context.Background())

	if day.Day != 0 {
		t.Fatalf("expected day 0, got %d", day.Day)
	}
	if len(day.Interventions) == 0 {
		t.Fatalf("expected minted interventions with a cooperative narrative source")
	}
	if day.Minted <= 0 {
		t.Fatalf("expected positive minted volume, got %v", day.Minted)
	}

	interventions, _, mints := protocol.Counts()
	if mints != len(day.Interventions) {
		t.Fatalf("protocol mints %d, day records %d", mints, len(day.Interventions))
	}
	if interventions < mints {
		t.Fatalf("interventions %d cannot be fewer than mints %d", interventions, mints)
	}

	// Cada sector con organizaciones queda muestreado en el dia.
	for _, sector := range cfg.Sectors {
		snapshot, ok := day.Indicators[string(sector)]
		if !ok {
			t.Fatalf("missing indicator snapshot for %s", sector)
		}
		if snapshot.Value < 0 || snapshot.Value > 100 {
			t.Fatalf("indicator snapshot out of range: %v", snapshot.Value)
		}
		ind, _ := e.Indicator(sector)
		if len(ind.History) != 1 || len(ind.LoveHistory) != 1 {
			t.Fatalf("expected one sample per series, got %d/%d", len(ind.History), len(ind.LoveHistory))
		}
	}
}

func TestSimulateDay_CountsRoleMismatchAsFailure(t *testing.T) {
	cfg := testConfig()
	cfg.NumOrganizations = 0
	e, _ := newTestEngine(t, cfg, &llm.MockClient{}, 5)

	// Organizacion degenerada: solo validadores, todo par falla el submit.
	rng := rand.New(rand.NewSource(5))
	pool := witness.NewPool("val", 9, nil, rng, time.Second, nil)
	var validators []*witness.Witness
	for _, w := range pool {
		if w.Persona.Role == domain.RoleValidator {
			validators = append(validators, w)
		}
	}
	e.organizations = append(e.organizations, &Organization{
		ID:               "org_broken",
		Sector:           domain.SectorWorkplace,
		Size:             len(validators),
		Witnesses:        validators,
		InterventionRate: 1,
	})

	day := e.SimulateDay(context.Background())

	if day.Minted != 0 {
		t.Fatalf("expected no minting, got %v", day.Minted)
	}
	if e.RoundFailures() == 0 {
		t.Fatalf("expected discarded rounds to be counted")
	}
	if len(e.history) != 1 {
		t.Fatalf("day must complete despite failures")
	}
}

func TestRunRound_SkipsUndersizedOrganization(t *testing.T) {
	cfg := testConfig()
	cfg.NumOrganizations = 0
	e, _ := newTestEngine(t, cfg, &llm.MockClient{}, 6)

	org := &Organization{ID: "org_tiny", Sector: domain.SectorEducation}
	mint, err := e.runRound(context.Background(), org)
	if err != nil {
		t.Fatalf("undersized organization must not error: %v", err)
	}
	if mint != nil {
		t.Fatalf("undersized organization must not mint")
	}
}

func TestApplyMarketFeedback_CouplingStrength(t *testing.T) {
	cfg := testConfig()
	cfg.NumOrganizations = 0
	cfg.LoveMarketCorrelation = -0.3
	e, _ := newTestEngine(t, cfg, &llm.MockClient{}, 7)

	// Indicador sin ruido para medir el acople exacto.
	ind := NewIndicator(domain.SectorWorkplace, 70, 0, 0, rand.New(rand.NewSource(7)))
	e.indicators[domain.SectorWorkplace] = ind
	e.organizations = append(e.organizations, &Organization{ID: "org_x", Sector: domain.SectorWorkplace})

	day := domain.DayResult{
		Indicators:    make(map[string]domain.IndicatorDaySnapshot),
		Organizations: map[string]domain.OrgDayResult{"org_x": {Minted: 500}},
	}
	e.applyMarketFeedback(&day)

	// 500 * -0.3 / 1000 sobre la tendencia y 500 * -0.3 / 500 sobre el
	// valor, mas un paso de Update con la tendencia ya empujada.
	wantTrend := -0.15
	wantValue := 70 - 0.3 + wantTrend
	if ind.Trend != wantTrend {
		t.Fatalf("expected trend %v, got %v", wantTrend, ind.Trend)
	}
	if ind.Value != wantValue {
		t.Fatalf("expected value %v, got %v", wantValue, ind.Value)
	}

	snapshot := day.Indicators[string(domain.SectorWorkplace)]
	if snapshot.MintedToday != 500 {
		t.Fatalf("expected snapshot minted 500, got %v", snapshot.MintedToday)
	}
	if len(ind.LoveHistory) != 1 || ind.LoveHistory[0].Value != 500 {
		t.Fatalf("expected love history to record the day volume")
	}
}

func TestPredictions_RequireLagDays(t *testing.T) {
	cfg := testConfig()
	cfg.NumOrganizations = 0
	cfg.PredictionLagDays = 7
	e, _ := newTestEngine(t, cfg, &llm.MockClient{}, 8)

	ind := NewIndicator(domain.SectorDatingApps, 70, 0, 0, rand.New(rand.NewSource(8)))
	for i := 0; i < 3; i++ {
		ind.RecordLove(10)
		ind.Update(1.0)
	}
	e.indicators[domain.SectorDatingApps] = ind

	preds := e.Predictions()
	pred, ok := preds[string(domain.SectorDatingApps)]
	if !ok {
		t.Fatalf("expected a prediction entry")
	}
	if pred.EarlyLove != 0 || pred.LateLove != 0 || pred.PredictionCorrect {
		t.Fatalf("short series must yield zero prediction, got %+v", pred)
	}
}

func TestPredictions_HypothesisBranches(t *testing.T) {
	cfg := testConfig()
	cfg.NumOrganizations = 0
	cfg.PredictionLagDays = 2
	e, _ := newTestEngine(t, cfg, &llm.MockClient{}, 9)

	// Minteo temprano positivo y mercado en declive: prediccion correcta.
	decline := NewIndicator(domain.SectorDatingApps, 80, 0, 0, rand.New(rand.NewSource(9)))
	for i, v := range []float64{80, 75, 70, 65} {
		decline.RecordLove(float64(10 + i))
		decline.History = append(decline.History, Point{Timestamp: time.Now(), Value: v})
	}
	e.indicators[domain.SectorDatingApps] = decline

	// Sin minteo y mercado estable o en alza: tambien correcta.
	quiet := NewIndicator(domain.SectorWorkplace, 60, 0, 0, rand.New(rand.NewSource(10)))
	for _, v := range []float64{60, 61, 62, 63} {
		quiet.RecordLove(0)
		quiet.History = append(quiet.History, Point{Timestamp: time.Now(), Value: v})
	}
	e.indicators[domain.SectorWorkplace] = quiet

	// Minteo positivo pero mercado en alza: hipotesis fallida.
	wrong := NewIndicator(domain.SectorEducation, 60, 0, 0, rand.New(rand.NewSource(11)))
	for _, v := range []float64{60, 65, 70, 75} {
		wrong.RecordLove(20)
		wrong.History = append(wrong.History, Point{Timestamp: time.Now(), Value: v})
	}
	e.indicators[domain.SectorEducation] = wrong

	preds := e.Predictions()

	d := preds[string(domain.SectorDatingApps)]
	if !d.PredictionCorrect {
		t.Fatalf("expected decline prediction correct, got %+v", d)
	}
	if d.EarlyLove != 21 || d.LateLove != 25 || d.LoveChange != 4 {
		t.Fatalf("unexpected love aggregates: %+v", d)
	}
	if d.MarketChange != -15 {
		t.Fatalf("expected market change -15, got %v", d.MarketChange)
	}
	if d.Correlation >= 0 {
		t.Fatalf("expected negative correlation, got %v", d.Correlation)
	}

	q := preds[string(domain.SectorWorkplace)]
	if !q.PredictionCorrect {
		t.Fatalf("quiet sector with rising market must be correct, got %+v", q)
	}
	// Serie de minteo constante en cero: varianza cero, correlacion 0.
	if q.Correlation != 0 {
		t.Fatalf("expected zero correlation on flat love series, got %v", q.Correlation)
	}

	w := preds[string(domain.SectorEducation)]
	if w.PredictionCorrect {
		t.Fatalf("minting with rising market must be incorrect, got %+v", w)
	}
}

func TestRun_ProducesCompleteSummary(t *testing.T) {
	cfg := testConfig()
	client := &llm.MockClient{Response: fullConsensusJSON}
	e, _ := newTestEngine(t, cfg, client, 31)

	summary := e.Run(context.Background())

	if summary.TotalDays != cfg.SimulationDays {
		t.Fatalf("expected %d days, got %d", cfg.SimulationDays, summary.TotalDays)
	}
	if len(summary.DailyHistory) != cfg.SimulationDays {
		t.Fatalf("expected %d day records, got %d", cfg.SimulationDays, len(summary.DailyHistory))
	}
	if summary.TotalMinted <= 0 {
		t.Fatalf("expected positive total minted")
	}
	if len(summary.Organizations) != cfg.NumOrganizations {
		t.Fatalf("expected %d organization summaries", cfg.NumOrganizations)
	}
	for _, sector := range cfg.Sectors {
		if _, ok := summary.Indicators[string(sector)]; !ok {
			t.Fatalf("missing indicator summary for %s", sector)
		}
		if _, ok := summary.SectorMinted[string(sector)]; !ok {
			t.Fatalf("missing sector minted total for %s", sector)
		}
		if _, ok := summary.Predictions[string(sector)]; !ok {
			t.Fatalf("missing prediction for %s", sector)
		}
	}
}

func TestRun_SeededReproducibility(t *testing.T) {
	cfg := testConfig()
	cfg.SimulationDays = 2

	first, _ := newTestEngine(t, cfg, &llm.MockClient{Response: fullConsensusJSON}, 99)
	second, _ := newTestEngine(t, cfg, &llm.MockClient{Response: fullConsensusJSON}, 99)

	a := first.Run(context.Background())
	b := second.Run(context.Background())

	if a.TotalMinted != b.TotalMinted || a.TotalInterventions != b.TotalInterventions {
		t.Fatalf("same seed must reproduce the run: %v/%d vs %v/%d",
			a.TotalMinted, a.TotalInterventions, b.TotalMinted, b.TotalInterventions)
	}
}
