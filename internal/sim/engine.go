package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"witness-lab/internal/consensus"
	"witness-lab/internal/domain"
	"witness-lab/internal/scenario"
	"witness-lab/internal/witness"
)

// ScoreComparison contrasta el score otorgado contra el esperado del
// escenario.
type ScoreComparison struct {
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
}

// ScenarioResult es el resultado de correr un escenario por los tres
// pasos del consenso.
type ScenarioResult struct {
	ScenarioID      string                     `json:"scenario_id"`
	InterventionID  string                     `json:"intervention_id"`
	Status          string                     `json:"status"`
	Confirmed       bool                       `json:"confirmed"`
	Validated       bool                       `json:"validated"`
	Minted          float64                    `json:"minted"`
	Scores          domain.ScoreMap            `json:"scores,omitempty"`
	ScoreComparison map[string]ScoreComparison `json:"score_comparison,omitempty"`
	Distribution    map[string]float64         `json:"distribution,omitempty"`
	Timestamp       time.Time                  `json:"timestamp"`
}

// SuiteSummary resume una corrida de la suite base.
type SuiteSummary struct {
	TotalScenarios int              `json:"total_scenarios"`
	Confirmed      int              `json:"confirmed"`
	Validated      int              `json:"validated"`
	Rejected       int              `json:"rejected"`
	TotalMinted    float64          `json:"total_minted"`
	AveragePerMint float64          `json:"average_minted_per_intervention"`
	Results        []ScenarioResult `json:"results"`
}

// ProtocolStats expone los tamanios de los catalogos del protocolo.
type ProtocolStats struct {
	TotalInterventions int `json:"total_interventions"`
	TotalValidations   int `json:"total_validations"`
	TotalMints         int `json:"total_mints"`
}

// WitnessStats cuenta los testigos por rol.
type WitnessStats struct {
	Total         int `json:"total_witnesses"`
	Interveners   int `json:"interveners"`
	Beneficiaries int `json:"beneficiaries"`
	Validators    int `json:"validators"`
}

// LabReport es el reporte completo de la corrida de laboratorio.
type LabReport struct {
	History       []ScenarioResult  `json:"simulation_history"`
	IMI           domain.IMIMetrics `json:"imi_metrics"`
	ProtocolStats ProtocolStats     `json:"protocol_stats"`
	WitnessStats  WitnessStats      `json:"witness_stats"`
}

// Engine corre escenarios individuales de principio a fin por el
// protocolo de consenso: submit, confirm, validate, process.
type Engine struct {
	protocol  *consensus.Protocol
	witnesses []*witness.Witness
	logger    *zap.Logger

	interveners   map[string]*witness.Witness
	beneficiaries map[string]*witness.Witness
	validators    []*witness.Witness

	history []ScenarioResult
}

func NewEngine(protocol *consensus.Protocol, witnesses []*witness.Witness, logger *zap.Logger) *Engine {
	e := &Engine{
		protocol:      protocol,
		witnesses:     witnesses,
		logger:        logger,
		interveners:   make(map[string]*witness.Witness),
		beneficiaries: make(map[string]*witness.Witness),
	}
	for _, w := range witnesses {
		switch w.Persona.Role {
		case domain.RoleIntervener:
			e.interveners[w.Persona.Name] = w
		case domain.RoleBeneficiary:
			e.beneficiaries[w.Persona.Name] = w
		case domain.RoleValidator:
			e.validators = append(e.validators, w)
		}
	}
	return e
}

// RunScenario ejecuta un escenario completo. Los fallos de la fuente
// narrativa ya estan absorbidos por el fallback de los testigos: aca
// solo fallan las precondiciones (testigos faltantes).
func (e *Engine) RunScenario(ctx context.Context, sc scenario.Scenario) (ScenarioResult, error) {
	intervener, ok := e.interveners[sc.Intervener]
	if !ok {
		return ScenarioResult{}, fmt.Errorf("primary witness %s not found", sc.Intervener)
	}
	beneficiary, ok := e.beneficiaries[sc.Beneficiary]
	if !ok {
		return ScenarioResult{}, fmt.Errorf("secondary witness %s not found", sc.Beneficiary)
	}
	if len(e.validators) == 0 {
		return ScenarioResult{}, fmt.Errorf("no tertiary witness available")
	}

	payload, err := intervener.Submit(ctx, sc.Beneficiary, sc.Description, sc.PredictedHarm, sc.Context)
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("submit scenario %s: %w", sc.ID, err)
	}

	iv := domain.Intervention{
		ID:            uuid.NewString(),
		Intervener:    sc.Intervener,
		Beneficiary:   sc.Beneficiary,
		Description:   sc.Description,
		PredictedHarm: sc.PredictedHarm,
		Timestamp:     time.Now().UTC(),
		Submission:    payload,
		Status:        domain.StatusSubmitted,
	}
	e.protocol.RegisterIntervention(iv)

	conf, err := beneficiary.Confirm(ctx, payload, sc.Intervener)
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("confirm scenario %s: %w", sc.ID, err)
	}

	if !conf.Confirmed {
		// Rechazo en confirmacion: se procesa igual para transicionar el
		// estado y nunca mintear.
		if _, err := e.protocol.ProcessValidation(iv.ID, domain.ValidationResult{
			InterventionID:          iv.ID,
			Confirmed:               false,
			ConfirmedBy:             sc.Beneficiary,
			ConfirmationExplanation: conf.Explanation,
			ImprovementScore:        conf.ImprovementScore,
			Timestamp:               time.Now().UTC(),
		}); err != nil {
			return ScenarioResult{}, err
		}

		result := ScenarioResult{
			ScenarioID:     sc.ID,
			InterventionID: iv.ID,
			Status:         "rejected_at_confirmation",
			Timestamp:      time.Now().UTC(),
		}
		e.history = append(e.history, result)
		return result, nil
	}

	if err := e.protocol.MarkConfirmed(iv.ID); err != nil {
		return ScenarioResult{}, err
	}

	validator := e.validators[0]
	assessment, err := validator.Validate(ctx, payload, conf, sc.Intervener, sc.Beneficiary)
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("validate scenario %s: %w", sc.ID, err)
	}

	mint, err := e.protocol.ProcessValidation(iv.ID, domain.ValidationResult{
		InterventionID:          iv.ID,
		Confirmed:               conf.Confirmed,
		ConfirmedBy:             sc.Beneficiary,
		ConfirmationExplanation: conf.Explanation,
		ImprovementScore:        conf.ImprovementScore,
		Validated:               assessment.Valid,
		ValidatedBy:             validator.Persona.Name,
		Scores:                  assessment.Scores,
		ValidationReasoning:     assessment.Reasoning,
		Timestamp:               time.Now().UTC(),
	})
	if err != nil {
		return ScenarioResult{}, err
	}

	result := ScenarioResult{
		ScenarioID:      sc.ID,
		InterventionID:  iv.ID,
		Status:          "rejected",
		Confirmed:       conf.Confirmed,
		Validated:       assessment.Valid,
		Scores:          assessment.Scores,
		ScoreComparison: compareScores(sc.ExpectedScores, assessment.Scores),
		Timestamp:       time.Now().UTC(),
	}
	if mint != nil {
		result.Status = "validated"
		result.Minted = mint.Amount
		result.Distribution = mint.Distribution
	}

	if e.logger != nil {
		e.logger.Info("scenario processed",
			zap.String("scenario_id", sc.ID),
			zap.String("status", result.Status),
			zap.Float64("minted", result.Minted),
		)
	}

	e.history = append(e.history, result)
	return result, nil
}

func compareScores(expected, actual domain.ScoreMap) map[string]ScoreComparison {
	if len(expected) == 0 {
		return nil
	}
	out := make(map[string]ScoreComparison, len(domain.ScoreAxes))
	for _, axis := range domain.ScoreAxes {
		exp := expected[axis]
		act := actual[axis]
		out[axis] = ScoreComparison{Expected: exp, Actual: act, Difference: act - exp}
	}
	return out
}

// RunBaselineSuite corre todos los escenarios base y resume la corrida.
func (e *Engine) RunBaselineSuite(ctx context.Context) (SuiteSummary, error) {
	summary := SuiteSummary{TotalScenarios: len(scenario.Baseline)}

	for _, sc := range scenario.Baseline {
		result, err := e.RunScenario(ctx, sc)
		if err != nil {
			return SuiteSummary{}, err
		}
		summary.Results = append(summary.Results, result)
		if result.Confirmed {
			summary.Confirmed++
		}
		if result.Validated {
			summary.Validated++
		}
		summary.TotalMinted += result.Minted
	}

	summary.Rejected = summary.TotalScenarios - summary.Validated
	if summary.Validated > 0 {
		summary.AveragePerMint = summary.TotalMinted / float64(summary.Validated)
	}
	return summary, nil
}

// Report arma el reporte completo de laboratorio.
func (e *Engine) Report() LabReport {
	interventions, validations, mints := e.protocol.Counts()

	stats := WitnessStats{Total: len(e.witnesses)}
	stats.Interveners = len(e.interveners)
	stats.Beneficiaries = len(e.beneficiaries)
	stats.Validators = len(e.validators)

	return LabReport{
		History: e.history,
		IMI:     e.protocol.IMIMetrics(30),
		ProtocolStats: ProtocolStats{
			TotalInterventions: interventions,
			TotalValidations:   validations,
			TotalMints:         mints,
		},
		WitnessStats: stats,
	}
}
