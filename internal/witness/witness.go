package witness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"witness-lab/internal/domain"
	"witness-lab/internal/llm"
)

// ErrRoleMismatch se devuelve cuando se invoca un metodo de protocolo
// contra una persona del rol equivocado. Nunca se coacciona en silencio.
var ErrRoleMismatch = errors.New("witness role mismatch")

// ValidationRecord guarda una validacion emitida por este testigo.
type ValidationRecord struct {
	Submission domain.SubmissionPayload `json:"submission"`
	Valid      bool                     `json:"valid"`
	Scores     domain.ScoreMap          `json:"scores"`
	Reasoning  string                   `json:"reasoning"`
}

// Witness emite mensajes de protocolo segun su rol. Cuando la fuente
// narrativa falla o su salida no se puede parsear, aplica una politica de
// fallback deterministica derivada de la persona; el fallo nunca se
// propaga mas alla de este limite.
type Witness struct {
	Persona domain.Persona

	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
	history []ValidationRecord
}

func New(persona domain.Persona, client llm.Client, timeout time.Duration, logger *zap.Logger) *Witness {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Witness{
		Persona: persona,
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// History devuelve las validaciones emitidas por este testigo (append-only).
func (w *Witness) History() []ValidationRecord {
	return w.history
}

// callNarrative invoca la fuente narrativa con timeout acotado.
// Devuelve "" en caso de error: el llamador decide el fallback.
func (w *Witness) callNarrative(ctx context.Context, prompt, system string) string {
	if w.client == nil {
		return ""
	}
	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	raw, err := w.client.Generate(callCtx, prompt, system)
	if err != nil {
		if w.logger != nil {
			w.logger.Debug("narrative call failed, using fallback", zap.String("witness", w.Persona.Name), zap.Error(err))
		}
		return ""
	}
	return raw
}

// Submit somete una intervencion. Solo valido para rol intervener.
func (w *Witness) Submit(ctx context.Context, beneficiary, description, predictedHarm string, scenario map[string]any) (domain.SubmissionPayload, error) {
	if w.Persona.Role != domain.RoleIntervener {
		return domain.SubmissionPayload{}, fmt.Errorf("%w: submit requires %s, got %s", ErrRoleMismatch, domain.RoleIntervener, w.Persona.Role)
	}

	system := fmt.Sprintf(`Eres %s, una persona que ayuda a otros.
Estas sometiendo una intervencion que realizaste para ayudar a %s.
Se honesto y especifico sobre lo que hiciste y el danio que evitaste.`, w.Persona.Name, beneficiary)

	ctxJSON, _ := json.MarshalIndent(scenario, "", "  ")
	prompt := fmt.Sprintf(`Describe la intervencion que realizaste:

Beneficiary: %s
What you did: %s
Harm prevented: %s
Context: %s

Devuelve SOLO un JSON con este formato:
{
  "intervention_description": "narrativa detallada",
  "before_state": "como era la situacion",
  "after_state": "que cambio",
  "evidence": "que prueba que esto ayudo"
}`, beneficiary, description, predictedHarm, ctxJSON)

	raw := w.callNarrative(ctx, prompt, system)

	var record domain.SubmissionRecord
	if raw == "" || !decodeStructured(raw, &record) || record.InterventionDescription == "" {
		record = fallbackSubmission(raw, description, scenario)
	}

	return domain.SubmissionPayload{
		Intervener:    w.Persona.Name,
		Beneficiary:   beneficiary,
		Submission:    record,
		PredictedHarm: predictedHarm,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// fallbackSubmission sintetiza el payload desde el contexto de entrada
// cuando la salida narrativa no se puede estructurar.
func fallbackSubmission(raw, description string, scenario map[string]any) domain.SubmissionRecord {
	desc := raw
	if desc == "" {
		desc = description
	}
	return domain.SubmissionRecord{
		InterventionDescription: desc,
		BeforeState:             contextString(scenario, "before_state", "Unknown"),
		AfterState:              contextString(scenario, "after_state", "Improved"),
		Evidence:                "Narrative confirmation",
	}
}

func contextString(scenario map[string]any, key, def string) string {
	if scenario == nil {
		return def
	}
	if v, ok := scenario[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Confirm confirma (o niega) una intervencion recibida. Solo valido para
// rol beneficiary.
func (w *Witness) Confirm(ctx context.Context, submission domain.SubmissionPayload, intervener string) (domain.Confirmation, error) {
	if w.Persona.Role != domain.RoleBeneficiary {
		return domain.Confirmation{}, fmt.Errorf("%w: confirm requires %s, got %s", ErrRoleMismatch, domain.RoleBeneficiary, w.Persona.Role)
	}

	relation := w.Persona.SocialConnection
	if relation == "" {
		relation = "neutral"
	}
	system := fmt.Sprintf(`Eres %s, la persona que recibio ayuda de %s.
Se honesto sobre si la intervencion realmente te ayudo y evito un danio.
Tu relacion con %s: %s`, w.Persona.Name, intervener, intervener, relation)

	prompt := fmt.Sprintf(`%s realmente te ayudo?

Intervention: %s
Predicted harm prevented: %s

Devuelve SOLO un JSON con este formato:
{
  "confirmed": true,
  "explanation": "por que confirmas o niegas",
  "improvement_score": 0.8
}
improvement_score va de 0.0 a 1.0.`, intervener, submission.Submission.InterventionDescription, submission.PredictedHarm)

	raw := w.callNarrative(ctx, prompt, system)

	var reply struct {
		Confirmed        bool    `json:"confirmed"`
		Explanation      string  `json:"explanation"`
		ImprovementScore float64 `json:"improvement_score"`
	}
	if raw != "" && decodeStructured(raw, &reply) {
		explanation := reply.Explanation
		if explanation == "" {
			explanation = "No explanation provided"
		}
		return domain.Confirmation{
			Confirmed:        reply.Confirmed,
			Explanation:      explanation,
			ImprovementScore: clamp01(reply.ImprovementScore),
		}, nil
	}

	// Fallback deterministico basado en la persona.
	explanation := truncateText(raw, 200)
	if explanation == "" {
		explanation = "Confirmation based on witness persona"
	}
	return domain.Confirmation{
		Confirmed:        w.Persona.BiasFactor > -0.5,
		Explanation:      explanation,
		ImprovementScore: clamp01(0.5 + w.Persona.BiasFactor*0.3),
	}, nil
}

// Validate valida una intervencion confirmada. Solo valido para rol
// validator. Haya o no fallback, a TODO score devuelto se le suma
// bias*2 y se re-clampa a [1,10] antes de entregarlo al protocolo.
func (w *Witness) Validate(ctx context.Context, submission domain.SubmissionPayload, confirmation domain.Confirmation, intervener, beneficiary string) (domain.Assessment, error) {
	if w.Persona.Role != domain.RoleValidator {
		return domain.Assessment{}, fmt.Errorf("%w: validate requires %s, got %s", ErrRoleMismatch, domain.RoleValidator, w.Persona.Role)
	}

	system := fmt.Sprintf(`Eres %s, un validador neutral.
Verificas si el reclamo de intervencion es plausible y consistente.
Tu nivel de confianza: %.2f
Tu sesgo: %s`, w.Persona.Name, w.Persona.TrustLevel, biasLabel(w.Persona.BiasFactor))

	prompt := fmt.Sprintf(`Valida este reclamo de intervencion:

Intervener: %s
Beneficiary: %s
Intervention: %s
Beneficiary confirmed: %t
Beneficiary explanation: %s

Devuelve SOLO un JSON con este formato:
{
  "valid": true,
  "scores": {"H": 7, "T": 8, "R": 4, "S": 6, "E": 7, "W": 8},
  "reasoning": "explicacion de tu validacion"
}
Cada score va de 0 a 10: H severidad del danio evitado, T sensibilidad
temporal, R radio de impacto relacional, S estabilidad posterior,
E coherencia emocional, W tu confianza.`, intervener, beneficiary,
		submission.Submission.InterventionDescription, confirmation.Confirmed, confirmation.Explanation)

	raw := w.callNarrative(ctx, prompt, system)

	var reply struct {
		Valid     bool               `json:"valid"`
		Scores    map[string]float64 `json:"scores"`
		Reasoning string             `json:"reasoning"`
	}

	var valid bool
	var scores domain.ScoreMap
	var reasoning string

	if raw != "" && decodeStructured(raw, &reply) {
		valid = reply.Valid
		scores = domain.ScoreMap(reply.Scores)
		if scores == nil {
			scores = domain.ScoreMap{}
		}
		reasoning = reply.Reasoning
		if reasoning == "" {
			reasoning = "No reasoning provided"
		}
	} else {
		valid = w.Persona.BiasFactor > -0.3
		scores = w.fallbackScores()
		reasoning = truncateText(raw, 200)
		if reasoning == "" {
			reasoning = fmt.Sprintf("Validation based on %s persona", w.Persona.ResponseStyle)
		}
	}

	// Ajuste de sesgo incondicional sobre todo score, parseado o sintetizado.
	for key, score := range scores {
		scores[key] = clampScore(score + w.Persona.BiasFactor*2)
	}

	w.history = append(w.history, ValidationRecord{
		Submission: submission,
		Valid:      valid,
		Scores:     scores.Clone(),
		Reasoning:  reasoning,
	})

	return domain.Assessment{Valid: valid, Scores: scores, Reasoning: reasoning}, nil
}

// fallbackScores sintetiza los seis ejes desde la persona: 5 + bias*peso
// por eje, y W = trust*10.
func (w *Witness) fallbackScores() domain.ScoreMap {
	bias := w.Persona.BiasFactor
	return domain.ScoreMap{
		"H": clampScore(5 + bias*3),
		"T": clampScore(5 + bias*2),
		"R": clampScore(5 + bias*2),
		"S": clampScore(5 + bias*3),
		"E": clampScore(5 + bias*2),
		"W": clampScore(w.Persona.TrustLevel * 10),
	}
}

func biasLabel(bias float64) string {
	switch {
	case bias > 0:
		return "generoso"
	case bias < 0:
		return "esceptico"
	default:
		return "balanceado"
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

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
