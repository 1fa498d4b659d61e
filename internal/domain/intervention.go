package domain

import "time"

// InterventionStatus sigue la maquina de estados del protocolo.
// Las transiciones solo avanzan; validated y rejected son terminales.
type InterventionStatus string

const (
	StatusSubmitted InterventionStatus = "submitted"
	StatusConfirmed InterventionStatus = "confirmed"
	StatusValidated InterventionStatus = "validated"
	StatusRejected  InterventionStatus = "rejected"
)

// ScoreAxes enumera los seis ejes de calidad en orden canonico.
var ScoreAxes = []string{"H", "T", "R", "S", "E", "W"}

// ScoreMap asocia cada eje (H,T,R,S,E,W) con su valor 1-10.
type ScoreMap map[string]float64

// Clone devuelve una copia independiente del mapa de scores.
func (s ScoreMap) Clone() ScoreMap {
	out := make(ScoreMap, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SubmissionRecord es la parte estructurada del relato generado por la
// fuente narrativa (o sintetizada por el fallback deterministico).
type SubmissionRecord struct {
	InterventionDescription string `json:"intervention_description"`
	BeforeState             string `json:"before_state"`
	AfterState              string `json:"after_state"`
	Evidence                string `json:"evidence"`
}

// SubmissionPayload es el mensaje completo que emite el testigo primario.
type SubmissionPayload struct {
	Intervener    string           `json:"intervener"`
	Beneficiary   string           `json:"beneficiary"`
	Submission    SubmissionRecord `json:"submission"`
	PredictedHarm string           `json:"predicted_harm"`
	Timestamp     time.Time        `json:"timestamp"`
}

// Intervention representa un acto de ayuda sometido al protocolo.
// Se crea una sola vez por envio y nunca se borra.
type Intervention struct {
	ID            string             `json:"id"`
	Intervener    string             `json:"intervener"`
	Beneficiary   string             `json:"beneficiary"`
	Description   string             `json:"description"`
	PredictedHarm string             `json:"predicted_harm"`
	Timestamp     time.Time          `json:"timestamp"`
	Submission    SubmissionPayload  `json:"submission_data"`
	Status        InterventionStatus `json:"status"`
}

// Confirmation es la respuesta del testigo secundario (beneficiario).
type Confirmation struct {
	Confirmed        bool    `json:"confirmed"`
	Explanation      string  `json:"explanation"`
	ImprovementScore float64 `json:"improvement_score"` // 0.0 a 1.0
}

// Assessment es la respuesta del testigo terciario (validador).
type Assessment struct {
	Valid     bool     `json:"valid"`
	Scores    ScoreMap `json:"scores"`
	Reasoning string   `json:"reasoning"`
}

// ValidationResult agrega el resultado de confirmar + validar una intervencion.
// Se almacena una sola vez por intervencion, indexado por su id.
type ValidationResult struct {
	InterventionID          string    `json:"intervention_id"`
	Confirmed               bool      `json:"confirmed"`
	ConfirmedBy             string    `json:"confirmed_by"`
	ConfirmationExplanation string    `json:"confirmation_explanation"`
	ImprovementScore        float64   `json:"improvement_score"`
	Validated               bool      `json:"validated"`
	ValidatedBy             string    `json:"validated_by"`
	Scores                  ScoreMap  `json:"scores"`
	ValidationReasoning     string    `json:"validation_reasoning"`
	Timestamp               time.Time `json:"timestamp"`
}

// Mint registra una emision de recompensa. Inmutable una vez creada.
type Mint struct {
	InterventionID string             `json:"intervention_id"`
	Amount         float64            `json:"amount"`
	Scores         ScoreMap           `json:"scores"`
	Timestamp      time.Time          `json:"timestamp"`
	Distribution   map[string]float64 `json:"distribution"` // intervener, beneficiary, validator, treasury
}
