package scenario

import (
	"fmt"

	"witness-lab/internal/domain"
)

// Category clasifica los escenarios base de laboratorio.
type Category string

const (
	CategoryEmotionalSupport   Category = "emotional_support"
	CategoryConflictResolution Category = "conflict_resolution"
	CategoryPreventiveAction   Category = "preventive_action"
	CategoryClarification      Category = "clarification"
	CategoryTimelyIntervention Category = "timely_intervention"
)

// Scenario es un caso predefinido de intervencion para probar el
// protocolo con scores esperados conocidos.
type Scenario struct {
	ID             string
	Category       Category
	Intervener     string
	Beneficiary    string
	Description    string
	PredictedHarm  string
	Context        map[string]any
	ExpectedScores domain.ScoreMap
	Difficulty     string // "easy", "medium", "hard" (dificultad de validacion)
}

// ByID busca un escenario por id dentro del catalogo base.
func ByID(id string) (Scenario, error) {
	for _, s := range Baseline {
		if s.ID == id {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("scenario %s not found", id)
}

// ByCategory devuelve los escenarios de una categoria.
func ByCategory(cat Category) []Scenario {
	var out []Scenario
	for _, s := range Baseline {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// ByDifficulty devuelve los escenarios por dificultad de validacion.
func ByDifficulty(difficulty string) []Scenario {
	var out []Scenario
	for _, s := range Baseline {
		if s.Difficulty == difficulty {
			out = append(out, s)
		}
	}
	return out
}
