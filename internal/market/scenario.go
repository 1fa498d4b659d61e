package market

import (
	"fmt"
	"math/rand"

	"witness-lab/internal/domain"
	"witness-lab/internal/witness"
)

// scenarioData describe la ronda que se va a someter al protocolo.
type scenarioData struct {
	Description   string
	PredictedHarm string
	Context       map[string]any
}

var sectorScenarios = map[domain.Sector][]string{
	domain.SectorDatingApps: {
		"prevented a misaligned first date",
		"clarified communication misunderstanding",
		"helped avoid relationship conflict",
	},
	domain.SectorSocialNetworks: {
		"resolved social media conflict",
		"prevented public embarrassment",
		"clarified misunderstanding between users",
	},
	domain.SectorCommunityPlatforms: {
		"mediated community conflict",
		"prevented group breakdown",
		"resolved member misunderstanding",
	},
	domain.SectorMentalHealth: {
		"prevented panic spiral",
		"provided emotional support",
		"intervened before crisis",
	},
	domain.SectorWorkplace: {
		"resolved workplace conflict",
		"prevented team breakdown",
		"clarified work misunderstanding",
	},
	domain.SectorEducation: {
		"prevented student conflict",
		"resolved classroom misunderstanding",
		"provided timely support",
	},
}

// generateScenario arma un escenario de intervencion apropiado al sector
// de la organizacion.
func generateScenario(rng *rand.Rand, org *Organization, intervener, beneficiary *witness.Witness) scenarioData {
	options, ok := sectorScenarios[org.Sector]
	if !ok || len(options) == 0 {
		options = []string{"provided support"}
	}
	action := options[rng.Intn(len(options))]

	return scenarioData{
		Description:   fmt.Sprintf("%s %s for %s", intervener.Persona.Name, action, beneficiary.Persona.Name),
		PredictedHarm: fmt.Sprintf("Potential %s breakdown", org.Sector),
		Context: map[string]any{
			"organization": org.ID,
			"sector":       string(org.Sector),
			"stress_level": org.InternalStress,
			"before_state": "Tense situation",
			"after_state":  "Improved communication",
		},
	}
}
