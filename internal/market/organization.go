package market

import (
	"math/rand"
	"time"

	"witness-lab/internal/domain"
	"witness-lab/internal/witness"
)

// MintRecord es la copia local que cada organizacion acumula de sus mints.
type MintRecord struct {
	InterventionID string          `json:"intervention_id"`
	Amount         float64         `json:"amount"`
	Scores         domain.ScoreMap `json:"scores"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Organization agrupa testigos de un mismo sector. El sector queda fijo
// al crearla.
type Organization struct {
	ID        string
	Name      string
	Sector    domain.Sector
	Size      int
	Witnesses []*witness.Witness

	CommunicationDensity float64 // 0-1, cuanto interactuan los testigos
	InternalStress       float64 // 0-1, nivel de estres base
	InterventionRate     float64 // intervenciones por testigo por dia

	Mints []MintRecord
}

// ByRole filtra los testigos con un rol especifico.
func (o *Organization) ByRole(role domain.WitnessRole) []*witness.Witness {
	var out []*witness.Witness
	for _, w := range o.Witnesses {
		if w.Persona.Role == role {
			out = append(out, w)
		}
	}
	return out
}

// RandomPair elige dos testigos distintos al azar (intervener,
// beneficiary de la ronda). Con menos de 2 miembros no hay par y la
// ronda se salta.
func (o *Organization) RandomPair(rng *rand.Rand) (*witness.Witness, *witness.Witness, bool) {
	n := len(o.Witnesses)
	if n < 2 {
		return nil, nil, false
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return o.Witnesses[i], o.Witnesses[j], true
}

// TotalMinted suma los mints acumulados por la organizacion.
func (o *Organization) TotalMinted() float64 {
	total := 0.0
	for _, m := range o.Mints {
		total += m.Amount
	}
	return total
}
