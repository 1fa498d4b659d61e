package witness

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"witness-lab/internal/domain"
	"witness-lab/internal/llm"
)

// NewPool construye una poblacion de testigos con personas aleatorias,
// repartida entre los tres roles (interveners, beneficiaries, validators,
// en ese orden de preferencia para los sobrantes). El prefix separa los
// nombres entre organizaciones; puede ser "".
func NewPool(prefix string, size int, client llm.Client, rng *rand.Rand, timeout time.Duration, logger *zap.Logger) []*Witness {
	if size <= 0 {
		return nil
	}

	interveners := (size + 2) / 3
	beneficiaries := (size + 1) / 3
	validators := size / 3

	pool := make([]*Witness, 0, size)

	for i := 0; i < interveners; i++ {
		pool = append(pool, New(domain.Persona{
			Name:          poolName(prefix, "Intervener", i+1),
			Role:          domain.RoleIntervener,
			TrustLevel:    0.7 + rng.Float64()*0.2,
			BiasFactor:    uniform(rng, -0.2, 0.3),
			ResponseStyle: pick(rng, domain.ResponseStyleStrict, domain.ResponseStyleBalanced, domain.ResponseStyleGenerous),
		}, client, timeout, logger))
	}

	for i := 0; i < beneficiaries; i++ {
		connection := ""
		if interveners > 0 {
			connection = poolName(prefix, "Intervener", (i%interveners)+1)
		}
		pool = append(pool, New(domain.Persona{
			Name:             poolName(prefix, "Beneficiary", i+1),
			Role:             domain.RoleBeneficiary,
			TrustLevel:       0.6 + rng.Float64()*0.3,
			BiasFactor:       uniform(rng, -0.1, 0.4),
			SocialConnection: connection,
			ResponseStyle:    domain.ResponseStyleBalanced,
		}, client, timeout, logger))
	}

	// Validadores: mas escepticos, sin estilo generoso.
	for i := 0; i < validators; i++ {
		pool = append(pool, New(domain.Persona{
			Name:          poolName(prefix, "Validator", i+1),
			Role:          domain.RoleValidator,
			TrustLevel:    0.8 + rng.Float64()*0.15,
			BiasFactor:    uniform(rng, -0.3, 0.2),
			ResponseStyle: pick(rng, domain.ResponseStyleStrict, domain.ResponseStyleBalanced),
		}, client, timeout, logger))
	}

	return pool
}

func poolName(prefix, role string, n int) string {
	if prefix == "" {
		return fmt.Sprintf("%s_%d", role, n)
	}
	return fmt.Sprintf("%s_%s_%d", prefix, role, n)
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
