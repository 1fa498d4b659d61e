package domain

// WitnessRole identifica el rol de un testigo dentro del consenso de triangulacion.
// El rol es inmutable despues de crear la persona.
type WitnessRole string

const (
	RoleIntervener  WitnessRole = "intervener"  // testigo primario: somete la intervencion
	RoleBeneficiary WitnessRole = "beneficiary" // testigo secundario: confirma
	RoleValidator   WitnessRole = "validator"   // testigo terciario: valida con scores
)

const (
	ResponseStyleStrict   = "strict"
	ResponseStyleBalanced = "balanced"
	ResponseStyleGenerous = "generous"
)

// Persona define el perfil fijo de comportamiento de un testigo.
type Persona struct {
	Name             string      `json:"name"`
	Role             WitnessRole `json:"role"`
	TrustLevel       float64     `json:"trust_level"` // 0.0 a 1.0, afecta la severidad al validar
	BiasFactor       float64     `json:"bias_factor"` // -1.0 (esceptico) a 1.0 (generoso)
	SocialConnection string      `json:"social_connection,omitempty"`
	ResponseStyle    string      `json:"response_style"`
}
