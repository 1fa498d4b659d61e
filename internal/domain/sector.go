package domain

import "strings"

// Sector identifica el sector de mercado que rastrea cada indicador.
type Sector string

const (
	SectorDatingApps         Sector = "dating_apps"
	SectorSocialNetworks     Sector = "social_networks"
	SectorCommunityPlatforms Sector = "community_platforms"
	SectorMentalHealth       Sector = "mental_health"
	SectorWorkplace          Sector = "workplace"
	SectorEducation          Sector = "education"
)

// DisplayName devuelve el nombre legible del sector (ej. "Dating Apps").
func (s Sector) DisplayName() string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
