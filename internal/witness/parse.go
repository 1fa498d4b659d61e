package witness

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// decodeStructured intenta parsear la salida narrativa como JSON en orden
// de prioridad: parseo directo, bloque cercado de markdown, substring con
// llaves balanceadas. Devuelve false si ningun candidato es JSON valido.
// Cada paso es puro y testeable por separado.
func decodeStructured(raw string, out any) bool {
	for _, candidate := range jsonCandidates(raw) {
		if json.Unmarshal([]byte(candidate), out) == nil {
			return true
		}
	}
	return false
}

func jsonCandidates(raw string) []string {
	var cands []string
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		cands = append(cands, trimmed)
	}
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		cands = append(cands, m[1])
	}
	if obj := extractFirstJSONObject(raw); obj != "" {
		cands = append(cands, obj)
	}
	return cands
}

// extractFirstJSONObject escanea el texto buscando el primer objeto con
// llaves balanceadas, respetando strings y escapes.
func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
			if depth < 0 {
				return ""
			}
		}
	}

	return ""
}

// truncateText recorta explicaciones de texto libre para los fallbacks.
func truncateText(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}
