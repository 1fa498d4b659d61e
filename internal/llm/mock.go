package llm

import (
	"context"
	"errors"
)

// MockClient permite tests sin llamar a una fuente narrativa real.
type MockClient struct {
	Response string
	Err      error
	Prompts  []string
	Systems  []string
}

func (m *MockClient) Generate(ctx context.Context, prompt, system string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Systems = append(m.Systems, system)
	return m.Response, m.Err
}

// DisabledClient siempre falla: fuerza el modo fallback cuando la fuente
// narrativa no esta configurada.
type DisabledClient struct {
	Reason string
}

func NewDisabledClient(reason string) *DisabledClient {
	if reason == "" {
		reason = "narrative source not configured"
	}
	return &DisabledClient{Reason: reason}
}

func (d *DisabledClient) Generate(ctx context.Context, prompt, system string) (string, error) {
	return "", errors.New(d.Reason)
}
