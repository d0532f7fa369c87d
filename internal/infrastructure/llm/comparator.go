package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/ports"
)

const compareSystemPrompt = `Eres un especialista en noticias sobre empresas. Recibirás dos noticias, cada una con su titular y sus detalles. ` +
	`Tu trabajo consiste en decidir si ambas noticias describen exactamente el mismo suceso empresarial publicado por medios distintos. ` +
	`Dos noticias sobre la misma empresa pero sobre sucesos distintos NO son duplicados. ` +
	`Responde únicamente con un objeto JSON de la siguiente forma: ` +
	`{"duplicado": true o false, "razonamiento": "breve justificación"}. No respondas con nada más que este JSON.`

// Comparator adjudicates whether two records describe the same event via a
// binary chat judgment. One call per pair; the deduplicator owns the
// fail-open policy on errors.
type Comparator struct {
	backend Backend
	logger  *slog.Logger
}

var _ ports.DuplicateJudge = (*Comparator)(nil)

// NewComparator wires the chat backend.
func NewComparator(backend Backend, logger *slog.Logger) *Comparator {
	return &Comparator{backend: backend, logger: logger}
}

type comparePayload struct {
	Duplicate bool   `json:"duplicado"`
	Rationale string `json:"razonamiento"`
}

// SameEvent compares title and details text of both records semantically.
func (c *Comparator) SameEvent(ctx context.Context, a, b domain.NewsRecord) (bool, string, error) {
	if c.backend == nil {
		return false, "", fmt.Errorf("comparator backend is not configured")
	}

	user := fmt.Sprintf(
		"Noticia A. Titular: %s  Detalles: %s\nNoticia B. Titular: %s  Detalles: %s",
		a.Title, a.Details, b.Title, b.Details,
	)

	response, err := c.backend.Chat(ctx, compareSystemPrompt, user)
	if err != nil {
		return false, "", fmt.Errorf("compare chat: %w", err)
	}

	raw, err := extractObject(response)
	if err != nil {
		return false, "", fmt.Errorf("compare response: %w", err)
	}

	var payload comparePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return false, "", fmt.Errorf("unmarshal comparison: %w", err)
	}

	return payload.Duplicate, strings.TrimSpace(payload.Rationale), nil
}
