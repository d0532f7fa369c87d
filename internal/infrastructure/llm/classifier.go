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

// classifySystemPrompt is the fixed, versioned instruction template for the
// provisional classification pass. It enumerates exactly three recognized
// topics plus "ninguno" and carries the hard disambiguation rule excluding
// funding/revenue/profit articles from every topic.
const classifySystemPrompt = `Eres un especialista en noticias sobre empresas. Tu trabajo consiste en decidir si una noticia encaja en alguno de estos tres temas: ` +
	`"Creación de una nueva empresa", "Contratación abundante de empleados" o "Cambio de sede de una empresa". ` +
	`En caso de que no esté relacionada con ninguno de estos tres temas el tema será "ninguno". ` +
	`Un tema solo se asigna si la noticia describe activamente el evento (la fundación, la contratación o el traslado). ` +
	`Las noticias sobre rondas de financiación, facturación o beneficios NO pertenecen a ninguno de los tres temas, ` +
	`independientemente de las cifras mencionadas: su tema es siempre "ninguno". ` +
	`Tienes que responder únicamente con un objeto JSON de la siguiente forma: ` +
	`{"tema": "tema seleccionado", "empresa": "empresa o empresas relacionadas, separadas por comas", ` +
	`"sector": "sector de la empresa", "ambito": "nacional, internacional o desconocido", ` +
	`"region": "región geográfica de la noticia", "detalles": "detalles relevantes de la noticia", ` +
	`"razonamiento": "breve justificación de la decisión"}. ` +
	`Si algún campo es desconocido usa "desconocido". No respondas con nada más que este JSON.`

// Classifier turns a candidate's title and summary into a provisional
// verdict through a single chat call.
type Classifier struct {
	backend Backend
	logger  *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier wires the chat backend.
func NewClassifier(backend Backend, logger *slog.Logger) *Classifier {
	return &Classifier{backend: backend, logger: logger}
}

// Classify issues one chat call and parses the embedded JSON verdict.
// There is no retry: a malformed response is an error and the caller drops
// the candidate.
func (c *Classifier) Classify(ctx context.Context, title, summary string) (domain.Verdict, error) {
	if c.backend == nil {
		return domain.Verdict{}, fmt.Errorf("classifier backend is not configured")
	}

	user := fmt.Sprintf("Titular: %s  Descripción: %s", title, summary)
	response, err := c.backend.Chat(ctx, classifySystemPrompt, user)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("classify chat: %w", err)
	}

	verdict, err := ParseVerdict(response)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("classify %q: %w", title, err)
	}

	return verdict, nil
}

// verdictPayload mirrors the Spanish JSON contract the prompts mandate.
type verdictPayload struct {
	Topic     string `json:"tema"`
	Company   string `json:"empresa"`
	Sector    string `json:"sector"`
	Locale    string `json:"ambito"`
	Region    string `json:"region"`
	Details   string `json:"detalles"`
	Rationale string `json:"razonamiento"`
}

// ParseVerdict extracts and validates the verdict object from free model
// text. Missing fields are defaulted: topic to none, everything else to the
// unknown sentinel. An unknown locale forces the region to unknown.
func ParseVerdict(response string) (domain.Verdict, error) {
	raw, err := extractObject(response)
	if err != nil {
		return domain.Verdict{}, err
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.Verdict{}, fmt.Errorf("unmarshal verdict: %w", err)
	}

	verdict := domain.Verdict{
		Topic:     parseTopic(payload.Topic),
		Company:   defaultField(payload.Company),
		Sector:    defaultField(payload.Sector),
		Locale:    parseLocale(payload.Locale),
		Region:    defaultField(payload.Region),
		Details:   strings.TrimSpace(payload.Details),
		Rationale: strings.TrimSpace(payload.Rationale),
	}

	return verdict.Normalize(), nil
}

func parseTopic(raw string) domain.Topic {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "":
		return domain.TopicNone
	case strings.Contains(value, "creación") || strings.Contains(value, "creacion") || strings.Contains(value, "nueva empresa"):
		return domain.TopicNewCompany
	case strings.Contains(value, "contratación") || strings.Contains(value, "contratacion") || strings.Contains(value, "empleados"):
		return domain.TopicMassHiring
	case strings.Contains(value, "sede") || strings.Contains(value, "traslado"):
		return domain.TopicRelocation
	default:
		return domain.TopicNone
	}
}

func parseLocale(raw string) domain.Locale {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "nacional":
		return domain.LocaleDomestic
	case "internacional":
		return domain.LocaleInternational
	default:
		return domain.LocaleUnknown
	}
}

func defaultField(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "desconocido") || strings.EqualFold(value, "desconocida") || strings.EqualFold(value, "ninguna") {
		return domain.Unknown
	}
	return value
}
