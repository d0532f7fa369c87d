package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CompanyNewsScanner/internal/domain"
	"CompanyNewsScanner/internal/infrastructure/llm"
	"CompanyNewsScanner/internal/ports"
)

// maxExcerptLen bounds the article text handed to the model.
const maxExcerptLen = 1000

const confirmSystemPrompt = `Eres un especialista en noticias sobre empresas. Recibirás el titular de una noticia, un tema provisional y un extracto del texto completo del artículo. ` +
	`Los temas reconocidos son: "Creación de una nueva empresa", "Contratación abundante de empleados" y "Cambio de sede de una empresa". ` +
	`Tu trabajo consiste en confirmar el tema provisional, reasignar la noticia a otro de los temas reconocidos si encaja mejor, ` +
	`o responder "ninguno" si tras leer el texto completo la noticia no pertenece a ninguno de los tres temas. ` +
	`Las noticias sobre rondas de financiación, facturación o beneficios NO pertenecen a ninguno de los tres temas: su tema es siempre "ninguno". ` +
	`Responde únicamente con un objeto JSON de la siguiente forma: ` +
	`{"tema": "tema definitivo", "empresa": "empresa o empresas relacionadas, separadas por comas", ` +
	`"sector": "sector de la empresa", "ambito": "nacional, internacional o desconocido", ` +
	`"region": "región geográfica de la noticia", "detalles": "resumen breve de la noticia", ` +
	`"razonamiento": "breve justificación de la decisión"}. ` +
	`Si algún campo es desconocido usa "desconocido". No respondas con nada más que este JSON.`

// noneVerdict is the terminal drop verdict returned on any scrape failure.
func noneVerdict(details string) domain.Verdict {
	return domain.Verdict{
		Topic:   domain.TopicNone,
		Company: domain.Unknown,
		Sector:  domain.Unknown,
		Locale:  domain.LocaleUnknown,
		Region:  domain.Unknown,
		Details: details,
	}
}

// Scraper fetches the full article page and re-validates the provisional
// verdict with a second, full-text-grounded chat call.
type Scraper struct {
	client  *http.Client
	backend llm.Backend
	logger  *slog.Logger
}

var _ ports.Confirmer = (*Scraper)(nil)

// New wires an HTTP client and a chat backend; a nil client gets a
// 20 second timeout default.
func New(client *http.Client, backend llm.Backend, logger *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Scraper{client: client, backend: backend, logger: logger}
}

// Confirm fetches the article, extracts its paragraph text, and asks the
// model for the definitive verdict. The confirmatory verdict always wins
// over the provisional one, including the company name. Every failure mode
// (fetch error, empty extraction, malformed response) yields a terminal
// none verdict alongside the diagnostic error.
func (s *Scraper) Confirm(ctx context.Context, url, title string, provisional domain.Topic) (domain.Verdict, error) {
	text, err := s.extractText(ctx, url)
	if err != nil {
		return noneVerdict("texto no disponible"), fmt.Errorf("scrape %s: %w", url, err)
	}
	if text == "" {
		return noneVerdict("artículo sin contenido extraíble"), nil
	}

	user := fmt.Sprintf("Titular: %s  Tema provisional: %s  Texto: %s", title, provisional.Label(), text)
	response, err := s.backend.Chat(ctx, confirmSystemPrompt, user)
	if err != nil {
		return noneVerdict("confirmación no disponible"), fmt.Errorf("confirm chat for %s: %w", url, err)
	}

	verdict, err := llm.ParseVerdict(response)
	if err != nil {
		return noneVerdict("respuesta de confirmación ilegible"), fmt.Errorf("confirm %s: %w", url, err)
	}

	return verdict, nil
}

// extractText downloads the page and concatenates all paragraph-level text
// nodes with single-space separators, truncated to maxExcerptLen.
func (s *Scraper) extractText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; CompanyNewsScanner/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse article: %w", err)
	}

	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return truncate(strings.Join(parts, " "), maxExcerptLen), nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
