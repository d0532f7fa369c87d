package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"CompanyNewsScanner/internal/domain"
)

// digestSubject is the fixed newsletter subject line.
const digestSubject = "Boletín de Noticias Empresariales"

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body>
  <h2>Noticias Empresariales Recientes</h2>
  <p>Hola, aquí tienes las últimas noticias relevantes según tus suscripciones:</p>
  <ul>
  {{- range .Records}}
    <li><b>{{.Title}}</b> ({{.Company}}) - {{.Details}}</li>
  {{- end}}
  </ul>
  <p>Gracias por suscribirte a nuestro boletín.</p>
</body>
</html>`))

// RenderDigest builds the per-user HTML digest body.
func RenderDigest(records []domain.NewsRecord) (string, error) {
	var buf bytes.Buffer
	data := struct{ Records []domain.NewsRecord }{Records: records}
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
