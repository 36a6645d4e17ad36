package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// RendererService renders a built dossier plus its evidence bundle to HTML
// and, via headless Chrome, to PDF. Rendering carries no logic beyond
// escaping; every ordering decision was made upstream by the builder.
type RendererService struct {
	template *template.Template
}

// NewRendererService creates a renderer with the report template parsed.
func NewRendererService() (*RendererService, error) {
	tmpl, err := template.New("dossier").Parse(dossierTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dossier template: %w", err)
	}
	return &RendererService{template: tmpl}, nil
}

type dossierReport struct {
	Dossier  *models.Dossier
	Evidence []models.Evidence
}

// RenderHTML renders the dossier report page.
func (s *RendererService) RenderHTML(dossier *models.Dossier, evidence []models.Evidence) ([]byte, error) {
	var buffer bytes.Buffer
	if err := s.template.Execute(&buffer, dossierReport{Dossier: dossier, Evidence: evidence}); err != nil {
		return nil, fmt.Errorf("failed to render dossier HTML: %w", err)
	}
	return buffer.Bytes(), nil
}

// RenderPDF prints the rendered HTML to PDF through headless Chrome.
func (s *RendererService) RenderPDF(ctx context.Context, dossier *models.Dossier, evidence []models.Evidence) ([]byte, error) {
	html, err := s.RenderHTML(dossier, evidence)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	chromeCtx, cancelChrome := chromedp.NewContext(allocCtx)
	defer cancelChrome()

	dataURL := "data:text/html," + url.PathEscape(string(html))

	var pdf []byte
	err = chromedp.Run(chromeCtx,
		chromedp.Navigate(dataURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print dossier to PDF: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"company_number": dossier.Company.CompanyNumber,
		"pdf_bytes":      len(pdf),
		"render_time":    time.Since(startTime),
	}).Debug("Rendered dossier PDF")

	return pdf, nil
}

const dossierTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Supplier dossier: {{.Dossier.Company.Name}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #111; }
h1 { border-bottom: 2px solid #111; padding-bottom: 0.2em; }
h2 { margin-top: 1.5em; }
table { border-collapse: collapse; width: 100%; margin-top: 0.5em; }
th, td { border: 1px solid #999; padding: 0.4em 0.6em; text-align: left; font-size: 0.9em; }
th { background: #eee; }
.flag-HIGH { color: #a00; font-weight: bold; }
.flag-MEDIUM { color: #a60; font-weight: bold; }
.flag-LOW, .flag-INFO { color: #555; }
.meta { color: #555; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Dossier.Company.Name}}</h1>
<p class="meta">Company {{.Dossier.Company.CompanyNumber}} &middot; status: {{.Dossier.Company.Status}} &middot; generated {{.Dossier.GeneratedAt}}</p>

<h2>Company</h2>
<table>
<tr><th>Type</th><td>{{.Dossier.Company.Type}}</td></tr>
<tr><th>Incorporated</th><td>{{.Dossier.Company.IncorporatedOn}}</td></tr>
<tr><th>Registered office</th><td>{{.Dossier.Company.Address.Line1}} {{.Dossier.Company.Address.Line2}}, {{.Dossier.Company.Address.Town}} {{.Dossier.Company.Address.Postcode}}, {{.Dossier.Company.Address.Country}}</td></tr>
<tr><th>SIC codes</th><td>{{range .Dossier.Company.SICCodes}}{{.}} {{end}}</td></tr>
</table>

<h2>Risk flags ({{len .Dossier.RiskFlags}})</h2>
{{if .Dossier.RiskFlags}}
<table>
<tr><th>ID</th><th>Severity</th><th>Title</th><th>Explanation</th></tr>
{{range .Dossier.RiskFlags}}
<tr><td>{{.ID}}</td><td class="flag-{{.Severity}}">{{.Severity}}</td><td>{{.Title}}</td><td>{{.Explanation}}</td></tr>
{{end}}
</table>
{{else}}
<p>No risk flags fired.</p>
{{end}}

<h2>Officers ({{len .Dossier.Officers}})</h2>
<table>
<tr><th>Name</th><th>Role</th><th>Appointed</th><th>Resigned</th><th>Nationality</th></tr>
{{range .Dossier.Officers}}
<tr><td>{{.Name}}</td><td>{{.Role}}</td><td>{{.AppointedOn}}</td><td>{{.ResignedOn}}</td><td>{{.Nationality}}</td></tr>
{{end}}
</table>

<h2>Persons with significant control ({{len .Dossier.PSCs}})</h2>
<table>
<tr><th>Name</th><th>Kind</th><th>Notified</th><th>Ceased</th><th>Natures of control</th></tr>
{{range .Dossier.PSCs}}
<tr><td>{{.Name}}</td><td>{{.Kind}}</td><td>{{.NotifiedOn}}</td><td>{{.CeasedOn}}</td><td>{{range .NaturesOfControl}}{{.}}; {{end}}</td></tr>
{{end}}
</table>

<h2>Modern slavery statement</h2>
{{if .Dossier.ModernSlavery}}
<p>Statement on registry: <a href="{{.Dossier.ModernSlavery.URL}}">{{.Dossier.ModernSlavery.URL}}</a></p>
{{else}}
<p>No statement found on the registry.</p>
{{end}}

<h2>Evidence</h2>
<table>
<tr><th>ID</th><th>Source</th><th>Fetched</th><th>Cached</th></tr>
{{range .Evidence}}
<tr><td>{{.ID}}</td><td><a href="{{.APIURL}}">{{.APIURL}}</a></td><td>{{.FetchedAt}}</td><td>{{.FromCache}}</td></tr>
{{end}}
</table>
</body>
</html>
`
