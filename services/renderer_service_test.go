package services

import (
	"testing"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTMLIncludesAllSections(t *testing.T) {
	renderer, err := NewRendererService()
	require.NoError(t, err)

	dossier, evidence, err := newDossierService().Build(sampleDossierInput(), "2026-08-30T12:00:00Z")
	require.NoError(t, err)
	dossier = NewRiskFlagService().ApplyFlags(dossier, []models.RiskFlag{
		{
			ID:          models.FlagAccountsOverdue,
			Title:       "Accounts overdue",
			Severity:    models.SeverityMedium,
			Explanation: "Annual accounts were due on 2026-03-31 and are overdue.",
		},
	})

	html, err := renderer.RenderHTML(dossier, evidence)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "Acme Widgets Ltd")
	assert.Contains(t, page, "12345678")
	assert.Contains(t, page, "Risk flags (1)")
	assert.Contains(t, page, "Accounts overdue")
	assert.Contains(t, page, "EARLY, Eve")
	assert.Contains(t, page, "Alpha Holdings")
	assert.Contains(t, page, "https://registry.example/statement/1")
	assert.Contains(t, page, "2026-08-30T12:00:00Z")
	for _, item := range evidence {
		assert.Contains(t, page, item.ID)
	}
}

func TestRenderHTMLEscapesCompanyName(t *testing.T) {
	renderer, err := NewRendererService()
	require.NoError(t, err)

	input := sampleDossierInput()
	input.Profile.CompanyName = `<script>alert("x")</script> & Sons Ltd`
	dossier, evidence, err := newDossierService().Build(input, "2026-08-30T12:00:00Z")
	require.NoError(t, err)

	html, err := renderer.RenderHTML(dossier, evidence)
	require.NoError(t, err)

	page := string(html)
	assert.NotContains(t, page, `<script>alert("x")</script>`)
	assert.Contains(t, page, "&lt;script&gt;")
}

func TestRenderHTMLWithoutFlagsOrStatement(t *testing.T) {
	renderer, err := NewRendererService()
	require.NoError(t, err)

	input := sampleDossierInput()
	input.Slavery = models.RawSlaveryLookup{Found: false}
	dossier, evidence, err := newDossierService().Build(input, "2026-08-30T12:00:00Z")
	require.NoError(t, err)

	html, err := renderer.RenderHTML(dossier, evidence)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "No risk flags fired.")
	assert.Contains(t, page, "No statement found on the registry.")
}
