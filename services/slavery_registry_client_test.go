package services

import (
	"context"
	"testing"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubRegistryFetch(status int, contentType, body string) FetchFunc {
	return func(ctx context.Context, url string, headers map[string]string) (*models.FetchResult, error) {
		return &models.FetchResult{
			Status:      status,
			Body:        []byte(body),
			ContentType: contentType,
		}, nil
	}
}

func newRegistryClient(fetch FetchFunc) *SlaveryRegistryClient {
	cache := NewFetchCacheService(NewMemoryCacheStore(), fetch)
	return NewSlaveryRegistryClient(cache, NewNormalizerService(), "https://registry.example", time.Hour)
}

func TestLookupMatchesCSVExport(t *testing.T) {
	csvBody := "Organisation Name,Sector,Statement URL\n" +
		"Other Corp Ltd,Retail,https://registry.example/statement/9\n" +
		"ACME WIDGETS LIMITED,Manufacturing,https://registry.example/statement/1\n"
	client := newRegistryClient(stubRegistryFetch(200, "text/csv", csvBody))

	lookup, err := client.Lookup(context.Background(), "Acme Widgets Ltd")
	require.NoError(t, err)
	assert.True(t, lookup.Found)
	assert.Equal(t, "https://registry.example/statement/1", lookup.URL)
	assert.Equal(t, "ACME WIDGETS LIMITED", lookup.CompanyName)
}

func TestLookupCSVWithoutOrganisationColumnIsAMiss(t *testing.T) {
	csvBody := "Sector,Statement URL\nRetail,https://registry.example/statement/9\n"
	client := newRegistryClient(stubRegistryFetch(200, "text/csv", csvBody))

	lookup, err := client.Lookup(context.Background(), "Acme Widgets Ltd")
	require.NoError(t, err)
	assert.False(t, lookup.Found)
}

func TestLookupMatchesHTMLSearchResults(t *testing.T) {
	htmlBody := `<html><body>
		<div class="search-results">
			<a href="/statement/other">Other Corp Ltd</a>
			<a href="/statement/42">Acme Widgets PLC</a>
		</div>
	</body></html>`
	client := newRegistryClient(stubRegistryFetch(200, "text/html", htmlBody))

	lookup, err := client.Lookup(context.Background(), "ACME WIDGETS plc")
	require.NoError(t, err)
	assert.True(t, lookup.Found)
	assert.Equal(t, "https://registry.example/statement/42", lookup.URL, "relative hrefs are resolved against the registry base")
	assert.Equal(t, "Acme Widgets PLC", lookup.CompanyName)
}

func TestLookupHTMLWithoutMatchIsAMiss(t *testing.T) {
	htmlBody := `<html><body><table><tr><td><a href="/statement/1">Other Corp Ltd</a></td></tr></table></body></html>`
	client := newRegistryClient(stubRegistryFetch(200, "text/html", htmlBody))

	lookup, err := client.Lookup(context.Background(), "Acme Widgets Ltd")
	require.NoError(t, err)
	assert.False(t, lookup.Found)
	assert.Empty(t, lookup.URL)
}

func TestLookupNon200IsAMissNotAnError(t *testing.T) {
	client := newRegistryClient(stubRegistryFetch(503, "text/html", "registry down"))

	lookup, err := client.Lookup(context.Background(), "Acme Widgets Ltd")
	require.NoError(t, err)
	assert.False(t, lookup.Found)
}

func TestLookupSuffixInsensitiveMatching(t *testing.T) {
	csvBody := "Company Name,URL\nAcme Widgets Ltd.,https://registry.example/statement/7\n"
	client := newRegistryClient(stubRegistryFetch(200, "application/csv", csvBody))

	lookup, err := client.Lookup(context.Background(), "ACME WIDGETS LIMITED")
	require.NoError(t, err)
	assert.True(t, lookup.Found)
	assert.Equal(t, "https://registry.example/statement/7", lookup.URL)
}
