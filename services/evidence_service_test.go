package services

import (
	"regexp"
	"sort"
	"testing"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexIDPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

func TestEvidenceIDIsStable(t *testing.T) {
	service := NewEvidenceService()

	first := service.EvidenceID("https://api.example/company/12345678")
	second := service.EvidenceID("https://api.example/company/12345678")
	other := service.EvidenceID("https://api.example/company/87654321")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Regexp(t, hexIDPattern, first)
	assert.Regexp(t, hexIDPattern, other)
}

func TestWithIDDoesNotMutateInput(t *testing.T) {
	service := NewEvidenceService()

	input := models.EvidenceInput{
		APIURL:    "https://api.example/company/12345678/officers",
		PublicURL: "https://example/company/12345678/officers",
		FetchedAt: "2026-08-30T10:00:00Z",
		FromCache: true,
	}
	snapshot := input

	evidence := service.WithID(input)

	assert.Equal(t, snapshot, input)
	assert.Equal(t, input.APIURL, evidence.APIURL)
	assert.Equal(t, input.PublicURL, evidence.PublicURL)
	assert.Equal(t, input.FetchedAt, evidence.FetchedAt)
	assert.True(t, evidence.FromCache)
	assert.Equal(t, service.EvidenceID(input.APIURL), evidence.ID)
}

func TestBundleSortsByID(t *testing.T) {
	service := NewEvidenceService()

	evidence := service.Bundle(
		models.EvidenceInput{APIURL: "https://api.example/company/12345678"},
		models.EvidenceInput{APIURL: "https://api.example/company/12345678/officers"},
		models.EvidenceInput{APIURL: "https://api.example/company/12345678/persons-with-significant-control"},
	)

	require.Len(t, evidence, 3)
	assert.True(t, sort.SliceIsSorted(evidence, func(i, j int) bool {
		return evidence[i].ID < evidence[j].ID
	}))
}

func TestEvidenceIDProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	service := NewEvidenceService()

	properties.Property("id is a pure function of the URL", prop.ForAll(
		func(url string) bool {
			return service.EvidenceID(url) == service.EvidenceID(url)
		},
		gen.AnyString(),
	))

	properties.Property("id always has the fixed display length", prop.ForAll(
		func(url string) bool {
			return hexIDPattern.MatchString(service.EvidenceID(url))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
