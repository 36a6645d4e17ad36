package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/sirupsen/logrus"
)

const (
	slaveryRegistrySource  = "slavery_registry"
	slaveryRegistryBaseURL = "https://modern-slavery-statement-registry.service.gov.uk"
)

// SlaveryRegistryClient looks a company up on the modern-slavery statement
// registry through the fetch cache. A registry miss (no match, or no
// recognizable response shape) is Found=false, never an error. Matching is
// normalized-name equality only; no fuzzy resolution.
type SlaveryRegistryClient struct {
	cache      *FetchCacheService
	normalizer *NormalizerService
	baseURL    string
	ttl        time.Duration
}

// NewSlaveryRegistryClient creates a client over the given fetch cache.
func NewSlaveryRegistryClient(cache *FetchCacheService, normalizer *NormalizerService, baseURL string, ttl time.Duration) *SlaveryRegistryClient {
	if baseURL == "" {
		baseURL = slaveryRegistryBaseURL
	}
	return &SlaveryRegistryClient{
		cache:      cache,
		normalizer: normalizer,
		baseURL:    baseURL,
		ttl:        ttl,
	}
}

// Lookup searches the registry for a statement by the given organisation.
func (c *SlaveryRegistryClient) Lookup(ctx context.Context, companyName string) (models.RawSlaveryLookup, error) {
	searchURL := fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(companyName))

	response, err := c.cache.GetOrFetch(ctx, models.FetchRequest{
		Source:      slaveryRegistrySource,
		RequestKind: "statement_search",
		URL:         searchURL,
		TTL:         c.ttl,
	})
	if err != nil {
		return models.RawSlaveryLookup{}, err
	}
	if response.Status != 200 {
		logrus.WithFields(logrus.Fields{
			"status": response.Status,
			"url":    searchURL,
		}).Warn("Slavery registry search returned non-200, treating as no match")
		return models.RawSlaveryLookup{Found: false}, nil
	}

	wanted := c.normalizer.NormalizeCompanyName(companyName)

	var lookup models.RawSlaveryLookup
	if strings.Contains(response.ContentType, "csv") {
		lookup = c.matchCSV(response.Body, wanted)
	} else {
		lookup = c.matchHTML(response.Body, wanted)
	}

	logrus.WithFields(logrus.Fields{
		"company_name": companyName,
		"found":        lookup.Found,
		"from_cache":   response.Hit,
	}).Debug("Slavery registry lookup completed")

	return lookup, nil
}

// matchCSV scans the registry's CSV export. Columns are located by header
// name heuristics since the export has shipped under several headings; when
// no organisation column is recognized the lookup is a miss.
func (c *SlaveryRegistryClient) matchCSV(body []byte, wanted string) models.RawSlaveryLookup {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return models.RawSlaveryLookup{Found: false}
	}

	nameCol, urlCol := detectCSVColumns(header)
	if nameCol < 0 {
		return models.RawSlaveryLookup{Found: false}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if nameCol >= len(record) {
			continue
		}
		if c.normalizer.NormalizeCompanyName(record[nameCol]) != wanted {
			continue
		}

		statementURL := ""
		if urlCol >= 0 && urlCol < len(record) {
			statementURL = strings.TrimSpace(record[urlCol])
		}
		return models.RawSlaveryLookup{
			Found:       true,
			URL:         statementURL,
			CompanyName: strings.TrimSpace(record[nameCol]),
		}
	}

	return models.RawSlaveryLookup{Found: false}
}

// matchHTML scans the registry's search results page for an organisation
// link whose text matches the wanted name.
func (c *SlaveryRegistryClient) matchHTML(body []byte, wanted string) models.RawSlaveryLookup {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.RawSlaveryLookup{Found: false}
	}

	var lookup models.RawSlaveryLookup
	document.Find(".search-results a, .govuk-table a, table a").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		name := strings.TrimSpace(selection.Text())
		if c.normalizer.NormalizeCompanyName(name) != wanted {
			return true
		}

		href, _ := selection.Attr("href")
		if strings.HasPrefix(href, "/") {
			href = c.baseURL + href
		}
		lookup = models.RawSlaveryLookup{
			Found:       true,
			URL:         href,
			CompanyName: name,
		}
		return false
	})

	return lookup
}

// detectCSVColumns finds the organisation-name and statement-URL columns by
// header keywords. Returns -1 for a column it cannot place.
func detectCSVColumns(header []string) (nameCol, urlCol int) {
	nameCol, urlCol = -1, -1
	for i, raw := range header {
		heading := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case nameCol < 0 && (strings.Contains(heading, "organisation") ||
			strings.Contains(heading, "organization") ||
			strings.Contains(heading, "company name")):
			nameCol = i
		case urlCol < 0 && (strings.Contains(heading, "statement url") ||
			strings.Contains(heading, "link") ||
			heading == "url"):
			urlCol = i
		}
	}
	return nameCol, urlCol
}
