package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/bortnikova888-creator/SupplierCheck-UK/shared"
	"github.com/sirupsen/logrus"
)

// ErrCompanyNotFound is returned when the registry has no record of the
// requested company number.
var ErrCompanyNotFound = errors.New("company not found")

const (
	companiesHouseSource  = "companies_house"
	companiesHouseBaseURL = "https://api.company-information.service.gov.uk"
	companiesHousePublic  = "https://find-and-update.company-information.service.gov.uk"
)

// CompaniesHouseClient pulls company profile, officer and PSC records
// through the fetch cache. Auth goes in headers, which are deliberately not
// part of the cache identity.
type CompaniesHouseClient struct {
	cache   *FetchCacheService
	baseURL string
	apiKey  string
	ttl     time.Duration
}

// NewCompaniesHouseClient creates a client over the given fetch cache.
func NewCompaniesHouseClient(cache *FetchCacheService, apiKey string, ttl time.Duration) *CompaniesHouseClient {
	return &CompaniesHouseClient{
		cache:   cache,
		baseURL: companiesHouseBaseURL,
		apiKey:  apiKey,
		ttl:     ttl,
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func (c *CompaniesHouseClient) WithBaseURL(baseURL string) *CompaniesHouseClient {
	c.baseURL = baseURL
	return c
}

// GetProfile fetches the company profile record.
func (c *CompaniesHouseClient) GetProfile(ctx context.Context, companyNumber string) (*models.RawCompanyProfile, models.EvidenceInput, error) {
	apiURL := fmt.Sprintf("%s/company/%s", c.baseURL, companyNumber)
	publicURL := fmt.Sprintf("%s/company/%s", companiesHousePublic, companyNumber)

	response, evidence, err := c.fetch(ctx, "company_profile", apiURL, publicURL)
	if err != nil {
		return nil, evidence, err
	}
	if response.Status == http.StatusNotFound {
		return nil, evidence, ErrCompanyNotFound
	}

	var profile models.RawCompanyProfile
	if err := json.Unmarshal(response.Body, &profile); err != nil {
		return nil, evidence, shared.NewUpstreamError("Companies_House_Client", "GetProfile", "failed to decode company profile", err)
	}

	return &profile, evidence, nil
}

// GetOfficers fetches the officer list. A 404 yields an empty list: a
// company with no officer filings still gets a dossier.
func (c *CompaniesHouseClient) GetOfficers(ctx context.Context, companyNumber string) ([]models.RawOfficer, models.EvidenceInput, error) {
	apiURL := fmt.Sprintf("%s/company/%s/officers", c.baseURL, companyNumber)
	publicURL := fmt.Sprintf("%s/company/%s/officers", companiesHousePublic, companyNumber)

	response, evidence, err := c.fetch(ctx, "officer_list", apiURL, publicURL)
	if err != nil {
		return nil, evidence, err
	}
	if response.Status == http.StatusNotFound {
		return []models.RawOfficer{}, evidence, nil
	}

	var list models.RawOfficerList
	if err := json.Unmarshal(response.Body, &list); err != nil {
		return nil, evidence, shared.NewUpstreamError("Companies_House_Client", "GetOfficers", "failed to decode officer list", err)
	}

	return list.Items, evidence, nil
}

// GetPSCs fetches the persons-with-significant-control list. A 404 yields an
// empty list; absence of PSC filings is a signal the risk engine evaluates,
// not an error.
func (c *CompaniesHouseClient) GetPSCs(ctx context.Context, companyNumber string) ([]models.RawPSC, models.EvidenceInput, error) {
	apiURL := fmt.Sprintf("%s/company/%s/persons-with-significant-control", c.baseURL, companyNumber)
	publicURL := fmt.Sprintf("%s/company/%s/persons-with-significant-control", companiesHousePublic, companyNumber)

	response, evidence, err := c.fetch(ctx, "psc_list", apiURL, publicURL)
	if err != nil {
		return nil, evidence, err
	}
	if response.Status == http.StatusNotFound {
		return []models.RawPSC{}, evidence, nil
	}

	var list models.RawPSCList
	if err := json.Unmarshal(response.Body, &list); err != nil {
		return nil, evidence, shared.NewUpstreamError("Companies_House_Client", "GetPSCs", "failed to decode PSC list", err)
	}

	return list.Items, evidence, nil
}

func (c *CompaniesHouseClient) fetch(ctx context.Context, requestKind, apiURL, publicURL string) (*models.CachedResponse, models.EvidenceInput, error) {
	response, err := c.cache.GetOrFetch(ctx, models.FetchRequest{
		Source:      companiesHouseSource,
		RequestKind: requestKind,
		URL:         apiURL,
		TTL:         c.ttl,
		Headers:     c.authHeaders(),
	})
	if err != nil {
		return nil, models.EvidenceInput{}, err
	}

	evidence := models.EvidenceInput{
		APIURL:    apiURL,
		PublicURL: publicURL,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
		FromCache: response.Hit,
	}

	logrus.WithFields(logrus.Fields{
		"request_kind": requestKind,
		"status":       response.Status,
		"from_cache":   response.Hit,
	}).Debug("Companies House fetch completed")

	return response, evidence, nil
}

// authHeaders builds the HTTP basic auth header the API expects: the key as
// username, empty password.
func (c *CompaniesHouseClient) authHeaders() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(c.apiKey + ":"))
	return map[string]string{"Authorization": "Basic " + encoded}
}
