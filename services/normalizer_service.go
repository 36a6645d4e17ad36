package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
)

// NormalizerService maps raw Companies House records into canonical domain
// entities and imposes the deterministic orderings the dossier depends on.
// Every method is a pure function, total over well-formed raw input: absent
// optional upstream fields map to empty values, never a panic.
type NormalizerService struct{}

// NewNormalizerService creates a new normalizer service instance
func NewNormalizerService() *NormalizerService {
	return &NormalizerService{}
}

// NormalizeAddress maps the registered-office address. Line1 prefers the
// explicit address line and falls back to the premises field; a missing
// address yields an all-empty Address.
func (s *NormalizerService) NormalizeAddress(raw models.RawAddress) models.Address {
	line1 := raw.AddressLine1
	if line1 == "" {
		line1 = raw.Premises
	}

	return models.Address{
		Line1:    line1,
		Line2:    raw.AddressLine2,
		Town:     raw.Locality,
		Postcode: raw.PostalCode,
		Country:  raw.Country,
	}
}

// NormalizeCompany copies identity fields verbatim. SIC codes are sorted
// lexicographically, not numerically; the two agree only while all codes
// stay equal length.
func (s *NormalizerService) NormalizeCompany(raw models.RawCompanyProfile) models.Company {
	sicCodes := append([]string(nil), raw.SICCodes...)
	sort.Strings(sicCodes)
	if sicCodes == nil {
		sicCodes = []string{}
	}

	return models.Company{
		CompanyNumber:  raw.CompanyNumber,
		Name:           raw.CompanyName,
		Status:         raw.CompanyStatus,
		Type:           raw.Type,
		IncorporatedOn: raw.DateOfCreation,
		Address:        s.NormalizeAddress(raw.RegisteredOfficeAddress),
		SICCodes:       sicCodes,
	}
}

// NormalizeOfficer humanizes the role string and preserves resignation date
// and birth month/year when present. The birth day is never exposed.
func (s *NormalizerService) NormalizeOfficer(raw models.RawOfficer) models.Officer {
	officer := models.Officer{
		Name:               raw.Name,
		Role:               s.HumanizeRole(raw.OfficerRole),
		AppointedOn:        raw.AppointedOn,
		ResignedOn:         raw.ResignedOn,
		Nationality:        raw.Nationality,
		CountryOfResidence: raw.CountryOfResidence,
		Occupation:         raw.Occupation,
	}

	if raw.DateOfBirth != nil {
		officer.BirthMonth = raw.DateOfBirth.Month
		officer.BirthYear = raw.DateOfBirth.Year
	}

	return officer
}

// NormalizePSC sorts the natures-of-control list lexicographically; the
// ceased flag is carried as a plain optional date.
func (s *NormalizerService) NormalizePSC(raw models.RawPSC) models.PSC {
	natures := append([]string(nil), raw.NaturesOfControl...)
	sort.Strings(natures)
	if natures == nil {
		natures = []string{}
	}

	return models.PSC{
		Name:             raw.Name,
		Kind:             raw.Kind,
		NotifiedOn:       raw.NotifiedOn,
		CeasedOn:         raw.CeasedOn,
		NaturesOfControl: natures,
		Nationality:      raw.Nationality,
	}
}

// NormalizeModernSlavery returns nil unless the registry lookup reported a
// match. The registry signal carries no signer identity or signing date, so
// those fields stay empty.
func (s *NormalizerService) NormalizeModernSlavery(raw models.RawSlaveryLookup) *models.ModernSlaveryStatement {
	if !raw.Found {
		return nil
	}

	return &models.ModernSlaveryStatement{
		URL:       raw.URL,
		Compliant: true,
	}
}

// SortOfficers orders by appointment date ascending (absent dates last),
// then name, then role. Stable for equal keys.
func (s *NormalizerService) SortOfficers(officers []models.Officer) {
	sort.SliceStable(officers, func(i, j int) bool {
		if officers[i].AppointedOn != officers[j].AppointedOn {
			return lessDateAbsentLast(officers[i].AppointedOn, officers[j].AppointedOn)
		}
		if officers[i].Name != officers[j].Name {
			return officers[i].Name < officers[j].Name
		}
		return officers[i].Role < officers[j].Role
	})
}

// SortPSCs orders by notified-on date ascending (absent dates last), then
// name, then the first nature-of-control entry. Stable for equal keys.
func (s *NormalizerService) SortPSCs(pscs []models.PSC) {
	sort.SliceStable(pscs, func(i, j int) bool {
		if pscs[i].NotifiedOn != pscs[j].NotifiedOn {
			return lessDateAbsentLast(pscs[i].NotifiedOn, pscs[j].NotifiedOn)
		}
		if pscs[i].Name != pscs[j].Name {
			return pscs[i].Name < pscs[j].Name
		}
		return firstNature(pscs[i]) < firstNature(pscs[j])
	})
}

// HumanizeRole turns an upstream role slug like "corporate-secretary" into
// "Corporate Secretary".
func (s *NormalizerService) HumanizeRole(role string) string {
	words := strings.Fields(strings.ReplaceAll(role, "-", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

var companyNamePunctuation = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeCompanyName reduces a company name for normalized-name equality
// matching against the modern-slavery registry: lowercase, UK legal suffixes
// stripped, punctuation removed, whitespace collapsed.
func (s *NormalizerService) NormalizeCompanyName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))

	suffixes := []string{" ltd.", " ltd", " limited", " plc", " llp", " lp", " cic"}
	for _, suffix := range suffixes {
		normalized = strings.TrimSuffix(normalized, suffix)
	}

	normalized = companyNamePunctuation.ReplaceAllString(normalized, "")
	normalized = strings.Join(strings.Fields(normalized), " ")

	return normalized
}

// lessDateAbsentLast compares ISO dates with empty strings sorting last.
func lessDateAbsentLast(a, b string) bool {
	if a == "" {
		return false
	}
	if b == "" {
		return true
	}
	return a < b
}

func firstNature(psc models.PSC) string {
	if len(psc.NaturesOfControl) == 0 {
		return ""
	}
	return psc.NaturesOfControl[0]
}
