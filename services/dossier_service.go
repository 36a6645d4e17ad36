package services

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/sirupsen/logrus"
)

// DossierService orchestrates normalization and evidence collection into one
// immutable document. For fixed inputs and a fixed generatedAt, two builds
// produce byte-identical serialized output; generatedAt is the only field
// allowed to vary.
type DossierService struct {
	normalizer *NormalizerService
	evidence   *EvidenceService
}

// NewDossierService creates a new dossier service over the given collaborators.
func NewDossierService(normalizer *NormalizerService, evidence *EvidenceService) *DossierService {
	return &DossierService{
		normalizer: normalizer,
		evidence:   evidence,
	}
}

// Build assembles the dossier and its evidence bundle from raw upstream
// payloads. generatedAt defaults to the current wall-clock time (RFC 3339
// UTC) when empty. RiskFlags starts empty; flags are attached by the risk
// engine in a separate step.
func (s *DossierService) Build(input *models.DossierInput, generatedAt string) (*models.Dossier, []models.Evidence, error) {
	if generatedAt == "" {
		generatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	officers := make([]models.Officer, 0, len(input.Officers))
	for _, raw := range input.Officers {
		officers = append(officers, s.normalizer.NormalizeOfficer(raw))
	}
	s.normalizer.SortOfficers(officers)

	pscs := make([]models.PSC, 0, len(input.PSCs))
	for _, raw := range input.PSCs {
		pscs = append(pscs, s.normalizer.NormalizePSC(raw))
	}
	s.normalizer.SortPSCs(pscs)

	dossier := &models.Dossier{
		Company:       s.normalizer.NormalizeCompany(input.Profile),
		Officers:      officers,
		PSCs:          pscs,
		RiskFlags:     []models.RiskFlag{},
		ModernSlavery: s.normalizer.NormalizeModernSlavery(input.Slavery),
		GeneratedAt:   generatedAt,
	}

	evidence := s.evidence.Bundle(input.ProfileEvidence, input.OfficersEvidence, input.PSCsEvidence)

	logrus.WithFields(logrus.Fields{
		"company_number": dossier.Company.CompanyNumber,
		"officers":       len(dossier.Officers),
		"pscs":           len(dossier.PSCs),
		"evidence":       len(evidence),
	}).Debug("Built dossier")

	return dossier, evidence, nil
}

// VerifyDeterminism serializes the dossier twice and compares bytes. A false
// result is an internal invariant failure.
func (s *DossierService) VerifyDeterminism(dossier *models.Dossier) bool {
	first, err := json.Marshal(dossier)
	if err != nil {
		return false
	}
	second, err := json.Marshal(dossier)
	if err != nil {
		return false
	}
	return bytes.Equal(first, second)
}
