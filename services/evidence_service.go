package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
)

// evidenceIDLength is the display length of an evidence id in hex chars.
// Truncating the digest trades global collision resistance for readability,
// which is fine for provenance labels.
const evidenceIDLength = 12

// EvidenceService derives stable identifiers for fetched resources so the
// dossier can cite provenance without duplicating URLs as keys.
type EvidenceService struct{}

// NewEvidenceService creates a new evidence service instance
func NewEvidenceService() *EvidenceService {
	return &EvidenceService{}
}

// EvidenceID derives the fixed-length id for an API URL. Pure function, no
// I/O: the same URL always maps to the same id.
func (s *EvidenceService) EvidenceID(apiURL string) string {
	sum := sha256.Sum256([]byte(apiURL))
	return hex.EncodeToString(sum[:])[:evidenceIDLength]
}

// WithID attaches the derived id to an evidence input without mutating it.
func (s *EvidenceService) WithID(input models.EvidenceInput) models.Evidence {
	return models.Evidence{
		ID:        s.EvidenceID(input.APIURL),
		APIURL:    input.APIURL,
		PublicURL: input.PublicURL,
		FetchedAt: input.FetchedAt,
		FromCache: input.FromCache,
	}
}

// Bundle assigns ids to a set of evidence inputs and sorts the result by id
// for deterministic serialization order.
func (s *EvidenceService) Bundle(inputs ...models.EvidenceInput) []models.Evidence {
	evidence := make([]models.Evidence, 0, len(inputs))
	for _, input := range inputs {
		evidence = append(evidence, s.WithID(input))
	}

	sort.Slice(evidence, func(i, j int) bool {
		return evidence[i].ID < evidence[j].ID
	})

	return evidence
}
