package models

// DossierInput carries the already-fetched raw upstream payloads for one
// company, plus the evidence describing where each payload came from.
type DossierInput struct {
	CompanyNumber string            `json:"company_number"`
	Profile       RawCompanyProfile `json:"profile"`
	Officers      []RawOfficer      `json:"officers"`
	PSCs          []RawPSC          `json:"pscs"`
	Slavery       RawSlaveryLookup  `json:"slavery"`

	ProfileEvidence  EvidenceInput `json:"profile_evidence"`
	OfficersEvidence EvidenceInput `json:"officers_evidence"`
	PSCsEvidence     EvidenceInput `json:"pscs_evidence"`
}

// Dossier is the canonical due-diligence document for one company. For fixed
// upstream inputs and a fixed GeneratedAt, two builds serialize to identical
// bytes. RiskFlags starts empty and is populated by a separate step so the
// builder stays independently testable for determinism.
//
// The JSON field names here are a compatibility surface for the HTML/PDF
// renderer and API consumers.
type Dossier struct {
	Company       Company                 `json:"company"`
	Officers      []Officer               `json:"officers"`
	PSCs          []PSC                   `json:"pscs"`
	RiskFlags     []RiskFlag              `json:"riskFlags"`
	ModernSlavery *ModernSlaveryStatement `json:"modernSlavery,omitempty"`
	GeneratedAt   string                  `json:"generatedAt"`
}
