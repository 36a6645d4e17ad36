package models

// FlagID identifies one of the seven risk rules. The set is closed; anything
// outside it is rejected at the rule-table boundary.
type FlagID string

const (
	FlagCompanyNotActive    FlagID = "F1"
	FlagAccountsOverdue     FlagID = "F2"
	FlagConfirmationOverdue FlagID = "F3"
	FlagInsolvencyHistory   FlagID = "F4"
	FlagNoActivePSCs        FlagID = "F5"
	FlagOfficerChurn        FlagID = "F6"
	FlagNoSlaveryStatement  FlagID = "F7"
)

// Valid reports whether the id belongs to the closed rule set.
func (id FlagID) Valid() bool {
	switch id {
	case FlagCompanyNotActive, FlagAccountsOverdue, FlagConfirmationOverdue,
		FlagInsolvencyHistory, FlagNoActivePSCs, FlagOfficerChurn, FlagNoSlaveryStatement:
		return true
	}
	return false
}

// Severity classifies how serious a fired rule is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// Valid reports whether the severity belongs to the closed set.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// RiskFlag is an explicit, rule-derived due-diligence concern. Immutable
// once produced; the explanation carries the concrete figures that made the
// rule fire, which is the audit trail a reviewer depends on.
type RiskFlag struct {
	ID          FlagID   `json:"id"`
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Explanation string   `json:"explanation"`
	EvidenceURL string   `json:"evidenceUrl,omitempty"`
}
