package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/sirupsen/logrus"
)

const companyStatusActive = "active"

// RiskRuleConfig holds the injectable knobs of the officer-churn rule (F6).
// All other rules are fixed.
type RiskRuleConfig struct {
	LookbackMonths  int `json:"lookback_months"`
	ChangeThreshold int `json:"change_threshold"`
}

// DefaultRiskRuleConfig returns the default churn window and threshold.
func DefaultRiskRuleConfig() *RiskRuleConfig {
	return &RiskRuleConfig{
		LookbackMonths:  12,
		ChangeThreshold: 3,
	}
}

// RiskFlagService evaluates seven independent, order-independent predicate
// rules against the normalized dossier and the raw input. Rules never mutate
// their input; a nil return means the rule didn't fire.
type RiskFlagService struct{}

// NewRiskFlagService creates a new risk flag service instance
func NewRiskFlagService() *RiskFlagService {
	return &RiskFlagService{}
}

type riskRule func(dossier *models.Dossier, raw *models.DossierInput, referenceDate time.Time, cfg *RiskRuleConfig) *models.RiskFlag

// ComputeFlags runs every rule and returns the fired flags sorted
// lexicographically by id (F1 < F2 < ... < F7).
func (s *RiskFlagService) ComputeFlags(dossier *models.Dossier, raw *models.DossierInput, referenceDate time.Time, cfg *RiskRuleConfig) []models.RiskFlag {
	if cfg == nil {
		cfg = DefaultRiskRuleConfig()
	}

	rules := []riskRule{
		s.flagCompanyNotActive,
		s.flagAccountsOverdue,
		s.flagConfirmationOverdue,
		s.flagInsolvencyHistory,
		s.flagNoActivePSCs,
		s.flagOfficerChurn,
		s.flagNoSlaveryStatement,
	}

	flags := make([]models.RiskFlag, 0, len(rules))
	for _, rule := range rules {
		flag := rule(dossier, raw, referenceDate, cfg)
		if flag == nil {
			continue
		}
		if !flag.ID.Valid() || !flag.Severity.Valid() {
			logrus.WithFields(logrus.Fields{
				"flag_id":  flag.ID,
				"severity": flag.Severity,
			}).Error("Risk rule produced a flag outside the closed id/severity sets, dropping it")
			continue
		}
		flags = append(flags, *flag)
	}

	sortFlags(flags)
	return flags
}

// ApplyFlags returns a new dossier carrying the flags re-sorted by id. The
// original dossier's RiskFlags slice stays untouched.
func (s *RiskFlagService) ApplyFlags(dossier *models.Dossier, flags []models.RiskFlag) *models.Dossier {
	applied := make([]models.RiskFlag, len(flags))
	copy(applied, flags)
	sortFlags(applied)

	out := *dossier
	out.RiskFlags = applied
	return &out
}

// F1: the company is not in active status.
func (s *RiskFlagService) flagCompanyNotActive(dossier *models.Dossier, raw *models.DossierInput, _ time.Time, _ *RiskRuleConfig) *models.RiskFlag {
	if dossier.Company.Status == companyStatusActive {
		return nil
	}

	return &models.RiskFlag{
		ID:          models.FlagCompanyNotActive,
		Title:       "Company is not active",
		Severity:    models.SeverityHigh,
		Explanation: fmt.Sprintf("Company status is %q instead of %q.", dossier.Company.Status, companyStatusActive),
		EvidenceURL: raw.ProfileEvidence.PublicURL,
	}
}

// F2: annual accounts are overdue.
func (s *RiskFlagService) flagAccountsOverdue(_ *models.Dossier, raw *models.DossierInput, _ time.Time, _ *RiskRuleConfig) *models.RiskFlag {
	accounts := raw.Profile.Accounts
	if !accounts.Overdue && !accounts.NextAccounts.Overdue {
		return nil
	}

	dueOn := accounts.NextAccounts.DueOn
	if dueOn == "" {
		dueOn = accounts.NextDue
	}
	explanation := "Annual accounts are overdue."
	if dueOn != "" {
		explanation = fmt.Sprintf("Annual accounts were due on %s and are overdue.", dueOn)
	}

	return &models.RiskFlag{
		ID:          models.FlagAccountsOverdue,
		Title:       "Accounts overdue",
		Severity:    models.SeverityMedium,
		Explanation: explanation,
		EvidenceURL: raw.ProfileEvidence.PublicURL,
	}
}

// F3: the confirmation statement is overdue.
func (s *RiskFlagService) flagConfirmationOverdue(_ *models.Dossier, raw *models.DossierInput, _ time.Time, _ *RiskRuleConfig) *models.RiskFlag {
	statement := raw.Profile.ConfirmationStatement
	if !statement.Overdue {
		return nil
	}

	explanation := "Confirmation statement is overdue."
	if statement.NextDue != "" {
		explanation = fmt.Sprintf("Confirmation statement was due on %s and is overdue.", statement.NextDue)
	}

	return &models.RiskFlag{
		ID:          models.FlagConfirmationOverdue,
		Title:       "Confirmation statement overdue",
		Severity:    models.SeverityMedium,
		Explanation: explanation,
		EvidenceURL: raw.ProfileEvidence.PublicURL,
	}
}

// F4: insolvency history or liquidation on record.
func (s *RiskFlagService) flagInsolvencyHistory(_ *models.Dossier, raw *models.DossierInput, _ time.Time, _ *RiskRuleConfig) *models.RiskFlag {
	if !raw.Profile.HasInsolvencyHistory && !raw.Profile.HasBeenLiquidated {
		return nil
	}

	var reason string
	switch {
	case raw.Profile.HasInsolvencyHistory && raw.Profile.HasBeenLiquidated:
		reason = "has insolvency history and has been liquidated"
	case raw.Profile.HasInsolvencyHistory:
		reason = "has insolvency history"
	default:
		reason = "has been liquidated"
	}

	return &models.RiskFlag{
		ID:          models.FlagInsolvencyHistory,
		Title:       "Insolvency history",
		Severity:    models.SeverityHigh,
		Explanation: fmt.Sprintf("The registry records that this company %s.", reason),
		EvidenceURL: raw.ProfileEvidence.PublicURL,
	}
}

// F5: no live PSCs and no PSC-statements link to explain their absence.
func (s *RiskFlagService) flagNoActivePSCs(dossier *models.Dossier, raw *models.DossierInput, _ time.Time, _ *RiskRuleConfig) *models.RiskFlag {
	active := 0
	for i := range dossier.PSCs {
		if !dossier.PSCs[i].IsCeased() {
			active++
		}
	}
	if active > 0 || raw.Profile.Links.PSCStatements != "" {
		return nil
	}

	return &models.RiskFlag{
		ID:          models.FlagNoActivePSCs,
		Title:       "No persons with significant control",
		Severity:    models.SeverityHigh,
		Explanation: fmt.Sprintf("0 of %d recorded PSCs are active and no PSC statements are filed to explain why.", len(dossier.PSCs)),
		EvidenceURL: raw.PSCsEvidence.PublicURL,
	}
}

// F6: officer appointments plus resignations inside the lookback window meet
// the configured threshold.
func (s *RiskFlagService) flagOfficerChurn(dossier *models.Dossier, raw *models.DossierInput, referenceDate time.Time, cfg *RiskRuleConfig) *models.RiskFlag {
	windowStart := referenceDate.AddDate(0, -cfg.LookbackMonths, 0)

	changes := 0
	for i := range dossier.Officers {
		if dateInWindow(dossier.Officers[i].AppointedOn, windowStart, referenceDate) {
			changes++
		}
		if dateInWindow(dossier.Officers[i].ResignedOn, windowStart, referenceDate) {
			changes++
		}
	}
	if changes < cfg.ChangeThreshold {
		return nil
	}

	return &models.RiskFlag{
		ID:       models.FlagOfficerChurn,
		Title:    "High officer turnover",
		Severity: models.SeverityMedium,
		Explanation: fmt.Sprintf("%d officer changes in the last %d months, at or above the threshold of %d.",
			changes, cfg.LookbackMonths, cfg.ChangeThreshold),
		EvidenceURL: raw.OfficersEvidence.PublicURL,
	}
}

// F7: an active company with no modern-slavery statement on the registry.
// Only evaluated when F1 does not fire: non-active companies are exempt.
func (s *RiskFlagService) flagNoSlaveryStatement(dossier *models.Dossier, raw *models.DossierInput, _ time.Time, _ *RiskRuleConfig) *models.RiskFlag {
	if dossier.Company.Status != companyStatusActive {
		return nil
	}
	if dossier.ModernSlavery != nil {
		return nil
	}

	return &models.RiskFlag{
		ID:          models.FlagNoSlaveryStatement,
		Title:       "No modern slavery statement",
		Severity:    models.SeverityMedium,
		Explanation: fmt.Sprintf("No modern slavery statement for %q was found on the registry.", dossier.Company.Name),
		EvidenceURL: raw.ProfileEvidence.PublicURL,
	}
}

// dateInWindow reports whether the ISO date falls inside (start, end].
// Undated events cannot be placed in the window and are not counted.
func dateInWindow(isoDate string, start, end time.Time) bool {
	if isoDate == "" {
		return false
	}
	parsed, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return false
	}
	return parsed.After(start) && !parsed.After(end)
}

func sortFlags(flags []models.RiskFlag) {
	sort.Slice(flags, func(i, j int) bool {
		return flags[i].ID < flags[j].ID
	})
}
