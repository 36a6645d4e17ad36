package handlers

import (
	"errors"
	"regexp"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/models"
	"github.com/bortnikova888-creator/SupplierCheck-UK/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var companyNumberPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

type DossierHandler struct {
	CompaniesHouse *services.CompaniesHouseClient
	Registry       *services.SlaveryRegistryClient
	Dossier        *services.DossierService
	Risk           *services.RiskFlagService
	Renderer       *services.RendererService
	RiskConfig     *services.RiskRuleConfig
}

func NewDossierHandler(
	companiesHouse *services.CompaniesHouseClient,
	registry *services.SlaveryRegistryClient,
	dossier *services.DossierService,
	risk *services.RiskFlagService,
	renderer *services.RendererService,
	riskConfig *services.RiskRuleConfig,
) *DossierHandler {
	return &DossierHandler{
		CompaniesHouse: companiesHouse,
		Registry:       registry,
		Dossier:        dossier,
		Risk:           risk,
		Renderer:       renderer,
		RiskConfig:     riskConfig,
	}
}

// GetDossier compiles and returns the dossier plus evidence as JSON.
func (h *DossierHandler) GetDossier(c *fiber.Ctx) error {
	dossier, evidence, err := h.buildDossier(c)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"data":     dossier,
		"evidence": evidence,
	})
}

// GetDossierHTML returns the rendered report page.
func (h *DossierHandler) GetDossierHTML(c *fiber.Ctx) error {
	dossier, evidence, err := h.buildDossier(c)
	if err != nil {
		return h.errorResponse(c, err)
	}

	html, err := h.Renderer.RenderHTML(dossier, evidence)
	if err != nil {
		return h.errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}

// GetDossierPDF returns the report printed to PDF.
func (h *DossierHandler) GetDossierPDF(c *fiber.Ctx) error {
	dossier, evidence, err := h.buildDossier(c)
	if err != nil {
		return h.errorResponse(c, err)
	}

	pdf, err := h.Renderer.RenderPDF(c.Context(), dossier, evidence)
	if err != nil {
		return h.errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="dossier-`+dossier.Company.CompanyNumber+`.pdf"`)
	return c.Send(pdf)
}

func (h *DossierHandler) buildDossier(c *fiber.Ctx) (*models.Dossier, []models.Evidence, error) {
	companyNumber := c.Params("number")
	if !companyNumberPattern.MatchString(companyNumber) {
		return nil, nil, errInvalidCompanyNumber
	}

	requestID := uuid.NewString()
	logger := logrus.WithFields(logrus.Fields{
		"request_id":     requestID,
		"company_number": companyNumber,
	})
	logger.Info("Building supplier dossier")

	ctx := c.Context()

	profile, profileEvidence, err := h.CompaniesHouse.GetProfile(ctx, companyNumber)
	if err != nil {
		return nil, nil, err
	}
	officers, officersEvidence, err := h.CompaniesHouse.GetOfficers(ctx, companyNumber)
	if err != nil {
		return nil, nil, err
	}
	pscs, pscsEvidence, err := h.CompaniesHouse.GetPSCs(ctx, companyNumber)
	if err != nil {
		return nil, nil, err
	}
	slavery, err := h.Registry.Lookup(ctx, profile.CompanyName)
	if err != nil {
		return nil, nil, err
	}

	input := &models.DossierInput{
		CompanyNumber:    companyNumber,
		Profile:          *profile,
		Officers:         officers,
		PSCs:             pscs,
		Slavery:          slavery,
		ProfileEvidence:  profileEvidence,
		OfficersEvidence: officersEvidence,
		PSCsEvidence:     pscsEvidence,
	}

	dossier, evidence, err := h.Dossier.Build(input, "")
	if err != nil {
		return nil, nil, err
	}

	flags := h.Risk.ComputeFlags(dossier, input, time.Now().UTC(), h.RiskConfig)
	dossier = h.Risk.ApplyFlags(dossier, flags)

	logger.WithField("risk_flags", len(flags)).Info("Supplier dossier built")
	return dossier, evidence, nil
}

var errInvalidCompanyNumber = errors.New("company number must be 8 alphanumeric characters")

func (h *DossierHandler) errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errInvalidCompanyNumber):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrCompanyNotFound):
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
