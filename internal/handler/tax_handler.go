package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstengine/internal/csvexport"
	"gstengine/internal/domain"
	"gstengine/internal/middleware"
	"gstengine/internal/service"
)

// TaxHandler handles rule resolution, calculation and rule maintenance endpoints.
type TaxHandler struct {
	taxService service.TaxService
	now        func() time.Time
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService, now: time.Now}
}

// CalculateRequest is one line to be taxed. AsOf is the supply date (YYYY-MM-DD).
type CalculateRequest struct {
	ClassificationCode string          `json:"classification_code" example:"85171300"`
	UnitAmount         decimal.Decimal `json:"unit_amount" swaggertype:"string" example:"500.00"`
	Quantity           decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
	SourceState        string          `json:"source_state" example:"KA"`
	DestinationState   string          `json:"destination_state" example:"KA"`
	BusinessType       string          `json:"business_type" example:"RETAIL"`
	TransactionType    string          `json:"transaction_type" example:"B2B"`
	AsOf               string          `json:"as_of" example:"2024-06-01"`
}

// BulkCalculateRequest is a batch of lines calculated together.
type BulkCalculateRequest struct {
	Items []CalculateRequest `json:"items" binding:"required"`
}

// ExpireRequest closes an active row's window.
type ExpireRequest struct {
	EffectiveTo string `json:"effective_to" binding:"required" example:"2024-12-31"`
}

func (r *CalculateRequest) toDomain(line int) (domain.TaxCalculationRequest, error) {
	asOf, err := domain.ParseOptionalDate(strings.TrimSpace(r.AsOf))
	if err != nil {
		return domain.TaxCalculationRequest{}, domain.InvalidInput(line, "as_of: %v", err)
	}
	return domain.TaxCalculationRequest{
		ClassificationCode: r.ClassificationCode,
		UnitAmount:         r.UnitAmount,
		Quantity:           r.Quantity,
		SourceState:        r.SourceState,
		DestinationState:   r.DestinationState,
		BusinessType:       r.BusinessType,
		TransactionType:    r.TransactionType,
		AsOf:               asOf,
	}, nil
}

// ResolveConfiguration handles GET /api/v1/tax/configurations/resolve
// @Summary Resolve the effective tax configuration
// @Description Returns the configuration governing a code and business type on a date. A missing zone matches only all-zones rows.
// @Tags tax
// @Produce json
// @Param code query string true "Classification code" example(85171300)
// @Param business_type query string true "Business type" example(RETAIL)
// @Param zone query string false "Geographical zone"
// @Param as_of query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} Response{data=domain.TaxConfiguration} "Effective configuration"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "No effective configuration"
// @Router /tax/configurations/resolve [get]
func (h *TaxHandler) ResolveConfiguration(c *gin.Context) {
	code, businessType, ok := requiredScope(c)
	if !ok {
		return
	}
	asOf, err := optionalDate(optionalQuery(c, "as_of"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.taxService.ResolveConfiguration(c.Request.Context(), service.ResolveConfigurationInput{
		Code:         code,
		BusinessType: businessType,
		Zone:         optionalQuery(c, "zone"),
		AsOf:         asOf,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cfg)
}

// ResolveRate handles GET /api/v1/tax/rates/resolve
// @Summary Resolve an effective per-component rate
// @Description Without a component the IGST rate is preferred, then CGST, then SGST.
// @Tags tax
// @Produce json
// @Param code query string true "Classification code"
// @Param business_type query string true "Business type"
// @Param component query string false "CGST, SGST, IGST, UTGST or CESS"
// @Param zone query string false "Geographical zone"
// @Param as_of query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} Response{data=domain.TaxRate} "Effective rate"
// @Failure 400 {object} ErrorResponseBody "Invalid request or unknown component"
// @Failure 404 {object} ErrorResponseBody "No effective rate"
// @Router /tax/rates/resolve [get]
func (h *TaxHandler) ResolveRate(c *gin.Context) {
	code, businessType, ok := requiredScope(c)
	if !ok {
		return
	}
	asOf, err := optionalDate(optionalQuery(c, "as_of"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	in := service.ResolveRateInput{
		Code:         code,
		BusinessType: businessType,
		Zone:         optionalQuery(c, "zone"),
		AsOf:         asOf,
	}
	if name := optionalQuery(c, "component"); name != nil {
		component, err := domain.ParseTaxComponentType(*name)
		if err != nil {
			HandleError(c, err)
			return
		}
		in.Component = &component
	}

	rate, err := h.taxService.ResolveRate(c.Request.Context(), in)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rate)
}

// Calculate handles POST /api/v1/tax/calculate
// @Summary Calculate tax for one line
// @Description Splits GST into CGST and SGST for intra-state supplies and charges IGST otherwise.
// @Tags tax
// @Accept json
// @Produce json
// @Param request body CalculateRequest true "Line to tax"
// @Success 200 {object} Response{data=domain.TaxCalculationResult} "Calculation result"
// @Failure 400 {object} ErrorResponseBody "Invalid input"
// @Failure 422 {object} ErrorResponseBody "No effective configuration"
// @Router /tax/calculate [post]
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	line, err := req.toDomain(-1)
	if err != nil {
		HandleError(c, err)
		return
	}

	result, err := h.taxService.CalculateTax(c.Request.Context(), &line)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// CalculateBulk handles POST /api/v1/tax/calculate/bulk
// @Summary Calculate tax for a batch of lines
// @Description All lines succeed or the first failing line is reported by index.
// @Tags tax
// @Accept json
// @Produce json
// @Param request body BulkCalculateRequest true "Lines to tax"
// @Success 200 {object} Response{data=domain.BulkTaxCalculationResult} "Per-line results and totals"
// @Failure 400 {object} ErrorResponseBody "Invalid input"
// @Failure 422 {object} ErrorResponseBody "A line has no effective configuration"
// @Router /tax/calculate/bulk [post]
func (h *TaxHandler) CalculateBulk(c *gin.Context) {
	var req BulkCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	lines := make([]domain.TaxCalculationRequest, len(req.Items))
	for i := range req.Items {
		line, err := req.Items[i].toDomain(i)
		if err != nil {
			HandleError(c, err)
			return
		}
		lines[i] = line
	}

	result, err := h.taxService.CalculateBulkTax(c.Request.Context(), lines)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// CreateConfiguration handles POST /api/v1/tax/configurations
// @Summary Create a tax configuration
// @Description Inserts a configuration for a scope. The window must not overlap an active configuration of the same scope.
// @Tags tax
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param request body service.CreateConfigurationInput true "Configuration"
// @Success 201 {object} Response{data=domain.TaxConfiguration} "Configuration created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 409 {object} ErrorResponseBody "Overlapping effective window"
// @Failure 422 {object} ErrorResponseBody "Rates are inconsistent"
// @Router /tax/configurations [post]
func (h *TaxHandler) CreateConfiguration(c *gin.Context) {
	var req service.CreateConfigurationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.taxService.CreateConfiguration(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, cfg)
}

// SupersedeConfiguration handles POST /api/v1/tax/configurations/:id/supersede
// @Summary Supersede a tax configuration
// @Description Closes the configuration the day before the new terms start and inserts the replacement atomically.
// @Tags tax
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param id path string true "Configuration ID (UUID)"
// @Param request body service.ConfigurationTerms true "Replacement terms"
// @Success 201 {object} Response{data=domain.TaxConfiguration} "Replacement configuration"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Configuration not found"
// @Failure 409 {object} ErrorResponseBody "Invalid lifecycle or overlapping window"
// @Failure 422 {object} ErrorResponseBody "Rates are inconsistent"
// @Router /tax/configurations/{id}/supersede [post]
func (h *TaxHandler) SupersedeConfiguration(c *gin.Context) {
	id, ok := pathID(c, "invalid configuration ID")
	if !ok {
		return
	}
	var req service.ConfigurationTerms
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.taxService.SupersedeConfiguration(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, cfg)
}

// MaterializeConfiguration handles POST /api/v1/tax/configurations/materialize
// @Summary Build a configuration from component rates
// @Description Folds the rates effective on as_of into a new configuration starting at effective_from.
// @Tags tax
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param request body service.MaterializeInput true "Scope and dates"
// @Success 201 {object} Response{data=domain.TaxConfiguration} "Configuration created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "No effective rates"
// @Failure 409 {object} ErrorResponseBody "Overlapping effective window"
// @Failure 422 {object} ErrorResponseBody "Rates are inconsistent"
// @Router /tax/configurations/materialize [post]
func (h *TaxHandler) MaterializeConfiguration(c *gin.Context) {
	var req service.MaterializeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, err := h.taxService.MaterializeConfiguration(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, cfg)
}

// ExpireConfiguration handles POST /api/v1/tax/configurations/:id/expire
// @Summary Expire a tax configuration
// @Description Shortens the configuration's window to end on effective_to. Windows are never extended.
// @Tags tax
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param id path string true "Configuration ID (UUID)"
// @Param request body ExpireRequest true "Last effective day"
// @Success 200 {object} Response{data=domain.TaxConfiguration} "Expired configuration"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Configuration not found"
// @Failure 409 {object} ErrorResponseBody "Invalid lifecycle transition"
// @Router /tax/configurations/{id}/expire [post]
func (h *TaxHandler) ExpireConfiguration(c *gin.Context) {
	id, ok := pathID(c, "invalid configuration ID")
	if !ok {
		return
	}
	effectiveTo, ok := bindExpiry(c)
	if !ok {
		return
	}

	cfg, err := h.taxService.ExpireConfiguration(c.Request.Context(), actorFrom(c), id, effectiveTo)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cfg)
}

// DeactivateConfiguration handles POST /api/v1/tax/configurations/:id/deactivate
// @Summary Deactivate a tax configuration
// @Tags tax
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param id path string true "Configuration ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Configuration deactivated"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Configuration not found"
// @Failure 409 {object} ErrorResponseBody "Already inactive"
// @Router /tax/configurations/{id}/deactivate [post]
func (h *TaxHandler) DeactivateConfiguration(c *gin.Context) {
	id, ok := pathID(c, "invalid configuration ID")
	if !ok {
		return
	}

	if err := h.taxService.DeactivateConfiguration(c.Request.Context(), actorFrom(c), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "configuration deactivated"})
}

// ExportConfigurations handles GET /api/v1/tax/configurations/export
// @Summary Export a code's configuration history as CSV
// @Tags tax
// @Produce text/csv
// @Param code query string true "Classification code"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Missing code"
// @Failure 404 {object} ErrorResponseBody "Classification code not found"
// @Router /tax/configurations/export [get]
func (h *TaxHandler) ExportConfigurations(c *gin.Context) {
	code := optionalQuery(c, "code")
	if code == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "code is required")
		return
	}

	cfgs, err := h.taxService.ListConfigurations(c.Request.Context(), *code)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename(*code, h.now())+`"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		middleware.GetLogger(c).Warnw("csv export aborted", "code", *code, "error", err)
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		middleware.GetLogger(c).Warnw("csv export aborted", "code", *code, "error", err)
		return
	}
	if err := w.WriteConfigurations(*code, cfgs); err != nil {
		middleware.GetLogger(c).Warnw("csv export aborted", "code", *code, "error", err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		middleware.GetLogger(c).Warnw("csv export aborted", "code", *code, "error", err)
	}
}

// CreateRate handles POST /api/v1/tax/rates
// @Summary Create a per-component tax rate
// @Description Inserts a rate for a scope and component. The window must not overlap an active rate of the same scope.
// @Tags tax
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param request body service.CreateRateInput true "Rate"
// @Success 201 {object} Response{data=domain.TaxRate} "Rate created"
// @Failure 400 {object} ErrorResponseBody "Invalid request or unknown component"
// @Failure 409 {object} ErrorResponseBody "Overlapping effective window"
// @Failure 422 {object} ErrorResponseBody "Rate failed validation"
// @Router /tax/rates [post]
func (h *TaxHandler) CreateRate(c *gin.Context) {
	var req service.CreateRateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	rate, err := h.taxService.CreateRate(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rate)
}

// ExpireRate handles POST /api/v1/tax/rates/:id/expire
// @Summary Expire a tax rate
// @Tags tax
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param id path string true "Rate ID (UUID)"
// @Param request body ExpireRequest true "Last effective day"
// @Success 200 {object} Response{data=domain.TaxRate} "Expired rate"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Rate not found"
// @Failure 409 {object} ErrorResponseBody "Invalid lifecycle transition"
// @Router /tax/rates/{id}/expire [post]
func (h *TaxHandler) ExpireRate(c *gin.Context) {
	id, ok := pathID(c, "invalid rate ID")
	if !ok {
		return
	}
	effectiveTo, ok := bindExpiry(c)
	if !ok {
		return
	}

	rate, err := h.taxService.ExpireRate(c.Request.Context(), actorFrom(c), id, effectiveTo)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rate)
}

// DeactivateRate handles POST /api/v1/tax/rates/:id/deactivate
// @Summary Deactivate a tax rate
// @Tags tax
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param id path string true "Rate ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Rate deactivated"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Rate not found"
// @Failure 409 {object} ErrorResponseBody "Already inactive"
// @Router /tax/rates/{id}/deactivate [post]
func (h *TaxHandler) DeactivateRate(c *gin.Context) {
	id, ok := pathID(c, "invalid rate ID")
	if !ok {
		return
	}

	if err := h.taxService.DeactivateRate(c.Request.Context(), actorFrom(c), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "rate deactivated"})
}

// Validate handles GET /api/v1/tax/validation/:code
// @Summary Diagnose a code's tax rules
// @Description Reports whether an effective rule exists, overlapping active rows and business types without coverage.
// @Tags tax
// @Produce json
// @Param code path string true "Classification code"
// @Param as_of query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} Response{data=domain.TaxValidationResult} "Validation report"
// @Failure 400 {object} ErrorResponseBody "Invalid date"
// @Failure 404 {object} ErrorResponseBody "Classification code not found"
// @Router /tax/validation/{code} [get]
func (h *TaxHandler) Validate(c *gin.Context) {
	asOf, err := optionalDate(optionalQuery(c, "as_of"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.taxService.ValidateTaxConfiguration(c.Request.Context(), c.Param("code"), asOf)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

func requiredScope(c *gin.Context) (code, businessType string, ok bool) {
	codeParam := optionalQuery(c, "code")
	btParam := optionalQuery(c, "business_type")
	if codeParam == nil || btParam == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "code and business_type are required")
		return "", "", false
	}
	return *codeParam, *btParam, true
}

func pathID(c *gin.Context, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", msg)
		return uuid.Nil, false
	}
	return id, true
}

func bindExpiry(c *gin.Context) (time.Time, bool) {
	var req ExpireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "effective_to is required")
		return time.Time{}, false
	}
	effectiveTo, err := domain.ParseDate(strings.TrimSpace(req.EffectiveTo))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return time.Time{}, false
	}
	return effectiveTo, true
}
