package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gstengine/internal/domain"
	"gstengine/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NotFoundDetails echoes the scope a resolution attempted.
type NotFoundDetails struct {
	ClassificationCode string  `json:"classification_code"`
	BusinessType       string  `json:"business_type"`
	Zone               *string `json:"zone"`
	Component          string  `json:"component,omitempty"`
	AsOf               string  `json:"as_of"`
}

// OverlapDetails names the active row a write collided with.
type OverlapDetails struct {
	Entity        domain.AuditEntity `json:"entity"`
	ConflictingID string             `json:"conflicting_id"`
	EffectiveFrom string             `json:"effective_from"`
	EffectiveTo   *string            `json:"effective_to"`
}

// CalculationErrorDetails identifies the failing line of a calculation.
type CalculationErrorDetails struct {
	Line     *int             `json:"line,omitempty"`
	NotFound *NotFoundDetails `json:"not_found,omitempty"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrRateNotFound):
		return http.StatusUnprocessableEntity, "RATE_NOT_FOUND", "no effective tax configuration for the calculation"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, domain.ErrClassificationNotFound):
		return http.StatusNotFound, "CLASSIFICATION_NOT_FOUND", "classification code not found"
	case errors.Is(err, domain.ErrConfigurationNotFound):
		return http.StatusNotFound, "CONFIGURATION_NOT_FOUND", "tax configuration not found"
	case errors.Is(err, domain.ErrTaxRateNotFound):
		return http.StatusNotFound, "TAX_RATE_NOT_FOUND", "tax rate not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", "tax rule failed validation"
	case errors.Is(err, domain.ErrOverlappingConfiguration):
		return http.StatusConflict, "OVERLAPPING_EFFECTIVE_WINDOW", err.Error()
	case errors.Is(err, domain.ErrDuplicateCode):
		return http.StatusConflict, "DUPLICATE_CODE", err.Error()
	case errors.Is(err, domain.ErrInvalidLifecycle):
		return http.StatusConflict, "INVALID_LIFECYCLE", err.Error()
	case errors.Is(err, domain.ErrUnknownTaxComponent):
		return http.StatusBadRequest, "UNKNOWN_TAX_COMPONENT", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// errorDetails extracts the structured context carried by typed errors.
func errorDetails(err error) interface{} {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	var overlap *domain.OverlappingConfigurationError
	if errors.As(err, &overlap) {
		d := OverlapDetails{
			Entity:        overlap.Entity,
			ConflictingID: overlap.ConflictingID.String(),
			EffectiveFrom: domain.FormatDate(overlap.EffectiveFrom),
		}
		if overlap.EffectiveTo != nil {
			to := domain.FormatDate(*overlap.EffectiveTo)
			d.EffectiveTo = &to
		}
		return d
	}
	var calcErr *domain.CalculationError
	if errors.As(err, &calcErr) {
		d := CalculationErrorDetails{NotFound: notFoundDetails(err)}
		if calcErr.Line >= 0 {
			line := calcErr.Line
			d.Line = &line
		}
		return d
	}
	if nf := notFoundDetails(err); nf != nil {
		return nf
	}
	return nil
}

func notFoundDetails(err error) *NotFoundDetails {
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return nil
	}
	d := &NotFoundDetails{
		ClassificationCode: nf.Code,
		BusinessType:       nf.BusinessType,
		Zone:               nf.Zone,
		AsOf:               domain.FormatDate(nf.AsOf),
	}
	if nf.Component != nil {
		d.Component = nf.Component.String()
	}
	return d
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Errorw("internal error", "error", err)
	}
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg, Details: errorDetails(err)},
	})
}
