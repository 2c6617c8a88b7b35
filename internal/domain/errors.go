package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound                 = errors.New("resource not found")
	ErrClassificationNotFound   = errors.New("classification code not found")
	ErrConfigurationNotFound    = errors.New("tax configuration not found")
	ErrTaxRateNotFound          = errors.New("tax rate not found")
	ErrRateNotFound             = errors.New("no effective rate for calculation")
	ErrValidation               = errors.New("validation failed")
	ErrOverlappingConfiguration = errors.New("effective window overlaps an active rule")
	ErrDuplicateCode            = errors.New("classification code already exists")
	ErrInvalidInput             = errors.New("invalid calculation input")
	ErrUnknownTaxComponent      = errors.New("unknown tax component type")
	ErrInvalidLifecycle         = errors.New("invalid lifecycle transition")
)

// NotFoundError reports that no effective rule matched a resolution request.
// It carries the full scope so the caller can diagnose the miss without
// re-deriving context.
type NotFoundError struct {
	Code         string
	BusinessType string
	Zone         *string
	Component    *TaxComponentType
	AsOf         time.Time
}

func (e *NotFoundError) Error() string {
	zone := "*"
	if e.Zone != nil {
		zone = *e.Zone
	}
	msg := fmt.Sprintf("no effective tax rule for code=%s business_type=%s zone=%s as_of=%s",
		e.Code, e.BusinessType, zone, FormatDate(e.AsOf))
	if e.Component != nil {
		msg += " component=" + e.Component.String()
	}
	return msg
}

// Is makes errors.Is(err, ErrNotFound) hold for resolution misses.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError is a single rejected field on the write path.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every structural problem found in one candidate row.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for i := range v {
		parts = append(parts, v[i].Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// OrNil returns nil when there are no errors so callers can return it directly.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// OverlappingConfigurationError names the active row a write would collide with.
type OverlappingConfigurationError struct {
	Entity        AuditEntity
	ConflictingID uuid.UUID
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

func (e *OverlappingConfigurationError) Error() string {
	to := "open"
	if e.EffectiveTo != nil {
		to = FormatDate(*e.EffectiveTo)
	}
	return fmt.Sprintf("effective window overlaps active %s %s [%s, %s]",
		e.Entity, e.ConflictingID, FormatDate(e.EffectiveFrom), to)
}

func (e *OverlappingConfigurationError) Is(target error) bool {
	return target == ErrOverlappingConfiguration
}

// DuplicateCodeError is returned when an active classification code already exists.
type DuplicateCodeError struct {
	Code       string
	ExistingID uuid.UUID
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("classification code %s already exists (id %s)", e.Code, e.ExistingID)
}

func (e *DuplicateCodeError) Is(target error) bool {
	return target == ErrDuplicateCode
}

// CalculationError aborts a single calculation, or a whole batch when Line >= 0.
type CalculationError struct {
	Kind  CalculationErrorKind
	Line  int
	Cause error
}

func (e *CalculationError) Error() string {
	prefix := "tax calculation failed"
	if e.Line >= 0 {
		prefix = fmt.Sprintf("tax calculation failed at line %d", e.Line)
	}
	return fmt.Sprintf("%s (%s): %v", prefix, e.Kind, e.Cause)
}

func (e *CalculationError) Unwrap() error { return e.Cause }

func (e *CalculationError) Is(target error) bool {
	switch e.Kind {
	case CalcRateNotFound:
		return target == ErrRateNotFound
	case CalcInvalidInput:
		return target == ErrInvalidInput
	}
	return false
}

// InvalidInput builds a CalculationError for a rejected request field.
func InvalidInput(line int, format string, args ...interface{}) *CalculationError {
	return &CalculationError{Kind: CalcInvalidInput, Line: line, Cause: fmt.Errorf(format, args...)}
}
