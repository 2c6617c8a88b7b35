package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstengine/internal/domain"
)

// ResolveConfigurationInput selects the configuration governing a supply.
type ResolveConfigurationInput struct {
	Code         string
	BusinessType string
	Zone         *string
	AsOf         *time.Time
}

// ResolveRateInput selects one per-component rate. A nil Component picks
// IGST, then CGST, then SGST.
type ResolveRateInput struct {
	Code         string
	BusinessType string
	Component    *domain.TaxComponentType
	Zone         *string
	AsOf         *time.Time
}

// ConfigurationTerms are the rate terms and window of a configuration.
type ConfigurationTerms struct {
	TotalGSTRate                decimal.Decimal  `json:"total_gst_rate"`
	CGSTRate                    decimal.Decimal  `json:"cgst_rate"`
	SGSTRate                    decimal.Decimal  `json:"sgst_rate"`
	UTGSTRate                   decimal.Decimal  `json:"utgst_rate"`
	IGSTRate                    decimal.Decimal  `json:"igst_rate"`
	CessRate                    *decimal.Decimal `json:"cess_rate"`
	CessAmountPerUnit           *decimal.Decimal `json:"cess_amount_per_unit"`
	EffectiveFrom               string           `json:"effective_from" binding:"required"`
	EffectiveTo                 string           `json:"effective_to"`
	ReverseChargeApplicable     bool             `json:"reverse_charge_applicable"`
	CompositionSchemeApplicable bool             `json:"composition_scheme_applicable"`
	NotificationReference       string           `json:"notification_reference"`
}

// CreateConfigurationInput is a new configuration for a scope.
type CreateConfigurationInput struct {
	ClassificationCode string  `json:"classification_code" binding:"required"`
	BusinessType       string  `json:"business_type" binding:"required"`
	GeographicalZone   *string `json:"geographical_zone"`
	ConfigurationTerms
}

// CreateRateInput is a new per-component rate.
type CreateRateInput struct {
	ClassificationCode          string           `json:"classification_code" binding:"required"`
	BusinessType                string           `json:"business_type" binding:"required"`
	ComponentType               string           `json:"component_type" binding:"required"`
	GeographicalZone            *string          `json:"geographical_zone"`
	RatePercentage              decimal.Decimal  `json:"rate_percentage"`
	FixedAmountPerUnit          *decimal.Decimal `json:"fixed_amount_per_unit"`
	MinimumAmount               *decimal.Decimal `json:"minimum_amount"`
	MaximumAmount               *decimal.Decimal `json:"maximum_amount"`
	EffectiveFrom               string           `json:"effective_from" binding:"required"`
	EffectiveTo                 string           `json:"effective_to"`
	ReverseChargeApplicable     bool             `json:"reverse_charge_applicable"`
	CompositionSchemeApplicable bool             `json:"composition_scheme_applicable"`
}

// MaterializeInput folds the rates effective on AsOf into a configuration
// starting at EffectiveFrom. Both dates default to today.
type MaterializeInput struct {
	ClassificationCode    string  `json:"classification_code" binding:"required"`
	BusinessType          string  `json:"business_type" binding:"required"`
	GeographicalZone      *string `json:"geographical_zone"`
	AsOf                  string  `json:"as_of"`
	EffectiveFrom         string  `json:"effective_from"`
	NotificationReference string  `json:"notification_reference"`
}

// window parses the effective dates, reporting problems as field errors.
func window(from, to string) (time.Time, *time.Time, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	start, err := domain.ParseDate(strings.TrimSpace(from))
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "effective_from", Message: err.Error()})
	}
	end, err := domain.ParseOptionalDate(strings.TrimSpace(to))
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "effective_to", Message: err.Error()})
	}
	return start, end, errs
}

func normalizeZone(zone *string) *string {
	if zone == nil {
		return nil
	}
	z := strings.TrimSpace(*zone)
	return &z
}

func (t *ConfigurationTerms) apply(cfg *domain.TaxConfiguration) domain.ValidationErrors {
	from, to, errs := window(t.EffectiveFrom, t.EffectiveTo)
	cfg.TotalGSTRate = t.TotalGSTRate
	cfg.CGSTRate = t.CGSTRate
	cfg.SGSTRate = t.SGSTRate
	cfg.UTGSTRate = t.UTGSTRate
	cfg.IGSTRate = t.IGSTRate
	cfg.CessRate = t.CessRate
	cfg.CessAmountPerUnit = t.CessAmountPerUnit
	cfg.EffectiveFrom = from
	cfg.EffectiveTo = to
	cfg.ReverseChargeApplicable = t.ReverseChargeApplicable
	cfg.CompositionSchemeApplicable = t.CompositionSchemeApplicable
	cfg.NotificationReference = strings.TrimSpace(t.NotificationReference)
	return errs
}

func newConfiguration(code *domain.ClassificationCode, businessType string, zone *string) *domain.TaxConfiguration {
	return &domain.TaxConfiguration{
		ID:                   uuid.New(),
		ClassificationCodeID: code.ID,
		BusinessType:         strings.TrimSpace(businessType),
		GeographicalZone:     normalizeZone(zone),
		IsActive:             true,
	}
}

func (in *CreateRateInput) toRate(code *domain.ClassificationCode) (*domain.TaxRate, domain.ValidationErrors) {
	from, to, errs := window(in.EffectiveFrom, in.EffectiveTo)
	comp, err := domain.ParseTaxComponentType(in.ComponentType)
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "component_type", Message: err.Error()})
	}
	return &domain.TaxRate{
		ID:                          uuid.New(),
		ClassificationCodeID:        code.ID,
		BusinessType:                strings.TrimSpace(in.BusinessType),
		ComponentType:               comp,
		GeographicalZone:            normalizeZone(in.GeographicalZone),
		RatePercentage:              in.RatePercentage,
		FixedAmountPerUnit:          in.FixedAmountPerUnit,
		MinimumAmount:               in.MinimumAmount,
		MaximumAmount:               in.MaximumAmount,
		EffectiveFrom:               from,
		EffectiveTo:                 to,
		ReverseChargeApplicable:     in.ReverseChargeApplicable,
		CompositionSchemeApplicable: in.CompositionSchemeApplicable,
		IsActive:                    true,
	}, errs
}

// applicability rejects a scope whose business type the code does not cover.
func applicability(code *domain.ClassificationCode, businessType string) domain.ValidationErrors {
	bt := strings.TrimSpace(businessType)
	if bt == "" || code.AppliesTo(bt) {
		return nil
	}
	return domain.ValidationErrors{{
		Field:   "business_type",
		Message: fmt.Sprintf("code %s is not applicable to business type %s", code.Code, bt),
	}}
}
