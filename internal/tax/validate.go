package tax

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstengine/internal/domain"
)

type fieldErrors struct {
	errs domain.ValidationErrors
}

func (f *fieldErrors) add(field, format string, args ...interface{}) {
	f.errs = append(f.errs, domain.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f *fieldErrors) scope(codeID uuid.UUID, businessType string, zone *string) {
	if codeID == uuid.Nil {
		f.add("classification_code_id", "is required")
	}
	if strings.TrimSpace(businessType) == "" {
		f.add("business_type", "is required")
	}
	if zone != nil && strings.TrimSpace(*zone) == "" {
		f.add("geographical_zone", "must be omitted or non-empty")
	}
}

func (f *fieldErrors) window(from time.Time, to *time.Time) {
	if from.IsZero() {
		f.add("effective_from", "is required")
		return
	}
	if to != nil && domain.DateOf(*to).Before(domain.DateOf(from)) {
		f.add("effective_to", "%s is before effective_from %s", domain.FormatDate(*to), domain.FormatDate(from))
	}
}

func (f *fieldErrors) nonNegative(field string, d decimal.Decimal) {
	if d.IsNegative() {
		f.add(field, "must not be negative, got %s", d)
	}
}

// ValidateConfiguration checks the structural invariants of a configuration
// before it is written. Component rates are compared exactly.
func ValidateConfiguration(cfg *domain.TaxConfiguration) domain.ValidationErrors {
	var f fieldErrors
	f.scope(cfg.ClassificationCodeID, cfg.BusinessType, cfg.GeographicalZone)
	f.window(cfg.EffectiveFrom, cfg.EffectiveTo)

	f.nonNegative("total_gst_rate", cfg.TotalGSTRate)
	f.nonNegative("cgst_rate", cfg.CGSTRate)
	f.nonNegative("sgst_rate", cfg.SGSTRate)
	f.nonNegative("utgst_rate", cfg.UTGSTRate)
	f.nonNegative("igst_rate", cfg.IGSTRate)
	if negative(cfg.CessRate) {
		f.add("cess_rate", "must not be negative, got %s", cfg.CessRate)
	}
	if negative(cfg.CessAmountPerUnit) {
		f.add("cess_amount_per_unit", "must not be negative, got %s", cfg.CessAmountPerUnit)
	}
	if len(f.errs) > 0 {
		return f.errs
	}

	intraSum := cfg.CGSTRate.Add(cfg.SGSTRate).Add(cfg.UTGSTRate)
	intra := intraSum.IsPositive()
	inter := cfg.IGSTRate.IsPositive()
	switch {
	case intra && inter:
		f.add("igst_rate", "intra-state and inter-state components cannot both be set")
	case intra && !intraSum.Equal(cfg.TotalGSTRate):
		f.add("total_gst_rate", "cgst+sgst+utgst = %s does not equal total_gst_rate %s", intraSum, cfg.TotalGSTRate)
	case inter && !cfg.IGSTRate.Equal(cfg.TotalGSTRate):
		f.add("total_gst_rate", "igst_rate %s does not equal total_gst_rate %s", cfg.IGSTRate, cfg.TotalGSTRate)
	case !intra && !inter && cfg.TotalGSTRate.IsPositive():
		f.add("total_gst_rate", "%s has no component decomposition", cfg.TotalGSTRate)
	}
	if cfg.SGSTRate.IsPositive() && cfg.UTGSTRate.IsPositive() {
		f.add("utgst_rate", "sgst_rate and utgst_rate are mutually exclusive")
	}
	return f.errs
}

// ValidateRate checks a per-component rate before it is written.
func ValidateRate(r *domain.TaxRate) domain.ValidationErrors {
	var f fieldErrors
	f.scope(r.ClassificationCodeID, r.BusinessType, r.GeographicalZone)
	f.window(r.EffectiveFrom, r.EffectiveTo)
	if !r.ComponentType.Valid() {
		f.add("component_type", "is required")
	}

	f.nonNegative("rate_percentage", r.RatePercentage)
	for _, opt := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"fixed_amount_per_unit", r.FixedAmountPerUnit},
		{"minimum_amount", r.MinimumAmount},
		{"maximum_amount", r.MaximumAmount},
	} {
		if negative(opt.value) {
			f.add(opt.field, "must not be negative, got %s", opt.value)
		}
	}

	byRate := r.RatePercentage.IsPositive()
	byUnit := positive(r.FixedAmountPerUnit)
	switch {
	case byRate && byUnit:
		f.add("fixed_amount_per_unit", "rate_percentage and fixed_amount_per_unit cannot both be set")
	case !byRate && !byUnit:
		f.add("rate_percentage", "one of rate_percentage or fixed_amount_per_unit must be positive")
	}
	if r.MinimumAmount != nil && r.MaximumAmount != nil && r.MinimumAmount.GreaterThan(*r.MaximumAmount) {
		f.add("minimum_amount", "%s exceeds maximum_amount %s", r.MinimumAmount, r.MaximumAmount)
	}
	return f.errs
}

// ValidateExpiry checks that newTo shortens the window [from, currentTo].
// Expiry never reopens or extends history.
func ValidateExpiry(from time.Time, currentTo *time.Time, newTo time.Time) domain.ValidationErrors {
	var f fieldErrors
	switch {
	case newTo.IsZero():
		f.add("effective_to", "is required")
	case domain.DateOf(newTo).Before(domain.DateOf(from)):
		f.add("effective_to", "%s is before effective_from %s", domain.FormatDate(newTo), domain.FormatDate(from))
	case currentTo != nil && domain.DateOf(newTo).After(domain.DateOf(*currentTo)):
		f.add("effective_to", "%s would extend the current end %s", domain.FormatDate(newTo), domain.FormatDate(*currentTo))
	}
	return f.errs
}

func sameZone(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ConfigurationConflict returns the first active row of cfg's scope whose
// window intersects cfg's, or nil. cfg itself is skipped by id.
func ConfigurationConflict(existing []domain.TaxConfiguration, cfg *domain.TaxConfiguration) *domain.OverlappingConfigurationError {
	for i := range existing {
		e := &existing[i]
		if e.ID == cfg.ID || !e.IsActive ||
			e.ClassificationCodeID != cfg.ClassificationCodeID ||
			e.BusinessType != cfg.BusinessType ||
			!sameZone(e.GeographicalZone, cfg.GeographicalZone) {
			continue
		}
		if domain.WindowsOverlap(e.EffectiveFrom, e.EffectiveTo, cfg.EffectiveFrom, cfg.EffectiveTo) {
			return &domain.OverlappingConfigurationError{
				Entity:        domain.AuditEntityConfiguration,
				ConflictingID: e.ID,
				EffectiveFrom: e.EffectiveFrom,
				EffectiveTo:   e.EffectiveTo,
			}
		}
	}
	return nil
}

// RateConflict is ConfigurationConflict for per-component rates.
func RateConflict(existing []domain.TaxRate, r *domain.TaxRate) *domain.OverlappingConfigurationError {
	for i := range existing {
		e := &existing[i]
		if e.ID == r.ID || !e.IsActive ||
			e.ClassificationCodeID != r.ClassificationCodeID ||
			e.BusinessType != r.BusinessType ||
			e.ComponentType != r.ComponentType ||
			!sameZone(e.GeographicalZone, r.GeographicalZone) {
			continue
		}
		if domain.WindowsOverlap(e.EffectiveFrom, e.EffectiveTo, r.EffectiveFrom, r.EffectiveTo) {
			return &domain.OverlappingConfigurationError{
				Entity:        domain.AuditEntityRate,
				ConflictingID: e.ID,
				EffectiveFrom: e.EffectiveFrom,
				EffectiveTo:   e.EffectiveTo,
			}
		}
	}
	return nil
}
