package tax

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gstengine/internal/domain"
)

// ProjectionInput selects the rates to fold into a configuration.
type ProjectionInput struct {
	Query                 domain.RuleQuery
	EffectiveFrom         time.Time
	NotificationReference string
}

// ProjectConfiguration folds the per-component rates effective on
// in.Query.AsOf into a single configuration starting at in.EffectiveFrom.
// When IGST resolves the result is inter-state shaped; the intra-state
// components, if present, must then sum to the same total.
//
// The configuration ends with the earliest-ending source rate, and
// in.EffectiveFrom must fall inside the window every source rate shares.
func (r *Resolver) ProjectConfiguration(rows []domain.TaxRate, in ProjectionInput) (*domain.TaxConfiguration, error) {
	resolved := make(map[domain.TaxComponentType]*domain.TaxRate, len(domain.AllTaxComponentTypes))
	for _, comp := range domain.AllTaxComponentTypes {
		q := in.Query
		c := comp
		q.Component = &c
		rate, err := r.SelectRate(rows, q)
		if err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, err
		}
		resolved[comp] = rate
	}

	var f fieldErrors
	pct := func(comp domain.TaxComponentType) decimal.Decimal {
		rate, ok := resolved[comp]
		if !ok {
			return decimal.Zero
		}
		if rate.FixedAmountPerUnit != nil && rate.FixedAmountPerUnit.IsPositive() {
			f.add("component_type", "%s rate %s is per-unit and cannot be folded into a percentage configuration", comp, rate.ID)
		}
		return rate.RatePercentage
	}

	cgst, sgst, utgst, igst := pct(domain.ComponentCGST), pct(domain.ComponentSGST), pct(domain.ComponentUTGST), pct(domain.ComponentIGST)
	intraSum := cgst.Add(sgst).Add(utgst)

	cfg := &domain.TaxConfiguration{
		ClassificationCodeID:  in.Query.ClassificationCodeID,
		BusinessType:          in.Query.BusinessType,
		GeographicalZone:      in.Query.Zone,
		EffectiveFrom:         domain.DateOf(in.EffectiveFrom),
		NotificationReference: in.NotificationReference,
		IsActive:              true,
	}
	switch {
	case igst.IsPositive():
		if intraSum.IsPositive() && !intraSum.Equal(igst) {
			f.add("igst_rate", "IGST %s disagrees with CGST+SGST+UTGST %s", igst, intraSum)
		}
		cfg.TotalGSTRate, cfg.IGSTRate = igst, igst
	case intraSum.IsPositive():
		cfg.TotalGSTRate, cfg.CGSTRate, cfg.SGSTRate, cfg.UTGSTRate = intraSum, cgst, sgst, utgst
	default:
		if _, ok := resolved[domain.ComponentCess]; !ok {
			return nil, in.Query.NotFound()
		}
	}

	if cess, ok := resolved[domain.ComponentCess]; ok {
		switch {
		case cess.RatePercentage.IsPositive():
			v := cess.RatePercentage
			cfg.CessRate = &v
		case cess.FixedAmountPerUnit != nil:
			v := *cess.FixedAmountPerUnit
			cfg.CessAmountPerUnit = &v
		}
	}
	var latestFrom time.Time
	for _, rate := range resolved {
		cfg.ReverseChargeApplicable = cfg.ReverseChargeApplicable || rate.ReverseChargeApplicable
		cfg.CompositionSchemeApplicable = cfg.CompositionSchemeApplicable || rate.CompositionSchemeApplicable
		if from := domain.DateOf(rate.EffectiveFrom); from.After(latestFrom) {
			latestFrom = from
		}
		if rate.EffectiveTo != nil {
			to := domain.DateOf(*rate.EffectiveTo)
			if cfg.EffectiveTo == nil || to.Before(*cfg.EffectiveTo) {
				cfg.EffectiveTo = &to
			}
		}
	}
	if cfg.EffectiveFrom.Before(latestFrom) {
		f.add("effective_from", "%s is before the source rates take effect on %s",
			domain.FormatDate(cfg.EffectiveFrom), domain.FormatDate(latestFrom))
	}
	if cfg.EffectiveTo != nil && cfg.EffectiveFrom.After(*cfg.EffectiveTo) {
		f.add("effective_from", "%s is after a source rate ends on %s",
			domain.FormatDate(cfg.EffectiveFrom), domain.FormatDate(*cfg.EffectiveTo))
	}

	if len(f.errs) > 0 {
		return nil, fmt.Errorf("project configuration for %s: %w", in.Query.Code, f.errs)
	}
	return cfg, nil
}
