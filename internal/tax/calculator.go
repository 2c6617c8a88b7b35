package tax

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gstengine/internal/domain"
)

// ValidateRequest rejects a line before any resolution happens. line is the
// position in a batch, or -1 for a single calculation.
func ValidateRequest(req *domain.TaxCalculationRequest, line int) error {
	switch {
	case strings.TrimSpace(req.ClassificationCode) == "":
		return domain.InvalidInput(line, "classification_code is required")
	case !domain.ValidClassificationCode(req.ClassificationCode):
		return domain.InvalidInput(line, "classification_code %q must be 4, 6 or 8 digits", req.ClassificationCode)
	case strings.TrimSpace(req.BusinessType) == "":
		return domain.InvalidInput(line, "business_type is required")
	case strings.TrimSpace(req.SourceState) == "" || strings.TrimSpace(req.DestinationState) == "":
		return domain.InvalidInput(line, "source_state and destination_state are required")
	case !req.UnitAmount.IsPositive():
		return domain.InvalidInput(line, "unit_amount must be positive, got %s", req.UnitAmount)
	case !req.Quantity.IsPositive():
		return domain.InvalidInput(line, "quantity must be positive, got %s", req.Quantity)
	}
	return nil
}

// IsIntraState reports whether source and destination are the same jurisdiction.
func IsIntraState(source, destination string) bool {
	return strings.EqualFold(strings.TrimSpace(source), strings.TrimSpace(destination))
}

// Calculate turns a resolved configuration into a line's tax breakdown.
// Every monetary step is rounded to paisa as it is produced.
func Calculate(req *domain.TaxCalculationRequest, cfg *domain.TaxConfiguration, asOf time.Time) *domain.TaxCalculationResult {
	base := Round2(req.UnitAmount.Mul(req.Quantity))
	intra := IsIntraState(req.SourceState, req.DestinationState)
	totalGST := PercentOf(base, cfg.TotalGSTRate)

	res := &domain.TaxCalculationResult{
		ClassificationCode:          req.ClassificationCode,
		BusinessType:                req.BusinessType,
		TransactionType:             req.TransactionType,
		ConfigurationID:             cfg.ID,
		AsOf:                        asOf,
		IsIntraState:                intra,
		BaseAmount:                  base,
		TotalGSTRate:                cfg.TotalGSTRate,
		CGSTAmount:                  decimal.Zero,
		SGSTAmount:                  decimal.Zero,
		IGSTAmount:                  decimal.Zero,
		ReverseChargeApplicable:     cfg.ReverseChargeApplicable,
		CompositionSchemeApplicable: cfg.CompositionSchemeApplicable,
		Breakdown:                   []domain.TaxBreakdownItem{},
	}

	if intra {
		// The odd paisa, if any, stays with CGST; SGST takes the remainder so
		// the pair always sums to the GST amount.
		res.CGSTAmount = Round2(totalGST.Div(two))
		res.SGSTAmount = totalGST.Sub(res.CGSTAmount)

		halfRate := cfg.TotalGSTRate.Div(two)
		res.Breakdown = appendItem(res.Breakdown, domain.ComponentCGST, &halfRate, nil, base, res.CGSTAmount)
		stateComponent := domain.ComponentSGST
		if cfg.IsUTShaped() {
			stateComponent = domain.ComponentUTGST
		}
		res.Breakdown = appendItem(res.Breakdown, stateComponent, &halfRate, nil, base, res.SGSTAmount)
	} else {
		res.IGSTAmount = totalGST
		rate := cfg.TotalGSTRate
		res.Breakdown = appendItem(res.Breakdown, domain.ComponentIGST, &rate, nil, base, res.IGSTAmount)
	}

	res.CessAmount = decimal.Zero
	switch {
	case positive(cfg.CessRate):
		// Percentage basis wins when both cess terms are present.
		res.CessAmount = PercentOf(base, *cfg.CessRate)
		rate := *cfg.CessRate
		res.Breakdown = appendItem(res.Breakdown, domain.ComponentCess, &rate, nil, base, res.CessAmount)
	case positive(cfg.CessAmountPerUnit):
		res.CessAmount = Round2(cfg.CessAmountPerUnit.Mul(req.Quantity))
		perUnit := *cfg.CessAmountPerUnit
		res.Breakdown = appendItem(res.Breakdown, domain.ComponentCess, nil, &perUnit, base, res.CessAmount)
	}

	res.TotalTaxAmount = res.CGSTAmount.Add(res.SGSTAmount).Add(res.IGSTAmount).Add(res.CessAmount)
	res.TotalAmount = Round2(base.Add(res.TotalTaxAmount))
	return res
}

func appendItem(items []domain.TaxBreakdownItem, component domain.TaxComponentType, rate, perUnit *decimal.Decimal, base, amount decimal.Decimal) []domain.TaxBreakdownItem {
	if amount.IsZero() {
		return items
	}
	return append(items, domain.TaxBreakdownItem{
		Component:     component,
		Rate:          rate,
		AmountPerUnit: perUnit,
		TaxableAmount: base,
		Amount:        amount,
	})
}

// SumBulk totals every monetary field across independently computed lines.
func SumBulk(items []domain.TaxCalculationResult) *domain.BulkTaxCalculationResult {
	out := &domain.BulkTaxCalculationResult{
		Items:           items,
		TotalBaseAmount: decimal.Zero,
		TotalCGSTAmount: decimal.Zero,
		TotalSGSTAmount: decimal.Zero,
		TotalIGSTAmount: decimal.Zero,
		TotalCessAmount: decimal.Zero,
		TotalTaxAmount:  decimal.Zero,
		TotalAmount:     decimal.Zero,
	}
	for i := range items {
		it := &items[i]
		out.TotalBaseAmount = out.TotalBaseAmount.Add(it.BaseAmount)
		out.TotalCGSTAmount = out.TotalCGSTAmount.Add(it.CGSTAmount)
		out.TotalSGSTAmount = out.TotalSGSTAmount.Add(it.SGSTAmount)
		out.TotalIGSTAmount = out.TotalIGSTAmount.Add(it.IGSTAmount)
		out.TotalCessAmount = out.TotalCessAmount.Add(it.CessAmount)
		out.TotalTaxAmount = out.TotalTaxAmount.Add(it.TotalTaxAmount)
		out.TotalAmount = out.TotalAmount.Add(it.TotalAmount)
	}
	return out
}
