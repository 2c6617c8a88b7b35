package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxCalculationRequest is one line to be taxed.
type TaxCalculationRequest struct {
	ClassificationCode string          `json:"classification_code"`
	UnitAmount         decimal.Decimal `json:"unit_amount"`
	Quantity           decimal.Decimal `json:"quantity"`
	SourceState        string          `json:"source_state"`
	DestinationState   string          `json:"destination_state"`
	BusinessType       string          `json:"business_type"`
	TransactionType    string          `json:"transaction_type"`
	// AsOf is the supply date; nil means today.
	AsOf *time.Time `json:"as_of,omitempty"`
}

// TaxBreakdownItem is one rendered line of an invoice's tax section.
type TaxBreakdownItem struct {
	Component     TaxComponentType `json:"component"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	AmountPerUnit *decimal.Decimal `json:"amount_per_unit,omitempty"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	Amount        decimal.Decimal  `json:"amount"`
}

// TaxCalculationResult is the immutable outcome of one calculation.
type TaxCalculationResult struct {
	ClassificationCode          string             `json:"classification_code"`
	BusinessType                string             `json:"business_type"`
	TransactionType             string             `json:"transaction_type,omitempty"`
	ConfigurationID             uuid.UUID          `json:"configuration_id"`
	AsOf                        time.Time          `json:"as_of"`
	IsIntraState                bool               `json:"is_intra_state"`
	BaseAmount                  decimal.Decimal    `json:"base_amount"`
	TotalGSTRate                decimal.Decimal    `json:"total_gst_rate"`
	CGSTAmount                  decimal.Decimal    `json:"cgst_amount"`
	SGSTAmount                  decimal.Decimal    `json:"sgst_amount"`
	IGSTAmount                  decimal.Decimal    `json:"igst_amount"`
	CessAmount                  decimal.Decimal    `json:"cess_amount"`
	TotalTaxAmount              decimal.Decimal    `json:"total_tax_amount"`
	TotalAmount                 decimal.Decimal    `json:"total_amount"`
	ReverseChargeApplicable     bool               `json:"reverse_charge_applicable"`
	CompositionSchemeApplicable bool               `json:"composition_scheme_applicable"`
	Breakdown                   []TaxBreakdownItem `json:"breakdown"`
}

// GSTAmount is the sum of the CGST, SGST and IGST amounts.
func (r *TaxCalculationResult) GSTAmount() decimal.Decimal {
	return r.CGSTAmount.Add(r.SGSTAmount).Add(r.IGSTAmount)
}

// EffectiveRate is the GST amount as a percentage of the base, to 4 places.
func (r *TaxCalculationResult) EffectiveRate() decimal.Decimal {
	return percentOf(r.GSTAmount(), r.BaseAmount)
}

// EffectiveCessRate is the cess amount as a percentage of the base, to 4 places.
func (r *TaxCalculationResult) EffectiveCessRate() decimal.Decimal {
	return percentOf(r.CessAmount, r.BaseAmount)
}

func percentOf(part, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(base).Round(4)
}

// BulkTaxCalculationResult holds every line plus the summed monetary fields.
type BulkTaxCalculationResult struct {
	Items           []TaxCalculationResult `json:"items"`
	TotalBaseAmount decimal.Decimal        `json:"total_base_amount"`
	TotalCGSTAmount decimal.Decimal        `json:"total_cgst_amount"`
	TotalSGSTAmount decimal.Decimal        `json:"total_sgst_amount"`
	TotalIGSTAmount decimal.Decimal        `json:"total_igst_amount"`
	TotalCessAmount decimal.Decimal        `json:"total_cess_amount"`
	TotalTaxAmount  decimal.Decimal        `json:"total_tax_amount"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
}

// TaxValidationResult is the read-side diagnostic for one classification code.
type TaxValidationResult struct {
	ClassificationCode        string         `json:"classification_code"`
	AsOf                      time.Time      `json:"as_of"`
	HasEffectiveConfiguration bool           `json:"has_effective_configuration"`
	HasEffectiveRate          bool           `json:"has_effective_rate"`
	Overlaps                  []OverlapIssue `json:"overlaps"`
	MissingBusinessTypes      []string       `json:"missing_business_types"`
	Warnings                  []string       `json:"warnings"`
}

// IsValid reports whether the code has an effective rule and no overlaps.
func (r *TaxValidationResult) IsValid() bool {
	return (r.HasEffectiveConfiguration || r.HasEffectiveRate) && len(r.Overlaps) == 0
}

// OverlapIssue names two active rows of one scope whose windows intersect.
type OverlapIssue struct {
	Entity       AuditEntity `json:"entity"`
	BusinessType string      `json:"business_type"`
	Zone         *string     `json:"zone"`
	Component    string      `json:"component,omitempty"`
	FirstID      uuid.UUID   `json:"first_id"`
	SecondID     uuid.UUID   `json:"second_id"`
}
