package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var classificationCodePattern = regexp.MustCompile(`^\d{4}(\d{2}(\d{2})?)?$`)

// ClassificationCode is an HSN/SAC node in the chapter → heading → sub-heading tree.
type ClassificationCode struct {
	ID                      uuid.UUID           `db:"id" json:"id"`
	Code                    string              `db:"code" json:"code"`
	Description             string              `db:"description" json:"description"`
	Chapter                 string              `db:"chapter" json:"chapter"`
	Heading                 *string             `db:"heading" json:"heading"`
	Level                   ClassificationLevel `db:"level" json:"level"`
	ParentID                *uuid.UUID          `db:"parent_id" json:"parent_id"`
	ExemptionAvailable      bool                `db:"exemption_available" json:"exemption_available"`
	ApplicableBusinessTypes StringList          `db:"applicable_business_types" json:"applicable_business_types"`
	IsActive                bool                `db:"is_active" json:"is_active"`
	CreatedAt               time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time           `db:"updated_at" json:"updated_at"`
}

// ValidClassificationCode reports whether code is 4, 6 or 8 digits.
func ValidClassificationCode(code string) bool {
	return classificationCodePattern.MatchString(code)
}

// Normalize recomputes the derived fields from Code. Level, Chapter and
// Heading are never taken from input.
func (c *ClassificationCode) Normalize() error {
	if !ValidClassificationCode(c.Code) {
		return ValidationErrors{{Field: "code", Message: fmt.Sprintf("%q must be 4, 6 or 8 digits", c.Code)}}
	}
	switch len(c.Code) {
	case 4:
		c.Level = LevelHeading
	case 6:
		c.Level = LevelSubHeading
	default:
		c.Level = LevelTariffItem
	}
	c.Chapter = c.Code[:2]
	heading := c.Code[:4]
	c.Heading = &heading
	return nil
}

// AppliesTo reports whether the code is usable for the business type.
// An empty applicability list means every business type.
func (c *ClassificationCode) AppliesTo(businessType string) bool {
	if len(c.ApplicableBusinessTypes) == 0 {
		return true
	}
	for _, bt := range c.ApplicableBusinessTypes {
		if bt == businessType {
			return true
		}
	}
	return false
}

// ParentCodes returns the shorter prefixes of code, nearest first (8 → 6 → 4).
func ParentCodes(code string) []string {
	var out []string
	for _, n := range []int{6, 4} {
		if len(code) > n {
			out = append(out, code[:n])
		}
	}
	return out
}

// TaxRate is one versioned, date-scoped rate for a single component.
type TaxRate struct {
	ID                          uuid.UUID        `db:"id" json:"id"`
	ClassificationCodeID        uuid.UUID        `db:"classification_code_id" json:"classification_code_id"`
	BusinessType                string           `db:"business_type" json:"business_type"`
	ComponentType               TaxComponentType `db:"component_type" json:"component_type"`
	GeographicalZone            *string          `db:"geographical_zone" json:"geographical_zone"`
	RatePercentage              decimal.Decimal  `db:"rate_percentage" json:"rate_percentage"`
	FixedAmountPerUnit          *decimal.Decimal `db:"fixed_amount_per_unit" json:"fixed_amount_per_unit"`
	MinimumAmount               *decimal.Decimal `db:"minimum_amount" json:"minimum_amount"`
	MaximumAmount               *decimal.Decimal `db:"maximum_amount" json:"maximum_amount"`
	EffectiveFrom               time.Time        `db:"effective_from" json:"effective_from"`
	EffectiveTo                 *time.Time       `db:"effective_to" json:"effective_to"`
	ReverseChargeApplicable     bool             `db:"reverse_charge_applicable" json:"reverse_charge_applicable"`
	CompositionSchemeApplicable bool             `db:"composition_scheme_applicable" json:"composition_scheme_applicable"`
	IsActive                    bool             `db:"is_active" json:"is_active"`
	VersionNumber               int              `db:"version_number" json:"version_number"`
	CreatedAt                   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt                   time.Time        `db:"updated_at" json:"updated_at"`
}

// Scope identifies the rows a rate must not overlap with.
func (r *TaxRate) Scope() Scope {
	ct := r.ComponentType
	return Scope{
		ClassificationCodeID: r.ClassificationCodeID,
		BusinessType:         r.BusinessType,
		Zone:                 r.GeographicalZone,
		Component:            &ct,
	}
}

// TaxConfiguration is the denormalised composite rule used by a calculation.
type TaxConfiguration struct {
	ID                          uuid.UUID        `db:"id" json:"id"`
	ClassificationCodeID        uuid.UUID        `db:"classification_code_id" json:"classification_code_id"`
	BusinessType                string           `db:"business_type" json:"business_type"`
	GeographicalZone            *string          `db:"geographical_zone" json:"geographical_zone"`
	TotalGSTRate                decimal.Decimal  `db:"total_gst_rate" json:"total_gst_rate"`
	CGSTRate                    decimal.Decimal  `db:"cgst_rate" json:"cgst_rate"`
	SGSTRate                    decimal.Decimal  `db:"sgst_rate" json:"sgst_rate"`
	UTGSTRate                   decimal.Decimal  `db:"utgst_rate" json:"utgst_rate"`
	IGSTRate                    decimal.Decimal  `db:"igst_rate" json:"igst_rate"`
	CessRate                    *decimal.Decimal `db:"cess_rate" json:"cess_rate"`
	CessAmountPerUnit           *decimal.Decimal `db:"cess_amount_per_unit" json:"cess_amount_per_unit"`
	EffectiveFrom               time.Time        `db:"effective_from" json:"effective_from"`
	EffectiveTo                 *time.Time       `db:"effective_to" json:"effective_to"`
	ReverseChargeApplicable     bool             `db:"reverse_charge_applicable" json:"reverse_charge_applicable"`
	CompositionSchemeApplicable bool             `db:"composition_scheme_applicable" json:"composition_scheme_applicable"`
	NotificationReference       string           `db:"notification_reference" json:"notification_reference"`
	IsActive                    bool             `db:"is_active" json:"is_active"`
	CreatedAt                   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt                   time.Time        `db:"updated_at" json:"updated_at"`
}

// Scope identifies the rows a configuration must not overlap with.
func (c *TaxConfiguration) Scope() Scope {
	return Scope{
		ClassificationCodeID: c.ClassificationCodeID,
		BusinessType:         c.BusinessType,
		Zone:                 c.GeographicalZone,
	}
}

// IsUTShaped reports whether the state share is levied as UTGST.
func (c *TaxConfiguration) IsUTShaped() bool {
	return c.UTGSTRate.IsPositive() && !c.SGSTRate.IsPositive()
}

// Scope is the uniqueness key for effective windows. A nil Zone is its own
// scope (the all-zones wildcard), distinct from every named zone.
type Scope struct {
	ClassificationCodeID uuid.UUID
	BusinessType         string
	Zone                 *string
	Component            *TaxComponentType
}

// LockKey is a stable text key used to serialise writers on the scope.
func (s Scope) LockKey() string {
	zone := "*"
	if s.Zone != nil {
		zone = *s.Zone
	}
	key := "gst:" + s.ClassificationCodeID.String() + ":" + s.BusinessType + ":" + zone
	if s.Component != nil {
		key += ":" + s.Component.String()
	}
	return key
}

// AuditEvent records who changed which rule and when.
type AuditEvent struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Action     AuditAction     `db:"action" json:"action"`
	EntityType AuditEntity     `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID       `db:"entity_id" json:"entity_id"`
	Actor      string          `db:"actor" json:"actor"`
	Details    json.RawMessage `db:"details" json:"details"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// StringList is a text list persisted as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringList: cannot scan %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	*l = out
	return nil
}

// RuleQuery asks which rule governs a code for a business type on a date.
// Zone nil matches only wildcard rows; Component applies to rate lookups.
type RuleQuery struct {
	ClassificationCodeID uuid.UUID
	Code                 string
	BusinessType         string
	Zone                 *string
	Component            *TaxComponentType
	AsOf                 time.Time
}

// NotFound builds the resolution miss for q.
func (q RuleQuery) NotFound() *NotFoundError {
	return &NotFoundError{
		Code:         q.Code,
		BusinessType: q.BusinessType,
		Zone:         q.Zone,
		Component:    q.Component,
		AsOf:         q.AsOf,
	}
}
