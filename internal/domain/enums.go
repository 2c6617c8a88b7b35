package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TaxComponentType is one of the five GST levy kinds.
type TaxComponentType int

const (
	ComponentCGST TaxComponentType = iota + 1
	ComponentSGST
	ComponentIGST
	ComponentUTGST
	ComponentCess
)

// AllTaxComponentTypes lists every component in storage order.
var AllTaxComponentTypes = []TaxComponentType{
	ComponentCGST, ComponentSGST, ComponentIGST, ComponentUTGST, ComponentCess,
}

// ComponentPreference is the order used to pick "the" rate when the caller
// does not yet know whether the supply is intra- or inter-state.
var ComponentPreference = []TaxComponentType{ComponentIGST, ComponentCGST, ComponentSGST}

// String returns the storage and wire name of the component.
func (t TaxComponentType) String() string {
	switch t {
	case ComponentCGST:
		return "CGST"
	case ComponentSGST:
		return "SGST"
	case ComponentIGST:
		return "IGST"
	case ComponentUTGST:
		return "UTGST"
	case ComponentCess:
		return "CESS"
	default:
		return fmt.Sprintf("TaxComponentType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known components.
func (t TaxComponentType) Valid() bool {
	return t >= ComponentCGST && t <= ComponentCess
}

// ParseTaxComponentType maps a stored or wire name to a component.
// Unknown names are an error; there is no default component.
func ParseTaxComponentType(s string) (TaxComponentType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CGST":
		return ComponentCGST, nil
	case "SGST":
		return ComponentSGST, nil
	case "IGST":
		return ComponentIGST, nil
	case "UTGST":
		return ComponentUTGST, nil
	case "CESS":
		return ComponentCess, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTaxComponent, s)
	}
}

// Value implements driver.Valuer.
func (t TaxComponentType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaxComponent, int(t))
	}
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *TaxComponentType) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrUnknownTaxComponent, src)
	}
	parsed, err := ParseTaxComponentType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t TaxComponentType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaxComponent, int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TaxComponentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownTaxComponent, string(data))
	}
	parsed, err := ParseTaxComponentType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ClassificationLevel is the depth of a code in the chapter → heading → sub-heading tree.
type ClassificationLevel int

const (
	LevelHeading    ClassificationLevel = 1 // 4 digits
	LevelSubHeading ClassificationLevel = 2 // 6 digits
	LevelTariffItem ClassificationLevel = 3 // 8 digits
)

// AuditAction names a write on the rule store.
type AuditAction string

const (
	AuditCreateConfiguration     AuditAction = "CREATE_TAX_CONFIGURATION"
	AuditSupersedeConfiguration  AuditAction = "SUPERSEDE_TAX_CONFIGURATION"
	AuditExpireConfiguration     AuditAction = "EXPIRE_TAX_CONFIGURATION"
	AuditDeactivateConfiguration AuditAction = "DEACTIVATE_TAX_CONFIGURATION"
	AuditCreateRate              AuditAction = "CREATE_TAX_RATE"
	AuditExpireRate              AuditAction = "EXPIRE_TAX_RATE"
	AuditDeactivateRate          AuditAction = "DEACTIVATE_TAX_RATE"
	AuditCreateClassification    AuditAction = "CREATE_CLASSIFICATION_CODE"
	AuditUpdateClassification    AuditAction = "UPDATE_CLASSIFICATION_CODE"
)

// AuditEntity names the kind of row an audit event refers to.
type AuditEntity string

const (
	AuditEntityConfiguration  AuditEntity = "tax_configuration"
	AuditEntityRate           AuditEntity = "tax_rate"
	AuditEntityClassification AuditEntity = "classification_code"
)

// CalculationErrorKind distinguishes why a calculation was aborted.
type CalculationErrorKind string

const (
	CalcRateNotFound CalculationErrorKind = "RATE_NOT_FOUND"
	CalcInvalidInput CalculationErrorKind = "INVALID_INPUT"
)
