package tax_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"gstengine/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func strPtr(s string) *string { return &s }

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

var testCodeID = uuid.MustParse("8b0f7c3e-2c1d-4f63-9a51-0d7d6c1e5a10")

func intraConfig(total string) domain.TaxConfiguration {
	half := dec(total).Div(decimal.NewFromInt(2))
	return domain.TaxConfiguration{
		ID:                   uuid.New(),
		ClassificationCodeID: testCodeID,
		BusinessType:         "RETAIL",
		TotalGSTRate:         dec(total),
		CGSTRate:             half,
		SGSTRate:             half,
		EffectiveFrom:        day("2024-01-01"),
		IsActive:             true,
	}
}

func interConfig(total string) domain.TaxConfiguration {
	return domain.TaxConfiguration{
		ID:                   uuid.New(),
		ClassificationCodeID: testCodeID,
		BusinessType:         "RETAIL",
		TotalGSTRate:         dec(total),
		IGSTRate:             dec(total),
		EffectiveFrom:        day("2024-01-01"),
		IsActive:             true,
	}
}

func percentRate(comp domain.TaxComponentType, pct string) domain.TaxRate {
	return domain.TaxRate{
		ID:                   uuid.New(),
		ClassificationCodeID: testCodeID,
		BusinessType:         "RETAIL",
		ComponentType:        comp,
		RatePercentage:       dec(pct),
		EffectiveFrom:        day("2024-01-01"),
		IsActive:             true,
		VersionNumber:        1,
	}
}

func query(asOf string) domain.RuleQuery {
	return domain.RuleQuery{
		ClassificationCodeID: testCodeID,
		Code:                 "85171300",
		BusinessType:         "RETAIL",
		AsOf:                 day(asOf),
	}
}
