package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstengine/internal/domain"
)

func readRows(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	rows := readRows(t, &buf)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 19)
	assert.Equal(t, "Configuration ID", rows[0][0])
	assert.Equal(t, "Zone", rows[0][3])
	assert.Equal(t, "Updated At", rows[0][18])
}

func TestWriteConfigurations_IntraStateWithCess(t *testing.T) {
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	cess := decimal.NewFromInt(12)
	perUnit := decimal.RequireFromString("400")
	cfg := domain.TaxConfiguration{
		ID:                      uuid.New(),
		BusinessType:            "RETAIL",
		TotalGSTRate:            decimal.NewFromInt(28),
		CGSTRate:                decimal.NewFromInt(14),
		SGSTRate:                decimal.NewFromInt(14),
		CessRate:                &cess,
		CessAmountPerUnit:       &perUnit,
		EffectiveFrom:           time.Date(2017, 7, 1, 0, 0, 0, 0, time.UTC),
		EffectiveTo:             &to,
		ReverseChargeApplicable: true,
		NotificationReference:   "01/2017-Central Tax (Rate)",
		IsActive:                true,
		CreatedAt:               time.Date(2017, 6, 30, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteConfigurations("87032291", []domain.TaxConfiguration{cfg}))
	w.Flush()
	require.NoError(t, w.Error())

	row := readRows(t, &buf)[0]
	assert.Equal(t, cfg.ID.String(), row[0])
	assert.Equal(t, "87032291", row[1])
	assert.Equal(t, "*", row[3])
	assert.Equal(t, "28.0000", row[4])
	assert.Equal(t, "14.0000", row[5])
	assert.Equal(t, "0.0000", row[8])
	assert.Equal(t, "12.0000", row[9])
	assert.Equal(t, "400.00", row[10])
	assert.Equal(t, "2017-07-01", row[11])
	assert.Equal(t, "2024-03-31", row[12])
	assert.Equal(t, "Yes", row[13])
	assert.Equal(t, "No", row[14])
	assert.Equal(t, "Yes", row[16])
	assert.Equal(t, "2017-06-30T08:00:00Z", row[17])
	assert.Equal(t, "", row[18])
}

func TestWriteConfigurations_OpenEndedNamedZone(t *testing.T) {
	zone := "LADAKH"
	cfg := domain.TaxConfiguration{
		ID:               uuid.New(),
		BusinessType:     "WHOLESALE",
		GeographicalZone: &zone,
		TotalGSTRate:     decimal.NewFromInt(18),
		CGSTRate:         decimal.NewFromInt(9),
		UTGSTRate:        decimal.NewFromInt(9),
		EffectiveFrom:    time.Date(2019, 10, 31, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteConfigurations("8517", []domain.TaxConfiguration{cfg}))
	w.Flush()

	row := readRows(t, &buf)[0]
	assert.Equal(t, "LADAKH", row[3])
	assert.Equal(t, "9.0000", row[7])
	assert.Equal(t, "", row[9])
	assert.Equal(t, "", row[10])
	assert.Equal(t, "", row[12])
	assert.Equal(t, "No", row[16])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Q3 Rate Review", "Q3_Rate_Review"},
		{"special chars", "FY 2024-25 / Q3 (Oct–Dec)", "FY_2024-25_Q3_Oct_Dec"},
		{"unicode", "कंपनी Rates", "Rates"},
		{"hyphens and underscores preserved", "rates-8517_2025", "rates-8517_2025"},
		{"consecutive underscores collapsed", "test___rates", "test_rates"},
		{"leading/trailing cleaned", "  8517  ", "8517"},
		{
			"long name truncated",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-extra",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrs",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	day := time.Date(2025, 2, 19, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "tax_configurations_85171300_2025-02-19.csv", BuildFilename("85171300", day))
}
