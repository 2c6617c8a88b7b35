package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gstengine/internal/domain"
	"gstengine/internal/report"
)

func code(c, desc string) *domain.ClassificationCode {
	cc := &domain.ClassificationCode{Code: c, Description: desc}
	_ = cc.Normalize()
	return cc
}

func TestAuditWorkbook_WritesAllSheets(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	wb, err := report.NewAuditWorkbook(asOf)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	require.NoError(t, wb.Add(code("8517", "Telephone sets"), &domain.TaxValidationResult{
		ClassificationCode:        "8517",
		HasEffectiveConfiguration: true,
		Overlaps:                  []domain.OverlapIssue{},
		MissingBusinessTypes:      []string{},
	}))
	zone := "KA"
	first, second := uuid.New(), uuid.New()
	require.NoError(t, wb.Add(code("85171300", "Smartphones"), &domain.TaxValidationResult{
		ClassificationCode:   "85171300",
		HasEffectiveRate:     true,
		MissingBusinessTypes: []string{"WHOLESALE", "SERVICES"},
		Warnings:             []string{"configuration and rates disagree"},
		Overlaps: []domain.OverlapIssue{{
			Entity:       domain.AuditEntityRate,
			BusinessType: "RETAIL",
			Zone:         &zone,
			Component:    "CGST",
			FirstID:      first,
			SecondID:     second,
		}},
	}))
	require.NoError(t, wb.Add(code("9983", "Other professional services"), &domain.TaxValidationResult{
		ClassificationCode: "9983",
	}))

	s := wb.Summary()
	assert.Equal(t, 3, s.CodesChecked)
	assert.Equal(t, 1, s.Valid)
	assert.Equal(t, 1, s.WithoutEffectiveRule)
	assert.Equal(t, 1, s.WithOverlaps)
	assert.Equal(t, 1, s.MissingBusinessTypes)
	assert.Equal(t, "9983", s.LastCode)

	var buf bytes.Buffer
	require.NoError(t, wb.WriteTo(&buf, asOf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Summary", "Findings", "Overlaps"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"As Of", "2024-06-01"}, summary[1])
	assert.Equal(t, []string{"Codes Checked", "3"}, summary[2])

	findings, err := f.GetRows("Findings")
	require.NoError(t, err)
	require.Len(t, findings, 4)
	assert.Equal(t, "Code", findings[0][0])
	assert.Equal(t, []string{"8517", "Telephone sets", "1", "Yes", "No", "0", "", "", "VALID"}, findings[1])
	assert.Equal(t, "WHOLESALE, SERVICES", findings[2][6])
	assert.Equal(t, "INVALID", findings[2][8])
	assert.Equal(t, "INVALID", findings[3][8])

	overlaps, err := f.GetRows("Overlaps")
	require.NoError(t, err)
	require.Len(t, overlaps, 2)
	assert.Equal(t, []string{"85171300", "tax_rate", "RETAIL", "KA", "CGST", first.String(), second.String()}, overlaps[1])
}
