// Package report renders the offline tax rule audit as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gstengine/internal/domain"
)

const (
	sheetSummary  = "Summary"
	sheetFindings = "Findings"
	sheetOverlaps = "Overlaps"
)

var findingColumns = []string{
	"Code", "Description", "Level", "Effective Configuration", "Effective Rate",
	"Overlaps", "Missing Business Types", "Warnings", "Status",
}

var overlapColumns = []string{
	"Code", "Entity", "Business Type", "Zone", "Component", "First ID", "Second ID",
}

// Summary counts the codes an audit has seen.
type Summary struct {
	CodesChecked         int
	Valid                int
	WithoutEffectiveRule int
	WithOverlaps         int
	MissingBusinessTypes int
	LastCode             string
}

// AuditWorkbook accumulates per-code validation results into three sheets:
// a summary, one finding row per code and one row per overlapping pair.
type AuditWorkbook struct {
	f           *excelize.File
	asOf        time.Time
	findingRow  int
	overlapRow  int
	headerStyle int
	issueStyle  int
	summary     Summary
}

// NewAuditWorkbook creates an empty workbook for an audit evaluated on asOf.
func NewAuditWorkbook(asOf time.Time) (*AuditWorkbook, error) {
	f := excelize.NewFile()
	w := &AuditWorkbook{f: f, asOf: domain.DateOf(asOf), findingRow: 1, overlapRow: 1}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}
	for _, name := range []string{sheetFindings, sheetOverlaps} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("report: add sheet %s: %w", name, err)
		}
	}

	var err error
	w.headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("report: header style: %w", err)
	}
	w.issueStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("report: issue style: %w", err)
	}

	if err := w.header(sheetFindings, findingColumns); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := w.header(sheetOverlaps, overlapColumns); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

func (w *AuditWorkbook) header(sheet string, columns []string) error {
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("report: %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.headerStyle); err != nil {
		return fmt.Errorf("report: %s header style: %w", sheet, err)
	}
	return w.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// Add records the validation result of one code.
func (w *AuditWorkbook) Add(code *domain.ClassificationCode, res *domain.TaxValidationResult) error {
	w.summary.CodesChecked++
	w.summary.LastCode = code.Code
	if res.IsValid() {
		w.summary.Valid++
	}
	if !res.HasEffectiveConfiguration && !res.HasEffectiveRate {
		w.summary.WithoutEffectiveRule++
	}
	if len(res.Overlaps) > 0 {
		w.summary.WithOverlaps++
	}
	if len(res.MissingBusinessTypes) > 0 {
		w.summary.MissingBusinessTypes++
	}

	status := "VALID"
	if !res.IsValid() {
		status = "INVALID"
	}
	w.findingRow++
	cell, err := excelize.CoordinatesToCellName(1, w.findingRow)
	if err != nil {
		return err
	}
	row := []interface{}{
		code.Code,
		code.Description,
		int(code.Level),
		yesNo(res.HasEffectiveConfiguration),
		yesNo(res.HasEffectiveRate),
		len(res.Overlaps),
		strings.Join(res.MissingBusinessTypes, ", "),
		strings.Join(res.Warnings, "; "),
		status,
	}
	if err := w.f.SetSheetRow(sheetFindings, cell, &row); err != nil {
		return fmt.Errorf("report: finding %s: %w", code.Code, err)
	}
	if status != "VALID" {
		statusCell, err := excelize.CoordinatesToCellName(len(findingColumns), w.findingRow)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheetFindings, statusCell, statusCell, w.issueStyle); err != nil {
			return fmt.Errorf("report: finding %s style: %w", code.Code, err)
		}
	}

	for i := range res.Overlaps {
		if err := w.addOverlap(code.Code, &res.Overlaps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *AuditWorkbook) addOverlap(code string, o *domain.OverlapIssue) error {
	w.overlapRow++
	cell, err := excelize.CoordinatesToCellName(1, w.overlapRow)
	if err != nil {
		return err
	}
	zone := "*"
	if o.Zone != nil {
		zone = *o.Zone
	}
	row := []interface{}{
		code, string(o.Entity), o.BusinessType, zone, o.Component, o.FirstID.String(), o.SecondID.String(),
	}
	if err := w.f.SetSheetRow(sheetOverlaps, cell, &row); err != nil {
		return fmt.Errorf("report: overlap %s: %w", code, err)
	}
	return nil
}

// Summary returns the counts so far.
func (w *AuditWorkbook) Summary() Summary {
	return w.summary
}

// WriteTo fills the summary sheet and writes the workbook to out.
func (w *AuditWorkbook) WriteTo(out io.Writer, generatedAt time.Time) error {
	rows := [][]interface{}{
		{"Generated At", generatedAt.UTC().Format(time.RFC3339)},
		{"As Of", domain.FormatDate(w.asOf)},
		{"Codes Checked", w.summary.CodesChecked},
		{"Valid", w.summary.Valid},
		{"Without Effective Rule", w.summary.WithoutEffectiveRule},
		{"With Overlaps", w.summary.WithOverlaps},
		{"Missing Business Types", w.summary.MissingBusinessTypes},
		{"Last Code", w.summary.LastCode},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(sheetSummary, cell, &rows[i]); err != nil {
			return fmt.Errorf("report: summary: %w", err)
		}
	}
	if err := w.f.SetCellStyle(sheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), w.headerStyle); err != nil {
		return fmt.Errorf("report: summary style: %w", err)
	}
	if err := w.f.SetColWidth(sheetSummary, "A", "A", 26); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheetFindings, "B", "B", 48); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheetFindings, "G", "H", 36); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheetOverlaps, "F", "G", 38); err != nil {
		return err
	}

	if _, err := w.f.WriteTo(out); err != nil {
		return fmt.Errorf("report: write workbook: %w", err)
	}
	return nil
}

// Close releases the workbook's temporary resources.
func (w *AuditWorkbook) Close() error {
	return w.f.Close()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
