package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gstengine/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (19 columns).
var columns = []string{
	"Configuration ID",
	"Classification Code",
	"Business Type",
	"Zone",
	"Total GST Rate",
	"CGST Rate",
	"SGST Rate",
	"UTGST Rate",
	"IGST Rate",
	"Cess Rate",
	"Cess Per Unit",
	"Effective From",
	"Effective To",
	"Reverse Charge",
	"Composition Scheme",
	"Notification Reference",
	"Active",
	"Created At",
	"Updated At",
}

// Writer wraps csv.Writer for exporting a code's configuration history.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 19-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteConfigurations converts a batch of configurations to CSV rows and
// writes them. code is the classification code the rows belong to.
func (w *Writer) WriteConfigurations(code string, cfgs []domain.TaxConfiguration) error {
	for i := range cfgs {
		if err := w.csv.Write(configurationToRow(code, &cfgs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func configurationToRow(code string, cfg *domain.TaxConfiguration) []string {
	row := make([]string, len(columns))
	row[0] = cfg.ID.String()
	row[1] = code
	row[2] = cfg.BusinessType
	if cfg.GeographicalZone != nil {
		row[3] = *cfg.GeographicalZone
	} else {
		row[3] = "*"
	}
	row[4] = formatRate(cfg.TotalGSTRate)
	row[5] = formatRate(cfg.CGSTRate)
	row[6] = formatRate(cfg.SGSTRate)
	row[7] = formatRate(cfg.UTGSTRate)
	row[8] = formatRate(cfg.IGSTRate)
	row[9] = formatOptional(cfg.CessRate, formatRate)
	row[10] = formatOptional(cfg.CessAmountPerUnit, formatMoney)
	row[11] = domain.FormatDate(cfg.EffectiveFrom)
	if cfg.EffectiveTo != nil {
		row[12] = domain.FormatDate(*cfg.EffectiveTo)
	}
	row[13] = formatBool(cfg.ReverseChargeApplicable)
	row[14] = formatBool(cfg.CompositionSchemeApplicable)
	row[15] = cfg.NotificationReference
	row[16] = formatBool(cfg.IsActive)
	row[17] = formatTime(cfg.CreatedAt)
	row[18] = formatTime(cfg.UpdatedAt)
	return row
}

func formatRate(v decimal.Decimal) string {
	return v.StringFixed(4)
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatOptional(v *decimal.Decimal, format func(decimal.Decimal) string) string {
	if v == nil {
		return ""
	}
	return format(*v)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: tax_configurations_{code}_{YYYY-MM-DD}.csv
func BuildFilename(code string, day time.Time) string {
	return fmt.Sprintf("tax_configurations_%s_%s.csv", SanitizeFilename(code), domain.FormatDate(day))
}
