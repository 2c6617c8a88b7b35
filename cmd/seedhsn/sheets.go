package main

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstengine/internal/domain"
)

// entry is one catalog code with every GST rate published for it.
type entry struct {
	code        domain.ClassificationCode
	description string
	rates       []decimal.Decimal
}

// singleRate returns the only published rate, or false when the sheet lists
// several (e.g. "12%-18%") and no configuration can be seeded.
func (e *entry) singleRate() (decimal.Decimal, bool) {
	if len(e.rates) != 1 {
		return decimal.Zero, false
	}
	return e.rates[0], true
}

type catalog struct {
	entries map[string]*entry
}

func newCatalog() *catalog {
	return &catalog{entries: make(map[string]*entry)}
}

// add records code with rate. Codes that are not 4, 6 or 8 digits are skipped.
func (c *catalog) add(code, description string, rate decimal.Decimal) bool {
	e, ok := c.entries[code]
	if !ok {
		cc := domain.ClassificationCode{Code: code}
		if err := cc.Normalize(); err != nil {
			return false
		}
		e = &entry{code: cc, description: description}
		c.entries[code] = e
	}
	for _, r := range e.rates {
		if r.Equal(rate) {
			return false
		}
	}
	e.rates = append(e.rates, rate)
	return true
}

// sorted returns parents before children so a parent lookup by code always
// finds an inserted row.
func (c *catalog) sorted() []*entry {
	out := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].code.Code, out[j].code.Code
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return out
}

// parseHSNSheet reads the HSN_Master_v1 sheet (index 0).
// Columns: F(5)=4-digit, H(7)=4-digit desc, I(8)=6-digit, J(9)=6-digit desc,
// K(10)=8-digit, M(12)=8-digit desc, N(13)=GST rate (percentage formatted).
// Data starts at row index 5.
func parseHSNSheet(f *excelize.File, cat *catalog) (int, error) {
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, err
	}

	added := 0
	for i := 5; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 14 {
			continue
		}

		rate, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(cellVal(row, 13)), "%"))
		if err != nil {
			continue
		}

		for _, col := range [][2]int{{10, 12}, {8, 9}, {5, 7}} {
			code := strings.TrimSpace(cellVal(row, col[0]))
			if isNumeric(code) && cat.add(code, strings.TrimSpace(cellVal(row, col[1])), rate) {
				added++
			}
		}
	}
	return added, nil
}

// parseSACSheet reads the SAC_Master sheet (index 2).
// Columns: A(0)=4-digit SAC, B(1)=4-digit desc, C(2)=6-digit SAC, D(3)=6-digit desc,
// E(4)=GST rate (free text like "18%", "Exempt", "5% (without ITC)", "12%-18%").
// Data starts at row index 3.
func parseSACSheet(f *excelize.File, cat *catalog) (int, error) {
	rows, err := f.GetRows("SAC_Master")
	if err != nil {
		return 0, err
	}

	added := 0
	for i := 3; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 5 {
			continue
		}

		for _, rate := range parseSACRate(cellVal(row, 4)) {
			for _, col := range [][2]int{{2, 3}, {0, 1}} {
				code := strings.TrimSpace(cellVal(row, col[0]))
				if isNumeric(code) && cat.add(code, strings.TrimSpace(cellVal(row, col[1])), rate) {
					added++
				}
			}
		}
	}
	return added, nil
}

// ratePattern matches a number followed by "%".
var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// parseSACRate extracts GST rate(s) from free-text SAC rate strings.
// Examples:
//
//	"18%"                                     → [18]
//	"Exempt"                                  → [0]
//	"12%-18%"                                 → [12, 18]
//	"1% (without ITC) or 5% (without ITC)"   → [1, 5]
func parseSACRate(s string) []decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	lower := strings.ToLower(s)
	if lower == "exempt" || lower == "nil" {
		return []decimal.Decimal{decimal.Zero}
	}

	var rates []decimal.Decimal
	for _, m := range ratePattern.FindAllStringSubmatch(s, -1) {
		rate, err := decimal.NewFromString(m[1])
		if err != nil || containsRate(rates, rate) {
			continue
		}
		rates = append(rates, rate)
	}
	return rates
}

func containsRate(rates []decimal.Decimal, rate decimal.Decimal) bool {
	for _, r := range rates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
