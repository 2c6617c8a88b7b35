package tax

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"gstengine/internal/domain"
)

// window is the shape shared by rates and configurations for diagnostics.
type window struct {
	id            uuid.UUID
	businessType  string
	zone          *string
	component     string
	active        bool
	effectiveFrom time.Time
	effectiveTo   *time.Time
}

func configWindows(rows []domain.TaxConfiguration) []window {
	out := make([]window, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = window{r.ID, r.BusinessType, r.GeographicalZone, "", r.IsActive, r.EffectiveFrom, r.EffectiveTo}
	}
	return out
}

func rateWindows(rows []domain.TaxRate) []window {
	out := make([]window, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = window{r.ID, r.BusinessType, r.GeographicalZone, r.ComponentType.String(), r.IsActive, r.EffectiveFrom, r.EffectiveTo}
	}
	return out
}

func (w *window) scopeKey() string {
	zone := "*"
	if w.zone != nil {
		zone = *w.zone
	}
	return w.businessType + "|" + zone + "|" + w.component
}

func (w *window) describe() string {
	zone := "*"
	if w.zone != nil {
		zone = *w.zone
	}
	s := fmt.Sprintf("business_type=%s zone=%s", w.businessType, zone)
	if w.component != "" {
		s += " component=" + w.component
	}
	return s
}

// DiagnoseInput is everything stored for one classification code.
type DiagnoseInput struct {
	Code           string
	Configurations []domain.TaxConfiguration
	Rates          []domain.TaxRate
	// BusinessTypes are the types the code is expected to be taxable under.
	BusinessTypes []string
	AsOf          time.Time
}

// Diagnose re-checks a code's stored rules without mutating anything. It is
// the read-side counterpart of the write-path validators.
func Diagnose(in DiagnoseInput) *domain.TaxValidationResult {
	asOf := domain.DateOf(in.AsOf)
	res := &domain.TaxValidationResult{
		ClassificationCode:   in.Code,
		AsOf:                 asOf,
		Overlaps:             []domain.OverlapIssue{},
		MissingBusinessTypes: []string{},
		Warnings:             []string{},
	}

	covered := map[string]bool{}
	check := func(entity domain.AuditEntity, rows []window) bool {
		effective := false
		groups := map[string][]window{}
		var keys []string
		for _, w := range rows {
			if !w.active {
				continue
			}
			if domain.WindowContains(w.effectiveFrom, w.effectiveTo, asOf) {
				effective = true
				covered[w.businessType] = true
			}
			if domain.DateOf(w.effectiveFrom).After(asOf) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s (%s) takes effect in the future on %s",
					entity, w.id, w.describe(), domain.FormatDate(w.effectiveFrom)))
			}
			k := w.scopeKey()
			if _, ok := groups[k]; !ok {
				keys = append(keys, k)
			}
			groups[k] = append(groups[k], w)
		}
		sort.Strings(keys)
		for _, k := range keys {
			res.Overlaps = append(res.Overlaps, overlapsIn(entity, groups[k])...)
			if open := countOpenEnded(groups[k]); open > 1 {
				w := groups[k][0]
				res.Warnings = append(res.Warnings, fmt.Sprintf("%d open-ended active %s rows for %s",
					open, entity, w.describe()))
			}
		}
		return effective
	}

	res.HasEffectiveConfiguration = check(domain.AuditEntityConfiguration, configWindows(in.Configurations))
	res.HasEffectiveRate = check(domain.AuditEntityRate, rateWindows(in.Rates))

	for _, bt := range in.BusinessTypes {
		if !covered[bt] {
			res.MissingBusinessTypes = append(res.MissingBusinessTypes, bt)
		}
	}
	return res
}

func overlapsIn(entity domain.AuditEntity, rows []window) []domain.OverlapIssue {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].effectiveFrom.Equal(rows[j].effectiveFrom) {
			return rows[i].effectiveFrom.Before(rows[j].effectiveFrom)
		}
		return rows[i].id.String() < rows[j].id.String()
	})
	var out []domain.OverlapIssue
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			a, b := &rows[i], &rows[j]
			if !domain.WindowsOverlap(a.effectiveFrom, a.effectiveTo, b.effectiveFrom, b.effectiveTo) {
				continue
			}
			out = append(out, domain.OverlapIssue{
				Entity:       entity,
				BusinessType: a.businessType,
				Zone:         a.zone,
				Component:    a.component,
				FirstID:      a.id,
				SecondID:     b.id,
			})
		}
	}
	return out
}

func countOpenEnded(rows []window) int {
	n := 0
	for i := range rows {
		if rows[i].effectiveTo == nil {
			n++
		}
	}
	return n
}
