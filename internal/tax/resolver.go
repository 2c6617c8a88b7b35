package tax

import (
	"time"

	"github.com/google/uuid"

	"gstengine/internal/domain"
	"gstengine/pkg/logger"
)

// candidate is the slice of a rule row that selection looks at.
type candidate struct {
	id            uuid.UUID
	codeID        uuid.UUID
	businessType  string
	zone          *string
	active        bool
	effectiveFrom time.Time
	effectiveTo   *time.Time
	createdAt     time.Time
	version       int
}

func (c *candidate) matches(q *domain.RuleQuery) bool {
	return c.active &&
		c.codeID == q.ClassificationCodeID &&
		c.businessType == q.BusinessType &&
		(c.zone == nil || (q.Zone != nil && *c.zone == *q.Zone)) &&
		domain.WindowContains(c.effectiveFrom, c.effectiveTo, q.AsOf)
}

// newer orders by effective date, then insertion time, then version. The id
// comparison only makes the pick stable across calls.
func (c *candidate) newer(o *candidate) bool {
	if !c.effectiveFrom.Equal(o.effectiveFrom) {
		return c.effectiveFrom.After(o.effectiveFrom)
	}
	if !c.createdAt.Equal(o.createdAt) {
		return c.createdAt.After(o.createdAt)
	}
	if c.version != o.version {
		return c.version > o.version
	}
	return c.id.String() < o.id.String()
}

// selectEffective returns the index of the governing row, -1 when none
// matches, and the number of rows tied in its pool.
func selectEffective(cands []candidate, q *domain.RuleQuery) (best, tied int) {
	exact, wildcard := -1, -1
	var exactN, wildN int
	for i := range cands {
		c := &cands[i]
		if !c.matches(q) {
			continue
		}
		if c.zone != nil {
			exactN++
			if exact < 0 || c.newer(&cands[exact]) {
				exact = i
			}
			continue
		}
		wildN++
		if wildcard < 0 || c.newer(&cands[wildcard]) {
			wildcard = i
		}
	}
	if exact >= 0 {
		return exact, exactN
	}
	return wildcard, wildN
}

func configCandidates(rows []domain.TaxConfiguration) []candidate {
	out := make([]candidate, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = candidate{
			id: r.ID, codeID: r.ClassificationCodeID, businessType: r.BusinessType,
			zone: r.GeographicalZone, active: r.IsActive,
			effectiveFrom: r.EffectiveFrom, effectiveTo: r.EffectiveTo,
			createdAt: r.CreatedAt,
		}
	}
	return out
}

func rateCandidates(rows []domain.TaxRate, component domain.TaxComponentType) ([]candidate, []int) {
	out := make([]candidate, 0, len(rows))
	idx := make([]int, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.ComponentType != component {
			continue
		}
		out = append(out, candidate{
			id: r.ID, codeID: r.ClassificationCodeID, businessType: r.BusinessType,
			zone: r.GeographicalZone, active: r.IsActive,
			effectiveFrom: r.EffectiveFrom, effectiveTo: r.EffectiveTo,
			createdAt: r.CreatedAt, version: r.VersionNumber,
		})
		idx = append(idx, i)
	}
	return out, idx
}

// Resolver picks the governing rule from a candidate set. It never reads
// storage; callers may over-fetch and rely on it to filter.
type Resolver struct {
	log *logger.Logger
}

// NewResolver creates a Resolver. A nil logger discards tie warnings.
func NewResolver(log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{log: log.WithComponent("tax.resolver")}
}

// SelectConfiguration returns the configuration governing q.
func (r *Resolver) SelectConfiguration(rows []domain.TaxConfiguration, q domain.RuleQuery) (*domain.TaxConfiguration, error) {
	q.AsOf = domain.DateOf(q.AsOf)
	best, tied := selectEffective(configCandidates(rows), &q)
	if best < 0 {
		return nil, q.NotFound()
	}
	if tied > 1 {
		r.warnTie("tax_configuration", &q, rows[best].ID, tied)
	}
	cfg := rows[best]
	return &cfg, nil
}

// SelectRate returns the rate governing q. Without a component filter the
// first of IGST, CGST, SGST that resolves is returned.
func (r *Resolver) SelectRate(rows []domain.TaxRate, q domain.RuleQuery) (*domain.TaxRate, error) {
	q.AsOf = domain.DateOf(q.AsOf)
	components := domain.ComponentPreference
	if q.Component != nil {
		components = []domain.TaxComponentType{*q.Component}
	}
	for _, comp := range components {
		cands, idx := rateCandidates(rows, comp)
		best, tied := selectEffective(cands, &q)
		if best < 0 {
			continue
		}
		rate := rows[idx[best]]
		if tied > 1 {
			r.warnTie("tax_rate", &q, rate.ID, tied)
		}
		return &rate, nil
	}
	return nil, q.NotFound()
}

func (r *Resolver) warnTie(entity string, q *domain.RuleQuery, chosen uuid.UUID, tied int) {
	r.log.Warnw("multiple effective rules matched; overlapping data",
		"entity", entity,
		"code", q.Code,
		"business_type", q.BusinessType,
		"as_of", domain.FormatDate(q.AsOf),
		"matched", tied,
		"chosen_id", chosen,
	)
}
