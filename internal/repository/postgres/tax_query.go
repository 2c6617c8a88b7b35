package postgres

import (
	"time"

	"github.com/Masterminds/squirrel"

	"gstengine/internal/domain"
)

// effectiveOn restricts to rows whose inclusive window contains day.
func effectiveOn(day time.Time) squirrel.Sqlizer {
	day = domain.DateOf(day)
	return squirrel.And{
		squirrel.LtOrEq{"effective_from": day},
		squirrel.Or{
			squirrel.Eq{"effective_to": nil},
			squirrel.GtOrEq{"effective_to": day},
		},
	}
}

// zoneOrWildcard matches all-zone rows, plus the named zone when given.
func zoneOrWildcard(zone *string) squirrel.Sqlizer {
	or := squirrel.Or{squirrel.Eq{"geographical_zone": nil}}
	if zone != nil {
		or = append(or, squirrel.Eq{"geographical_zone": *zone})
	}
	return or
}

// inScope matches the active rows of exactly one scope. A nil zone matches
// only wildcard rows.
func inScope(s domain.Scope) squirrel.Sqlizer {
	eq := squirrel.Eq{
		"classification_code_id": s.ClassificationCodeID,
		"business_type":          s.BusinessType,
		"is_active":              true,
	}
	if s.Zone != nil {
		eq["geographical_zone"] = *s.Zone
	} else {
		eq["geographical_zone"] = nil
	}
	if s.Component != nil {
		eq["component_type"] = *s.Component
	}
	return eq
}

func candidatesQuery(table string, columns []string, q domain.RuleQuery) squirrel.SelectBuilder {
	b := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"classification_code_id": q.ClassificationCodeID,
			"business_type":          q.BusinessType,
			"is_active":              true,
		}).
		Where(effectiveOn(q.AsOf)).
		Where(zoneOrWildcard(q.Zone))
	if q.Component != nil {
		b = b.Where(squirrel.Eq{"component_type": *q.Component})
	}
	return b.OrderBy("effective_from DESC", "created_at DESC")
}
