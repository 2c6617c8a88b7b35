package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gstengine/internal/domain"
)

type seedOptions struct {
	BusinessTypes         []string
	EffectiveFrom         time.Time
	NotificationReference string
}

var two = decimal.NewFromInt(2)

// writeSeed renders the catalog as an idempotent SQL script: codes first,
// then parent links, then the optional configurations.
func writeSeed(w io.Writer, entries []*entry, opts seedOptions) error {
	var b strings.Builder
	b.WriteString("-- Classification catalog seed generated from the HSN/SAC summary workbook.\n")
	fmt.Fprintf(&b, "-- %d codes in batches of %d.\n", len(entries), batchSize)
	b.WriteString("BEGIN;\n\n")

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		writeCodeBatch(&b, entries[i:end])
	}

	// Link each code to its nearest stored ancestor (8 → 6 → 4 digits).
	for _, drop := range []int{2, 4} {
		fmt.Fprintf(&b, `UPDATE classification_codes c SET parent_id = p.id
FROM classification_codes p
WHERE c.parent_id IS NULL AND c.is_active AND p.is_active
  AND length(c.code) > %d AND p.code = left(c.code, length(c.code) - %d);

`, drop, drop)
	}

	if len(opts.BusinessTypes) > 0 {
		writeConfigurations(&b, entries, opts)
	}

	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCodeBatch(b *strings.Builder, batch []*entry) {
	if len(batch) == 0 {
		return
	}
	b.WriteString("INSERT INTO classification_codes (id, code, description, chapter, heading, level) VALUES\n")
	for i, e := range batch {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  (gen_random_uuid(), '%s', '%s', '%s', '%s', %d)",
			e.code.Code, escapeSQL(e.description), e.code.Chapter, *e.code.Heading, e.code.Level)
	}
	b.WriteString("\nON CONFLICT (code) WHERE is_active DO NOTHING;\n\n")
}

// writeConfigurations seeds an intra-state shaped, all-zones configuration per
// business type for every code with a single published rate. Scopes that
// already hold an active configuration are left alone.
func writeConfigurations(b *strings.Builder, entries []*entry, opts seedOptions) {
	var values []string
	for _, e := range entries {
		rate, ok := e.singleRate()
		if !ok {
			continue
		}
		half := rate.Div(two)
		for _, bt := range opts.BusinessTypes {
			values = append(values, fmt.Sprintf("  ('%s', '%s', %s, %s)",
				e.code.Code, escapeSQL(bt), rate.String(), half.String()))
		}
	}
	if len(values) == 0 {
		return
	}

	for i := 0; i < len(values); i += batchSize {
		end := i + batchSize
		if end > len(values) {
			end = len(values)
		}
		fmt.Fprintf(b, `INSERT INTO tax_configurations
  (id, classification_code_id, business_type, total_gst_rate, cgst_rate, sgst_rate, effective_from, notification_reference)
SELECT gen_random_uuid(), c.id, v.business_type, v.total, v.half, v.half, DATE '%s', '%s'
FROM (VALUES
%s
) AS v(code, business_type, total, half)
JOIN classification_codes c ON c.code = v.code AND c.is_active
WHERE NOT EXISTS (
  SELECT 1 FROM tax_configurations t
  WHERE t.classification_code_id = c.id AND t.business_type = v.business_type
    AND t.geographical_zone IS NULL AND t.is_active
);

`, domain.FormatDate(opts.EffectiveFrom), escapeSQL(opts.NotificationReference), strings.Join(values[i:end], ",\n"))
	}
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
