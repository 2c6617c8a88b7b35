// Command seedhsn converts the GST HSN/SAC Excel file into a SQL seed file
// for the classification catalog. Reads both HSN_Master_v1 (goods) and
// SAC_Master (services) sheets.
//
// With -business-types, codes that carry a single published rate also get an
// intra-state shaped, all-zones tax configuration per business type.
//
// Usage: go run ./cmd/seedhsn -in summary.xlsx -out db/seeds/classification_codes.sql
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"gstengine/internal/domain"
)

const batchSize = 500

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("in", "AI Tool - GST_HSN Code summary_19.02.2025.xlsx", "HSN/SAC summary workbook")
	outPath := flag.String("out", "db/seeds/classification_codes.sql", "output SQL file")
	businessTypes := flag.String("business-types", "", "comma-separated business types to seed configurations for")
	from := flag.String("effective-from", "2017-07-01", "effective_from of seeded configurations")
	notification := flag.String("notification", "01/2017-Central Tax (Rate)", "notification reference of seeded configurations")
	flag.Parse()

	effectiveFrom, err := domain.ParseDate(*from)
	if err != nil {
		return err
	}

	f, err := excelize.OpenFile(*xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cat := newCatalog()

	// Sheet 0: HSN_Master_v1 (goods)
	n, err := parseHSNSheet(f, cat)
	if err != nil {
		return fmt.Errorf("parse HSN sheet: %w", err)
	}
	log.Printf("HSN sheet: %d entries", n)

	// Sheet 2: SAC_Master (services)
	n, err = parseSACSheet(f, cat)
	if err != nil {
		return fmt.Errorf("parse SAC sheet: %w", err)
	}
	log.Printf("SAC sheet: %d entries", n)

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	seed := seedOptions{
		BusinessTypes:         splitList(*businessTypes),
		EffectiveFrom:         effectiveFrom,
		NotificationReference: *notification,
	}
	entries := cat.sorted()
	if err := writeSeed(out, entries, seed); err != nil {
		return err
	}

	log.Printf("Generated %d codes (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, *outPath)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
