// Command taxaudit walks the classification catalog, validates the tax rules
// of every active code as of one date and writes the findings to an XLSX
// workbook. It only reads the catalog and can resume after a given code.
// A resumed run writes a workbook of its own and never overwrites an
// existing file, so the partial workbook of the interrupted run survives.
//
// Usage: go run ./cmd/taxaudit -as-of 2024-04-01 [-out tax_audit.xlsx] [-after 8517] [-upload]
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"gstengine/internal/audit"
	"gstengine/internal/cache/noop"
	"gstengine/internal/config"
	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/internal/report"
	"gstengine/internal/repository/postgres"
	"gstengine/internal/service"
	s3storage "gstengine/internal/storage/s3"
	"gstengine/pkg/logger"
)

const (
	defaultBatch = 200
	xlsxType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	after := flag.String("after", "", "resume after this code")
	asOfFlag := flag.String("as-of", "", "evaluation date (YYYY-MM-DD), defaults to today")
	batch := flag.Int("batch", defaultBatch, "codes fetched per page")
	outPath := flag.String("out", "", "output workbook (default tax_audit_{as-of}[_after_{code}].xlsx)")
	upload := flag.Bool("upload", false, "also upload the workbook to the audit bucket")
	onlyIssues := flag.Bool("only-issues", false, "record only codes that fail validation")
	flag.Parse()

	if *batch <= 0 {
		return fmt.Errorf("-batch must be positive, got %d", *batch)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	appLog, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()
	appLog = appLog.WithComponent("taxaudit")

	asOf := domain.DateOf(time.Now())
	if *asOfFlag != "" {
		asOf, err = domain.ParseDate(*asOfFlag)
		if err != nil {
			return err
		}
	}
	if *outPath == "" {
		*outPath = defaultOutPath(asOf, *after)
	}
	if err := checkResumeTarget(*outPath, *after); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	classRepo := postgres.NewClassificationRepo(db)
	taxSvc := service.NewTaxService(
		classRepo,
		postgres.NewTaxConfigurationRepo(db),
		postgres.NewTaxRateRepo(db),
		postgres.NewTxManager(db),
		noop.NewConfigurationCache(),
		audit.NewLogSink(appLog),
		port.SystemClock,
		service.TaxSettings{BusinessTypes: cfg.Tax.BusinessTypes, BulkConcurrency: cfg.Tax.BulkConcurrency},
		appLog,
	)

	wb, err := report.NewAuditWorkbook(asOf)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	checked, cursor := 0, *after
	for {
		codes, err := classRepo.ListAfter(ctx, cursor, *batch)
		if err != nil {
			return fmt.Errorf("listing codes after %q: %w", cursor, err)
		}
		if len(codes) == 0 {
			break
		}

		for i := range codes {
			code := &codes[i]
			res, err := taxSvc.ValidateTaxConfiguration(ctx, code.Code, &asOf)
			if err != nil {
				// Partial progress is still written so the run can resume from the last code.
				appLog.Errorw("validation failed, stopping", "code", code.Code, "error", err)
				return finish(ctx, appLog, wb, *outPath, *upload, cfg, err)
			}
			checked++
			if *onlyIssues && res.IsValid() {
				continue
			}
			if err := wb.Add(code, res); err != nil {
				return err
			}
		}

		cursor = codes[len(codes)-1].Code
		appLog.Infow("progress", "checked", checked, "last_code", cursor)
	}

	return finish(ctx, appLog, wb, *outPath, *upload, cfg, nil)
}

func finish(ctx context.Context, log *logger.Logger, wb *report.AuditWorkbook, outPath string, upload bool, cfg *config.Config, runErr error) error {
	var buf bytes.Buffer
	if err := wb.WriteTo(&buf, time.Now()); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	s := wb.Summary()
	log.Infow("audit written",
		"path", outPath,
		"recorded", s.CodesChecked,
		"valid", s.Valid,
		"without_effective_rule", s.WithoutEffectiveRule,
		"with_overlaps", s.WithOverlaps,
		"missing_business_types", s.MissingBusinessTypes,
		"last_code", s.LastCode,
	)

	if upload && runErr == nil {
		store, err := s3storage.NewS3Client(ctx, &cfg.Audit.S3)
		if err != nil {
			return fmt.Errorf("initializing S3 client: %w", err)
		}
		key := path.Join(cfg.Audit.S3.Prefix, "reports", filepath.Base(outPath))
		out, err := store.Upload(ctx, port.UploadInput{
			Bucket:      cfg.Audit.S3.Bucket,
			Key:         key,
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: xlsxType,
		})
		if err != nil {
			return fmt.Errorf("uploading %s: %w", key, err)
		}
		log.Infow("audit uploaded", "bucket", cfg.Audit.S3.Bucket, "key", key, "location", out.Location)
	}
	return runErr
}
