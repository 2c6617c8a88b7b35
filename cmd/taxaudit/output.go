package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"time"

	"gstengine/internal/domain"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// defaultOutPath names the workbook after the evaluation date and, for a
// resumed run, the code it resumes after, so a resume never lands on the
// partial workbook of the run it continues.
func defaultOutPath(asOf time.Time, after string) string {
	name := "tax_audit_" + domain.FormatDate(asOf)
	if after != "" {
		name += "_after_" + unsafeName.ReplaceAllString(after, "_")
	}
	return name + ".xlsx"
}

// checkResumeTarget refuses to let a resumed run overwrite an existing
// workbook, which would hold the findings for codes before the cursor.
func checkResumeTarget(outPath, after string) error {
	if after == "" {
		return nil
	}
	_, err := os.Stat(outPath)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists; pass a different -out when resuming after %q", outPath, after)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking %s: %w", outPath, err)
	}
}
