package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOutPath(t *testing.T) {
	asOf := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "tax_audit_2024-04-01.xlsx", defaultOutPath(asOf, ""))
	assert.Equal(t, "tax_audit_2024-04-01_after_85171300.xlsx", defaultOutPath(asOf, "85171300"))
	assert.NotEqual(t, defaultOutPath(asOf, ""), defaultOutPath(asOf, "8517"))
}

func TestDefaultOutPath_SanitizesCursor(t *testing.T) {
	asOf := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	got := defaultOutPath(asOf, "../85 17")
	assert.Equal(t, "tax_audit_2024-04-01_after__85_17.xlsx", got)
	assert.Equal(t, got, filepath.Base(got))
}

func TestCheckResumeTarget(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "tax_audit_2024-04-01.xlsx")
	require.NoError(t, os.WriteFile(existing, []byte("partial"), 0o600))

	// A fresh run may replace its own earlier output.
	assert.NoError(t, checkResumeTarget(existing, ""))

	err := checkResumeTarget(existing, "85171300")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, checkResumeTarget(filepath.Join(dir, "new.xlsx"), "85171300"))
}
