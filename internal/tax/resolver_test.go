package tax_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gstengine/internal/domain"
	"gstengine/internal/tax"
	"gstengine/pkg/logger"
)

func observedResolver() (*tax.Resolver, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return tax.NewResolver(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}), logs
}

func TestSelectConfiguration_TemporalBoundary(t *testing.T) {
	r := tax.NewResolver(nil)
	cfg := intraConfig("18")
	cfg.EffectiveTo = dayPtr("2024-12-31")
	rows := []domain.TaxConfiguration{cfg}

	got, err := r.SelectConfiguration(rows, query("2024-12-31"))
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, got.ID)

	got, err = r.SelectConfiguration(rows, query("2025-01-01"))
	assert.Nil(t, got)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "85171300", nf.Code)
	assert.Equal(t, "RETAIL", nf.BusinessType)
	assert.Nil(t, nf.Zone)
	assert.Equal(t, "2025-01-01", domain.FormatDate(nf.AsOf))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelectConfiguration_NotYetEffective(t *testing.T) {
	r := tax.NewResolver(nil)
	cfg := intraConfig("18")
	cfg.EffectiveFrom = day("2025-04-01")

	_, err := r.SelectConfiguration([]domain.TaxConfiguration{cfg}, query("2025-03-31"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelectConfiguration_EmptyNeverDefaultsToZero(t *testing.T) {
	r := tax.NewResolver(nil)
	got, err := r.SelectConfiguration(nil, query("2024-06-01"))
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelectConfiguration_FiltersInactiveAndBusinessType(t *testing.T) {
	r := tax.NewResolver(nil)
	inactive := intraConfig("28")
	inactive.IsActive = false
	wholesale := intraConfig("12")
	wholesale.BusinessType = "WHOLESALE"
	otherCode := intraConfig("5")
	otherCode.ClassificationCodeID = uuid.New()
	want := intraConfig("18")

	got, err := r.SelectConfiguration([]domain.TaxConfiguration{inactive, wholesale, otherCode, want}, query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}

func TestSelectConfiguration_ExactZoneBeatsWildcard(t *testing.T) {
	r, logs := observedResolver()
	wildcard := intraConfig("18")
	exact := intraConfig("12")
	exact.GeographicalZone = strPtr("KA")
	// A more recent wildcard row still loses to the exact zone.
	wildcard.EffectiveFrom = day("2024-03-01")

	q := query("2024-06-01")
	q.Zone = strPtr("KA")
	got, err := r.SelectConfiguration([]domain.TaxConfiguration{wildcard, exact}, q)
	require.NoError(t, err)
	assert.Equal(t, exact.ID, got.ID)
	assert.Equal(t, 0, logs.Len())
}

func TestSelectConfiguration_WildcardWhenZoneHasNoRow(t *testing.T) {
	r := tax.NewResolver(nil)
	wildcard := intraConfig("18")
	mh := intraConfig("12")
	mh.GeographicalZone = strPtr("MH")

	q := query("2024-06-01")
	q.Zone = strPtr("KA")
	got, err := r.SelectConfiguration([]domain.TaxConfiguration{mh, wildcard}, q)
	require.NoError(t, err)
	assert.Equal(t, wildcard.ID, got.ID)
}

func TestSelectConfiguration_NilZoneIgnoresZonedRows(t *testing.T) {
	r := tax.NewResolver(nil)
	ka := intraConfig("12")
	ka.GeographicalZone = strPtr("KA")

	_, err := r.SelectConfiguration([]domain.TaxConfiguration{ka}, query("2024-06-01"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelectConfiguration_TieBreakLatestFromAndWarns(t *testing.T) {
	r, logs := observedResolver()
	older := intraConfig("18")
	newer := intraConfig("28")
	newer.EffectiveFrom = day("2024-04-01")

	got, err := r.SelectConfiguration([]domain.TaxConfiguration{newer, older}, query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, int64(2), entry.ContextMap()["matched"])
}

func TestSelectConfiguration_TieBreakIsDeterministic(t *testing.T) {
	r := tax.NewResolver(nil)
	a := intraConfig("18")
	b := intraConfig("18")
	b.CreatedAt = a.CreatedAt

	first, err := r.SelectConfiguration([]domain.TaxConfiguration{a, b}, query("2024-06-01"))
	require.NoError(t, err)
	second, err := r.SelectConfiguration([]domain.TaxConfiguration{b, a}, query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSelectRate_PrefersIGSTWithoutFilter(t *testing.T) {
	r := tax.NewResolver(nil)
	rows := []domain.TaxRate{
		percentRate(domain.ComponentCGST, "9"),
		percentRate(domain.ComponentSGST, "9"),
		percentRate(domain.ComponentIGST, "18"),
	}

	got, err := r.SelectRate(rows, query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, domain.ComponentIGST, got.ComponentType)

	got, err = r.SelectRate(rows[:2], query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, domain.ComponentCGST, got.ComponentType)

	got, err = r.SelectRate(rows[1:2], query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, domain.ComponentSGST, got.ComponentType)
}

func TestSelectRate_CessOnlyNeedsFilter(t *testing.T) {
	r := tax.NewResolver(nil)
	rows := []domain.TaxRate{percentRate(domain.ComponentCess, "12")}

	_, err := r.SelectRate(rows, query("2024-06-01"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	q := query("2024-06-01")
	cess := domain.ComponentCess
	q.Component = &cess
	got, err := r.SelectRate(rows, q)
	require.NoError(t, err)
	assert.Equal(t, rows[0].ID, got.ID)
}

func TestSelectRate_NotFoundCarriesComponent(t *testing.T) {
	r := tax.NewResolver(nil)
	q := query("2024-06-01")
	igst := domain.ComponentIGST
	q.Component = &igst

	_, err := r.SelectRate([]domain.TaxRate{percentRate(domain.ComponentCGST, "9")}, q)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	require.NotNil(t, nf.Component)
	assert.Equal(t, domain.ComponentIGST, *nf.Component)
	assert.Contains(t, err.Error(), "component=IGST")
}

func TestSelectRate_HigherVersionWinsOnSameDay(t *testing.T) {
	r := tax.NewResolver(nil)
	v1 := percentRate(domain.ComponentIGST, "18")
	v2 := percentRate(domain.ComponentIGST, "28")
	v2.VersionNumber = 2

	got, err := r.SelectRate([]domain.TaxRate{v1, v2}, query("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 2, got.VersionNumber)
}
