package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/internal/service"
	"gstengine/mocks"
)

var testNow = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

type taxFixture struct {
	svc        service.TaxService
	classRepo  *mocks.MockClassificationRepo
	configRepo *mocks.MockTaxConfigurationRepo
	rateRepo   *mocks.MockTaxRateRepo
	txm        *mocks.MockTxManager
	cache      *mocks.MockConfigurationCache
	audit      *mocks.MockAuditSink
	code       *domain.ClassificationCode
}

func setupTaxService() *taxFixture {
	f := &taxFixture{
		classRepo:  new(mocks.MockClassificationRepo),
		configRepo: new(mocks.MockTaxConfigurationRepo),
		rateRepo:   new(mocks.MockTaxRateRepo),
		txm:        new(mocks.MockTxManager),
		cache:      new(mocks.MockConfigurationCache),
		audit:      new(mocks.MockAuditSink),
		code: &domain.ClassificationCode{
			ID:       uuid.New(),
			Code:     "85171300",
			Level:    domain.LevelTariffItem,
			IsActive: true,
		},
	}
	f.classRepo.On("GetByCode", mock.Anything, "85171300").Return(f.code, nil).Maybe()
	f.classRepo.On("GetByCode", mock.Anything, mock.Anything).Return(nil, domain.ErrClassificationNotFound).Maybe()
	f.txm.On("RunInTx", mock.Anything).Return(nil).Maybe()
	f.txm.On("LockScope", mock.Anything, mock.Anything).Return(nil).Maybe()

	f.svc = service.NewTaxService(
		f.classRepo, f.configRepo, f.rateRepo, f.txm, f.cache, f.audit,
		port.ClockFunc(func() time.Time { return testNow }),
		service.TaxSettings{BusinessTypes: []string{"RETAIL", "WHOLESALE"}, BulkConcurrency: 4},
		nil,
	)
	return f
}

// cacheMisses makes every cache lookup miss and every write succeed.
func (f *taxFixture) cacheMisses() {
	f.cache.On("Get", mock.Anything, mock.Anything).Return(nil, int64(0), nil).Maybe()
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.cache.On("Invalidate", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (f *taxFixture) auditOK() {
	f.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func (f *taxFixture) config(total string, intra bool) domain.TaxConfiguration {
	cfg := domain.TaxConfiguration{
		ID:                   uuid.New(),
		ClassificationCodeID: f.code.ID,
		BusinessType:         "RETAIL",
		TotalGSTRate:         dec(total),
		EffectiveFrom:        date("2024-01-01"),
		IsActive:             true,
		CreatedAt:            testNow.Add(-time.Hour),
	}
	if intra {
		half := cfg.TotalGSTRate.Div(decimal.NewFromInt(2))
		cfg.CGSTRate, cfg.SGSTRate = half, half
	} else {
		cfg.IGSTRate = cfg.TotalGSTRate
	}
	return cfg
}

func (f *taxFixture) rate(comp domain.TaxComponentType, pct string) domain.TaxRate {
	return domain.TaxRate{
		ID:                   uuid.New(),
		ClassificationCodeID: f.code.ID,
		BusinessType:         "RETAIL",
		ComponentType:        comp,
		RatePercentage:       dec(pct),
		EffectiveFrom:        date("2024-01-01"),
		IsActive:             true,
		VersionNumber:        1,
	}
}

func calcRequest(src, dst string) *domain.TaxCalculationRequest {
	return &domain.TaxCalculationRequest{
		ClassificationCode: "85171300",
		UnitAmount:         dec("500"),
		Quantity:           dec("2"),
		SourceState:        src,
		DestinationState:   dst,
		BusinessType:       "RETAIL",
	}
}

// --- Resolution ---

func TestTaxService_ResolveConfiguration_ExactZoneWins(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()

	wildcard := f.config("18", false)
	ka := "KA"
	exact := f.config("12", false)
	exact.GeographicalZone = &ka

	f.configRepo.On("FindCandidates", mock.Anything, mock.MatchedBy(func(q domain.RuleQuery) bool {
		return q.ClassificationCodeID == f.code.ID && q.Zone != nil && *q.Zone == "KA" && q.AsOf.Equal(date("2024-06-01"))
	})).Return([]domain.TaxConfiguration{wildcard, exact}, nil)

	cfg, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
		Zone:         &ka,
	})

	require.NoError(t, err)
	assert.Equal(t, exact.ID, cfg.ID)
	f.cache.AssertCalled(t, "Set", mock.Anything, mock.Anything, int64(0), cfg)
}

func TestTaxService_ResolveConfiguration_CacheHit(t *testing.T) {
	f := setupTaxService()
	cached := f.config("18", true)
	f.cache.On("Get", mock.Anything, mock.Anything).Return(&cached, int64(3), nil)

	cfg, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
	})

	require.NoError(t, err)
	assert.Equal(t, cached.ID, cfg.ID)
	f.configRepo.AssertNotCalled(t, "FindCandidates", mock.Anything, mock.Anything)
}

func TestTaxService_ResolveConfiguration_CacheErrorFallsBackToStore(t *testing.T) {
	f := setupTaxService()
	row := f.config("18", true)
	f.cache.On("Get", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("redis down"))
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{row}, nil)

	cfg, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
	})

	require.NoError(t, err)
	assert.Equal(t, row.ID, cfg.ID)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxService_ResolveConfiguration_CachesUnderGenerationRead(t *testing.T) {
	f := setupTaxService()
	row := f.config("18", true)
	f.cache.On("Get", mock.Anything, mock.Anything).Return(nil, int64(7), nil)
	f.cache.On("Set", mock.Anything, mock.Anything, int64(7), mock.Anything).Return(nil)
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{row}, nil)

	_, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
	})

	require.NoError(t, err)
	f.cache.AssertExpectations(t)
}

func TestTaxService_ResolveConfiguration_TemporalBoundary(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()

	row := f.config("18", true)
	row.EffectiveTo = datePtr("2024-12-31")
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{row}, nil)

	cfg, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code: "85171300", BusinessType: "RETAIL", AsOf: datePtr("2024-12-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, row.ID, cfg.ID)

	_, err = f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code: "85171300", BusinessType: "RETAIL", AsOf: datePtr("2025-01-01"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaxService_ResolveConfiguration_Deterministic(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()

	a := f.config("18", true)
	b := f.config("18", true)
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{a, b}, nil)

	in := service.ResolveConfigurationInput{Code: "85171300", BusinessType: "RETAIL"}
	first, err := f.svc.ResolveConfiguration(context.Background(), in)
	require.NoError(t, err)
	second, err := f.svc.ResolveConfiguration(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestTaxService_ResolveConfiguration_UnknownCode(t *testing.T) {
	f := setupTaxService()

	_, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code:         "99999999",
		BusinessType: "RETAIL",
	})

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "99999999", nf.Code)
	assert.Equal(t, "RETAIL", nf.BusinessType)
	assert.Equal(t, "2024-06-01", domain.FormatDate(nf.AsOf))
}

func TestTaxService_ResolveConfiguration_NoRowsIsNotFound(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{}, nil)

	cfg, err := f.svc.ResolveConfiguration(context.Background(), service.ResolveConfigurationInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
	})

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxService_ResolveRate_PrefersIGST(t *testing.T) {
	f := setupTaxService()
	cgst := f.rate(domain.ComponentCGST, "9")
	igst := f.rate(domain.ComponentIGST, "18")
	f.rateRepo.On("FindCandidates", mock.Anything, mock.MatchedBy(func(q domain.RuleQuery) bool {
		return q.Component == nil
	})).Return([]domain.TaxRate{cgst, igst}, nil)

	rate, err := f.svc.ResolveRate(context.Background(), service.ResolveRateInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
	})

	require.NoError(t, err)
	assert.Equal(t, igst.ID, rate.ID)
}

func TestTaxService_ResolveRate_ComponentFilter(t *testing.T) {
	f := setupTaxService()
	comp := domain.ComponentCess
	f.rateRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxRate{f.rate(domain.ComponentIGST, "18")}, nil)

	_, err := f.svc.ResolveRate(context.Background(), service.ResolveRateInput{
		Code:         "85171300",
		BusinessType: "RETAIL",
		Component:    &comp,
	})

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.NotNil(t, nf.Component)
	assert.Equal(t, domain.ComponentCess, *nf.Component)
}

// --- Calculation ---

func TestTaxService_CalculateTax_InterState(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	cfg := f.config("18", true)
	f.configRepo.On("FindCandidates", mock.Anything, mock.MatchedBy(func(q domain.RuleQuery) bool {
		return q.Zone == nil
	})).Return([]domain.TaxConfiguration{cfg}, nil)

	res, err := f.svc.CalculateTax(context.Background(), calcRequest("KA", "MH"))

	require.NoError(t, err)
	assert.False(t, res.IsIntraState)
	assert.Equal(t, "180.00", res.IGSTAmount.StringFixed(2))
	assert.True(t, res.CGSTAmount.IsZero())
	assert.True(t, res.SGSTAmount.IsZero())
	assert.Equal(t, "1180.00", res.TotalAmount.StringFixed(2))
	assert.Equal(t, cfg.ID, res.ConfigurationID)
}

func TestTaxService_CalculateTax_UsesRequestDate(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("FindCandidates", mock.Anything, mock.MatchedBy(func(q domain.RuleQuery) bool {
		return q.AsOf.Equal(date("2024-03-15"))
	})).Return([]domain.TaxConfiguration{f.config("12", true)}, nil)

	req := calcRequest("KA", "KA")
	req.AsOf = datePtr("2024-03-15")
	res, err := f.svc.CalculateTax(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "60.00", res.CGSTAmount.StringFixed(2))
	assert.Equal(t, "60.00", res.SGSTAmount.StringFixed(2))
}

func TestTaxService_CalculateTax_RateNotFound(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{}, nil)

	res, err := f.svc.CalculateTax(context.Background(), calcRequest("KA", "MH"))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "85171300", nf.Code)
	assert.Nil(t, nf.Zone)
}

func TestTaxService_CalculateTax_InvalidInput(t *testing.T) {
	f := setupTaxService()
	req := calcRequest("KA", "MH")
	req.Quantity = decimal.Zero

	_, err := f.svc.CalculateTax(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.classRepo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestTaxService_CalculateBulkTax_SumsLines(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{f.config("18", true)}, nil)

	res, err := f.svc.CalculateBulkTax(context.Background(), []domain.TaxCalculationRequest{
		*calcRequest("KA", "KA"),
		*calcRequest("KA", "MH"),
		*calcRequest("MH", "MH"),
	})

	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[0].IsIntraState)
	assert.False(t, res.Items[1].IsIntraState)
	assert.Equal(t, "3000.00", res.TotalBaseAmount.StringFixed(2))
	assert.Equal(t, "180.00", res.TotalCGSTAmount.StringFixed(2))
	assert.Equal(t, "180.00", res.TotalSGSTAmount.StringFixed(2))
	assert.Equal(t, "180.00", res.TotalIGSTAmount.StringFixed(2))
	assert.Equal(t, "540.00", res.TotalTaxAmount.StringFixed(2))
	assert.Equal(t, "3540.00", res.TotalAmount.StringFixed(2))
}

func TestTaxService_CalculateBulkTax_OneMissFailsBatch(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{f.config("18", true)}, nil)

	unknown := calcRequest("KA", "KA")
	unknown.ClassificationCode = "99999999"
	res, err := f.svc.CalculateBulkTax(context.Background(), []domain.TaxCalculationRequest{
		*calcRequest("KA", "KA"),
		*unknown,
	})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
	var ce *domain.CalculationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Line)
}

func TestTaxService_CalculateBulkTax_ReportsLowestFailingLine(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{f.config("18", true)}, nil)

	unknown := calcRequest("KA", "KA")
	unknown.ClassificationCode = "99999999"
	reqs := []domain.TaxCalculationRequest{
		*calcRequest("KA", "KA"),
		*unknown,
		*calcRequest("KA", "MH"),
		*unknown,
	}

	for i := 0; i < 100; i++ {
		_, err := f.svc.CalculateBulkTax(context.Background(), reqs)
		var ce *domain.CalculationError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, 1, ce.Line, "run %d", i)
	}
}

func TestTaxService_CalculateBulkTax_Empty(t *testing.T) {
	f := setupTaxService()

	_, err := f.svc.CalculateBulkTax(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// --- Configuration writes ---

func configurationInput(total, cgst, sgst, igst string) *service.CreateConfigurationInput {
	return &service.CreateConfigurationInput{
		ClassificationCode: "85171300",
		BusinessType:       "RETAIL",
		ConfigurationTerms: service.ConfigurationTerms{
			TotalGSTRate:  dec(total),
			CGSTRate:      dec(cgst),
			SGSTRate:      dec(sgst),
			IGSTRate:      dec(igst),
			EffectiveFrom: "2024-07-01",
		},
	}
}

func TestTaxService_CreateConfiguration_Success(t *testing.T) {
	f := setupTaxService()
	f.configRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{}, nil)
	f.configRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TaxConfiguration")).Return(nil)
	f.cache.On("Invalidate", mock.Anything, f.code.ID, "RETAIL").Return(nil)
	f.audit.On("Record", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
		return e.Action == domain.AuditCreateConfiguration && e.Actor == "ops@example.com"
	})).Return(nil)

	cfg, err := f.svc.CreateConfiguration(context.Background(), "ops@example.com", configurationInput("18", "9", "9", "0"))

	require.NoError(t, err)
	assert.Equal(t, f.code.ID, cfg.ClassificationCodeID)
	assert.Equal(t, "2024-07-01", domain.FormatDate(cfg.EffectiveFrom))
	assert.Nil(t, cfg.EffectiveTo)
	assert.True(t, cfg.IsActive)
	f.txm.AssertCalled(t, "LockScope", mock.Anything, cfg.Scope())
	f.configRepo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestTaxService_CreateConfiguration_ComponentMismatch(t *testing.T) {
	f := setupTaxService()

	_, err := f.svc.CreateConfiguration(context.Background(), "ops", configurationInput("20", "9", "9", "0"))

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.txm.AssertNotCalled(t, "RunInTx", mock.Anything)
	f.configRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaxService_CreateConfiguration_BadDate(t *testing.T) {
	f := setupTaxService()
	in := configurationInput("18", "9", "9", "0")
	in.EffectiveFrom = "01/07/2024"

	_, err := f.svc.CreateConfiguration(context.Background(), "ops", in)

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "effective_from", verrs[0].Field)
}

func TestTaxService_CreateConfiguration_Overlap(t *testing.T) {
	f := setupTaxService()
	existing := f.config("18", true)
	f.configRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{existing}, nil)

	_, err := f.svc.CreateConfiguration(context.Background(), "ops", configurationInput("18", "0", "0", "18"))

	assert.ErrorIs(t, err, domain.ErrOverlappingConfiguration)
	var overlap *domain.OverlappingConfigurationError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, existing.ID, overlap.ConflictingID)
	f.configRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxService_CreateConfiguration_OtherZoneDoesNotOverlap(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.auditOK()
	mh := "MH"
	other := f.config("18", true)
	other.GeographicalZone = &mh
	f.configRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{other}, nil)
	f.configRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.CreateConfiguration(context.Background(), "ops", configurationInput("18", "9", "9", "0"))

	require.NoError(t, err)
}

func TestTaxService_CreateConfiguration_AuditFailureIsNotFatal(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.configRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{}, nil)
	f.configRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("sink unavailable"))

	cfg, err := f.svc.CreateConfiguration(context.Background(), "ops", configurationInput("18", "9", "9", "0"))

	require.NoError(t, err)
	assert.NotNil(t, cfg)
	f.audit.AssertExpectations(t)
}

func TestTaxService_CreateConfiguration_BusinessTypeNotApplicable(t *testing.T) {
	f := setupTaxService()
	f.code.ApplicableBusinessTypes = domain.StringList{"WHOLESALE"}

	_, err := f.svc.CreateConfiguration(context.Background(), "ops", configurationInput("18", "9", "9", "0"))

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "business_type", verrs[0].Field)
}

func TestTaxService_CreateConfiguration_UnknownCode(t *testing.T) {
	f := setupTaxService()
	in := configurationInput("18", "9", "9", "0")
	in.ClassificationCode = "0000"

	_, err := f.svc.CreateConfiguration(context.Background(), "ops", in)

	assert.ErrorIs(t, err, domain.ErrClassificationNotFound)
}

func TestTaxService_CreateConfiguration_TrimsCode(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.auditOK()
	f.configRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{}, nil)
	f.configRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TaxConfiguration")).Return(nil)
	in := configurationInput("18", "9", "9", "0")
	in.ClassificationCode = " 85171300 "

	cfg, err := f.svc.CreateConfiguration(context.Background(), "ops", in)

	require.NoError(t, err)
	assert.Equal(t, f.code.ID, cfg.ClassificationCodeID)
	f.classRepo.AssertCalled(t, "GetByCode", mock.Anything, "85171300")
}

func TestTaxService_ExpireConfiguration_Shortens(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.auditOK()
	row := f.config("18", true)
	f.configRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)
	f.configRepo.On("SetEffectiveTo", mock.Anything, row.ID, date("2024-09-30")).Return(nil)

	cfg, err := f.svc.ExpireConfiguration(context.Background(), "ops", row.ID, date("2024-09-30"))

	require.NoError(t, err)
	require.NotNil(t, cfg.EffectiveTo)
	assert.Equal(t, "2024-09-30", domain.FormatDate(*cfg.EffectiveTo))
	f.configRepo.AssertExpectations(t)
}

func TestTaxService_ExpireConfiguration_RejectsExtension(t *testing.T) {
	f := setupTaxService()
	row := f.config("18", true)
	row.EffectiveTo = datePtr("2024-06-30")
	f.configRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)

	_, err := f.svc.ExpireConfiguration(context.Background(), "ops", row.ID, date("2024-12-31"))

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.configRepo.AssertNotCalled(t, "SetEffectiveTo", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaxService_ExpireConfiguration_BeforeStart(t *testing.T) {
	f := setupTaxService()
	row := f.config("18", true)
	f.configRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)

	_, err := f.svc.ExpireConfiguration(context.Background(), "ops", row.ID, date("2023-12-31"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaxService_DeactivateConfiguration(t *testing.T) {
	f := setupTaxService()
	f.auditOK()
	row := f.config("18", true)
	f.configRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)
	f.configRepo.On("Deactivate", mock.Anything, row.ID).Return(nil)
	f.cache.On("Invalidate", mock.Anything, f.code.ID, "RETAIL").Return(nil)

	err := f.svc.DeactivateConfiguration(context.Background(), "ops", row.ID)

	require.NoError(t, err)
	f.configRepo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestTaxService_DeactivateConfiguration_AlreadyInactive(t *testing.T) {
	f := setupTaxService()
	row := f.config("18", true)
	row.IsActive = false
	f.configRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)

	err := f.svc.DeactivateConfiguration(context.Background(), "ops", row.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidLifecycle)
	f.configRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestTaxService_DeactivateConfiguration_NotFound(t *testing.T) {
	f := setupTaxService()
	id := uuid.New()
	f.configRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrConfigurationNotFound)

	err := f.svc.DeactivateConfiguration(context.Background(), "ops", id)

	assert.ErrorIs(t, err, domain.ErrConfigurationNotFound)
}

func TestTaxService_SupersedeConfiguration(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.auditOK()
	old := f.config("18", true)
	expired := old
	expired.EffectiveTo = datePtr("2024-09-30")

	f.configRepo.On("GetByID", mock.Anything, old.ID).Return(&old, nil)
	f.configRepo.On("SetEffectiveTo", mock.Anything, old.ID, date("2024-09-30")).Return(nil)
	f.configRepo.On("ListScope", mock.Anything, old.Scope()).Return([]domain.TaxConfiguration{expired}, nil)
	f.configRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TaxConfiguration")).Return(nil)

	next, err := f.svc.SupersedeConfiguration(context.Background(), "ops", old.ID, &service.ConfigurationTerms{
		TotalGSTRate:  dec("12"),
		CGSTRate:      dec("6"),
		SGSTRate:      dec("6"),
		EffectiveFrom: "2024-10-01",
	})

	require.NoError(t, err)
	assert.NotEqual(t, old.ID, next.ID)
	assert.Equal(t, old.ClassificationCodeID, next.ClassificationCodeID)
	assert.Equal(t, "12", next.TotalGSTRate.String())
	f.configRepo.AssertExpectations(t)
}

func TestTaxService_SupersedeConfiguration_MustStartLater(t *testing.T) {
	f := setupTaxService()
	old := f.config("18", true)
	f.configRepo.On("GetByID", mock.Anything, old.ID).Return(&old, nil)

	_, err := f.svc.SupersedeConfiguration(context.Background(), "ops", old.ID, &service.ConfigurationTerms{
		TotalGSTRate:  dec("12"),
		IGSTRate:      dec("12"),
		EffectiveFrom: "2024-01-01",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.txm.AssertNotCalled(t, "RunInTx", mock.Anything)
}

func TestTaxService_MaterializeConfiguration(t *testing.T) {
	f := setupTaxService()
	f.cacheMisses()
	f.auditOK()
	f.rateRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxRate{
		f.rate(domain.ComponentCGST, "9"),
		f.rate(domain.ComponentSGST, "9"),
	}, nil)
	f.configRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxConfiguration{}, nil)
	f.configRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.TaxConfiguration) bool {
		return c.TotalGSTRate.Equal(dec("18")) && c.IGSTRate.IsZero()
	})).Return(nil)

	cfg, err := f.svc.MaterializeConfiguration(context.Background(), "ops", &service.MaterializeInput{
		ClassificationCode: "85171300",
		BusinessType:       "RETAIL",
		EffectiveFrom:      "2024-07-01",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cfg.ID)
	assert.Equal(t, "2024-07-01", domain.FormatDate(cfg.EffectiveFrom))
	f.configRepo.AssertExpectations(t)
}

func TestTaxService_MaterializeConfiguration_BoundedByRates(t *testing.T) {
	f := setupTaxService()
	igst := f.rate(domain.ComponentIGST, "18")
	igst.EffectiveTo = datePtr("2024-12-31")
	f.rateRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxRate{igst}, nil)

	_, err := f.svc.MaterializeConfiguration(context.Background(), "ops", &service.MaterializeInput{
		ClassificationCode: "85171300",
		BusinessType:       "RETAIL",
		EffectiveFrom:      "2020-01-01",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	f.configRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaxService_MaterializeConfiguration_NoRates(t *testing.T) {
	f := setupTaxService()
	f.rateRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]domain.TaxRate{}, nil)

	_, err := f.svc.MaterializeConfiguration(context.Background(), "ops", &service.MaterializeInput{
		ClassificationCode: "85171300",
		BusinessType:       "RETAIL",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- Rate writes ---

func rateInput(component, pct string) *service.CreateRateInput {
	return &service.CreateRateInput{
		ClassificationCode: "85171300",
		BusinessType:       "RETAIL",
		ComponentType:      component,
		RatePercentage:     dec(pct),
		EffectiveFrom:      "2024-07-01",
	}
}

func TestTaxService_CreateRate_AssignsVersion(t *testing.T) {
	f := setupTaxService()
	f.auditOK()
	f.rateRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxRate{}, nil)
	f.rateRepo.On("NextVersion", mock.Anything, mock.MatchedBy(func(s domain.Scope) bool {
		return s.Component != nil && *s.Component == domain.ComponentIGST
	})).Return(3, nil)
	f.rateRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TaxRate")).Return(nil)

	rate, err := f.svc.CreateRate(context.Background(), "ops", rateInput("igst", "18"))

	require.NoError(t, err)
	assert.Equal(t, 3, rate.VersionNumber)
	assert.Equal(t, domain.ComponentIGST, rate.ComponentType)
	f.rateRepo.AssertExpectations(t)
}

func TestTaxService_CreateRate_UnknownComponent(t *testing.T) {
	f := setupTaxService()

	_, err := f.svc.CreateRate(context.Background(), "ops", rateInput("VAT", "18"))

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "component_type", verrs[0].Field)
}

func TestTaxService_CreateRate_Overlap(t *testing.T) {
	f := setupTaxService()
	existing := f.rate(domain.ComponentIGST, "18")
	f.rateRepo.On("ListScope", mock.Anything, mock.Anything).Return([]domain.TaxRate{existing}, nil)

	_, err := f.svc.CreateRate(context.Background(), "ops", rateInput("IGST", "12"))

	assert.ErrorIs(t, err, domain.ErrOverlappingConfiguration)
	f.rateRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaxService_ExpireRate(t *testing.T) {
	f := setupTaxService()
	f.auditOK()
	row := f.rate(domain.ComponentCGST, "9")
	f.rateRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)
	f.rateRepo.On("SetEffectiveTo", mock.Anything, row.ID, date("2024-12-31")).Return(nil)

	rate, err := f.svc.ExpireRate(context.Background(), "ops", row.ID, date("2024-12-31"))

	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", domain.FormatDate(*rate.EffectiveTo))
}

func TestTaxService_DeactivateRate_AlreadyInactive(t *testing.T) {
	f := setupTaxService()
	row := f.rate(domain.ComponentCGST, "9")
	row.IsActive = false
	f.rateRepo.On("GetByID", mock.Anything, row.ID).Return(&row, nil)

	err := f.svc.DeactivateRate(context.Background(), "ops", row.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidLifecycle)
}

// --- Diagnostics ---

func TestTaxService_ValidateTaxConfiguration_UsesConfiguredBusinessTypes(t *testing.T) {
	f := setupTaxService()
	f.configRepo.On("ListByCode", mock.Anything, f.code.ID).Return([]domain.TaxConfiguration{f.config("18", true)}, nil)
	f.rateRepo.On("ListByCode", mock.Anything, f.code.ID).Return([]domain.TaxRate{}, nil)

	res, err := f.svc.ValidateTaxConfiguration(context.Background(), "85171300", nil)

	require.NoError(t, err)
	assert.True(t, res.HasEffectiveConfiguration)
	assert.False(t, res.HasEffectiveRate)
	assert.Equal(t, []string{"WHOLESALE"}, res.MissingBusinessTypes)
}

func TestTaxService_ValidateTaxConfiguration_CodeApplicabilityWins(t *testing.T) {
	f := setupTaxService()
	f.code.ApplicableBusinessTypes = domain.StringList{"RETAIL"}
	f.configRepo.On("ListByCode", mock.Anything, f.code.ID).Return([]domain.TaxConfiguration{f.config("18", true)}, nil)
	f.rateRepo.On("ListByCode", mock.Anything, f.code.ID).Return([]domain.TaxRate{}, nil)

	res, err := f.svc.ValidateTaxConfiguration(context.Background(), "85171300", nil)

	require.NoError(t, err)
	assert.Empty(t, res.MissingBusinessTypes)
	assert.True(t, res.IsValid())
}

func TestTaxService_ValidateTaxConfiguration_StoreError(t *testing.T) {
	f := setupTaxService()
	f.configRepo.On("ListByCode", mock.Anything, f.code.ID).Return(nil, errors.New("connection reset"))
	f.rateRepo.On("ListByCode", mock.Anything, f.code.ID).Return([]domain.TaxRate{}, nil).Maybe()

	_, err := f.svc.ValidateTaxConfiguration(context.Background(), "85171300", nil)

	assert.ErrorContains(t, err, "connection reset")
}
