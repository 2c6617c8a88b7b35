package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/internal/tax"
	"gstengine/pkg/logger"
)

// TaxService resolves effective rules, calculates tax and maintains the
// append-only rule history.
type TaxService interface {
	ResolveConfiguration(ctx context.Context, in ResolveConfigurationInput) (*domain.TaxConfiguration, error)
	ResolveRate(ctx context.Context, in ResolveRateInput) (*domain.TaxRate, error)
	CalculateTax(ctx context.Context, req *domain.TaxCalculationRequest) (*domain.TaxCalculationResult, error)
	CalculateBulkTax(ctx context.Context, reqs []domain.TaxCalculationRequest) (*domain.BulkTaxCalculationResult, error)

	CreateConfiguration(ctx context.Context, actor string, in *CreateConfigurationInput) (*domain.TaxConfiguration, error)
	SupersedeConfiguration(ctx context.Context, actor string, id uuid.UUID, terms *ConfigurationTerms) (*domain.TaxConfiguration, error)
	MaterializeConfiguration(ctx context.Context, actor string, in *MaterializeInput) (*domain.TaxConfiguration, error)
	ExpireConfiguration(ctx context.Context, actor string, id uuid.UUID, effectiveTo time.Time) (*domain.TaxConfiguration, error)
	DeactivateConfiguration(ctx context.Context, actor string, id uuid.UUID) error

	CreateRate(ctx context.Context, actor string, in *CreateRateInput) (*domain.TaxRate, error)
	ExpireRate(ctx context.Context, actor string, id uuid.UUID, effectiveTo time.Time) (*domain.TaxRate, error)
	DeactivateRate(ctx context.Context, actor string, id uuid.UUID) error

	ValidateTaxConfiguration(ctx context.Context, code string, asOf *time.Time) (*domain.TaxValidationResult, error)
	ListConfigurations(ctx context.Context, code string) ([]domain.TaxConfiguration, error)
}

// TaxSettings tunes the tax service.
type TaxSettings struct {
	// BusinessTypes is the fallback expectation list for the validation
	// report when a code declares no applicable business types.
	BusinessTypes   []string
	BulkConcurrency int
}

type taxService struct {
	classRepo       port.ClassificationRepository
	configRepo      port.TaxConfigurationRepository
	rateRepo        port.TaxRateRepository
	txm             port.TxManager
	cache           port.ConfigurationCache
	audit           auditor
	clock           port.Clock
	resolver        *tax.Resolver
	businessTypes   []string
	bulkConcurrency int
	log             *logger.Logger
}

// NewTaxService creates a new TaxService.
func NewTaxService(
	classRepo port.ClassificationRepository,
	configRepo port.TaxConfigurationRepository,
	rateRepo port.TaxRateRepository,
	txm port.TxManager,
	cache port.ConfigurationCache,
	auditSink port.AuditSink,
	clock port.Clock,
	settings TaxSettings,
	log *logger.Logger,
) TaxService {
	if log == nil {
		log = logger.Nop()
	}
	if clock == nil {
		clock = port.SystemClock
	}
	if settings.BulkConcurrency < 1 {
		settings.BulkConcurrency = 1
	}
	log = log.WithComponent("service.tax")
	return &taxService{
		classRepo:       classRepo,
		configRepo:      configRepo,
		rateRepo:        rateRepo,
		txm:             txm,
		cache:           cache,
		audit:           auditor{sink: auditSink, log: log},
		clock:           clock,
		resolver:        tax.NewResolver(log),
		businessTypes:   settings.BusinessTypes,
		bulkConcurrency: settings.BulkConcurrency,
		log:             log,
	}
}

func (s *taxService) asOf(t *time.Time) time.Time {
	if t != nil {
		return domain.DateOf(*t)
	}
	return domain.DateOf(s.clock.Now())
}

// lookupCode trims code and loads it. The repository only returns active rows.
func (s *taxService) lookupCode(ctx context.Context, code string) (*domain.ClassificationCode, error) {
	return s.classRepo.GetByCode(ctx, strings.TrimSpace(code))
}

// ruleQuery binds the request to a stored code. An unknown code is reported
// as a resolution miss for the same scope.
func (s *taxService) ruleQuery(ctx context.Context, code, businessType string, zone *string, asOf *time.Time) (domain.RuleQuery, error) {
	q := domain.RuleQuery{
		Code:         strings.TrimSpace(code),
		BusinessType: strings.TrimSpace(businessType),
		Zone:         normalizeZone(zone),
		AsOf:         s.asOf(asOf),
	}
	c, err := s.classRepo.GetByCode(ctx, q.Code)
	if err != nil {
		if errors.Is(err, domain.ErrClassificationNotFound) {
			return q, q.NotFound()
		}
		return q, fmt.Errorf("taxService.ruleQuery: %w", err)
	}
	q.ClassificationCodeID = c.ID
	return q, nil
}

func (s *taxService) ResolveConfiguration(ctx context.Context, in ResolveConfigurationInput) (*domain.TaxConfiguration, error) {
	q, err := s.ruleQuery(ctx, in.Code, in.BusinessType, in.Zone, in.AsOf)
	if err != nil {
		return nil, err
	}

	cached, generation, cacheErr := s.cache.Get(ctx, q)
	if cacheErr != nil {
		s.log.Warnw("configuration cache read failed", "code", q.Code, "error", cacheErr)
	} else if cached != nil {
		return cached, nil
	}

	rows, err := s.configRepo.FindCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("taxService.ResolveConfiguration: %w", err)
	}
	cfg, err := s.resolver.SelectConfiguration(rows, q)
	if err != nil {
		return nil, err
	}

	// Without a generation from Get there is nothing safe to write under.
	if cacheErr == nil {
		if err := s.cache.Set(ctx, q, generation, cfg); err != nil {
			s.log.Warnw("configuration cache write failed", "code", q.Code, "error", err)
		}
	}
	return cfg, nil
}

func (s *taxService) ResolveRate(ctx context.Context, in ResolveRateInput) (*domain.TaxRate, error) {
	q, err := s.ruleQuery(ctx, in.Code, in.BusinessType, in.Zone, in.AsOf)
	if err != nil {
		return nil, err
	}
	q.Component = in.Component

	rows, err := s.rateRepo.FindCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("taxService.ResolveRate: %w", err)
	}
	return s.resolver.SelectRate(rows, q)
}

func (s *taxService) CalculateTax(ctx context.Context, req *domain.TaxCalculationRequest) (*domain.TaxCalculationResult, error) {
	return s.calculate(ctx, req, -1)
}

// calculate taxes one line against the wildcard-zone configuration.
func (s *taxService) calculate(ctx context.Context, req *domain.TaxCalculationRequest, line int) (*domain.TaxCalculationResult, error) {
	if err := tax.ValidateRequest(req, line); err != nil {
		return nil, err
	}
	asOf := s.asOf(req.AsOf)
	cfg, err := s.ResolveConfiguration(ctx, ResolveConfigurationInput{
		Code:         req.ClassificationCode,
		BusinessType: req.BusinessType,
		AsOf:         &asOf,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.CalculationError{Kind: domain.CalcRateNotFound, Line: line, Cause: err}
		}
		return nil, err
	}
	return tax.Calculate(req, cfg, asOf), nil
}

// CalculateBulkTax calculates every line independently and fails the whole
// batch with the error of the lowest-numbered failing line. Lines do not
// cancel each other, so the reported line depends only on the input.
func (s *taxService) CalculateBulkTax(ctx context.Context, reqs []domain.TaxCalculationRequest) (*domain.BulkTaxCalculationResult, error) {
	if len(reqs) == 0 {
		return nil, domain.InvalidInput(-1, "bulk calculation needs at least one line")
	}

	results := make([]domain.TaxCalculationResult, len(reqs))
	errs := make([]error, len(reqs))
	var g errgroup.Group
	g.SetLimit(s.bulkConcurrency)
	for i := range reqs {
		i := i
		g.Go(func() error {
			res, err := s.calculate(ctx, &reqs[i], i)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = *res
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return tax.SumBulk(results), nil
}

func (s *taxService) CreateConfiguration(ctx context.Context, actor string, in *CreateConfigurationInput) (*domain.TaxConfiguration, error) {
	code, err := s.lookupCode(ctx, in.ClassificationCode)
	if err != nil {
		return nil, err
	}

	cfg := newConfiguration(code, in.BusinessType, in.GeographicalZone)
	errs := in.ConfigurationTerms.apply(cfg)
	if len(errs) == 0 {
		errs = tax.ValidateConfiguration(cfg)
	}
	errs = append(errs, applicability(code, cfg.BusinessType)...)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	if err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		return s.insertConfiguration(txCtx, cfg)
	}); err != nil {
		return nil, err
	}

	s.configurationChanged(ctx, actor, domain.AuditCreateConfiguration, cfg, cfg)
	return cfg, nil
}

// insertConfiguration runs the overlap check and the insert under the scope lock.
func (s *taxService) insertConfiguration(txCtx context.Context, cfg *domain.TaxConfiguration) error {
	if err := s.txm.LockScope(txCtx, cfg.Scope()); err != nil {
		return err
	}
	existing, err := s.configRepo.ListScope(txCtx, cfg.Scope())
	if err != nil {
		return err
	}
	if conflict := tax.ConfigurationConflict(existing, cfg); conflict != nil {
		return conflict
	}
	return s.configRepo.Create(txCtx, cfg)
}

// SupersedeConfiguration ends the current row the day before the new terms
// take effect and inserts the new row, atomically.
func (s *taxService) SupersedeConfiguration(ctx context.Context, actor string, id uuid.UUID, terms *ConfigurationTerms) (*domain.TaxConfiguration, error) {
	old, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !old.IsActive {
		return nil, fmt.Errorf("configuration %s is inactive: %w", id, domain.ErrInvalidLifecycle)
	}

	next := &domain.TaxConfiguration{
		ID:                   uuid.New(),
		ClassificationCodeID: old.ClassificationCodeID,
		BusinessType:         old.BusinessType,
		GeographicalZone:     old.GeographicalZone,
		IsActive:             true,
	}
	errs := terms.apply(next)
	if len(errs) == 0 {
		errs = tax.ValidateConfiguration(next)
		if !next.EffectiveFrom.After(domain.DateOf(old.EffectiveFrom)) {
			errs = append(errs, domain.ValidationError{
				Field:   "effective_from",
				Message: fmt.Sprintf("must be after %s, the start of the superseded row", domain.FormatDate(old.EffectiveFrom)),
			})
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	cutoff := next.EffectiveFrom.AddDate(0, 0, -1)
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.txm.LockScope(txCtx, old.Scope()); err != nil {
			return err
		}
		current, err := s.configRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return fmt.Errorf("configuration %s is inactive: %w", id, domain.ErrInvalidLifecycle)
		}
		if current.EffectiveTo == nil || current.EffectiveTo.After(cutoff) {
			if err := s.configRepo.SetEffectiveTo(txCtx, id, cutoff); err != nil {
				return err
			}
		}
		return s.insertConfiguration(txCtx, next)
	})
	if err != nil {
		return nil, err
	}

	s.configurationChanged(ctx, actor, domain.AuditSupersedeConfiguration, next, map[string]interface{}{
		"superseded_id": id,
		"superseded_to": domain.FormatDate(cutoff),
		"configuration": next,
	})
	return next, nil
}

// MaterializeConfiguration projects the component rates effective on the
// as-of date into a configuration and stores it through the validated path.
func (s *taxService) MaterializeConfiguration(ctx context.Context, actor string, in *MaterializeInput) (*domain.TaxConfiguration, error) {
	code, err := s.lookupCode(ctx, in.ClassificationCode)
	if err != nil {
		return nil, err
	}

	var errs domain.ValidationErrors
	asOf, err := domain.ParseOptionalDate(strings.TrimSpace(in.AsOf))
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "as_of", Message: err.Error()})
	}
	from, err := domain.ParseOptionalDate(strings.TrimSpace(in.EffectiveFrom))
	if err != nil {
		errs = append(errs, domain.ValidationError{Field: "effective_from", Message: err.Error()})
	}
	errs = append(errs, applicability(code, in.BusinessType)...)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	q := domain.RuleQuery{
		ClassificationCodeID: code.ID,
		Code:                 code.Code,
		BusinessType:         strings.TrimSpace(in.BusinessType),
		Zone:                 normalizeZone(in.GeographicalZone),
		AsOf:                 s.asOf(asOf),
	}
	rows, err := s.rateRepo.FindCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("taxService.MaterializeConfiguration: %w", err)
	}
	cfg, err := s.resolver.ProjectConfiguration(rows, tax.ProjectionInput{
		Query:                 q,
		EffectiveFrom:         s.asOf(from),
		NotificationReference: strings.TrimSpace(in.NotificationReference),
	})
	if err != nil {
		return nil, err
	}
	cfg.ID = uuid.New()
	if err := tax.ValidateConfiguration(cfg).OrNil(); err != nil {
		return nil, err
	}

	if err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		return s.insertConfiguration(txCtx, cfg)
	}); err != nil {
		return nil, err
	}

	s.configurationChanged(ctx, actor, domain.AuditCreateConfiguration, cfg, map[string]interface{}{
		"materialized_from_rates_as_of": domain.FormatDate(q.AsOf),
		"configuration":                 cfg,
	})
	return cfg, nil
}

func (s *taxService) ExpireConfiguration(ctx context.Context, actor string, id uuid.UUID, effectiveTo time.Time) (*domain.TaxConfiguration, error) {
	var cfg *domain.TaxConfiguration
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if cfg, err = s.lockedConfiguration(txCtx, id); err != nil {
			return err
		}
		if err := tax.ValidateExpiry(cfg.EffectiveFrom, cfg.EffectiveTo, effectiveTo).OrNil(); err != nil {
			return err
		}
		to := domain.DateOf(effectiveTo)
		if err := s.configRepo.SetEffectiveTo(txCtx, id, to); err != nil {
			return err
		}
		cfg.EffectiveTo = &to
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.configurationChanged(ctx, actor, domain.AuditExpireConfiguration, cfg, map[string]string{
		"effective_to": domain.FormatDate(*cfg.EffectiveTo),
	})
	return cfg, nil
}

func (s *taxService) DeactivateConfiguration(ctx context.Context, actor string, id uuid.UUID) error {
	var cfg *domain.TaxConfiguration
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if cfg, err = s.lockedConfiguration(txCtx, id); err != nil {
			return err
		}
		return s.configRepo.Deactivate(txCtx, id)
	})
	if err != nil {
		return err
	}
	cfg.IsActive = false

	s.configurationChanged(ctx, actor, domain.AuditDeactivateConfiguration, cfg, nil)
	return nil
}

// lockedConfiguration loads an active configuration and takes its scope lock.
func (s *taxService) lockedConfiguration(txCtx context.Context, id uuid.UUID) (*domain.TaxConfiguration, error) {
	cfg, err := s.configRepo.GetByID(txCtx, id)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return nil, fmt.Errorf("configuration %s is already inactive: %w", id, domain.ErrInvalidLifecycle)
	}
	if err := s.txm.LockScope(txCtx, cfg.Scope()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configurationChanged runs after a committed configuration write: cached
// resolutions for the pair are dropped before the write returns.
func (s *taxService) configurationChanged(ctx context.Context, actor string, action domain.AuditAction, cfg *domain.TaxConfiguration, details interface{}) {
	if err := s.cache.Invalidate(ctx, cfg.ClassificationCodeID, cfg.BusinessType); err != nil {
		s.log.Errorw("failed to invalidate configuration cache",
			"classification_code_id", cfg.ClassificationCodeID,
			"business_type", cfg.BusinessType,
			"error", err,
		)
	}
	if details == nil {
		details = cfg
	}
	s.audit.record(ctx, actor, action, domain.AuditEntityConfiguration, cfg.ID, details)
}

func (s *taxService) CreateRate(ctx context.Context, actor string, in *CreateRateInput) (*domain.TaxRate, error) {
	code, err := s.lookupCode(ctx, in.ClassificationCode)
	if err != nil {
		return nil, err
	}

	rate, errs := in.toRate(code)
	if len(errs) == 0 {
		errs = tax.ValidateRate(rate)
	}
	errs = append(errs, applicability(code, rate.BusinessType)...)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		scope := rate.Scope()
		if err := s.txm.LockScope(txCtx, scope); err != nil {
			return err
		}
		existing, err := s.rateRepo.ListScope(txCtx, scope)
		if err != nil {
			return err
		}
		if conflict := tax.RateConflict(existing, rate); conflict != nil {
			return conflict
		}
		if rate.VersionNumber, err = s.rateRepo.NextVersion(txCtx, scope); err != nil {
			return err
		}
		return s.rateRepo.Create(txCtx, rate)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, domain.AuditCreateRate, domain.AuditEntityRate, rate.ID, rate)
	return rate, nil
}

func (s *taxService) ExpireRate(ctx context.Context, actor string, id uuid.UUID, effectiveTo time.Time) (*domain.TaxRate, error) {
	var rate *domain.TaxRate
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		if rate, err = s.lockedRate(txCtx, id); err != nil {
			return err
		}
		if err := tax.ValidateExpiry(rate.EffectiveFrom, rate.EffectiveTo, effectiveTo).OrNil(); err != nil {
			return err
		}
		to := domain.DateOf(effectiveTo)
		if err := s.rateRepo.SetEffectiveTo(txCtx, id, to); err != nil {
			return err
		}
		rate.EffectiveTo = &to
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, domain.AuditExpireRate, domain.AuditEntityRate, id, map[string]string{
		"effective_to": domain.FormatDate(*rate.EffectiveTo),
	})
	return rate, nil
}

func (s *taxService) DeactivateRate(ctx context.Context, actor string, id uuid.UUID) error {
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.lockedRate(txCtx, id); err != nil {
			return err
		}
		return s.rateRepo.Deactivate(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.audit.record(ctx, actor, domain.AuditDeactivateRate, domain.AuditEntityRate, id, nil)
	return nil
}

func (s *taxService) lockedRate(txCtx context.Context, id uuid.UUID) (*domain.TaxRate, error) {
	rate, err := s.rateRepo.GetByID(txCtx, id)
	if err != nil {
		return nil, err
	}
	if !rate.IsActive {
		return nil, fmt.Errorf("tax rate %s is already inactive: %w", id, domain.ErrInvalidLifecycle)
	}
	if err := s.txm.LockScope(txCtx, rate.Scope()); err != nil {
		return nil, err
	}
	return rate, nil
}

// ValidateTaxConfiguration reports the health of every rule stored for a code.
// It only reads.
func (s *taxService) ValidateTaxConfiguration(ctx context.Context, code string, asOf *time.Time) (*domain.TaxValidationResult, error) {
	c, err := s.lookupCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var (
		configs []domain.TaxConfiguration
		rates   []domain.TaxRate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		configs, err = s.configRepo.ListByCode(gctx, c.ID)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = s.rateRepo.ListByCode(gctx, c.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("taxService.ValidateTaxConfiguration: %w", err)
	}

	expected := []string(c.ApplicableBusinessTypes)
	if len(expected) == 0 {
		expected = s.businessTypes
	}
	return tax.Diagnose(tax.DiagnoseInput{
		Code:           c.Code,
		Configurations: configs,
		Rates:          rates,
		BusinessTypes:  expected,
		AsOf:           s.asOf(asOf),
	}), nil
}

func (s *taxService) ListConfigurations(ctx context.Context, code string) ([]domain.TaxConfiguration, error) {
	c, err := s.lookupCode(ctx, code)
	if err != nil {
		return nil, err
	}
	rows, err := s.configRepo.ListByCode(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("taxService.ListConfigurations: %w", err)
	}
	return rows, nil
}
