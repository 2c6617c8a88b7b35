package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstengine/internal/domain"
	"gstengine/internal/port"
)

const rateTable = "tax_rates"

var rateColumns = []string{
	"id", "classification_code_id", "business_type", "component_type", "geographical_zone",
	"rate_percentage", "fixed_amount_per_unit", "minimum_amount", "maximum_amount",
	"effective_from", "effective_to", "reverse_charge_applicable", "composition_scheme_applicable",
	"is_active", "version_number", "created_at", "updated_at",
}

type taxRateRepo struct {
	db *sqlx.DB
}

// NewTaxRateRepo creates a new PostgreSQL-backed TaxRateRepository.
func NewTaxRateRepo(db *sqlx.DB) port.TaxRateRepository {
	return &taxRateRepo{db: db}
}

func (r *taxRateRepo) Create(ctx context.Context, t *domain.TaxRate) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := exec(ctx, conn(ctx, r.db), psql.Insert(rateTable).
		Columns(rateColumns...).
		Values(t.ID, t.ClassificationCodeID, t.BusinessType, t.ComponentType, t.GeographicalZone,
			t.RatePercentage, t.FixedAmountPerUnit, t.MinimumAmount, t.MaximumAmount,
			t.EffectiveFrom, t.EffectiveTo, t.ReverseChargeApplicable, t.CompositionSchemeApplicable,
			t.IsActive, t.VersionNumber, t.CreatedAt, t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("taxRateRepo.Create: %w", err)
	}
	return nil
}

func (r *taxRateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxRate, error) {
	var t domain.TaxRate
	err := get(ctx, conn(ctx, r.db), &t, psql.Select(rateColumns...).
		From(rateTable).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaxRateNotFound
		}
		return nil, fmt.Errorf("taxRateRepo.GetByID: %w", err)
	}
	return &t, nil
}

func (r *taxRateRepo) FindCandidates(ctx context.Context, q domain.RuleQuery) ([]domain.TaxRate, error) {
	var rows []domain.TaxRate
	if err := sel(ctx, conn(ctx, r.db), &rows, candidatesQuery(rateTable, rateColumns, q)); err != nil {
		return nil, fmt.Errorf("taxRateRepo.FindCandidates: %w", err)
	}
	return rows, nil
}

func (r *taxRateRepo) ListScope(ctx context.Context, scope domain.Scope) ([]domain.TaxRate, error) {
	var rows []domain.TaxRate
	err := sel(ctx, conn(ctx, r.db), &rows, psql.Select(rateColumns...).
		From(rateTable).
		Where(inScope(scope)).
		OrderBy("effective_from ASC"))
	if err != nil {
		return nil, fmt.Errorf("taxRateRepo.ListScope: %w", err)
	}
	return rows, nil
}

func (r *taxRateRepo) ListByCode(ctx context.Context, codeID uuid.UUID) ([]domain.TaxRate, error) {
	var rows []domain.TaxRate
	err := sel(ctx, conn(ctx, r.db), &rows, psql.Select(rateColumns...).
		From(rateTable).
		Where(squirrel.Eq{"classification_code_id": codeID}).
		OrderBy("business_type ASC", "component_type ASC", "geographical_zone ASC NULLS FIRST", "effective_from ASC"))
	if err != nil {
		return nil, fmt.Errorf("taxRateRepo.ListByCode: %w", err)
	}
	return rows, nil
}

// nextVersionQuery counts inactive rows too, so versions are never reused.
func nextVersionQuery(scope domain.Scope) squirrel.SelectBuilder {
	eq := squirrel.Eq{
		"classification_code_id": scope.ClassificationCodeID,
		"business_type":          scope.BusinessType,
	}
	if scope.Zone != nil {
		eq["geographical_zone"] = *scope.Zone
	} else {
		eq["geographical_zone"] = nil
	}
	if scope.Component != nil {
		eq["component_type"] = *scope.Component
	}
	return psql.Select("COALESCE(MAX(version_number), 0) + 1").From(rateTable).Where(eq)
}

func (r *taxRateRepo) NextVersion(ctx context.Context, scope domain.Scope) (int, error) {
	var next int
	if err := get(ctx, conn(ctx, r.db), &next, nextVersionQuery(scope)); err != nil {
		return 0, fmt.Errorf("taxRateRepo.NextVersion: %w", err)
	}
	return next, nil
}

func (r *taxRateRepo) SetEffectiveTo(ctx context.Context, id uuid.UUID, effectiveTo time.Time) error {
	n, err := exec(ctx, conn(ctx, r.db), psql.Update(rateTable).
		Set("effective_to", domain.DateOf(effectiveTo)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("taxRateRepo.SetEffectiveTo: %w", err)
	}
	if n == 0 {
		return domain.ErrTaxRateNotFound
	}
	return nil
}

func (r *taxRateRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, conn(ctx, r.db), psql.Update(rateTable).
		Set("is_active", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("taxRateRepo.Deactivate: %w", err)
	}
	if n == 0 {
		return domain.ErrTaxRateNotFound
	}
	return nil
}
