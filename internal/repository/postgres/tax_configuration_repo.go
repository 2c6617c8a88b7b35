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

const configurationTable = "tax_configurations"

var configurationColumns = []string{
	"id", "classification_code_id", "business_type", "geographical_zone",
	"total_gst_rate", "cgst_rate", "sgst_rate", "utgst_rate", "igst_rate",
	"cess_rate", "cess_amount_per_unit", "effective_from", "effective_to",
	"reverse_charge_applicable", "composition_scheme_applicable",
	"notification_reference", "is_active", "created_at", "updated_at",
}

type taxConfigurationRepo struct {
	db *sqlx.DB
}

// NewTaxConfigurationRepo creates a new PostgreSQL-backed TaxConfigurationRepository.
func NewTaxConfigurationRepo(db *sqlx.DB) port.TaxConfigurationRepository {
	return &taxConfigurationRepo{db: db}
}

func (r *taxConfigurationRepo) Create(ctx context.Context, c *domain.TaxConfiguration) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := exec(ctx, conn(ctx, r.db), psql.Insert(configurationTable).
		Columns(configurationColumns...).
		Values(c.ID, c.ClassificationCodeID, c.BusinessType, c.GeographicalZone,
			c.TotalGSTRate, c.CGSTRate, c.SGSTRate, c.UTGSTRate, c.IGSTRate,
			c.CessRate, c.CessAmountPerUnit, c.EffectiveFrom, c.EffectiveTo,
			c.ReverseChargeApplicable, c.CompositionSchemeApplicable,
			c.NotificationReference, c.IsActive, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("taxConfigurationRepo.Create: %w", err)
	}
	return nil
}

func (r *taxConfigurationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxConfiguration, error) {
	var c domain.TaxConfiguration
	err := get(ctx, conn(ctx, r.db), &c, psql.Select(configurationColumns...).
		From(configurationTable).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigurationNotFound
		}
		return nil, fmt.Errorf("taxConfigurationRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *taxConfigurationRepo) FindCandidates(ctx context.Context, q domain.RuleQuery) ([]domain.TaxConfiguration, error) {
	q.Component = nil
	var rows []domain.TaxConfiguration
	if err := sel(ctx, conn(ctx, r.db), &rows, candidatesQuery(configurationTable, configurationColumns, q)); err != nil {
		return nil, fmt.Errorf("taxConfigurationRepo.FindCandidates: %w", err)
	}
	return rows, nil
}

func (r *taxConfigurationRepo) ListScope(ctx context.Context, scope domain.Scope) ([]domain.TaxConfiguration, error) {
	scope.Component = nil
	var rows []domain.TaxConfiguration
	err := sel(ctx, conn(ctx, r.db), &rows, psql.Select(configurationColumns...).
		From(configurationTable).
		Where(inScope(scope)).
		OrderBy("effective_from ASC"))
	if err != nil {
		return nil, fmt.Errorf("taxConfigurationRepo.ListScope: %w", err)
	}
	return rows, nil
}

func (r *taxConfigurationRepo) ListByCode(ctx context.Context, codeID uuid.UUID) ([]domain.TaxConfiguration, error) {
	var rows []domain.TaxConfiguration
	err := sel(ctx, conn(ctx, r.db), &rows, psql.Select(configurationColumns...).
		From(configurationTable).
		Where(squirrel.Eq{"classification_code_id": codeID}).
		OrderBy("business_type ASC", "geographical_zone ASC NULLS FIRST", "effective_from ASC"))
	if err != nil {
		return nil, fmt.Errorf("taxConfigurationRepo.ListByCode: %w", err)
	}
	return rows, nil
}

func (r *taxConfigurationRepo) SetEffectiveTo(ctx context.Context, id uuid.UUID, effectiveTo time.Time) error {
	n, err := exec(ctx, conn(ctx, r.db), psql.Update(configurationTable).
		Set("effective_to", domain.DateOf(effectiveTo)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("taxConfigurationRepo.SetEffectiveTo: %w", err)
	}
	if n == 0 {
		return domain.ErrConfigurationNotFound
	}
	return nil
}

func (r *taxConfigurationRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, conn(ctx, r.db), psql.Update(configurationTable).
		Set("is_active", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("taxConfigurationRepo.Deactivate: %w", err)
	}
	if n == 0 {
		return domain.ErrConfigurationNotFound
	}
	return nil
}
