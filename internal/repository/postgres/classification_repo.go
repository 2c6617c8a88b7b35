package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"gstengine/internal/domain"
	"gstengine/internal/port"
)

const uniqueViolation = "23505"

var classificationColumns = []string{
	"id", "code", "description", "chapter", "heading", "level", "parent_id",
	"exemption_available", "applicable_business_types", "is_active", "created_at", "updated_at",
}

type classificationRepo struct {
	db *sqlx.DB
}

// NewClassificationRepo creates a new PostgreSQL-backed ClassificationRepository.
func NewClassificationRepo(db *sqlx.DB) port.ClassificationRepository {
	return &classificationRepo{db: db}
}

func (r *classificationRepo) Create(ctx context.Context, c *domain.ClassificationCode) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := exec(ctx, conn(ctx, r.db), psql.Insert("classification_codes").
		Columns(classificationColumns...).
		Values(c.ID, c.Code, c.Description, c.Chapter, c.Heading, c.Level, c.ParentID,
			c.ExemptionAvailable, c.ApplicableBusinessTypes, c.IsActive, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Code: c.Code}
		}
		return fmt.Errorf("classificationRepo.Create: %w", err)
	}
	return nil
}

func (r *classificationRepo) Update(ctx context.Context, c *domain.ClassificationCode) error {
	c.UpdatedAt = time.Now().UTC()

	n, err := exec(ctx, conn(ctx, r.db), psql.Update("classification_codes").
		SetMap(map[string]interface{}{
			"code":                      c.Code,
			"description":               c.Description,
			"chapter":                   c.Chapter,
			"heading":                   c.Heading,
			"level":                     c.Level,
			"parent_id":                 c.ParentID,
			"exemption_available":       c.ExemptionAvailable,
			"applicable_business_types": c.ApplicableBusinessTypes,
			"is_active":                 c.IsActive,
			"updated_at":                c.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": c.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Code: c.Code}
		}
		return fmt.Errorf("classificationRepo.Update: %w", err)
	}
	if n == 0 {
		return domain.ErrClassificationNotFound
	}
	return nil
}

func (r *classificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassificationCode, error) {
	var c domain.ClassificationCode
	err := get(ctx, conn(ctx, r.db), &c, psql.Select(classificationColumns...).
		From("classification_codes").
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("classificationRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *classificationRepo) GetByCode(ctx context.Context, code string) (*domain.ClassificationCode, error) {
	var c domain.ClassificationCode
	err := get(ctx, conn(ctx, r.db), &c, psql.Select(classificationColumns...).
		From("classification_codes").
		Where(squirrel.Eq{"code": code, "is_active": true}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClassificationNotFound
		}
		return nil, fmt.Errorf("classificationRepo.GetByCode: %w", err)
	}
	return &c, nil
}

// childrenQuery matches rows that reference parent explicitly, plus rows one
// level down by code prefix when no parent reference was stored.
func childrenQuery(parent *domain.ClassificationCode) squirrel.SelectBuilder {
	return psql.Select(classificationColumns...).
		From("classification_codes").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"parent_id": parent.ID},
			squirrel.And{
				squirrel.Eq{"parent_id": nil},
				squirrel.Like{"code": parent.Code + "%"},
				squirrel.Expr("length(code) = ?", len(parent.Code)+2),
			},
		}).
		OrderBy("code ASC")
}

func (r *classificationRepo) ListChildren(ctx context.Context, parent *domain.ClassificationCode) ([]domain.ClassificationCode, error) {
	var codes []domain.ClassificationCode
	if err := sel(ctx, conn(ctx, r.db), &codes, childrenQuery(parent)); err != nil {
		return nil, fmt.Errorf("classificationRepo.ListChildren: %w", err)
	}
	return codes, nil
}

func (r *classificationRepo) List(ctx context.Context, offset, limit int) ([]domain.ClassificationCode, int, error) {
	db := conn(ctx, r.db)

	var total int
	if err := get(ctx, db, &total, psql.Select("COUNT(*)").From("classification_codes")); err != nil {
		return nil, 0, fmt.Errorf("classificationRepo.List count: %w", err)
	}

	var codes []domain.ClassificationCode
	err := sel(ctx, db, &codes, psql.Select(classificationColumns...).
		From("classification_codes").
		OrderBy("code ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("classificationRepo.List: %w", err)
	}
	return codes, total, nil
}

func (r *classificationRepo) ListAfter(ctx context.Context, afterCode string, limit int) ([]domain.ClassificationCode, error) {
	var codes []domain.ClassificationCode
	err := sel(ctx, conn(ctx, r.db), &codes, psql.Select(classificationColumns...).
		From("classification_codes").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Gt{"code": afterCode}).
		OrderBy("code ASC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("classificationRepo.ListAfter: %w", err)
	}
	return codes, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
