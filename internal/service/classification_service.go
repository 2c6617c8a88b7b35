package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gstengine/internal/domain"
	"gstengine/internal/port"
	"gstengine/pkg/logger"
)

// maxHierarchyDepth bounds the walk from a tariff item to its heading.
const maxHierarchyDepth = 3

// ClassificationInput is the writable part of a classification code.
type ClassificationInput struct {
	Code                    string   `json:"code" binding:"required"`
	Description             string   `json:"description" binding:"required"`
	ExemptionAvailable      bool     `json:"exemption_available"`
	ApplicableBusinessTypes []string `json:"applicable_business_types"`
}

// ClassificationService defines the HSN/SAC catalog operations.
type ClassificationService interface {
	Lookup(ctx context.Context, code string) (*domain.ClassificationCode, error)
	Children(ctx context.Context, parentCode string) ([]domain.ClassificationCode, error)
	// Hierarchy returns the code followed by its ancestors up to the heading.
	Hierarchy(ctx context.Context, code string) ([]domain.ClassificationCode, error)
	Create(ctx context.Context, actor string, in *ClassificationInput) (*domain.ClassificationCode, error)
	Update(ctx context.Context, actor string, id uuid.UUID, in *ClassificationInput) (*domain.ClassificationCode, error)
	List(ctx context.Context, offset, limit int) ([]domain.ClassificationCode, int, error)
}

type classificationService struct {
	repo  port.ClassificationRepository
	audit auditor
}

// NewClassificationService creates a new ClassificationService.
func NewClassificationService(repo port.ClassificationRepository, auditSink port.AuditSink, log *logger.Logger) ClassificationService {
	if log == nil {
		log = logger.Nop()
	}
	return &classificationService{
		repo:  repo,
		audit: auditor{sink: auditSink, log: log.WithComponent("service.classification")},
	}
}

func (s *classificationService) Lookup(ctx context.Context, code string) (*domain.ClassificationCode, error) {
	return s.repo.GetByCode(ctx, strings.TrimSpace(code))
}

func (s *classificationService) Children(ctx context.Context, parentCode string) ([]domain.ClassificationCode, error) {
	parent, err := s.Lookup(ctx, parentCode)
	if err != nil {
		return nil, err
	}
	return s.repo.ListChildren(ctx, parent)
}

func (s *classificationService) Hierarchy(ctx context.Context, code string) ([]domain.ClassificationCode, error) {
	cur, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	chain := []domain.ClassificationCode{*cur}
	for len(chain) < maxHierarchyDepth {
		parent, err := s.parentOf(ctx, cur)
		if err != nil {
			return nil, err
		}
		if parent == nil || len(parent.Code) >= len(cur.Code) {
			break
		}
		chain = append(chain, *parent)
		cur = parent
	}
	return chain, nil
}

// parentOf follows the stored parent reference, falling back to the nearest
// stored prefix. It returns nil at the root.
func (s *classificationService) parentOf(ctx context.Context, c *domain.ClassificationCode) (*domain.ClassificationCode, error) {
	if c.ParentID != nil {
		p, err := s.repo.GetByID(ctx, *c.ParentID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrClassificationNotFound) {
			return nil, err
		}
	}
	return s.nearestPrefix(ctx, c.Code)
}

func (s *classificationService) nearestPrefix(ctx context.Context, code string) (*domain.ClassificationCode, error) {
	for _, prefix := range domain.ParentCodes(code) {
		p, err := s.repo.GetByCode(ctx, prefix)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrClassificationNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func (s *classificationService) Create(ctx context.Context, actor string, in *ClassificationInput) (*domain.ClassificationCode, error) {
	c := &domain.ClassificationCode{ID: uuid.New(), IsActive: true}
	in.applyTo(c)
	if err := s.prepare(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, domain.AuditCreateClassification, domain.AuditEntityClassification, c.ID, c)
	return c, nil
}

func (s *classificationService) Update(ctx context.Context, actor string, id uuid.UUID, in *ClassificationInput) (*domain.ClassificationCode, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(c)
	if err := s.prepare(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, domain.AuditUpdateClassification, domain.AuditEntityClassification, c.ID, c)
	return c, nil
}

// prepare recomputes the derived fields, rejects a second active row with the
// same code and links the nearest stored ancestor.
func (s *classificationService) prepare(ctx context.Context, c *domain.ClassificationCode) error {
	if err := c.Normalize(); err != nil {
		return err
	}
	existing, err := s.repo.GetByCode(ctx, c.Code)
	switch {
	case err == nil && existing.ID != c.ID:
		return &domain.DuplicateCodeError{Code: c.Code, ExistingID: existing.ID}
	case err != nil && !errors.Is(err, domain.ErrClassificationNotFound):
		return fmt.Errorf("classificationService.prepare: %w", err)
	}

	parent, err := s.nearestPrefix(ctx, c.Code)
	if err != nil {
		return fmt.Errorf("classificationService.prepare: %w", err)
	}
	c.ParentID = nil
	if parent != nil {
		c.ParentID = &parent.ID
	}
	return nil
}

func (s *classificationService) List(ctx context.Context, offset, limit int) ([]domain.ClassificationCode, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (in *ClassificationInput) applyTo(c *domain.ClassificationCode) {
	c.Code = strings.TrimSpace(in.Code)
	c.Description = strings.TrimSpace(in.Description)
	c.ExemptionAvailable = in.ExemptionAvailable
	c.ApplicableBusinessTypes = nil
	for _, bt := range in.ApplicableBusinessTypes {
		if bt = strings.TrimSpace(bt); bt != "" {
			c.ApplicableBusinessTypes = append(c.ApplicableBusinessTypes, bt)
		}
	}
}
