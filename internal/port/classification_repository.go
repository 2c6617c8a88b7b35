package port

import (
	"context"

	"github.com/google/uuid"

	"gstengine/internal/domain"
)

// ClassificationRepository defines the contract for HSN/SAC catalog persistence.
type ClassificationRepository interface {
	Create(ctx context.Context, code *domain.ClassificationCode) error
	Update(ctx context.Context, code *domain.ClassificationCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClassificationCode, error)
	// GetByCode returns the active row for code.
	GetByCode(ctx context.Context, code string) (*domain.ClassificationCode, error)
	ListChildren(ctx context.Context, parent *domain.ClassificationCode) ([]domain.ClassificationCode, error)
	List(ctx context.Context, offset, limit int) ([]domain.ClassificationCode, int, error)
	// ListAfter pages active codes in code order, starting after the cursor.
	ListAfter(ctx context.Context, afterCode string, limit int) ([]domain.ClassificationCode, error)
}
