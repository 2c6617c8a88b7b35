package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gstengine/internal/domain"
)

// TaxConfigurationRepository defines the contract for the configuration store.
// Rows are append-only: only the effective end and the active flag change.
type TaxConfigurationRepository interface {
	Create(ctx context.Context, cfg *domain.TaxConfiguration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxConfiguration, error)
	// FindCandidates returns active rows that may govern q. The result can be
	// a superset; selection happens in the resolver.
	FindCandidates(ctx context.Context, q domain.RuleQuery) ([]domain.TaxConfiguration, error)
	// ListScope returns every active row of the scope, for overlap checks.
	ListScope(ctx context.Context, scope domain.Scope) ([]domain.TaxConfiguration, error)
	ListByCode(ctx context.Context, codeID uuid.UUID) ([]domain.TaxConfiguration, error)
	SetEffectiveTo(ctx context.Context, id uuid.UUID, effectiveTo time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TaxRateRepository defines the contract for the per-component rate store.
type TaxRateRepository interface {
	Create(ctx context.Context, rate *domain.TaxRate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxRate, error)
	FindCandidates(ctx context.Context, q domain.RuleQuery) ([]domain.TaxRate, error)
	ListScope(ctx context.Context, scope domain.Scope) ([]domain.TaxRate, error)
	ListByCode(ctx context.Context, codeID uuid.UUID) ([]domain.TaxRate, error)
	// NextVersion returns one more than the highest version stored for the scope.
	NextVersion(ctx context.Context, scope domain.Scope) (int, error)
	SetEffectiveTo(ctx context.Context, id uuid.UUID, effectiveTo time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TxManager runs work in a single database transaction carried by the context.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// LockScope blocks until no other transaction holds the scope. It must be
	// called inside RunInTx; the lock is released on commit or rollback.
	LockScope(ctx context.Context, scope domain.Scope) error
}
