package port

import (
	"context"

	"github.com/google/uuid"

	"gstengine/internal/domain"
)

// ConfigurationCache holds resolved configurations keyed by query.
//
// Every (code, business type) pair has a generation that Invalidate advances.
// Get reports the generation it read, and Set stores a configuration only
// while the pair is still at that generation, so a row read before a write
// is never cached after it.
type ConfigurationCache interface {
	// Get returns the cached configuration, or nil on a miss, together with
	// the pair's current generation.
	Get(ctx context.Context, q domain.RuleQuery) (*domain.TaxConfiguration, int64, error)
	// Set stores cfg if the pair is still at generation. A stale generation
	// is silently skipped.
	Set(ctx context.Context, q domain.RuleQuery, generation int64, cfg *domain.TaxConfiguration) error
	// Invalidate drops every cached resolution for the code and business type.
	Invalidate(ctx context.Context, codeID uuid.UUID, businessType string) error
}
