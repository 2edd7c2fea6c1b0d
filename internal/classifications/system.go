package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/risk"
)

// System defines the public contract for classification domain operations.
type System interface {
	Handler(maxBody int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Classification], error)

	Find(ctx context.Context, id uuid.UUID) (*Classification, error)

	// FindBySystem returns the most recent classification of a system.
	FindBySystem(ctx context.Context, systemID uuid.UUID) (*Classification, error)

	// Classify runs the classifier on the stored system, persists the run,
	// updates the system's tier and score, and syncs its obligations.
	Classify(ctx context.Context, systemID uuid.UUID) (*Classification, error)

	// Preview classifies a profile without storing anything.
	Preview(ctx context.Context, cmd PreviewCommand) (*risk.Result, error)

	Validate(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Classification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Observer receives classifier run outcomes.
type Observer interface {
	ObserveClassification(tier, origin string, score int, review bool)
}
