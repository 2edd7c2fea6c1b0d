package conformity

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/pagination"
)

// System defines the public contract for conformity assessments.
type System interface {
	Handler(maxBody int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Assessment], error)

	Find(ctx context.Context, id uuid.UUID) (*Assessment, error)

	// FindBySystem returns the most recent assessment of a system.
	FindBySystem(ctx context.Context, systemID uuid.UUID) (*Assessment, error)

	// Create starts a checklist seeded from the HIGH-tier obligations.
	Create(ctx context.Context, systemID uuid.UUID, cmd CreateCommand) (*Assessment, error)

	UpdateRequirement(ctx context.Context, id uuid.UUID, requirementID string, cmd RequirementCommand) (*Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
