package systems

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/pagination"
)

// System defines the public contract for the AI system registry.
type System interface {
	Handler(maxBody int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[AISystem], error)

	Find(ctx context.Context, id uuid.UUID) (*AISystem, error)
	Create(ctx context.Context, cmd CreateCommand) (*AISystem, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*AISystem, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Summary counts systems by tier and compliance status.
	// A nil ownerID counts every system.
	Summary(ctx context.Context, ownerID *string) (*Summary, error)
}
