package obligations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/pagination"
)

// System defines the public contract for obligation tracking.
type System interface {
	Handler(maxBody int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[SystemObligation], error)

	Find(ctx context.Context, id uuid.UUID) (*SystemObligation, error)

	// Progress summarizes fulfillment for one system.
	Progress(ctx context.Context, systemID uuid.UUID) (*Progress, error)

	// Sync classifies the stored system and replaces its tracked set with
	// the obligations that apply, keeping the status of obligations that remain.
	Sync(ctx context.Context, systemID uuid.UUID) ([]SystemObligation, error)

	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*SystemObligation, error)
}
