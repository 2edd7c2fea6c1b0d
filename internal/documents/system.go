package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxBody int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)

	// Generate builds a draft from the stored system and its latest saved
	// classification, classifying live when none is saved.
	Generate(ctx context.Context, systemID uuid.UUID) (*Document, error)

	UpdateSection(ctx context.Context, id uuid.UUID, number int, cmd SectionCommand) (*Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Document, error)

	// Export renders the document, stores the rendering in blob storage,
	// and returns it.
	Export(ctx context.Context, id uuid.UUID, format annex.Format) (*Export, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
