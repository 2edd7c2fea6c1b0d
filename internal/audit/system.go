package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/pagination"
)

// Recorder accepts audit events. Implementations must not block the caller.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}

// Writer persists a single audit event.
type Writer interface {
	Write(ctx context.Context, rec Record) error
}

// System defines the contract for reading and writing the audit log.
type System interface {
	Writer

	Handler(maxBody int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)

	Find(ctx context.Context, id uuid.UUID) (*Entry, error)
}

// Nop discards every record.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Record) {}
