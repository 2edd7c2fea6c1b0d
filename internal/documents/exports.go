package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/storage"
)

const purgePageSize int32 = 100

// purgeExports deletes every rendered export under the document's prefix.
// Blobs that vanish between listing and deletion are skipped. The count of
// blobs removed is returned even on error.
func purgeExports(ctx context.Context, store storage.System, id uuid.UUID) (int, error) {
	prefix := exportPrefix(id)
	removed := 0
	marker := ""

	for {
		page, err := store.List(ctx, prefix, marker, purgePageSize)
		if err != nil {
			return removed, fmt.Errorf("list exports: %w", err)
		}

		for _, b := range page.Blobs {
			if err := store.Delete(ctx, b.Key); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					continue
				}
				return removed, fmt.Errorf("delete export %s: %w", b.Key, err)
			}
			removed++
		}

		if page.NextMarker == "" {
			return removed, nil
		}
		marker = page.NextMarker
	}
}
