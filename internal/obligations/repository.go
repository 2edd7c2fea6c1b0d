package obligations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/internal/systems"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/risk"
)

const resourceType = "obligation"

type repo struct {
	db         *sql.DB
	systems    systems.System
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an obligation tracker implementing the System interface.
func New(
	db *sql.DB,
	systems systems.System,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		systems:    systems,
		audit:      recorder,
		logger:     logger.With("system", "obligations"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxBody int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBody)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[SystemObligation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Article", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	items, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanObligation)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*SystemObligation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObligation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

func (r *repo) Progress(ctx context.Context, systemID uuid.UUID) (*Progress, error) {
	items, err := r.forSystem(ctx, r.db, systemID)
	if err != nil {
		return nil, err
	}
	p := Summarize(items)
	return &p, nil
}

func (r *repo) Sync(ctx context.Context, systemID uuid.UUID) ([]SystemObligation, error) {
	sys, err := r.systems.Find(ctx, systemID)
	if errors.Is(err, systems.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSystemNotFound, systemID)
	}
	if err != nil {
		return nil, fmt.Errorf("load system: %w", err)
	}

	result := risk.Classify(sys.Profile())
	required := FromResult(result)

	items, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]SystemObligation, error) {
		if err := SyncTx(ctx, tx, systemID, required); err != nil {
			return nil, err
		}
		return r.forSystem(ctx, tx, systemID)
	})
	if err != nil {
		return nil, repository.MapReferenceError(err, ErrNotFound, ErrDuplicate, ErrSystemNotFound)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionSync,
		ResourceType: "system",
		ResourceID:   systemID.String(),
		Details:      map[string]any{"tier": result.Tier, "obligations": len(items)},
	})

	r.logger.Info("obligations synced", "system_id", systemID, "tier", result.Tier, "count", len(items))
	return items, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*SystemObligation, error) {
	var before Status

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (SystemObligation, error) {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		o, err := repository.QueryOne(ctx, tx, q+" FOR UPDATE", args, scanObligation)
		if err != nil {
			return SystemObligation{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		before = o.Status
		if err := cmd.Apply(&o); err != nil {
			return SystemObligation{}, err
		}

		updateQ := `
			UPDATE system_obligations
			SET status = $1, assignee = $2, due_date = $3, notes = $4, updated_at = NOW()
			WHERE id = $5
			RETURNING ` + returning

		out, err := repository.QueryOne(ctx, tx, updateQ,
			[]any{string(o.Status), o.Assignee, o.DueDate, o.Notes, id},
			scanObligation,
		)
		if err != nil {
			return SystemObligation{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		return out, nil
	})

	if err != nil {
		return nil, err
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionUpdate,
		ResourceType: resourceType,
		ResourceID:   id.String(),
		Details:      map[string]any{"from": before, "to": updated.Status},
	})

	r.logger.Info("obligation updated", "id", id, "status", updated.Status)
	return &updated, nil
}

func (r *repo) forSystem(ctx context.Context, q repository.Querier, systemID uuid.UUID) ([]SystemObligation, error) {
	stmt, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SystemID", systemID).
		Build()

	items, err := repository.QueryMany(ctx, q, stmt, args, scanObligation)
	if err != nil {
		return nil, fmt.Errorf("query system obligations: %w", err)
	}
	return items, nil
}

// SyncTx replaces the obligation set tracked for systemID with required
// inside tx. Obligations that remain keep their status, assignee, due date
// and notes; obligations no longer required are removed.
func SyncTx(ctx context.Context, tx *sql.Tx, systemID uuid.UUID, required []risk.Obligation) error {
	ids := make([]string, 0, len(required))
	for _, o := range required {
		ids = append(ids, o.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM system_obligations WHERE system_id = $1 AND NOT (obligation_id = ANY($2))",
		systemID, ids,
	); err != nil {
		return fmt.Errorf("prune obligations: %w", err)
	}

	upsertQ := `
		INSERT INTO system_obligations (
			system_id, obligation_id, title, article, description, priority, jurisdiction
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (system_id, obligation_id) DO UPDATE SET
			title = EXCLUDED.title,
			article = EXCLUDED.article,
			description = EXCLUDED.description,
			priority = EXCLUDED.priority,
			jurisdiction = EXCLUDED.jurisdiction,
			updated_at = NOW()`

	for _, o := range required {
		if _, err := tx.ExecContext(ctx, upsertQ,
			systemID, o.ID, o.Title, o.Article, o.Description,
			string(o.Priority), string(o.Jurisdiction),
		); err != nil {
			return fmt.Errorf("upsert obligation %s: %w", o.ID, err)
		}
	}

	return nil
}
