package documents

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/warden/annex"
	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/internal/classifications"
	"github.com/JaimeStill/warden/internal/systems"
	"github.com/JaimeStill/warden/pkg/formatting"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/pkg/storage"
)

const resourceType = "document"

type repo struct {
	db              *sql.DB
	storage         storage.System
	systems         systems.System
	classifications classifications.System
	audit           audit.Recorder
	logger          *slog.Logger
	pagination      pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	systems systems.System,
	classifications classifications.System,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:              db,
		storage:         store,
		systems:         systems,
		classifications: classifications,
		audit:           recorder,
		logger:          logger.With("system", "documents"),
		pagination:      pagination,
	}
}

func (r *repo) Handler(maxBody int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBody)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SystemName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	docs, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := r.find(ctx, r.db, id, false)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) Generate(ctx context.Context, systemID uuid.UUID) (*Document, error) {
	var (
		sys    *systems.AISystem
		stored *classifications.Classification
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := r.systems.Find(gctx, systemID)
		if errors.Is(err, systems.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrSystemNotFound, systemID)
		}
		if err != nil {
			return fmt.Errorf("load system: %w", err)
		}
		sys = s
		return nil
	})

	g.Go(func() error {
		c, err := r.classifications.FindBySystem(gctx, systemID)
		if errors.Is(err, classifications.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load classification: %w", err)
		}
		stored = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := sys.Profile()
	result, source := resultFor(profile, stored)
	if stored != nil && source == sourceLive {
		r.logger.Warn("stored classification is stale, classifying live",
			"system_id", systemID,
			"classification_id", stored.ID,
			"stored_tier", stored.Tier,
			"live_tier", result.Tier,
		)
	}

	generated := annex.Generate(profile, result)

	sections, err := json.Marshal(generated.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}

	insertQ := `
		INSERT INTO annex_documents (
			system_id, system_name, version, tier, rules_version, sections, completeness
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	insertArgs := []any{
		systemID,
		generated.SystemName,
		generated.Version,
		string(generated.Tier),
		generated.RulesVersion,
		sections,
		generated.Completeness,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		var id uuid.UUID
		if err := tx.QueryRowContext(ctx, insertQ, insertArgs...).Scan(&id); err != nil {
			return Document{}, fmt.Errorf("insert document: %w", err)
		}
		return r.find(ctx, tx, id, false)
	})

	if err != nil {
		return nil, repository.MapReferenceError(err, ErrNotFound, ErrDuplicate, ErrSystemNotFound)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionGenerate,
		ResourceType: resourceType,
		ResourceID:   d.ID.String(),
		Details: map[string]any{
			"system_id":      systemID,
			"classification": source,
			"tier":           d.Tier,
			"completeness":   d.Completeness,
		},
	})

	r.logger.Info("document generated",
		"id", d.ID,
		"system_id", systemID,
		"classification", source,
		"completeness", d.Completeness,
	)
	return &d, nil
}

func (r *repo) UpdateSection(ctx context.Context, id uuid.UUID, number int, cmd SectionCommand) (*Document, error) {
	var diffs []annex.SectionDiff

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		existing, err := r.find(ctx, tx, id, true)
		if err != nil {
			return Document{}, err
		}

		before := existing.Annex()
		after := existing.Annex()
		after.Sections = cloneSections(before.Sections)

		if err := cmd.Apply(&after, number); err != nil {
			return Document{}, err
		}

		diffs = annex.Diff(before, after)
		if len(diffs) == 0 {
			return existing, nil
		}

		sections, err := json.Marshal(after.Sections)
		if err != nil {
			return Document{}, fmt.Errorf("marshal sections: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE annex_documents SET sections = $1, completeness = $2, updated_at = NOW() WHERE id = $3",
			sections, after.Completeness, id,
		); err != nil {
			return Document{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return r.find(ctx, tx, id, false)
	})

	if err != nil {
		return nil, err
	}

	if len(diffs) > 0 {
		r.audit.Record(ctx, audit.Record{
			Action:       audit.ActionEdit,
			ResourceType: resourceType,
			ResourceID:   id.String(),
			Details: map[string]any{
				"section":      number,
				"completeness": d.Completeness,
				"diff":         diffs,
			},
		})
	}

	r.logger.Info("document section updated",
		"id", id,
		"section", number,
		"changed", len(diffs) > 0,
		"completeness", d.Completeness,
	)
	return &d, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Document, error) {
	status, err := ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	var before Status

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		existing, err := r.find(ctx, tx, id, true)
		if err != nil {
			return Document{}, err
		}
		before = existing.Status

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE annex_documents SET status = $1, updated_at = NOW() WHERE id = $2",
			string(status), id,
		); err != nil {
			return Document{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return r.find(ctx, tx, id, false)
	})

	if err != nil {
		return nil, err
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionUpdate,
		ResourceType: resourceType,
		ResourceID:   id.String(),
		Details:      map[string]any{"from": before, "to": status},
	})

	r.logger.Info("document status changed", "id", id, "from", before, "to", status)
	return &d, nil
}

func (r *repo) Export(ctx context.Context, id uuid.UUID, format annex.Format) (*Export, error) {
	renderer, err := annex.Lookup(format)
	if err != nil {
		return nil, err
	}

	d, err := r.find(ctx, r.db, id, false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, d.Annex()); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	key := exportKey(id, renderer.Extension())
	if err := r.storage.Upload(ctx, key, bytes.NewReader(buf.Bytes()), renderer.ContentType()); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE annex_documents SET export_key = $1, updated_at = NOW() WHERE id = $2",
		key, id,
	); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionExport,
		ResourceType: resourceType,
		ResourceID:   id.String(),
		Details:      map[string]any{"format": format, "key": key, "bytes": buf.Len()},
	})

	r.logger.Info("document exported", "id", id, "format", format, "key", key, "size", formatting.FormatBytes(int64(buf.Len()), 1))

	return &Export{
		Key:         key,
		Filename:    "annex-iv" + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM annex_documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	removed, delErr := purgeExports(ctx, r.storage, id)
	if delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"prefix", exportPrefix(id),
			"removed", removed,
			"error", delErr,
		)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionDelete,
		ResourceType: resourceType,
		ResourceID:   id.String(),
		Details:      map[string]any{"system_id": doc.SystemID, "exports": removed},
	})

	r.logger.Info("document deleted", "id", id, "exports", removed)
	return nil
}

// find loads one document, locking its row when lock is set.
func (r *repo) find(ctx context.Context, q repository.Querier, id uuid.UUID, lock bool) (Document, error) {
	stmt, args := query.NewBuilder(projection).BuildSingle("ID", id)
	if lock {
		stmt += " FOR UPDATE OF d"
	}

	d, err := repository.QueryOne(ctx, q, stmt, args, scanDocument)
	if err != nil {
		return Document{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return d, nil
}

func cloneSections(sections []annex.Section) []annex.Section {
	out := make([]annex.Section, len(sections))
	copy(out, sections)
	return out
}
