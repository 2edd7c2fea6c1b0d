package classifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/internal/obligations"
	"github.com/JaimeStill/warden/internal/systems"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/risk"
)

const resourceType = "classification"

type repo struct {
	db           *sql.DB
	systems      systems.System
	audit        audit.Recorder
	observer     Observer
	defaultActor string
	logger       *slog.Logger
	pagination   pagination.Config
}

// New creates a classification repository implementing the System interface.
// defaultActor is recorded as classified_by when the request names no actor.
func New(
	db *sql.DB,
	systems systems.System,
	recorder audit.Recorder,
	observer Observer,
	defaultActor string,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:           db,
		systems:      systems,
		audit:        recorder,
		observer:     observer,
		defaultActor: defaultActor,
		logger:       logger.With("system", "classifications"),
		pagination:   pagination,
	}
}

func (r *repo) Handler(maxBody int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBody)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Tier", "ClassifiedBy")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	items, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindBySystem(ctx context.Context, systemID uuid.UUID) (*Classification, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SystemID", systemID).
		BuildPage(1, 1)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Classify(ctx context.Context, systemID uuid.UUID) (*Classification, error) {
	sys, err := r.systems.Find(ctx, systemID)
	if errors.Is(err, systems.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSystemNotFound, systemID)
	}
	if err != nil {
		return nil, fmt.Errorf("load system: %w", err)
	}

	result := risk.Classify(sys.Profile())

	e, err := encode(result)
	if err != nil {
		return nil, err
	}

	actor := audit.ActorFrom(ctx)
	if actor == "" {
		actor = r.defaultActor
	}

	insertQ := `
		INSERT INTO classifications (
			system_id, tier, score, confidence, reasoning, articles,
			obligations, colorado, policy_review, rules_version, classified_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + returning

	insertArgs := []any{
		systemID,
		string(result.Tier),
		result.Score,
		result.Confidence,
		e.reasoning,
		e.articles,
		e.obligations,
		e.colorado,
		nullJSON(e.policyReview),
		result.RulesVersion,
		actor,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		cl, err := repository.QueryOne(ctx, tx, insertQ, insertArgs, scanClassification)
		if err != nil {
			return Classification{}, fmt.Errorf("insert classification: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE systems SET risk_tier = $1, risk_score = $2, updated_at = NOW() WHERE id = $3",
			string(result.Tier), result.Score, systemID,
		); err != nil {
			return Classification{}, fmt.Errorf("update system tier: %w", err)
		}

		if err := obligations.SyncTx(ctx, tx, systemID, obligations.FromResult(result)); err != nil {
			return Classification{}, err
		}

		return cl, nil
	})

	if err != nil {
		return nil, repository.MapReferenceError(err, ErrNotFound, ErrDuplicate, ErrSystemNotFound)
	}

	r.observer.ObserveClassification(string(c.Tier), OriginStored, c.Score, c.PolicyReview != nil)

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionClassify,
		ResourceType: resourceType,
		ResourceID:   c.ID.String(),
		Details: map[string]any{
			"system_id":     systemID,
			"tier":          c.Tier,
			"score":         c.Score,
			"rules_version": c.RulesVersion,
		},
	})

	r.logger.Info("system classified",
		"id", c.ID,
		"system_id", systemID,
		"tier", c.Tier,
		"score", c.Score,
		"confidence", c.Confidence,
	)
	return &c, nil
}

func (r *repo) Preview(ctx context.Context, cmd PreviewCommand) (*risk.Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := risk.Classify(cmd.Profile)
	r.observer.ObserveClassification(string(result.Tier), OriginPreview, result.Score, result.NeedsReview())

	r.logger.Debug("profile previewed", "name", cmd.Name, "tier", result.Tier, "score", result.Score)
	return &result, nil
}

func (r *repo) Validate(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Classification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		existing, err := repository.QueryOne(ctx, tx, q+" FOR UPDATE", args, scanClassification)
		if err != nil {
			return Classification{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if existing.Validated() {
			return Classification{}, fmt.Errorf("%w by %s", ErrAlreadyValidated, *existing.ValidatedBy)
		}

		validateQ := `
			UPDATE classifications
			SET validated_by = $1, validated_at = NOW()
			WHERE id = $2
			RETURNING ` + returning

		cl, err := repository.QueryOne(ctx, tx, validateQ, []any{cmd.ValidatedBy, id}, scanClassification)
		if err != nil {
			return Classification{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		return cl, nil
	})

	if err != nil {
		return nil, err
	}

	r.audit.Record(ctx, audit.Record{
		Actor:        cmd.ValidatedBy,
		Action:       audit.ActionValidate,
		ResourceType: resourceType,
		ResourceID:   id.String(),
		Details:      map[string]any{"system_id": c.SystemID, "tier": c.Tier},
	})

	r.logger.Info("classification validated",
		"id", c.ID,
		"validated_by", cmd.ValidatedBy,
	)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM classifications WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionDelete,
		ResourceType: resourceType,
		ResourceID:   id.String(),
	})

	r.logger.Info("classification deleted", "id", id)
	return nil
}

// nullJSON turns an absent JSONB value into SQL NULL.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
