package conformity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/audit"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
)

const resourceType = "conformity_assessment"

type repo struct {
	db         *sql.DB
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a conformity repository implementing the System interface.
func New(
	db *sql.DB,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      recorder,
		logger:     logger.With("system", "conformity"),
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
) (*pagination.PageResult[Assessment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Assessor")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	items, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindBySystem(ctx context.Context, systemID uuid.UUID) (*Assessment, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SystemID", systemID).
		BuildPage(1, 1)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, systemID uuid.UUID, cmd CreateCommand) (*Assessment, error) {
	kind, err := cmd.Validate()
	if err != nil {
		return nil, err
	}

	reqs := Seed()
	data, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("marshal requirements: %w", err)
	}

	insertQ := `
		INSERT INTO conformity_assessments (system_id, assessor, assessment_type, requirements, score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + returning

	insertArgs := []any{systemID, cmd.Assessor, string(kind), data, Score(reqs)}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Assessment, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanAssessment)
	})

	if err != nil {
		return nil, repository.MapReferenceError(err, ErrNotFound, ErrDuplicate, ErrSystemNotFound)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionCreate,
		ResourceType: resourceType,
		ResourceID:   a.ID.String(),
		Details: map[string]any{
			"system_id":       systemID,
			"assessor":        a.Assessor,
			"assessment_type": a.AssessmentType,
			"requirements":    len(a.Requirements),
		},
	})

	r.logger.Info("assessment created", "id", a.ID, "system_id", systemID, "type", a.AssessmentType)
	return &a, nil
}

func (r *repo) UpdateRequirement(
	ctx context.Context,
	id uuid.UUID,
	requirementID string,
	cmd RequirementCommand,
) (*Assessment, error) {
	var before RequirementStatus

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Assessment, error) {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		existing, err := repository.QueryOne(ctx, tx, q+" FOR UPDATE", args, scanAssessment)
		if err != nil {
			return Assessment{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if req, err := existing.Requirement(requirementID); err == nil {
			before = req.Status
		}

		if err := cmd.Apply(&existing, requirementID); err != nil {
			return Assessment{}, err
		}

		data, err := json.Marshal(existing.Requirements)
		if err != nil {
			return Assessment{}, fmt.Errorf("marshal requirements: %w", err)
		}

		updateQ := `
			UPDATE conformity_assessments
			SET requirements = $1, score = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING ` + returning

		out, err := repository.QueryOne(ctx, tx, updateQ, []any{data, existing.Score, id}, scanAssessment)
		if err != nil {
			return Assessment{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		return out, nil
	})

	if err != nil {
		return nil, err
	}

	req, _ := a.Requirement(requirementID)

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionAssess,
		ResourceType: resourceType,
		ResourceID:   id.String(),
		Details: map[string]any{
			"requirement": requirementID,
			"from":        before,
			"to":          req.Status,
			"score":       a.Score,
		},
	})

	r.logger.Info("requirement assessed",
		"id", id,
		"requirement", requirementID,
		"status", req.Status,
		"score", a.Score,
		"outcome", a.Outcome,
	)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM conformity_assessments WHERE id = $1",
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

	r.logger.Info("assessment deleted", "id", id)
	return nil
}
