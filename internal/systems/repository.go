package systems

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
	"github.com/JaimeStill/warden/risk"
)

const resourceType = "system"

type repo struct {
	db         *sql.DB
	audit      audit.Recorder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a system registry implementing the System interface.
func New(
	db *sql.DB,
	recorder audit.Recorder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      recorder,
		logger:     logger.With("system", "systems"),
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
) (*pagination.PageResult[AISystem], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description", "Purpose")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	items, total, err := repository.QueryPage(ctx, r.db, qb, page.Page, page.PageSize, scanSystem)
	if err != nil {
		return nil, fmt.Errorf("list systems: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*AISystem, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSystem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*AISystem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	sys := cmd.system()
	result := risk.Classify(sys.Profile())

	categories, inputs, err := marshalLists(&sys)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO systems (
			owner_id, name, description, purpose, domain, deployer,
			data_categories, data_inputs, output_type, affected_persons,
			autonomy_level, model_type, training_data_description,
			risk_tier, risk_score, compliance_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + returning

	args := []any{
		sys.OwnerID, sys.Name, sys.Description, sys.Purpose, sys.Domain, sys.Deployer,
		categories, inputs, sys.OutputType, sys.AffectedPersons,
		sys.AutonomyLevel, sys.ModelType, sys.TrainingDataDescription,
		string(result.Tier), result.Score, string(sys.ComplianceStatus),
	}

	created, err := repository.QueryOne(ctx, r.db, q, args, scanSystem)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionCreate,
		ResourceType: resourceType,
		ResourceID:   created.ID.String(),
		Details:      map[string]any{"name": created.Name, "tier": result.Tier, "score": result.Score},
	})

	r.logger.Info("system registered",
		"id", created.ID,
		"owner_id", created.OwnerID,
		"tier", result.Tier,
		"score", result.Score,
	)
	return &created, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*AISystem, error) {
	var reclassified bool

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (AISystem, error) {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		sys, err := repository.QueryOne(ctx, tx, q+" FOR UPDATE", args, scanSystem)
		if err != nil {
			return AISystem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		changed, err := cmd.Apply(&sys)
		if err != nil {
			return AISystem{}, err
		}

		if changed || sys.RiskTier == nil {
			result := risk.Classify(sys.Profile())
			sys.RiskTier = &result.Tier
			sys.RiskScore = &result.Score
			reclassified = true
		}

		categories, inputs, err := marshalLists(&sys)
		if err != nil {
			return AISystem{}, err
		}

		updateQ := `
			UPDATE systems SET
				name = $1, description = $2, purpose = $3, domain = $4, deployer = $5,
				data_categories = $6, data_inputs = $7, output_type = $8,
				affected_persons = $9, autonomy_level = $10, model_type = $11,
				training_data_description = $12, risk_tier = $13, risk_score = $14,
				compliance_status = $15, updated_at = NOW()
			WHERE id = $16
			RETURNING ` + returning

		updateArgs := []any{
			sys.Name, sys.Description, sys.Purpose, sys.Domain, sys.Deployer,
			categories, inputs, sys.OutputType,
			sys.AffectedPersons, sys.AutonomyLevel, sys.ModelType,
			sys.TrainingDataDescription, string(*sys.RiskTier), *sys.RiskScore,
			string(sys.ComplianceStatus), id,
		}

		out, err := repository.QueryOne(ctx, tx, updateQ, updateArgs, scanSystem)
		if err != nil {
			return AISystem{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
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
		Details:      map[string]any{"reclassified": reclassified, "tier": updated.RiskTier, "score": updated.RiskScore},
	})

	r.logger.Info("system updated", "id", id, "reclassified", reclassified)
	return &updated, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM systems WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.audit.Record(ctx, audit.Record{
		Action:       audit.ActionDelete,
		ResourceType: resourceType,
		ResourceID:   id.String(),
	})

	r.logger.Info("system deleted", "id", id)
	return nil
}

func (r *repo) Summary(ctx context.Context, ownerID *string) (*Summary, error) {
	q := `
		SELECT COALESCE(risk_tier, '` + unclassified + `'), compliance_status, COUNT(*)
		FROM systems
		WHERE ($1::text IS NULL OR owner_id = $1)
		GROUP BY 1, 2`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("summarize systems: %w", err)
	}
	defer rows.Close()

	summary := newSummary()
	for rows.Next() {
		var tier, compliance string
		var n int
		if err := rows.Scan(&tier, &compliance, &n); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary.add(tier, compliance, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summarize systems: %w", err)
	}

	return &summary, nil
}

func marshalLists(s *AISystem) ([]byte, []byte, error) {
	categories, err := json.Marshal(s.DataCategories)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal data_categories: %w", err)
	}
	inputs, err := json.Marshal(s.DataInputs)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal data_inputs: %w", err)
	}
	return categories, inputs, nil
}
