package conformity

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "conformity_assessments", "a").
	Project("id", "ID").
	Project("system_id", "SystemID").
	Project("assessor", "Assessor").
	Project("assessment_type", "AssessmentType").
	Project("requirements", "Requirements").
	Project("score", "Score").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = `id, system_id, assessor, assessment_type, requirements, score, created_at, updated_at`

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional exact-match criteria for assessment queries.
type Filters struct {
	SystemID       *uuid.UUID `json:"system_id,omitempty"`
	Assessor       *string    `json:"assessor,omitempty"`
	AssessmentType *string    `json:"assessment_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SystemID", f.SystemID).
		WhereEquals("Assessor", f.Assessor).
		WhereEquals("AssessmentType", f.AssessmentType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("system_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SystemID = &id
		}
	}
	if a := values.Get("assessor"); a != "" {
		f.Assessor = &a
	}
	if t := values.Get("assessment_type"); t != "" {
		if at, err := ParseAssessmentType(t); err == nil {
			v := string(at)
			f.AssessmentType = &v
		}
	}

	return f
}

func scanAssessment(s repository.Scanner) (Assessment, error) {
	var a Assessment
	var reqs []byte

	err := s.Scan(
		&a.ID,
		&a.SystemID,
		&a.Assessor,
		&a.AssessmentType,
		&reqs,
		&a.Score,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	if err := json.Unmarshal(reqs, &a.Requirements); err != nil {
		return a, fmt.Errorf("unmarshal requirements: %w", err)
	}
	if a.Requirements == nil {
		a.Requirements = []Requirement{}
	}

	a.Outcome = Evaluate(a.Requirements)
	return a, nil
}
