package obligations

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/risk"
)

var projection = query.
	NewProjectionMap("public", "system_obligations", "o").
	Project("id", "ID").
	Project("system_id", "SystemID").
	Project("obligation_id", "ObligationID").
	Project("title", "Title").
	Project("article", "Article").
	Project("description", "Description").
	Project("priority", "Priority").
	Project("jurisdiction", "Jurisdiction").
	Project("status", "Status").
	Project("assignee", "Assignee").
	Project("due_date", "DueDate").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = `id, system_id, obligation_id, title, article, description,
	priority, jurisdiction, status, assignee, due_date, notes, created_at, updated_at`

var defaultSort = query.SortField{Field: "ObligationID"}

// Filters contains optional exact-match criteria for obligation queries.
type Filters struct {
	SystemID     *uuid.UUID `json:"system_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	Jurisdiction *string    `json:"jurisdiction,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SystemID", f.SystemID).
		WhereEquals("Status", f.Status).
		WhereEquals("Priority", f.Priority).
		WhereEquals("Jurisdiction", f.Jurisdiction)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("system_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.SystemID = &id
		}
	}
	if v := values.Get("status"); v != "" {
		if s, err := ParseStatus(v); err == nil {
			status := string(s)
			f.Status = &status
		}
	}
	if v := values.Get("priority"); v != "" {
		if p, err := risk.ParsePriority(v); err == nil {
			priority := string(p)
			f.Priority = &priority
		}
	}
	if v := values.Get("jurisdiction"); v != "" {
		f.Jurisdiction = &v
	}

	return f
}

func scanObligation(s repository.Scanner) (SystemObligation, error) {
	var o SystemObligation
	err := s.Scan(
		&o.ID,
		&o.SystemID,
		&o.ObligationID,
		&o.Title,
		&o.Article,
		&o.Description,
		&o.Priority,
		&o.Jurisdiction,
		&o.Status,
		&o.Assignee,
		&o.DueDate,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
