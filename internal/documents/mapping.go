package documents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
	"github.com/JaimeStill/warden/risk"
)

var projection = query.
	NewProjectionMap("public", "annex_documents", "d").
	Project("id", "ID").
	Project("system_id", "SystemID").
	Project("system_name", "SystemName").
	Project("version", "Version").
	Project("tier", "Tier").
	Project("rules_version", "RulesVersion").
	Project("sections", "Sections").
	Project("completeness", "Completeness").
	Project("status", "Status").
	Project("export_key", "ExportKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "systems", "s", "JOIN", "d.system_id = s.id").
	Project("owner_id", "OwnerID")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	SystemID *uuid.UUID `json:"system_id,omitempty"`
	OwnerID  *string    `json:"owner_id,omitempty"`
	Status   *string    `json:"status,omitempty"`
	Tier     *string    `json:"tier,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SystemID", f.SystemID).
		WhereEquals("OwnerID", f.OwnerID).
		WhereEquals("Status", f.Status).
		WhereEquals("Tier", f.Tier)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unrecognized labels and malformed IDs are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("system_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SystemID = &id
		}
	}

	if o := values.Get("owner_id"); o != "" {
		f.OwnerID = &o
	}

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			v := string(status)
			f.Status = &v
		}
	}

	if t := values.Get("tier"); t != "" {
		if tier, err := risk.ParseTier(t); err == nil {
			v := string(tier)
			f.Tier = &v
		}
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	var sections []byte

	err := s.Scan(
		&d.ID,
		&d.SystemID,
		&d.SystemName,
		&d.Version,
		&d.Tier,
		&d.RulesVersion,
		&sections,
		&d.Completeness,
		&d.Status,
		&d.ExportKey,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.OwnerID,
	)
	if err != nil {
		return d, err
	}

	if err := json.Unmarshal(sections, &d.Sections); err != nil {
		return d, fmt.Errorf("unmarshal sections: %w", err)
	}

	return d, nil
}
